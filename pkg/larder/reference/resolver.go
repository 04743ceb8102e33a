// Package reference detects ingredient lines that point at another recipe
// (a sub-recipe consumed in portions) instead of a pantry product.
package reference

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cognicore/larder/pkg/larder/ingest"
)

// Recipe is a line resolved as a reference to another recipe.
type Recipe struct {
	Quantity float64   `json:"quantity" yaml:"quantity"`
	Title    string    `json:"title" yaml:"title"`
	Amount   string    `json:"amount" yaml:"amount"` // the original line
	RecipeID uuid.UUID `json:"recipe_id,omitempty" yaml:"recipe_id,omitempty"`
}

// NoTitleReferencedRecipeError reports a reference whose title is empty once
// stripped. Title holds the title as matched, for diagnostics.
type NoTitleReferencedRecipeError struct {
	Title string
}

func (e *NoTitleReferencedRecipeError) Error() string {
	return fmt.Sprintf("referenced recipe has no title (got %q)", e.Title)
}

// Resolver turns parsed lines into recipe references when its trigger matches.
type Resolver struct {
	trigger Trigger
	log     *zap.Logger
}

// NewResolver creates a resolver. A nil trigger never matches; a nil logger
// discards output.
func NewResolver(trigger Trigger, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{trigger: trigger, log: log}
}

// TryResolve returns ok=false when the line is not a reference.
// A reference drops any parsed unit, since sub-recipes are counted in
// portions; the quantity is kept, or set to 1 when only a unit was given.
func (r *Resolver) TryResolve(p ingest.ParsedLine) (Recipe, bool, error) {
	if r.trigger == nil {
		return Recipe{}, false, nil
	}
	target, ok := r.trigger.Match(p.Item)
	if !ok {
		return Recipe{}, false, nil
	}

	title := strings.TrimSpace(target.Title)
	if title == "" {
		return Recipe{}, true, &NoTitleReferencedRecipeError{Title: target.Title}
	}

	q := p.Quantity
	if p.Unit != nil {
		r.log.Info("dropping unit from referenced recipe",
			zap.String("line", p.Raw),
			zap.String("unit", p.Unit.Symbol),
			zap.String("title", title))
		if !p.HasQuantity {
			q = 1
		}
	}

	return Recipe{
		Quantity: q,
		Title:    title,
		Amount:   p.Raw,
		RecipeID: target.RecipeID,
	}, true, nil
}
