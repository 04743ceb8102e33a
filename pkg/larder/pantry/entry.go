// Package pantry resolves ingredient names against a read-only catalog of
// purchasable products.
//
// A Snapshot is built once per formatting run from whatever collaborator
// supplies the entries (see package store) and is never mutated afterwards,
// so a Matcher over it is safe for concurrent use.
package pantry

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cognicore/larder/pkg/larder/internalerr"
)

// Entry is one pantry catalog record.
type Entry struct {
	// TrueIngredient is the canonical name used for grocery aggregation.
	TrueIngredient string `yaml:"true_ingredient" json:"true_ingredient"`
	// Names are additional display names that resolve to this entry.
	Names []string `yaml:"names,omitempty" json:"names,omitempty"`
	// PluralSuffix selects the plural rule, see Pluralize.
	PluralSuffix  string    `yaml:"plural,omitempty" json:"plural,omitempty"`
	Store         string    `yaml:"store,omitempty" json:"store,omitempty"`
	Category      string    `yaml:"category,omitempty" json:"category,omitempty"`
	ReplaceFactor float64   `yaml:"replace_factor,omitempty" json:"replace_factor,omitempty"`
	ReplaceUnit   string    `yaml:"replace_unit,omitempty" json:"replace_unit,omitempty"`
	Barcode       string    `yaml:"barcode,omitempty" json:"barcode,omitempty"`
	RecipeID      uuid.UUID `yaml:"-" json:"recipe_id,omitzero"` // see yamlstore
}

// IsRecipe reports whether the entry stands for another recipe.
func (e Entry) IsRecipe() bool {
	return e.RecipeID != uuid.Nil
}

// AllNames returns the canonical name followed by the display names.
func (e Entry) AllNames() []string {
	out := make([]string, 0, len(e.Names)+1)
	out = append(out, e.TrueIngredient)
	return append(out, e.Names...)
}

// Validate checks the fields a snapshot relies on.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.TrueIngredient) == "" {
		return fmt.Errorf("%w: pantry entry without true_ingredient", internalerr.ErrInvalidInput)
	}
	if !validSuffix(e.PluralSuffix) {
		return fmt.Errorf("%w: entry %q: unknown plural rule %q", internalerr.ErrInvalidInput, e.TrueIngredient, e.PluralSuffix)
	}
	if e.ReplaceFactor < 0 {
		return fmt.Errorf("%w: entry %q: negative replace_factor", internalerr.ErrInvalidInput, e.TrueIngredient)
	}
	if e.ReplaceFactor > 0 && strings.TrimSpace(e.ReplaceUnit) == "" {
		return fmt.Errorf("%w: entry %q: replace_factor without replace_unit", internalerr.ErrInvalidInput, e.TrueIngredient)
	}
	return nil
}
