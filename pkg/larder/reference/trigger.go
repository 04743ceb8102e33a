package reference

import (
	"strings"

	"github.com/google/uuid"
)

// Target names the recipe an ingredient line points at.
type Target struct {
	Title    string
	RecipeID uuid.UUID // uuid.Nil when unknown
}

// Trigger decides whether an item text refers to another recipe.
// Triggers are supplied by configuration; the resolver holds no rules itself.
type Trigger interface {
	Match(item string) (Target, bool)
}

// TriggerFunc adapts a function to the Trigger interface.
type TriggerFunc func(item string) (Target, bool)

// Match implements Trigger.
func (f TriggerFunc) Match(item string) (Target, bool) {
	return f(item)
}

// MarkerTrigger matches items starting with one of the markers, compared
// case-insensitively. The title is the text after the marker, which may be
// empty; the resolver reports that case.
//
// Example: MarkerTrigger("recipe:") matches "recipe: waffle batter".
func MarkerTrigger(markers ...string) Trigger {
	cleaned := make([]string, 0, len(markers))
	for _, m := range markers {
		if m = strings.TrimSpace(m); m != "" {
			cleaned = append(cleaned, strings.ToLower(m))
		}
	}
	return TriggerFunc(func(item string) (Target, bool) {
		lower := strings.ToLower(item)
		for _, m := range cleaned {
			if strings.HasPrefix(lower, m) {
				return Target{Title: item[len(m):]}, true
			}
		}
		return Target{}, false
	})
}

// TitleTrigger matches items equal to a known recipe title, ignoring case and
// surrounding whitespace. The configured spelling becomes the title.
func TitleTrigger(titles ...string) Trigger {
	known := make(map[string]string, len(titles))
	for _, t := range titles {
		t = strings.TrimSpace(t)
		if t != "" {
			known[strings.ToLower(t)] = t
		}
	}
	return TriggerFunc(func(item string) (Target, bool) {
		title, ok := known[strings.ToLower(strings.TrimSpace(item))]
		if !ok {
			return Target{}, false
		}
		return Target{Title: title}, true
	})
}

// RecipeLookup finds catalog entries that are themselves recipes.
type RecipeLookup interface {
	LookupRecipe(name string) (title string, id uuid.UUID, ok bool)
}

// CatalogTrigger matches items that the pantry catalog marks as recipes.
func CatalogTrigger(lookup RecipeLookup) Trigger {
	return TriggerFunc(func(item string) (Target, bool) {
		title, id, ok := lookup.LookupRecipe(item)
		if !ok {
			return Target{}, false
		}
		return Target{Title: title, RecipeID: id}, true
	})
}

// AnyTrigger tries each trigger in order and returns the first match.
func AnyTrigger(triggers ...Trigger) Trigger {
	return TriggerFunc(func(item string) (Target, bool) {
		for _, t := range triggers {
			if t == nil {
				continue
			}
			if target, ok := t.Match(item); ok {
				return target, true
			}
		}
		return Target{}, false
	})
}
