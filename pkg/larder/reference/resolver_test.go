package reference

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cognicore/larder/pkg/larder/ingest"
	"github.com/cognicore/larder/pkg/larder/units"
)

func unit(t *testing.T, token string) *units.Unit {
	t.Helper()
	u, ok := units.Default().Normalize(token)
	require.True(t, ok, "unit %q", token)
	return &u
}

func TestTryResolveNotAReference(t *testing.T) {
	r := NewResolver(MarkerTrigger("recipe:"), nil)

	_, ok, err := r.TryResolve(ingest.ParsedLine{Raw: "2 eggs", Quantity: 2, HasQuantity: true, Item: "eggs"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTryResolveMarker(t *testing.T) {
	r := NewResolver(MarkerTrigger("recipe:"), nil)

	got, ok, err := r.TryResolve(ingest.ParsedLine{
		Raw:         "1/2 recipe: waffle batter",
		Quantity:    0.5,
		HasQuantity: true,
		Item:        "recipe: waffle batter",
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Recipe{Quantity: 0.5, Title: "waffle batter", Amount: "1/2 recipe: waffle batter"}, got)
}

func TestTryResolveMarkerIgnoresCase(t *testing.T) {
	r := NewResolver(MarkerTrigger("Recipe:"), nil)

	got, ok, err := r.TryResolve(ingest.ParsedLine{Raw: "RECIPE: Pesto", Quantity: 1, Item: "RECIPE: Pesto"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Pesto", got.Title)
}

func TestTryResolveDropsUnit(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := NewResolver(TitleTrigger("Pesto"), zap.New(core))

	got, ok, err := r.TryResolve(ingest.ParsedLine{
		Raw:       "cup pesto",
		Quantity:  1,
		Unit:      unit(t, "cup"),
		UnitToken: "cup",
		Item:      "pesto",
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1.0, got.Quantity)
	assert.Equal(t, "Pesto", got.Title)
	assert.Equal(t, 1, logs.FilterMessage("dropping unit from referenced recipe").Len())

	got, ok, err = r.TryResolve(ingest.ParsedLine{
		Raw:         "3 cups pesto",
		Quantity:    3,
		HasQuantity: true,
		Unit:        unit(t, "cups"),
		UnitToken:   "cups",
		Item:        "pesto",
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3.0, got.Quantity)
}

func TestTryResolveEmptyTitle(t *testing.T) {
	r := NewResolver(MarkerTrigger("recipe:"), nil)

	_, ok, err := r.TryResolve(ingest.ParsedLine{Raw: "1 recipe:  ", Quantity: 1, HasQuantity: true, Item: "recipe:"})
	assert.True(t, ok)

	var noTitle *NoTitleReferencedRecipeError
	require.True(t, errors.As(err, &noTitle))
	assert.Equal(t, "", noTitle.Title)
}

func TestCatalogTrigger(t *testing.T) {
	id := uuid.New()
	lookup := lookupFunc(func(name string) (string, uuid.UUID, bool) {
		if name == "pizza dough" {
			return "Pizza Dough", id, true
		}
		return "", uuid.Nil, false
	})
	r := NewResolver(AnyTrigger(nil, MarkerTrigger("recipe:"), CatalogTrigger(lookup)), nil)

	got, ok, err := r.TryResolve(ingest.ParsedLine{Raw: "2 pizza dough", Quantity: 2, HasQuantity: true, Item: "pizza dough"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Pizza Dough", got.Title)
	assert.Equal(t, id, got.RecipeID)
}

func TestNilTriggerNeverMatches(t *testing.T) {
	r := NewResolver(nil, nil)

	_, ok, err := r.TryResolve(ingest.ParsedLine{Item: "recipe: anything"})
	require.NoError(t, err)
	assert.False(t, ok)
}

type lookupFunc func(string) (string, uuid.UUID, bool)

func (f lookupFunc) LookupRecipe(name string) (string, uuid.UUID, bool) { return f(name) }
