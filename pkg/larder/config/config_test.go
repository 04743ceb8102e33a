package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/larder/pkg/larder"
	"github.com/cognicore/larder/pkg/larder/internalerr"
	"github.com/cognicore/larder/pkg/larder/pantry"
	"github.com/cognicore/larder/pkg/larder/store/sqlite"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, 0.85, cfg.Matching.FuzzyThreshold)
	assert.Equal(t, "log", cfg.Policies.UnmatchedPantry)
	assert.Equal(t, []string{"recipe:"}, cfg.References.Markers)
	assert.False(t, cfg.Parsing.TrailingUnitIsItem)
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse([]byte(`
matching:
  fuzzy: true
  fuzzy_threshold: 0.9
  descriptors: [diced, fresh]
policies:
  unmatched_pantry: Skip
references:
  markers: ["see:"]
  titles: [Pizza Dough]
batch:
  workers: 4
  fail_fast: true
`))
	require.NoError(t, err)
	assert.True(t, cfg.Matching.Fuzzy)
	assert.Equal(t, 0.9, cfg.Matching.FuzzyThreshold)
	assert.Equal(t, "skip", cfg.Policies.UnmatchedPantry)
	assert.Equal(t, []string{"see:"}, cfg.References.Markers)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.True(t, cfg.Batch.FailFast)
}

func TestParseInvalid(t *testing.T) {
	docs := []string{
		"policies: {unmatched_pantry: ignore}",
		"matching: {fuzzy_threshold: 1.5}",
		"batch: {workers: -1}",
		"pantry: {path: p.yaml, sqlite: p.db}",
		"log: {level: loud}",
		"references: {markers: ['']}",
		"units_path: [not, a, string]",
	}
	for _, doc := range docs {
		_, err := Parse([]byte(doc))
		assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig), doc)
	}
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "larder.yaml", "units_path: units.yaml\npantry:\n  path: data/pantry.yaml\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "units.yaml"), cfg.UnitsPath)
	assert.Equal(t, filepath.Join(dir, "data", "pantry.yaml"), cfg.Pantry.Path)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoaderDefaults(t *testing.T) {
	comp, err := (&Loader{}).Load(context.Background())
	require.NoError(t, err)
	defer comp.Close()

	assert.NotNil(t, comp.Units)
	assert.Zero(t, comp.Snapshot.Len())

	res, err := comp.Formatter.Format("2 cups flour")
	require.NoError(t, err)
	assert.False(t, res.Ingredient.Matched())
}

func TestLoaderYAMLPantryAndUnits(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "units.yaml", `units:
  - symbol: clove
    kind: countable
    dimension: count
`)
	writeFile(t, dir, "pantry.yaml", `pantry:
  - true_ingredient: garlic
    category: produce
  - true_ingredient: pizza dough
    recipe_id: 9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d
`)
	path := writeFile(t, dir, "larder.yaml", `units_path: units.yaml
pantry:
  path: pantry.yaml
policies:
  unmatched_pantry: raise
references:
  titles: [Tomato Sauce]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	comp, err := (&Loader{Config: cfg}).Load(context.Background())
	require.NoError(t, err)
	defer comp.Close()

	res, err := comp.Formatter.Format("3 cloves garlic")
	require.NoError(t, err)
	require.NotNil(t, res.Ingredient)
	assert.Equal(t, "clove", res.Ingredient.Unit.Symbol)
	assert.Equal(t, "garlic", res.Ingredient.Entry.TrueIngredient)

	res, err = comp.Formatter.Format("1 pizza dough")
	require.NoError(t, err)
	require.NotNil(t, res.Recipe)
	assert.Equal(t, "pizza dough", res.Recipe.Title)

	res, err = comp.Formatter.Format("2 cups tomato sauce")
	require.NoError(t, err)
	require.NotNil(t, res.Recipe)
	assert.Equal(t, "Tomato Sauce", res.Recipe.Title)

	_, err = comp.Formatter.Format("1 shallot")
	kind, ok := larder.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, larder.KindUnmatchedPantry, kind)
}

func TestLoaderSQLitePantry(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "pantry.db")

	st, err := sqlite.OpenSQLite(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, st.UpsertEntry(ctx, pantry.Entry{TrueIngredient: "berry", PluralSuffix: pantry.SuffixIES}))
	require.NoError(t, st.Close())

	cfg := Default()
	cfg.Pantry.SQLite = dbPath
	comp, err := (&Loader{Config: &cfg}).Load(ctx)
	require.NoError(t, err)
	defer comp.Close()

	res, err := comp.Formatter.Format("1 cup berries")
	require.NoError(t, err)
	assert.Equal(t, "berry", res.Ingredient.Entry.TrueIngredient)
}

func TestLoaderTrailingUnitIsItem(t *testing.T) {
	cfg, err := Parse([]byte("parsing:\n  trailing_unit_is_item: true\n"))
	require.NoError(t, err)
	comp, err := (&Loader{Config: cfg}).Load(context.Background())
	require.NoError(t, err)
	defer comp.Close()

	res, err := comp.Formatter.Format("4 oz")
	require.NoError(t, err)
	require.NotNil(t, res.Ingredient)
	assert.Nil(t, res.Ingredient.Unit)
	assert.Equal(t, "oz", res.Ingredient.Item)

	def := Default()
	comp, err = (&Loader{Config: &def}).Load(context.Background())
	require.NoError(t, err)
	defer comp.Close()
	_, err = comp.Formatter.Format("4 oz")
	kind, ok := larder.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, larder.KindNoTitle, kind)
}

func TestLoaderErrors(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.UnitsPath = filepath.Join(dir, "missing.yaml")
	_, err := (&Loader{Config: &cfg}).Load(context.Background())
	assert.Error(t, err)

	cfg = Default()
	cfg.Pantry.Path = writeFile(t, dir, "dup.yaml", `pantry:
  - true_ingredient: scallion
  - true_ingredient: green onion
    names: [scallion]
`)
	_, err = (&Loader{Config: &cfg}).Load(context.Background())
	assert.True(t, errors.Is(err, internalerr.ErrDuplicate))
}
