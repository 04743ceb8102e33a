package yamlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/larder/pkg/larder/pantry"
)

const sample = `pantry:
  - true_ingredient: berry
    plural: ies
    category: produce
  - true_ingredient: tomato
    names: [roma tomato]
    replace_factor: 0.2
    replace_unit: kg
  - true_ingredient: waffle batter
    recipe_id: 3b241101-e2bb-4255-8caf-4136c566a962
`

func TestOpenAndDecode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pantry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	s, err := Open(path)
	require.NoError(t, err)

	entries, err := s.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, pantry.SuffixIES, entries[0].PluralSuffix)
	assert.Equal(t, []string{"roma tomato"}, entries[1].Names)
	assert.Equal(t, 0.2, entries[1].ReplaceFactor)
	assert.Equal(t, uuid.MustParse("3b241101-e2bb-4255-8caf-4136c566a962"), entries[2].RecipeID)
	assert.False(t, entries[0].IsRecipe())
}

func TestOpenMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pantry.yaml")

	s, err := Open(path)
	require.NoError(t, err)
	entries, err := s.Entries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWritesRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pantry.yaml")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.UpsertEntry(ctx, pantry.Entry{TrueIngredient: "egg", Category: "dairy"}))
	require.NoError(t, s.UpsertEntry(ctx, pantry.Entry{TrueIngredient: "bay leaf", PluralSuffix: pantry.SuffixVES}))
	require.NoError(t, s.DeleteEntry(ctx, "egg"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "recipe_id")
	assert.NotContains(t, string(data), "egg")

	reopened, err := Open(path)
	require.NoError(t, err)
	got, ok, err := reopened.GetEntry(ctx, "Bay Leaf")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pantry.SuffixVES, got.PluralSuffix)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte("pantry: [unclosed"))
	assert.Error(t, err)

	_, err = Decode([]byte("pantry:\n  - true_ingredient: x\n    recipe_id: not-a-uuid\n"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "pantry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pantry:\n  - plural: ies\n"), 0o644))
	_, err = Open(path)
	assert.Error(t, err)
}

func TestFailedWriteLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "pantry")
	require.NoError(t, os.Mkdir(dir, 0o755))
	path := filepath.Join(dir, "pantry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	s, err := Open(path)
	require.NoError(t, err)

	// with the directory gone the temp file cannot be created
	require.NoError(t, os.RemoveAll(dir))

	err = s.UpsertEntry(ctx, pantry.Entry{TrueIngredient: "egg"})
	require.Error(t, err)
	_, ok, err := s.GetEntry(ctx, "egg")
	require.NoError(t, err)
	assert.False(t, ok)

	err = s.DeleteEntry(ctx, "berry")
	require.Error(t, err)
	_, ok, err = s.GetEntry(ctx, "berry")
	require.NoError(t, err)
	assert.True(t, ok)

	entries, err := s.Entries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
