package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/larder/pkg/larder/internalerr"
	"github.com/cognicore/larder/pkg/larder/pantry"
	"github.com/cognicore/larder/pkg/larder/store"
)

func openTemp(t *testing.T) store.Store {
	t.Helper()
	st, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "pantry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteUpsertAndEntries(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)

	dough := uuid.New()
	in := []pantry.Entry{
		{TrueIngredient: "tomato", Names: []string{"roma tomato", "plum tomato"}, Category: "produce",
			Store: "market", ReplaceFactor: 0.15, ReplaceUnit: "kg", Barcode: "4006381333931"},
		{TrueIngredient: "bay leaf", PluralSuffix: pantry.SuffixVES},
		{TrueIngredient: "pizza dough", RecipeID: dough},
	}
	for _, e := range in {
		require.NoError(t, st.UpsertEntry(ctx, e))
	}

	got, err := st.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestSQLiteUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)

	require.NoError(t, st.UpsertEntry(ctx, pantry.Entry{TrueIngredient: "egg", Names: []string{"hen egg", "large egg"}}))
	require.NoError(t, st.UpsertEntry(ctx, pantry.Entry{TrueIngredient: "Egg", Names: []string{"hen egg"}, Category: "dairy"}))

	got, ok, err := st.GetEntry(ctx, "EGG")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pantry.Entry{TrueIngredient: "Egg", Names: []string{"hen egg"}, Category: "dairy"}, got)

	all, err := st.Entries(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLiteDelete(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)

	require.NoError(t, st.UpsertEntry(ctx, pantry.Entry{TrueIngredient: "milk", Names: []string{"whole milk"}}))
	require.NoError(t, st.DeleteEntry(ctx, "milk"))

	_, ok, err := st.GetEntry(ctx, "milk")
	require.NoError(t, err)
	assert.False(t, ok)

	err = st.DeleteEntry(ctx, "milk")
	assert.True(t, errors.Is(err, internalerr.ErrNotFound))

	// names of the deleted entry must not attach to a new one
	require.NoError(t, st.UpsertEntry(ctx, pantry.Entry{TrueIngredient: "oat milk"}))
	all, err := st.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Empty(t, all[0].Names)
}

func TestSQLiteRejectsInvalidEntry(t *testing.T) {
	st := openTemp(t)

	err := st.UpsertEntry(context.Background(), pantry.Entry{TrueIngredient: ""})
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pantry.db")

	st, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, st.UpsertEntry(ctx, pantry.Entry{TrueIngredient: "berry", PluralSuffix: pantry.SuffixIES}))
	require.NoError(t, st.Close())

	st, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer st.Close()

	snap, err := store.LoadSnapshot(ctx, st)
	require.NoError(t, err)
	_, ok := snap.LookupPlural("berries")
	assert.True(t, ok)
}
