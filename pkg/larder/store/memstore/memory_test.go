package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/larder/pkg/larder/internalerr"
	"github.com/cognicore/larder/pkg/larder/pantry"
	"github.com/cognicore/larder/pkg/larder/store"
)

func TestUpsertKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s, err := New(
		pantry.Entry{TrueIngredient: "flour"},
		pantry.Entry{TrueIngredient: "egg"},
	)
	require.NoError(t, err)

	require.NoError(t, s.UpsertEntry(ctx, pantry.Entry{TrueIngredient: "Flour", Category: "baking"}))
	require.NoError(t, s.UpsertEntry(ctx, pantry.Entry{TrueIngredient: "milk"}))

	entries, err := s.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Flour", entries[0].TrueIngredient)
	assert.Equal(t, "baking", entries[0].Category)
	assert.Equal(t, "milk", entries[2].TrueIngredient)
}

func TestGetAndDelete(t *testing.T) {
	ctx := context.Background()
	s, err := New(pantry.Entry{TrueIngredient: "crème fraîche", Names: []string{"creme fraiche"}})
	require.NoError(t, err)

	got, ok, err := s.GetEntry(ctx, "Creme Fraiche")
	require.NoError(t, err)
	require.True(t, ok)
	got.Names[0] = "mutated"

	again, _, _ := s.GetEntry(ctx, "crème fraîche")
	assert.Equal(t, []string{"creme fraiche"}, again.Names)

	require.NoError(t, s.DeleteEntry(ctx, "creme fraiche"))
	_, ok, err = s.GetEntry(ctx, "creme fraiche")
	require.NoError(t, err)
	assert.False(t, ok)

	err = s.DeleteEntry(ctx, "creme fraiche")
	assert.True(t, errors.Is(err, internalerr.ErrNotFound))
}

func TestUpsertValidates(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	err = s.UpsertEntry(context.Background(), pantry.Entry{})
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))

	_, err = New(pantry.Entry{TrueIngredient: "x", PluralSuffix: "bogus"})
	assert.Error(t, err)
}

func TestLoadSnapshotAndCopy(t *testing.T) {
	ctx := context.Background()
	src, err := New(
		pantry.Entry{TrueIngredient: "berry", PluralSuffix: pantry.SuffixIES},
		pantry.Entry{TrueIngredient: "egg"},
	)
	require.NoError(t, err)

	snap, err := store.LoadSnapshot(ctx, src)
	require.NoError(t, err)
	_, ok := snap.LookupPlural("berries")
	assert.True(t, ok)

	dst, err := New()
	require.NoError(t, err)
	n, err := store.Copy(ctx, dst, src)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err := dst.Entries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestLoadSnapshotReportsDuplicates(t *testing.T) {
	s, err := New(
		pantry.Entry{TrueIngredient: "scallion"},
		pantry.Entry{TrueIngredient: "green onion", Names: []string{"scallion"}},
	)
	require.NoError(t, err)

	_, err = store.LoadSnapshot(context.Background(), s)
	assert.True(t, errors.Is(err, internalerr.ErrDuplicate))
}
