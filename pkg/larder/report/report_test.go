package report

import (
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCounts(t *testing.T) {
	b := New()
	r := b.Build([]Outcome{
		{Index: 0, Line: "2 eggs", Status: StatusIngredient},
		{Index: 1, Line: "1/2 recipe: pesto", Status: StatusReference},
		{Index: 2, Line: "1 tsp sumac", Status: StatusUnmatched, Item: "sumac"},
		{Index: 3, Line: "2 tsp Sumac", Status: StatusUnmatched, Item: "Sumac"},
		{Index: 4, Line: "3 dragonfruit", Status: StatusSkipped, Item: "dragonfruit", Err: errors.New("not in pantry")},
		{Index: 5, Line: "x/0 flour", Status: StatusFailed, Err: errors.New("bad quantity")},
	})

	assert.Equal(t, 6, r.Lines)
	assert.Equal(t, 1, r.Ingredients)
	assert.Equal(t, 1, r.References)
	assert.Equal(t, 2, r.Unmatched)
	assert.Equal(t, 1, r.Skipped)
	assert.Equal(t, 1, r.Failed)
	assert.False(t, r.OK())

	assert.Equal(t, []string{"sumac", "dragonfruit"}, r.UnmatchedItems)
	assert.Equal(t, []Line{{Index: 4, Line: "3 dragonfruit", Reason: "not in pantry"}}, r.SkippedLines)
	assert.Equal(t, []Line{{Index: 5, Line: "x/0 flour", Reason: "bad quantity"}}, r.Failures)

	assert.Contains(t, r.String(), "6 lines: 1 ingredients, 1 references, 2 unmatched, 1 skipped, 1 failed")
	assert.Contains(t, r.String(), "(unmatched: sumac, dragonfruit)")
}

func TestBuildIDsAreMonotonic(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := New()
	b.now = func() time.Time { return fixed }

	first := b.Build(nil)
	second := b.Build(nil)

	id1, err := ulid.Parse(first.ID)
	require.NoError(t, err)
	id2, err := ulid.Parse(second.ID)
	require.NoError(t, err)

	assert.Equal(t, ulid.Timestamp(fixed), id1.Time())
	assert.Less(t, id1.Compare(id2), 0)
	assert.Equal(t, fixed, first.CreatedAt)
	assert.True(t, first.OK())
	assert.Zero(t, first.Lines)
}
