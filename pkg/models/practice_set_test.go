package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampScore(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{3, 1},
		{math.NaN(), 0},
		{math.Inf(1), 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampScore(tt.in), "ClampScore(%v)", tt.in)
	}
}

func TestDateOf(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	late := time.Date(2024, 3, 14, 23, 30, 0, 0, tokyo)

	d := DateOf(late)
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2024-03-14", FormatDate(late))

	parsed, err := ParseDate("2024-03-14")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(d))

	parsed, err = ParseDate("2024-03-14T00:00:00Z")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(d))

	_, err = ParseDate("yesterday")
	assert.Error(t, err)
}

func TestPracticeSet_Completion(t *testing.T) {
	set := &PracticeSet{ItemIDs: []string{"a", "b", "c", "d"}}
	set.RecomputeCompleted()
	assert.False(t, set.IsCompleted)
	assert.Equal(t, StateActive, set.State())
	assert.Equal(t, 0, set.NextPendingItem())

	set.CompletedItemIDs = []string{"a", "c"}
	assert.Equal(t, 0.5, set.CompletionRatio())
	assert.Equal(t, 1, set.NextPendingItem())

	set.CompletedItemIDs = []string{"a", "b", "c", "d"}
	set.RecomputeCompleted()
	assert.True(t, set.IsCompleted)
	assert.Equal(t, StateCompleted, set.State())
	assert.Equal(t, -1, set.NextPendingItem())

	empty := &PracticeSet{}
	empty.RecomputeCompleted()
	assert.False(t, empty.IsCompleted)
	assert.Zero(t, empty.CompletionRatio())

	var missing *PracticeSet
	assert.Equal(t, StateAbsent, missing.State())
	assert.Equal(t, "absent", missing.State().String())
}

func TestPracticeSet_Clone(t *testing.T) {
	set := &PracticeSet{
		ItemIDs:          []string{"a", "b"},
		CompletedItemIDs: []string{"a"},
		ReviewItemIDs:    []string{"b"},
	}
	c := set.Clone()
	require.NotNil(t, c.MasteryScores)

	c.ItemIDs[0] = "z"
	c.CompletedItemIDs = append(c.CompletedItemIDs, "b")
	c.MasteryScores["a"] = 1

	assert.Equal(t, []string{"a", "b"}, set.ItemIDs)
	assert.Equal(t, []string{"a"}, set.CompletedItemIDs)
	assert.Nil(t, set.MasteryScores)
	assert.True(t, set.IsReviewItem("b"))
	assert.False(t, set.IsReviewItem("a"))
}
