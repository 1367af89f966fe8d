package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabdaily/pkg/models"
)

func TestAssemble_FreshLearner(t *testing.T) {
	corpus := makeItems("n5-", 1, 20)

	tier := EstimateDifficulty(nil)
	require.Equal(t, 1, tier)

	got, err := Assemble(tier, corpus, nil, seeded())
	require.NoError(t, err)

	assert.Len(t, got.ItemIDs, TargetCount)
	assert.Empty(t, got.ReviewItemIDs)
	assert.Subset(t, ids(corpus), got.ItemIDs)
	assert.False(t, hasDuplicates(got.ItemIDs))
}

func TestAssemble_TierFiltersPool(t *testing.T) {
	corpus := append(append(makeItems("a", 1, 10), makeItems("b", 2, 10)...), makeItems("c", 3, 10)...)

	pool := EligiblePool(1, corpus)
	assert.ElementsMatch(t, ids(corpus[:10]), ids(pool))

	pool = EligiblePool(2, corpus)
	assert.ElementsMatch(t, ids(corpus[:20]), ids(pool))

	pool = EligiblePool(3, corpus)
	assert.Len(t, pool, 30)

	got, err := Assemble(1, corpus, nil, seeded())
	require.NoError(t, err)
	assert.Subset(t, ids(corpus[:10]), got.ItemIDs)
}

func TestAssemble_WidensSparsePool(t *testing.T) {
	// Only three items match tier 1; the corpus as a whole has plenty.
	corpus := append(makeItems("a", 1, 3), makeItems("c", 3, 10)...)

	got, err := Assemble(1, corpus, nil, seeded())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(got.ItemIDs), MinCount)
	assert.Equal(t, len(corpus), got.PoolSize)
	assert.False(t, hasDuplicates(got.ItemIDs))
}

func TestEligiblePool_WidensToLowestTierFirst(t *testing.T) {
	// Tier 1 admits nothing, but the lowest tier present (2) has enough items.
	corpus := append(makeItems("b", 2, 6), makeItems("c", 3, 6)...)
	pool := EligiblePool(1, corpus)
	assert.ElementsMatch(t, ids(corpus[:6]), ids(pool))
}

func TestAssemble_EmptyCorpus(t *testing.T) {
	got, err := Assemble(2, nil, nil, seeded())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNoVocabularyAvailable)
}

func TestAssemble_TinyCorpusUsesEverything(t *testing.T) {
	corpus := makeItems("a", 3, 2)
	got, err := Assemble(1, corpus, nil, seeded())
	require.NoError(t, err)
	assert.ElementsMatch(t, ids(corpus), got.ItemIDs)
}

func TestAssemble_ReviewItemsFirstAndCapped(t *testing.T) {
	corpus := makeItems("w", 1, 30)
	last := &models.PracticeSet{
		DifficultyTier: 1,
		ItemIDs:        ids(corpus[:6]),
		// Nothing completed: all six qualify for review.
		MasteryScores: map[string]float64{},
	}

	got, err := Assemble(1, corpus, []*models.PracticeSet{last}, seeded())
	require.NoError(t, err)

	assert.Equal(t, []string{"w00", "w01", "w02"}, got.ReviewItemIDs)
	assert.Equal(t, got.ReviewItemIDs, got.ItemIDs[:ReviewCap])
	assert.Len(t, got.ItemIDs, TargetCount)
	assert.False(t, hasDuplicates(got.ItemIDs))
	// New items avoid the recently seen ones while fresh items remain.
	for _, id := range got.ItemIDs[ReviewCap:] {
		assert.NotContains(t, ids(corpus[:6]), id)
	}
}

func TestAssemble_DropsReviewItemsMissingFromCorpus(t *testing.T) {
	corpus := makeItems("w", 1, 10)
	last := &models.PracticeSet{
		ItemIDs:       []string{"gone", "w00"},
		MasteryScores: map[string]float64{},
	}
	got, err := Assemble(1, corpus, []*models.PracticeSet{last}, seeded())
	require.NoError(t, err)
	assert.Equal(t, []string{"w00"}, got.ReviewItemIDs)
	assert.NotContains(t, got.ItemIDs, "gone")
}

func TestAssemble_FillsToMinimumIgnoringRecency(t *testing.T) {
	// Every pool item was seen recently and review takes some of them.
	corpus := makeItems("w", 1, 6)
	last := &models.PracticeSet{
		ItemIDs:          ids(corpus),
		CompletedItemIDs: ids(corpus),
		MasteryScores: map[string]float64{
			"w00": 0.1, "w01": 0.9, "w02": 0.9, "w03": 0.9, "w04": 0.9, "w05": 0.9,
		},
	}
	got, err := Assemble(1, corpus, []*models.PracticeSet{last}, seeded())
	require.NoError(t, err)
	assert.Equal(t, []string{"w00"}, got.ReviewItemIDs)
	assert.ElementsMatch(t, ids(corpus), got.ItemIDs)
}

func TestAssemble_Properties(t *testing.T) {
	rnd := seeded()
	for round := 0; round < 300; round++ {
		corpus := makeItems("w", 1+rnd.Intn(3), rnd.Intn(25))
		var history []*models.PracticeSet
		for i := rnd.Intn(8); i > 0 && len(corpus) > 0; i-- {
			set := &models.PracticeSet{DifficultyTier: 1 + rnd.Intn(3), MasteryScores: map[string]float64{}}
			for j := 0; j < 1+rnd.Intn(8); j++ {
				id := corpus[rnd.Intn(len(corpus))].ID
				if set.HasItem(id) {
					continue
				}
				set.ItemIDs = append(set.ItemIDs, id)
				if rnd.Intn(2) == 0 {
					set.CompletedItemIDs = append(set.CompletedItemIDs, id)
					set.MasteryScores[id] = rnd.Float64()
				}
			}
			history = append(history, set)
		}

		tier := EstimateDifficulty(history)
		got, err := Assemble(tier, corpus, history, rnd)
		if len(corpus) == 0 {
			assert.ErrorIs(t, err, ErrNoVocabularyAvailable)
			continue
		}
		require.NoError(t, err)

		assert.LessOrEqual(t, len(got.ReviewItemIDs), ReviewCap)
		assert.LessOrEqual(t, len(got.ItemIDs), TargetCount)
		assert.GreaterOrEqual(t, len(got.ItemIDs), min(MinCount, len(corpus)))
		assert.False(t, hasDuplicates(got.ItemIDs), "round %d: %v", round, got.ItemIDs)
		assert.Subset(t, got.ItemIDs, got.ReviewItemIDs)
	}
}
