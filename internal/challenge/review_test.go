package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/vocabdaily/pkg/models"
)

func TestSelectReview_Empty(t *testing.T) {
	assert.Empty(t, SelectReview(nil))
	assert.Empty(t, SelectReview([]*models.PracticeSet{setWithRatio(1, 5, 5)}))
}

func TestSelectReview_LowMasteryThenUnfinished(t *testing.T) {
	set := &models.PracticeSet{
		ItemIDs:          []string{"a", "b", "c", "d", "e"},
		CompletedItemIDs: []string{"a", "b", "c"},
		MasteryScores:    map[string]float64{"a": 0.9, "b": 0.2, "c": 0.69},
	}
	assert.Equal(t, []string{"b", "c", "d", "e"}, SelectReview([]*models.PracticeSet{set}))
}

func TestSelectReview_ThresholdIsExclusive(t *testing.T) {
	set := &models.PracticeSet{
		ItemIDs:          []string{"a"},
		CompletedItemIDs: []string{"a"},
		MasteryScores:    map[string]float64{"a": ReviewMasteryThreshold},
	}
	assert.Empty(t, SelectReview([]*models.PracticeSet{set}))
}

func TestSelectReview_DeduplicatesAcrossSets(t *testing.T) {
	newest := &models.PracticeSet{
		ItemIDs:          []string{"x", "y"},
		CompletedItemIDs: []string{"x"},
		MasteryScores:    map[string]float64{"x": 0.1},
	}
	older := &models.PracticeSet{
		ItemIDs:          []string{"y", "x", "z"},
		CompletedItemIDs: []string{"y", "x", "z"},
		MasteryScores:    map[string]float64{"y": 0.3, "x": 0.3, "z": 0.5},
	}
	assert.Equal(t, []string{"x", "y", "z"}, SelectReview([]*models.PracticeSet{newest, older}))
}

func TestSelectReview_OnlyNewestThreeSets(t *testing.T) {
	clean := setWithRatio(1, 3, 3)
	stale := &models.PracticeSet{
		ItemIDs:       []string{"old"},
		MasteryScores: map[string]float64{},
	}
	history := []*models.PracticeSet{clean, clean, clean, stale}
	assert.Empty(t, SelectReview(history))
}

func TestSelectReview_NoCap(t *testing.T) {
	set := setWithRatio(1, 10, 0)
	assert.Len(t, SelectReview([]*models.PracticeSet{set}), 10)
}
