package challenge

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/example/vocabdaily/pkg/models"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func makeItems(prefix string, tier, n int) []models.VocabularyItem {
	items := make([]models.VocabularyItem, n)
	for i := range items {
		items[i] = models.VocabularyItem{
			ID:              fmt.Sprintf("%s%02d", prefix, i),
			Word:            fmt.Sprintf("%s word %d", prefix, i),
			ProficiencyTier: tier,
		}
	}
	return items
}

func ids(items []models.VocabularyItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

// setWithRatio builds a set of total items with the first done of them completed
func setWithRatio(tier, total, done int) *models.PracticeSet {
	set := &models.PracticeSet{
		DifficultyTier: tier,
		MasteryScores:  map[string]float64{},
	}
	for i := 0; i < total; i++ {
		id := fmt.Sprintf("h%d-%d", tier, i)
		set.ItemIDs = append(set.ItemIDs, id)
		if i < done {
			set.CompletedItemIDs = append(set.CompletedItemIDs, id)
			set.MasteryScores[id] = 1
		}
	}
	set.RecomputeCompleted()
	return set
}

func repeat(set *models.PracticeSet, n int) []*models.PracticeSet {
	out := make([]*models.PracticeSet, n)
	for i := range out {
		out[i] = set
	}
	return out
}

func hasDuplicates(list []string) bool {
	seen := make(map[string]struct{}, len(list))
	for _, id := range list {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

var day = time.Date(2024, time.March, 14, 9, 30, 0, 0, time.UTC)
