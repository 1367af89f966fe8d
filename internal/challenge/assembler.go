package challenge

import "github.com/example/vocabdaily/pkg/models"

// Assembly is the outcome of assembling a new practice set
type Assembly struct {
	ItemIDs       []string
	ReviewItemIDs []string
	// PoolSize is the size of the pool new items were drawn from, after widening
	PoolSize int
}

// EligiblePool returns the corpus items a learner at tier may get.
// Tier n admits proficiency tiers 1..n. A sparse pool widens to the lowest
// proficiency tier present, then to the whole corpus, so a small corpus never
// blocks a set.
func EligiblePool(tier int, corpus []models.VocabularyItem) []models.VocabularyItem {
	tier = models.ClampTier(tier)
	eligible := filterItems(corpus, func(item models.VocabularyItem) bool {
		return item.ProficiencyTier <= tier
	})
	if len(eligible) >= MinCount {
		return eligible
	}

	if lowest, ok := lowestTier(corpus); ok {
		base := filterItems(corpus, func(item models.VocabularyItem) bool {
			return item.ProficiencyTier == lowest
		})
		if len(base) >= MinCount {
			return base
		}
	}
	return corpus
}

// Assemble builds the ordered item list of a new set: up to ReviewCap review
// items first, then new items up to TargetCount, then any pool items needed to
// reach MinCount. It returns ErrNoVocabularyAvailable when nothing can be chosen.
func Assemble(tier int, corpus []models.VocabularyItem, history []*models.PracticeSet, rnd Shuffler) (*Assembly, error) {
	pool := EligiblePool(tier, corpus)

	known := make(map[string]struct{}, len(corpus))
	for _, item := range corpus {
		known[item.ID] = struct{}{}
	}

	// Items removed from the corpus since they were practiced are not resurfaced.
	review := make([]string, 0, ReviewCap)
	for _, id := range SelectReview(history) {
		if len(review) == ReviewCap {
			break
		}
		if _, ok := known[id]; ok {
			review = append(review, id)
		}
	}

	chosen := make(map[string]struct{}, TargetCount)
	for _, id := range review {
		chosen[id] = struct{}{}
	}
	candidates := filterItems(pool, func(item models.VocabularyItem) bool {
		_, taken := chosen[item.ID]
		return !taken
	})

	ids := append([]string(nil), review...)
	for _, id := range SelectNew(candidates, history, TargetCount-len(review), rnd) {
		chosen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, item := range pool {
		if len(ids) >= MinCount {
			break
		}
		if _, taken := chosen[item.ID]; taken {
			continue
		}
		chosen[item.ID] = struct{}{}
		ids = append(ids, item.ID)
	}

	if len(ids) == 0 {
		return nil, ErrNoVocabularyAvailable
	}
	return &Assembly{
		ItemIDs:       ids,
		ReviewItemIDs: review,
		PoolSize:      len(pool),
	}, nil
}

func filterItems(items []models.VocabularyItem, keep func(models.VocabularyItem) bool) []models.VocabularyItem {
	out := make([]models.VocabularyItem, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func lowestTier(items []models.VocabularyItem) (int, bool) {
	if len(items) == 0 {
		return 0, false
	}
	lowest := items[0].ProficiencyTier
	for _, item := range items[1:] {
		if item.ProficiencyTier < lowest {
			lowest = item.ProficiencyTier
		}
	}
	return lowest, true
}
