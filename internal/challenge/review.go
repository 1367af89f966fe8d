package challenge

import "github.com/example/vocabdaily/pkg/models"

// SelectReview collects items that need reinforcement from the newest
// ReviewWindow sets: items scored below ReviewMasteryThreshold, then items left
// unfinished. IDs keep first-seen order and appear once. There is no cap here;
// Assemble applies ReviewCap.
func SelectReview(history []*models.PracticeSet) []string {
	var ids []string
	seen := make(map[string]struct{})
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, set := range newest(history, ReviewWindow) {
		// Walk item order rather than the score map so the result is stable.
		for _, id := range set.ItemIDs {
			if score, ok := set.MasteryScores[id]; ok && score < ReviewMasteryThreshold {
				add(id)
			}
		}
		for _, id := range set.ItemIDs {
			if !set.IsItemCompleted(id) {
				add(id)
			}
		}
	}
	return ids
}
