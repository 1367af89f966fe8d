package challenge

import "github.com/example/vocabdaily/pkg/models"

// RecentlySeen returns the union of item IDs across the newest RecentWindow sets
func RecentlySeen(history []*models.PracticeSet) map[string]struct{} {
	seen := make(map[string]struct{})
	for _, set := range newest(history, RecentWindow) {
		for _, id := range set.ItemIDs {
			seen[id] = struct{}{}
		}
	}
	return seen
}

// SelectNew samples up to count item IDs from pool. Items outside the
// recently-seen set are drawn first; recently seen items only top up a short
// result. The returned order is the sampling order.
func SelectNew(pool []models.VocabularyItem, history []*models.PracticeSet, count int, rnd Shuffler) []string {
	if count <= 0 || len(pool) == 0 {
		return nil
	}
	if rnd == nil {
		rnd = defaultShuffler{}
	}

	recent := RecentlySeen(history)
	var fresh, stale []string
	unique := make(map[string]struct{}, len(pool))
	for _, item := range pool {
		if _, dup := unique[item.ID]; dup {
			continue
		}
		unique[item.ID] = struct{}{}
		if _, ok := recent[item.ID]; ok {
			stale = append(stale, item.ID)
		} else {
			fresh = append(fresh, item.ID)
		}
	}

	selected := make([]string, 0, count)
	selected = appendSample(selected, fresh, count, rnd)
	if len(selected) < count {
		selected = appendSample(selected, stale, count, rnd)
	}
	return selected
}

// appendSample shuffles candidates and appends them to dst until dst holds limit IDs
func appendSample(dst, candidates []string, limit int, rnd Shuffler) []string {
	rnd.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	for _, id := range candidates {
		if len(dst) >= limit {
			break
		}
		dst = append(dst, id)
	}
	return dst
}
