package challenge

import "github.com/example/vocabdaily/pkg/models"

// EstimateDifficulty picks the difficulty tier for the next set.
// The mean completion ratio of the newest DifficultyWindow sets moves the tier of
// the newest set up, keeps it, or moves it down. The result is always in
// [models.MinTier, models.MaxTier].
func EstimateDifficulty(history []*models.PracticeSet) int {
	recent := newest(history, DifficultyWindow)
	if len(recent) == 0 {
		return models.MinTier
	}

	var sum float64
	for _, set := range recent {
		sum += set.CompletionRatio()
	}
	mean := sum / float64(len(recent))

	previous := models.ClampTier(recent[0].DifficultyTier)
	switch {
	case mean >= PromoteThreshold:
		return models.ClampTier(previous + 1)
	case mean >= HoldThreshold:
		return previous
	default:
		return models.ClampTier(previous - 1)
	}
}

// newest returns at most n leading entries, skipping nil ones
func newest(history []*models.PracticeSet, n int) []*models.PracticeSet {
	out := make([]*models.PracticeSet, 0, n)
	for _, set := range history {
		if len(out) == n {
			break
		}
		if set != nil {
			out = append(out, set)
		}
	}
	return out
}
