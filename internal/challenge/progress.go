package challenge

import "github.com/example/vocabdaily/pkg/models"

// Progress summarizes how far a learner is through a set
type Progress struct {
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// GetProgress projects a set onto its completion counts
func GetProgress(set *models.PracticeSet) Progress {
	if set == nil {
		return Progress{}
	}
	return Progress{
		Completed:  len(set.CompletedItemIDs),
		Total:      len(set.ItemIDs),
		Percentage: set.CompletionRatio() * 100,
	}
}
