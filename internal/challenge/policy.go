// Package challenge builds and tracks a learner's daily vocabulary challenge.
//
// The selection logic (EstimateDifficulty, SelectReview, SelectNew, Assemble) is
// pure and works on the learner's recent history ordered newest first. Service
// wires it to a HistoryStore and a Corpus and holds no state between calls.
package challenge

// Set size policy
const (
	// TargetCount is the number of items a new set aims for
	TargetCount = 8
	// MinCount is the smallest set assembled while the pool allows it
	MinCount = 5
	// ReviewCap limits how many review items a set may carry
	ReviewCap = 3
)

// Look-back windows, counted in practice sets
const (
	// HistoryWindow is how many prior sets are loaded when creating a set
	HistoryWindow = 7
	// DifficultyWindow is how many sets feed the difficulty estimate
	DifficultyWindow = 5
	// ReviewWindow is how many sets are scanned for review items
	ReviewWindow = 3
	// RecentWindow defines the recently-seen set for new items
	RecentWindow = 5
)

// Thresholds
const (
	// PromoteThreshold is the mean completion ratio that raises the tier
	PromoteThreshold = 0.9
	// HoldThreshold is the mean completion ratio that keeps the tier
	HoldThreshold = 0.7
	// ReviewMasteryThreshold is the mastery score below which an item is reviewed
	ReviewMasteryThreshold = 0.7
)
