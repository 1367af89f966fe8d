package models

import (
	"math"
	"time"
)

// DateLayout is the storage format of a challenge date
const DateLayout = "2006-01-02"

// ChallengeState is the lifecycle state of a learner's daily challenge
type ChallengeState int

const (
	// StateAbsent means no practice set exists for the (owner, date) pair
	StateAbsent ChallengeState = iota
	// StateActive means the set exists and still has pending items
	StateActive
	// StateCompleted means every item of the set has been completed
	StateCompleted
)

func (s ChallengeState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateCompleted:
		return "completed"
	default:
		return "absent"
	}
}

// PracticeSet is a learner's daily vocabulary challenge
type PracticeSet struct {
	ID               string             `json:"id"`
	Owner            string             `json:"owner"`
	Date             time.Time          `json:"date"`
	ItemIDs          []string           `json:"item_ids"`
	CompletedItemIDs []string           `json:"completed_item_ids"`
	MasteryScores    map[string]float64 `json:"mastery_scores"`
	ReviewItemIDs    []string           `json:"review_item_ids"`
	DifficultyTier   int                `json:"difficulty_tier"`
	IsCompleted      bool               `json:"is_completed"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// PracticeSetPatch carries the mutable part of a practice set
type PracticeSetPatch struct {
	CompletedItemIDs []string
	MasteryScores    map[string]float64
}

// RecomputeCompleted derives IsCompleted from the item counts
func (s *PracticeSet) RecomputeCompleted() {
	s.IsCompleted = len(s.ItemIDs) > 0 && len(s.CompletedItemIDs) == len(s.ItemIDs)
}

// CompletionRatio returns the share of completed items, 0 for an empty set
func (s *PracticeSet) CompletionRatio() float64 {
	if len(s.ItemIDs) == 0 {
		return 0
	}
	return float64(len(s.CompletedItemIDs)) / float64(len(s.ItemIDs))
}

// HasItem reports whether id is one of the set's items
func (s *PracticeSet) HasItem(id string) bool {
	return indexOf(s.ItemIDs, id) >= 0
}

// IsItemCompleted reports whether id has been completed
func (s *PracticeSet) IsItemCompleted(id string) bool {
	return indexOf(s.CompletedItemIDs, id) >= 0
}

// IsReviewItem reports whether id was resurfaced from earlier sets
func (s *PracticeSet) IsReviewItem(id string) bool {
	return indexOf(s.ReviewItemIDs, id) >= 0
}

// NextPendingItem returns the index of the first item not yet completed, or -1
func (s *PracticeSet) NextPendingItem() int {
	for i, id := range s.ItemIDs {
		if !s.IsItemCompleted(id) {
			return i
		}
	}
	return -1
}

// State returns the lifecycle state of an existing set
func (s *PracticeSet) State() ChallengeState {
	if s == nil {
		return StateAbsent
	}
	if s.IsCompleted {
		return StateCompleted
	}
	return StateActive
}

// Clone returns a deep copy of the set
func (s *PracticeSet) Clone() *PracticeSet {
	c := *s
	c.ItemIDs = append([]string(nil), s.ItemIDs...)
	c.CompletedItemIDs = append([]string(nil), s.CompletedItemIDs...)
	c.ReviewItemIDs = append([]string(nil), s.ReviewItemIDs...)
	c.MasteryScores = make(map[string]float64, len(s.MasteryScores))
	for k, v := range s.MasteryScores {
		c.MasteryScores[k] = v
	}
	return &c
}

// DateOf truncates t to its calendar day in t's own location.
// The result is midnight UTC of that day so it compares and stores uniformly.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate formats a challenge date for storage
func FormatDate(t time.Time) string {
	return DateOf(t).Format(DateLayout)
}

// ParseDate parses a stored challenge date
func ParseDate(s string) (time.Time, error) {
	// postgres DATE columns scanned as text may carry a time suffix
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	return time.Parse(DateLayout, s)
}

// ClampScore forces a mastery score into [0,1]. NaN counts as 0.
func ClampScore(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
