package models

import "time"

// VocabularyItem represents a word in the corpus
type VocabularyItem struct {
	ID              string    `json:"id" db:"id"`
	Word            string    `json:"word" db:"word"`
	Translation     string    `json:"translation" db:"translation"`
	Description     string    `json:"description" db:"description"`
	ProficiencyTier int       `json:"proficiency_tier" db:"proficiency_tier"` // 1 = beginner
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Proficiency and difficulty tiers, 1 = beginner
const (
	MinTier = 1
	MaxTier = 3
)

// ClampTier limits tier to [MinTier, MaxTier]
func ClampTier(tier int) int {
	if tier < MinTier {
		return MinTier
	}
	if tier > MaxTier {
		return MaxTier
	}
	return tier
}
