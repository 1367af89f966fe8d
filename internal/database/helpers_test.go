package database

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabdaily/pkg/models"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newSet(id, owner string, date time.Time, items ...string) *models.PracticeSet {
	now := time.Date(2024, 3, 14, 8, 0, 0, 0, time.UTC)
	return &models.PracticeSet{
		ID:               id,
		Owner:            owner,
		Date:             models.DateOf(date),
		ItemIDs:          items,
		CompletedItemIDs: []string{},
		MasteryScores:    map[string]float64{},
		ReviewItemIDs:    []string{},
		DifficultyTier:   1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func day(n int) time.Time {
	return time.Date(2024, 3, n, 0, 0, 0, 0, time.UTC)
}
