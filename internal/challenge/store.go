package challenge

import (
	"context"
	"math/rand"
	"time"

	"github.com/example/vocabdaily/pkg/models"
)

// HistoryStore persists practice sets. It must enforce one set per (owner, date).
type HistoryStore interface {
	// FetchSet returns nil, nil when the owner has no set for date.
	FetchSet(ctx context.Context, owner string, date time.Time) (*models.PracticeSet, error)
	// FetchSetByID returns models.ErrNotFound when the set does not exist.
	FetchSetByID(ctx context.Context, id string) (*models.PracticeSet, error)
	// FetchRecentSets returns up to limit sets dated before the given day, newest first.
	FetchRecentSets(ctx context.Context, owner string, before time.Time, limit int) ([]*models.PracticeSet, error)
	// InsertOrGetExisting stores set unless one already exists for its
	// (owner, date). It returns the stored set and whether this call created it.
	InsertOrGetExisting(ctx context.Context, set *models.PracticeSet) (*models.PracticeSet, bool, error)
	// UpdateSet merges patch into the stored set. Completed IDs are unioned and
	// scores are overwritten per key, so a concurrent writer is never undone.
	UpdateSet(ctx context.Context, id string, patch *models.PracticeSetPatch) (*models.PracticeSet, error)
}

// Corpus supplies vocabulary items. The assembler filters by tier itself, so the
// whole corpus is loaded once per new set.
type Corpus interface {
	ListAll(ctx context.Context) ([]models.VocabularyItem, error)
}

// Shuffler randomizes the order of n elements. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// defaultShuffler uses the goroutine-safe top-level source
type defaultShuffler struct{}

func (defaultShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}
