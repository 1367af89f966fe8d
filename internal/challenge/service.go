package challenge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/vocabdaily/pkg/models"
)

// Service creates and updates daily challenges. It keeps no state between calls.
type Service struct {
	history HistoryStore
	corpus  Corpus
	rnd     Shuffler
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// Option configures a Service
type Option func(*Service)

// WithShuffler sets the random source used to sample new items
func WithShuffler(rnd Shuffler) Option {
	return func(s *Service) {
		s.rnd = rnd
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock sets the clock used for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new challenge service
func NewService(history HistoryStore, corpus Corpus, opts ...Option) *Service {
	s := &Service{
		history: history,
		corpus:  corpus,
		rnd:     defaultShuffler{},
		logger:  slog.Default(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreateTodaysSet returns the owner's set for today, creating it on the
// first call of the day. Repeated calls return the same set.
func (s *Service) GetOrCreateTodaysSet(ctx context.Context, owner string, today time.Time) (*models.PracticeSet, error) {
	day := models.DateOf(today)

	existing, err := s.history.FetchSet(ctx, owner, day)
	if err != nil {
		return nil, fmt.Errorf("fetch today's set: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	history, err := s.history.FetchRecentSets(ctx, owner, day, HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("fetch recent sets: %w", err)
	}
	tier := EstimateDifficulty(history)

	corpus, err := s.corpus.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vocabulary: %w", err)
	}

	assembly, err := Assemble(tier, corpus, history, s.rnd)
	if err != nil {
		s.logger.Warn("no vocabulary for daily challenge", "owner", owner, "date", models.FormatDate(day), "corpus", len(corpus))
		return nil, err
	}

	now := s.now().UTC()
	set := &models.PracticeSet{
		ID:               s.newID(),
		Owner:            owner,
		Date:             day,
		ItemIDs:          assembly.ItemIDs,
		CompletedItemIDs: []string{},
		MasteryScores:    map[string]float64{},
		ReviewItemIDs:    assembly.ReviewItemIDs,
		DifficultyTier:   tier,
		IsCompleted:      false,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	stored, created, err := s.history.InsertOrGetExisting(ctx, set)
	if errors.Is(err, models.ErrConflict) {
		// Stores without an atomic upsert report the race; the winner's set stands.
		stored, err = s.history.FetchSet(ctx, owner, day)
		if err == nil && stored == nil {
			err = fmt.Errorf("set for %s on %s vanished after conflict", owner, models.FormatDate(day))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("store daily challenge: %w", err)
	}

	if created {
		s.logger.Info("daily challenge created",
			"owner", owner,
			"date", models.FormatDate(day),
			"tier", tier,
			"items", len(set.ItemIDs),
			"review", len(set.ReviewItemIDs),
			"pool", assembly.PoolSize,
		)
	} else {
		s.logger.Debug("daily challenge created concurrently, using stored set", "owner", owner, "set_id", stored.ID)
	}
	return stored, nil
}

// RecordCompletion marks itemID as completed with the given mastery score.
// The score is clamped to [0,1]. Completing an item twice only replaces its
// score. A completed set still accepts re-submissions.
func (s *Service) RecordCompletion(ctx context.Context, setID, itemID string, masteryScore float64) (*models.PracticeSet, error) {
	score := models.ClampScore(masteryScore)

	current, err := s.history.FetchSetByID(ctx, setID)
	if err != nil {
		return nil, fmt.Errorf("fetch set %s: %w", setID, err)
	}
	if !current.HasItem(itemID) {
		return nil, fmt.Errorf("%w: %s", ErrItemNotInSet, itemID)
	}

	patch := mergeCompletion(current, itemID, score)
	updated, err := s.history.UpdateSet(ctx, setID, patch)
	if err != nil {
		return nil, fmt.Errorf("update set %s: %w", setID, err)
	}

	if updated.IsCompleted && !current.IsCompleted {
		s.logger.Info("daily challenge completed", "owner", updated.Owner, "set_id", updated.ID, "items", len(updated.ItemIDs))
	}
	return updated, nil
}

// Status reports the state of the owner's set for day without creating one
func (s *Service) Status(ctx context.Context, owner string, day time.Time) (models.ChallengeState, *models.PracticeSet, error) {
	set, err := s.history.FetchSet(ctx, owner, models.DateOf(day))
	if err != nil {
		return models.StateAbsent, nil, fmt.Errorf("fetch set: %w", err)
	}
	return set.State(), set, nil
}

// mergeCompletion applies one completion to a copy of the set's mutable fields
func mergeCompletion(set *models.PracticeSet, itemID string, score float64) *models.PracticeSetPatch {
	merged := set.Clone()
	if !merged.IsItemCompleted(itemID) {
		merged.CompletedItemIDs = append(merged.CompletedItemIDs, itemID)
	}
	merged.MasteryScores[itemID] = score
	return &models.PracticeSetPatch{
		CompletedItemIDs: merged.CompletedItemIDs,
		MasteryScores:    merged.MasteryScores,
	}
}
