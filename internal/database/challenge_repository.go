package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/vocabdaily/pkg/models"
)

const challengeColumns = `id, owner, challenge_date, item_ids, completed_item_ids, mastery_scores,
	review_item_ids, difficulty_tier, is_completed, created_at, updated_at`

// ChallengeRepository stores daily challenges
type ChallengeRepository struct {
	db *sqlx.DB
}

// NewChallengeRepository creates a new repository instance
func NewChallengeRepository(db *sqlx.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// FetchSet returns the owner's challenge for date, or nil if there is none
func (r *ChallengeRepository) FetchSet(ctx context.Context, owner string, date time.Time) (*models.PracticeSet, error) {
	query := r.db.Rebind(`SELECT ` + challengeColumns + ` FROM daily_challenges WHERE owner = ? AND challenge_date = ?`)

	var row challengeRow
	err := r.db.GetContext(ctx, &row, query, owner, models.FormatDate(date))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable(err, "failed to get challenge")
	}
	return row.toModel()
}

// FetchSetByID returns a challenge by ID
func (r *ChallengeRepository) FetchSetByID(ctx context.Context, id string) (*models.PracticeSet, error) {
	query := r.db.Rebind(`SELECT ` + challengeColumns + ` FROM daily_challenges WHERE id = ?`)

	var row challengeRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(models.ErrNotFound, "challenge %s", id)
	}
	if err != nil {
		return nil, unavailable(err, "failed to get challenge by ID")
	}
	return row.toModel()
}

// FetchRecentSets returns up to limit challenges dated before the given day, newest first
func (r *ChallengeRepository) FetchRecentSets(ctx context.Context, owner string, before time.Time, limit int) ([]*models.PracticeSet, error) {
	query := r.db.Rebind(`
		SELECT ` + challengeColumns + `
		FROM daily_challenges
		WHERE owner = ? AND challenge_date < ?
		ORDER BY challenge_date DESC
		LIMIT ?
	`)

	var rows []challengeRow
	if err := r.db.SelectContext(ctx, &rows, query, owner, models.FormatDate(before), limit); err != nil {
		return nil, unavailable(err, "failed to get recent challenges")
	}

	sets := make([]*models.PracticeSet, 0, len(rows))
	for i := range rows {
		set, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// InsertOrGetExisting inserts set unless the owner already has one for its date.
// The unique (owner, challenge_date) constraint decides the race; the loser gets
// the stored set back and false.
func (r *ChallengeRepository) InsertOrGetExisting(ctx context.Context, set *models.PracticeSet) (*models.PracticeSet, bool, error) {
	set.RecomputeCompleted()
	row, err := newChallengeRow(set)
	if err != nil {
		return nil, false, err
	}

	query := `
		INSERT INTO daily_challenges (` + challengeColumns + `)
		VALUES (:id, :owner, :challenge_date, :item_ids, :completed_item_ids, :mastery_scores,
			:review_item_ids, :difficulty_tier, :is_completed, :created_at, :updated_at)
		ON CONFLICT (owner, challenge_date) DO NOTHING
	`
	result, err := r.db.NamedExecContext(ctx, query, row)
	if isUniqueViolation(err) {
		return nil, false, errors.Wrapf(models.ErrConflict, "challenge %s", set.ID)
	}
	if err != nil {
		return nil, false, unavailable(err, "failed to create challenge")
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return nil, false, unavailable(err, "failed to get rows affected")
	}
	if inserted == 1 {
		return set, true, nil
	}

	existing, err := r.FetchSet(ctx, set.Owner, set.Date)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, errors.Wrapf(models.ErrConflict, "challenge for %s on %s", set.Owner, models.FormatDate(set.Date))
	}
	return existing, false, nil
}

// UpdateSet merges patch into the stored challenge inside a transaction
func (r *ChallengeRepository) UpdateSet(ctx context.Context, id string, patch *models.PracticeSetPatch) (*models.PracticeSet, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, unavailable(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	query := `SELECT ` + challengeColumns + ` FROM daily_challenges WHERE id = ?`
	if r.db.DriverName() == DriverPostgres {
		query += ` FOR UPDATE`
	}

	var row challengeRow
	err = tx.GetContext(ctx, &row, tx.Rebind(query), id)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(models.ErrNotFound, "challenge %s", id)
	}
	if err != nil {
		return nil, unavailable(err, "failed to lock challenge")
	}

	set, err := row.toModel()
	if err != nil {
		return nil, err
	}
	applyPatch(set, patch)
	set.UpdatedAt = time.Now().UTC()

	updated, err := newChallengeRow(set)
	if err != nil {
		return nil, err
	}
	_, err = tx.NamedExecContext(ctx, `
		UPDATE daily_challenges SET
			completed_item_ids = :completed_item_ids,
			mastery_scores = :mastery_scores,
			is_completed = :is_completed,
			updated_at = :updated_at
		WHERE id = :id
	`, updated)
	if err != nil {
		return nil, unavailable(err, "failed to update challenge")
	}

	if err := tx.Commit(); err != nil {
		return nil, unavailable(err, "failed to commit challenge update")
	}
	return set, nil
}
