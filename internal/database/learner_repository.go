package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/vocabdaily/pkg/models"
)

const learnerColumns = `telegram_id, username, first_name, notification_enabled, notification_hour, created_at, updated_at`

// LearnerRepository handles database operations for learners
type LearnerRepository struct {
	db *sqlx.DB
}

// NewLearnerRepository creates a new repository instance
func NewLearnerRepository(db *sqlx.DB) *LearnerRepository {
	return &LearnerRepository{db: db}
}

// GetByID returns a learner by Telegram ID
func (r *LearnerRepository) GetByID(ctx context.Context, id int64) (*models.Learner, error) {
	var learner models.Learner
	query := r.db.Rebind(`SELECT ` + learnerColumns + ` FROM learners WHERE telegram_id = ?`)
	err := r.db.GetContext(ctx, &learner, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(models.ErrNotFound, "learner %d", id)
	}
	if err != nil {
		return nil, unavailable(err, "failed to get learner")
	}
	return &learner, nil
}

// Register creates the learner or refreshes the profile fields of an existing one.
// Notification settings of an existing learner are kept.
func (r *LearnerRepository) Register(ctx context.Context, learner *models.Learner) error {
	now := time.Now().UTC()
	learner.CreatedAt, learner.UpdatedAt = now, now

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO learners (`+learnerColumns+`)
		VALUES (:telegram_id, :username, :first_name, :notification_enabled, :notification_hour, :created_at, :updated_at)
		ON CONFLICT (telegram_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			updated_at = excluded.updated_at
	`, learner)
	if err != nil {
		return unavailable(err, "failed to register learner")
	}
	return nil
}

// SetNotification updates the reminder settings of a learner
func (r *LearnerRepository) SetNotification(ctx context.Context, id int64, enabled bool, hour int) error {
	if hour < 0 || hour > 23 {
		return errors.Errorf("notification hour %d out of range", hour)
	}
	query := r.db.Rebind(`
		UPDATE learners
		SET notification_enabled = ?, notification_hour = ?, updated_at = ?
		WHERE telegram_id = ?
	`)
	result, err := r.db.ExecContext(ctx, query, enabled, hour, time.Now().UTC(), id)
	if err != nil {
		return unavailable(err, "failed to update notification settings")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return unavailable(err, "failed to get rows affected")
	}
	if rows == 0 {
		return errors.Wrapf(models.ErrNotFound, "learner %d", id)
	}
	return nil
}

// ListAll returns every registered learner
func (r *LearnerRepository) ListAll(ctx context.Context) ([]models.Learner, error) {
	var learners []models.Learner
	if err := r.db.SelectContext(ctx, &learners, `SELECT `+learnerColumns+` FROM learners ORDER BY telegram_id`); err != nil {
		return nil, unavailable(err, "failed to get learners")
	}
	return learners, nil
}

// ListForNotification returns learners who want a reminder at the given hour
func (r *LearnerRepository) ListForNotification(ctx context.Context, hour int) ([]models.Learner, error) {
	var learners []models.Learner
	query := r.db.Rebind(`
		SELECT ` + learnerColumns + `
		FROM learners
		WHERE notification_enabled = ? AND notification_hour = ?
		ORDER BY telegram_id
	`)
	if err := r.db.SelectContext(ctx, &learners, query, true, hour); err != nil {
		return nil, unavailable(err, "failed to get learners for notification")
	}
	return learners, nil
}
