package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/vocabdaily/pkg/models"
)

const wordColumns = `id, word, translation, description, proficiency_tier, created_at, updated_at`

// WordRepository handles database operations for the vocabulary corpus
type WordRepository struct {
	db *sqlx.DB
}

// NewWordRepository creates a new repository instance
func NewWordRepository(db *sqlx.DB) *WordRepository {
	return &WordRepository{db: db}
}

// ListAll returns all words
func (r *WordRepository) ListAll(ctx context.Context) ([]models.VocabularyItem, error) {
	var words []models.VocabularyItem
	err := r.db.SelectContext(ctx, &words, `SELECT `+wordColumns+` FROM words ORDER BY proficiency_tier, word`)
	if err != nil {
		return nil, unavailable(err, "failed to get words")
	}
	return words, nil
}

// ListByTier returns words of a single proficiency tier
func (r *WordRepository) ListByTier(ctx context.Context, tier int) ([]models.VocabularyItem, error) {
	var words []models.VocabularyItem
	query := r.db.Rebind(`SELECT ` + wordColumns + ` FROM words WHERE proficiency_tier = ? ORDER BY word`)
	if err := r.db.SelectContext(ctx, &words, query, tier); err != nil {
		return nil, unavailable(err, "failed to get words by tier")
	}
	return words, nil
}

// GetByIDs returns the words with the given IDs, keyed by ID
func (r *WordRepository) GetByIDs(ctx context.Context, ids []string) (map[string]models.VocabularyItem, error) {
	out := make(map[string]models.VocabularyItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`SELECT `+wordColumns+` FROM words WHERE id IN (?)`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "build words query")
	}

	var words []models.VocabularyItem
	if err := r.db.SelectContext(ctx, &words, r.db.Rebind(query), args...); err != nil {
		return nil, unavailable(err, "failed to get words by ID")
	}
	for _, w := range words {
		out[w.ID] = w
	}
	return out, nil
}

// GetByWord returns a word by its text
func (r *WordRepository) GetByWord(ctx context.Context, word string) (*models.VocabularyItem, error) {
	var item models.VocabularyItem
	query := r.db.Rebind(`SELECT ` + wordColumns + ` FROM words WHERE word = ?`)
	err := r.db.GetContext(ctx, &item, query, strings.TrimSpace(word))
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(models.ErrNotFound, "word %q", word)
	}
	if err != nil {
		return nil, unavailable(err, "failed to get word")
	}
	return &item, nil
}

// Upsert inserts a word or updates the existing entry with the same text.
// It reports whether a new word was created.
func (r *WordRepository) Upsert(ctx context.Context, item *models.VocabularyItem) (bool, error) {
	item.Word = strings.TrimSpace(item.Word)
	if item.Word == "" {
		return false, errors.New("word is empty")
	}

	existing, err := r.GetByWord(ctx, item.Word)
	switch {
	case errors.Is(err, models.ErrNotFound):
		now := time.Now().UTC()
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.CreatedAt, item.UpdatedAt = now, now
		_, err = r.db.NamedExecContext(ctx, `
			INSERT INTO words (`+wordColumns+`)
			VALUES (:id, :word, :translation, :description, :proficiency_tier, :created_at, :updated_at)
		`, item)
		if isUniqueViolation(err) {
			// another importer created it first
			return false, errors.Wrapf(models.ErrConflict, "word %q", item.Word)
		}
		if err != nil {
			return false, unavailable(err, "failed to create word")
		}
		return true, nil
	case err != nil:
		return false, err
	}

	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now().UTC()
	_, err = r.db.NamedExecContext(ctx, `
		UPDATE words SET
			translation = :translation,
			description = :description,
			proficiency_tier = :proficiency_tier,
			updated_at = :updated_at
		WHERE id = :id
	`, item)
	if err != nil {
		return false, unavailable(err, "failed to update word")
	}
	return false, nil
}

// CountByTier returns the number of words per proficiency tier
func (r *WordRepository) CountByTier(ctx context.Context) (map[int]int, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT proficiency_tier, COUNT(*) FROM words GROUP BY proficiency_tier`)
	if err != nil {
		return nil, unavailable(err, "failed to count words")
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var tier, n int
		if err := rows.Scan(&tier, &n); err != nil {
			return nil, unavailable(err, "failed to scan word count")
		}
		counts[tier] = n
	}
	return counts, rows.Err()
}
