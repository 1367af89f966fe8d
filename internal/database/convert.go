package database

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/example/vocabdaily/pkg/models"
)

// challengeRow is the stored form of a practice set
type challengeRow struct {
	ID               string    `db:"id"`
	Owner            string    `db:"owner"`
	ChallengeDate    string    `db:"challenge_date"`
	ItemIDs          string    `db:"item_ids"`
	CompletedItemIDs string    `db:"completed_item_ids"`
	MasteryScores    string    `db:"mastery_scores"`
	ReviewItemIDs    string    `db:"review_item_ids"`
	DifficultyTier   int       `db:"difficulty_tier"`
	IsCompleted      bool      `db:"is_completed"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// toModel decodes a stored row and restores the set invariants: duplicate and
// foreign completed IDs are dropped, scores are clamped and limited to
// completed items, and IsCompleted is recomputed.
func (row *challengeRow) toModel() (*models.PracticeSet, error) {
	date, err := models.ParseDate(row.ChallengeDate)
	if err != nil {
		return nil, errors.Wrapf(err, "challenge %s: bad date %q", row.ID, row.ChallengeDate)
	}

	set := &models.PracticeSet{
		ID:             row.ID,
		Owner:          row.Owner,
		Date:           date,
		DifficultyTier: row.DifficultyTier,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if set.ItemIDs, err = decodeIDs(row.ItemIDs); err != nil {
		return nil, errors.Wrapf(err, "challenge %s: item_ids", row.ID)
	}
	set.ItemIDs = dedupe(set.ItemIDs, nil)

	completed, err := decodeIDs(row.CompletedItemIDs)
	if err != nil {
		return nil, errors.Wrapf(err, "challenge %s: completed_item_ids", row.ID)
	}
	set.CompletedItemIDs = dedupe(completed, set.HasItem)

	review, err := decodeIDs(row.ReviewItemIDs)
	if err != nil {
		return nil, errors.Wrapf(err, "challenge %s: review_item_ids", row.ID)
	}
	set.ReviewItemIDs = dedupe(review, set.HasItem)

	scores, err := decodeMasteryScores(row.MasteryScores)
	if err != nil {
		return nil, errors.Wrapf(err, "challenge %s: mastery_scores", row.ID)
	}
	set.MasteryScores = make(map[string]float64, len(scores))
	for id, score := range scores {
		if set.IsItemCompleted(id) {
			set.MasteryScores[id] = score
		}
	}

	set.RecomputeCompleted()
	return set, nil
}

// newChallengeRow encodes a practice set for storage
func newChallengeRow(set *models.PracticeSet) (*challengeRow, error) {
	row := &challengeRow{
		ID:             set.ID,
		Owner:          set.Owner,
		ChallengeDate:  models.FormatDate(set.Date),
		DifficultyTier: set.DifficultyTier,
		IsCompleted:    set.IsCompleted,
		CreatedAt:      set.CreatedAt,
		UpdatedAt:      set.UpdatedAt,
	}
	var err error
	if row.ItemIDs, err = encodeIDs(set.ItemIDs); err != nil {
		return nil, err
	}
	if row.CompletedItemIDs, err = encodeIDs(set.CompletedItemIDs); err != nil {
		return nil, err
	}
	if row.ReviewItemIDs, err = encodeIDs(set.ReviewItemIDs); err != nil {
		return nil, err
	}
	if row.MasteryScores, err = encodeScores(set.MasteryScores); err != nil {
		return nil, err
	}
	return row, nil
}

// applyPatch merges a completion patch into set. Completed IDs are only ever
// added and scores are overwritten per item.
func applyPatch(set *models.PracticeSet, patch *models.PracticeSetPatch) {
	for _, id := range patch.CompletedItemIDs {
		if set.HasItem(id) && !set.IsItemCompleted(id) {
			set.CompletedItemIDs = append(set.CompletedItemIDs, id)
		}
	}
	if set.MasteryScores == nil {
		set.MasteryScores = make(map[string]float64)
	}
	for id, score := range patch.MasteryScores {
		if set.IsItemCompleted(id) {
			set.MasteryScores[id] = models.ClampScore(score)
		}
	}
	set.RecomputeCompleted()
}

func decodeIDs(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// decodeMasteryScores accepts any JSON object and keeps only numeric entries
func decodeMasteryScores(raw string) (map[string]float64, error) {
	scores := make(map[string]float64)
	if raw == "" || raw == "null" {
		return scores, nil
	}
	var loose map[string]any
	if err := json.Unmarshal([]byte(raw), &loose); err != nil {
		return nil, err
	}
	for id, value := range loose {
		if score, ok := value.(float64); ok {
			scores[id] = models.ClampScore(score)
		}
	}
	return scores, nil
}

func encodeIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", errors.Wrap(err, "encode ids")
	}
	return string(b), nil
}

func encodeScores(scores map[string]float64) (string, error) {
	if scores == nil {
		scores = map[string]float64{}
	}
	b, err := json.Marshal(scores)
	if err != nil {
		return "", errors.Wrap(err, "encode mastery scores")
	}
	return string(b), nil
}

// dedupe keeps the first occurrence of each ID, optionally filtered by keep
func dedupe(ids []string, keep func(string) bool) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		if keep != nil && !keep(id) {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
