// Package mastery maps self-graded recall quality onto the mastery scores
// stored with a practice set.
package mastery

import (
	"strconv"

	"github.com/pkg/errors"
)

// Quality is the SuperMemo-style grade of a single recall, 0 to 5
type Quality int

const (
	// Complete blackout, unable to recall
	QualityBlackout Quality = 0
	// Incorrect response but remembered upon seeing the correct answer
	QualityIncorrect Quality = 1
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar Quality = 2
	// Correct response but required significant effort
	QualityCorrectDifficult Quality = 3
	// Correct response after some hesitation
	QualityCorrectHesitation Quality = 4
	// Perfect response with no hesitation
	QualityPerfect Quality = 5
)

// MaxQuality is the best possible grade
const MaxQuality = QualityPerfect

// Grade is one of the answer buttons offered after a card is revealed
type Grade struct {
	Label   string
	Quality Quality
}

// Grades lists the answer buttons in display order
var Grades = []Grade{
	{Label: "Again", Quality: QualityIncorrect},
	{Label: "Hard", Quality: QualityCorrectDifficult},
	{Label: "Good", Quality: QualityCorrectHesitation},
	{Label: "Easy", Quality: QualityPerfect},
}

// Valid reports whether q is within 0..5
func (q Quality) Valid() bool {
	return q >= QualityBlackout && q <= MaxQuality
}

// Passed reports whether q counts as a correct recall
func (q Quality) Passed() bool {
	return q >= QualityCorrectDifficult
}

// Score converts q into a mastery score in [0,1]. Out-of-range grades are clamped.
func (q Quality) Score() float64 {
	switch {
	case q < QualityBlackout:
		return 0
	case q > MaxQuality:
		return 1
	}
	return float64(q) / float64(MaxQuality)
}

// Label returns the button label of q, or its number when no button uses it
func (q Quality) Label() string {
	for _, g := range Grades {
		if g.Quality == q {
			return g.Label
		}
	}
	return strconv.Itoa(int(q))
}

// ParseQuality parses a grade from callback data or command arguments
func ParseQuality(s string) (Quality, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "parse quality %q", s)
	}
	q := Quality(n)
	if !q.Valid() {
		return 0, errors.Errorf("quality %d out of range 0-%d", n, MaxQuality)
	}
	return q, nil
}
