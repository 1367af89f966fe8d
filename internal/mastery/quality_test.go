package mastery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQualityScore(t *testing.T) {
	tests := []struct {
		q    Quality
		want float64
	}{
		{QualityBlackout, 0},
		{QualityIncorrect, 0.2},
		{QualityCorrectDifficult, 0.6},
		{QualityCorrectHesitation, 0.8},
		{QualityPerfect, 1},
		{Quality(-3), 0},
		{Quality(9), 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, tt.q.Score(), 1e-9, "quality %d", tt.q)
	}
}

func TestGrades(t *testing.T) {
	require.NotEmpty(t, Grades)
	for i, g := range Grades {
		assert.True(t, g.Quality.Valid(), g.Label)
		if i > 0 {
			assert.Greater(t, g.Quality, Grades[i-1].Quality, "grades are ordered worst to best")
		}
	}
	// the weaker buttons must keep the word in review rotation
	assert.Less(t, Grades[1].Quality.Score(), 0.7)
	assert.GreaterOrEqual(t, Grades[2].Quality.Score(), 0.7)

	assert.Equal(t, "Good", QualityCorrectHesitation.Label())
	assert.Equal(t, "0", QualityBlackout.Label())
	assert.False(t, QualityIncorrectFamiliar.Passed())
	assert.True(t, QualityCorrectDifficult.Passed())
}

func TestParseQuality(t *testing.T) {
	q, err := ParseQuality("4")
	require.NoError(t, err)
	assert.Equal(t, QualityCorrectHesitation, q)

	for _, bad := range []string{"", "x", "6", "-1"} {
		_, err := ParseQuality(bad)
		assert.Error(t, err, bad)
	}
}
