package feature

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonalityLabels(t *testing.T) {
	feat := NewSeasonality("weekly", FourierCompCos, 2)
	assert.Equal(t, "seas_weekly_02_cos", feat.String())
	assert.Equal(t, FeatureTypeSeasonality, feat.Type())

	testData := map[string]struct {
		label  string
		val    string
		exists bool
	}{
		"name":       {"Name", "weekly", true},
		"component":  {"fourier_component", "cos", true},
		"order":      {"order", "2", true},
		"unknown":    {"period", "", false},
		"empty name": {"", "", false},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			val, exists := feat.Get(td.label)
			assert.Equal(t, td.exists, exists)
			assert.Equal(t, td.val, val)
		})
	}
}

func TestSeasonalityGenerate(t *testing.T) {
	day := (24 * time.Hour).Seconds()
	// quarter, half and three quarter weeks
	secs := []float64{0, 1.75 * day, 3.5 * day, 5.25 * day, 7 * day}

	testData := map[string]struct {
		feat     *Seasonality
		expected []float64
	}{
		"first order sin": {
			feat:     NewSeasonality("weekly", FourierCompSin, 1),
			expected: []float64{0, 1, 0, -1, 0},
		},
		"first order cos": {
			feat:     NewSeasonality("weekly", FourierCompCos, 1),
			expected: []float64{1, 0, -1, 0, 1},
		},
		"second order cos": {
			feat:     NewSeasonality("weekly", FourierCompCos, 2),
			expected: []float64{1, -1, 1, -1, 1},
		},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := td.feat.Generate(secs, WeeklyPeriod)
			require.Len(t, res, len(td.expected))
			for i, exp := range td.expected {
				assert.InDelta(t, exp, res[i], 1e-9, "index %d", i)
			}
		})
	}

	assert.Empty(t, NewSeasonality("weekly", FourierCompSin, 1).Generate(nil, WeeklyPeriod))
}

func TestWeekly(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tSeries := make([]time.Time, 15)
	for i := range tSeries {
		tSeries[i] = start.AddDate(0, 0, i)
	}

	s := Weekly(tSeries, 3)
	assert.Equal(t, 6, s.NumFeatures())
	assert.Equal(t, 15, s.Len())

	for _, f := range s.Labels().Labels() {
		vals, exists := s.Get(f)
		require.True(t, exists)
		assert.InDelta(t, vals[0], vals[7], 1e-9, f.String())
		assert.InDelta(t, vals[1], vals[8], 1e-9, f.String())
		for _, v := range vals {
			assert.False(t, math.IsNaN(v))
			assert.LessOrEqual(t, math.Abs(v), 1.0+1e-12)
		}
	}

	assert.Equal(t, 0, Weekly(tSeries, 0).NumFeatures())
}
