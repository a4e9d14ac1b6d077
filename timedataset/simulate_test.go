package timedataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateT(t *testing.T) {
	nowFunc := func() time.Time {
		return time.Date(1970, 1, 8, 0, 0, 0, 0, time.UTC)
	}

	numPnts := 7
	res := GenerateT(numPnts, 24*time.Hour, nowFunc)
	assert.Len(t, res, numPnts)

	assert.Equal(t, res[0], time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, res[numPnts-1], time.Date(1970, 1, 7, 0, 0, 0, 0, time.UTC))
}

func TestSeries(t *testing.T) {
	numPnts := 7
	s := Series(GenerateConstY(numPnts, 1))

	res := s.Add(GenerateConstY(numPnts, 2))
	require.Equal(t, Series([]float64{3, 3, 3, 3, 3, 3, 3}), res)

	res = GenerateConstY(3, 1).Add(GenerateTrendY(3, 2))
	require.Equal(t, Series([]float64{1, 3, 5}), res)
}

func TestGenerateNoiseSeeded(t *testing.T) {
	a := GenerateNoise(20, 3.0, 42)
	b := GenerateNoise(20, 3.0, 42)
	c := GenerateNoise(20, 3.0, 7)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGeneratePulseY(t *testing.T) {
	nowFunc := func() time.Time {
		return time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	}
	tSeries := GenerateT(7, 24*time.Hour, nowFunc)
	res := GeneratePulseY(tSeries, 5, func(t time.Time) bool {
		return t.Weekday() == time.Monday
	})
	// 2024-01-01 is a monday
	assert.Equal(t, Series([]float64{5, 0, 0, 0, 0, 0, 0}), res)
}
