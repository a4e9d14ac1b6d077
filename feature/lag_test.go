package feature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLagString(t *testing.T) {
	assert.Equal(t, "lag_07", NewLag(7).String())
	assert.Equal(t, "exog_Holiday", NewExogenous("Holiday").String())
}

func TestLagGenerate(t *testing.T) {
	testData := map[string]struct {
		order    int
		y        []float64
		expected []float64
	}{
		"empty": {
			order:    1,
			y:        []float64{},
			expected: []float64{},
		},
		"lag one": {
			order:    1,
			y:        []float64{1, 2, 3},
			expected: []float64{math.NaN(), 1, 2},
		},
		"lag longer than series": {
			order:    5,
			y:        []float64{1, 2},
			expected: []float64{math.NaN(), math.NaN()},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := NewLag(td.order).Generate(td.y)
			assert.Len(t, res, len(td.expected))
			for i, exp := range td.expected {
				if math.IsNaN(exp) {
					assert.True(t, math.IsNaN(res[i]), "index %d", i)
					continue
				}
				assert.Equal(t, exp, res[i])
			}
		})
	}
}
