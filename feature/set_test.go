package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSetSet(t *testing.T) {
	testData := map[string]struct {
		init     *Set
		f        Feature
		data     []float64
		expected *Set
	}{
		"initial set": {
			init: NewSet(),
			f:    NewLag(1),
			data: []float64{1, 2, 3, 4},
			expected: &Set{
				m: 4,
				set: map[string][]float64{
					"lag_01": {1, 2, 3, 4},
				},
				labels: []Feature{NewLag(1)},
			},
		},
		"set with more data": {
			init: &Set{
				m: 4,
				set: map[string][]float64{
					"lag_01": {1, 2, 3, 4},
				},
				labels: []Feature{NewLag(1)},
			},
			f:    NewExogenous("Holiday"),
			data: []float64{1, 2, 3, 4, 5, 6},
			expected: &Set{
				m: 6,
				set: map[string][]float64{
					"lag_01":       {1, 2, 3, 4, 0, 0},
					"exog_Holiday": {1, 2, 3, 4, 5, 6},
				},
				labels: []Feature{
					NewLag(1),
					NewExogenous("Holiday"),
				},
			},
		},
		"set with less data": {
			init: &Set{
				m: 4,
				set: map[string][]float64{
					"lag_01": {1, 2, 3, 4},
				},
				labels: []Feature{NewLag(1)},
			},
			f:    NewExogenous("Holiday"),
			data: []float64{1, 2},
			expected: &Set{
				m: 4,
				set: map[string][]float64{
					"lag_01":       {1, 2, 3, 4},
					"exog_Holiday": {1, 2, 0, 0},
				},
				labels: []Feature{
					NewLag(1),
					NewExogenous("Holiday"),
				},
			},
		},
		"overwrite existing": {
			init: &Set{
				m: 2,
				set: map[string][]float64{
					"lag_01": {1, 2},
				},
				labels: []Feature{NewLag(1)},
			},
			f:    NewLag(1),
			data: []float64{3, 4},
			expected: &Set{
				m: 2,
				set: map[string][]float64{
					"lag_01": {3, 4},
				},
				labels: []Feature{NewLag(1)},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			s := td.init.Set(td.f, td.data)
			assert.Equal(t, td.expected, s)
		})
	}
}

func TestSetDel(t *testing.T) {
	s := NewSet().
		Set(NewLag(1), []float64{1, 2}).
		Set(NewLag(2), []float64{3, 4})

	s.Del(NewLag(1), NewLag(7))
	assert.Equal(t, 1, s.NumFeatures())
	_, exists := s.Get(NewLag(1))
	assert.False(t, exists)
	vals, exists := s.Get(NewLag(2))
	require.True(t, exists)
	assert.Equal(t, []float64{3, 4}, vals)

	s.Del(NewLag(2))
	assert.Equal(t, 0, s.Len())
}

func TestSetUpdateSlice(t *testing.T) {
	s := NewSet().Set(NewLag(1), []float64{1, 2, 3})
	other := NewSet().Set(NewExogenous("Holiday"), []float64{0, 1, 0})

	s.Update(other)
	assert.Equal(t, []string{"exog_Holiday", "lag_01"}, s.Labels().Strings())

	sub := s.Slice(1, 3)
	assert.Equal(t, 2, sub.Len())
	vals, exists := sub.Get(NewLag(1))
	require.True(t, exists)
	assert.Equal(t, []float64{2, 3}, vals)
}

func TestMatrix(t *testing.T) {
	testData := map[string]struct {
		init      *Set
		intercept bool
		expected  *mat.Dense
	}{
		"nil set": {
			init:     nil,
			expected: nil,
		},
		"empty set": {
			init:     NewSet(),
			expected: nil,
		},
		"sorted columns": {
			init: NewSet().
				Set(NewLag(1), []float64{1, 2}).
				Set(NewExogenous("Holiday"), []float64{3, 4}),
			expected: mat.NewDense(2, 2, []float64{3, 1, 4, 2}),
		},
		"with intercept": {
			init: NewSet().
				Set(NewLag(1), []float64{1, 2}),
			intercept: true,
			expected:  mat.NewDense(2, 2, []float64{1, 1, 1, 2}),
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := td.init.Matrix(td.intercept)
			if td.expected == nil {
				assert.Nil(t, res)
				return
			}
			require.NotNil(t, res)
			assert.True(t, mat.Equal(td.expected, res))
		})
	}
}

func TestPruneConstant(t *testing.T) {
	s := NewSet().
		Set(NewLag(1), []float64{1, 2, 3}).
		Set(NewExogenous("Holiday"), []float64{0, 0, 0}).
		Set(NewExogenous("Discounted Stores"), []float64{5, 5, 5})

	removed := s.PruneConstant()
	require.Len(t, removed, 2)
	assert.Equal(t, "exog_Discounted Stores", removed[0].String())
	assert.Equal(t, "exog_Holiday", removed[1].String())
	assert.Equal(t, []string{"lag_01"}, s.Labels().Strings())
}
