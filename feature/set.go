package feature

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Set represents a mapping to each feature data keyed by the string representation
// of the feature. All features share the same number of observations, m.
type Set struct {
	m      int
	set    map[string][]float64
	labels []Feature
}

func NewSet() *Set {
	return &Set{
		set: make(map[string][]float64),
	}
}

// Len returns the number of observations tracked by the set
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return s.m
}

// NumFeatures returns the number of tracked features
func (s *Set) NumFeatures() int {
	if s == nil {
		return 0
	}
	return len(s.labels)
}

// Set stores the data for a feature. Shorter data is zero padded to the set length and
// longer data zero pads every existing feature.
func (s *Set) Set(f Feature, data []float64) *Set {
	if s.set == nil {
		s.set = make(map[string][]float64)
	}
	if len(data) > s.m {
		for label, vals := range s.set {
			padded := make([]float64, len(data))
			copy(padded, vals)
			s.set[label] = padded
		}
		s.m = len(data)
	}
	vals := make([]float64, s.m)
	copy(vals, data)

	label := f.String()
	if _, exists := s.set[label]; !exists {
		s.labels = append(s.labels, f)
	}
	s.set[label] = vals
	return s
}

// Get returns the data of a feature
func (s *Set) Get(f Feature) ([]float64, bool) {
	if s == nil {
		return nil, false
	}
	vals, exists := s.set[f.String()]
	return vals, exists
}

// Del removes features from the set
func (s *Set) Del(fs ...Feature) *Set {
	for _, f := range fs {
		label := f.String()
		if _, exists := s.set[label]; !exists {
			continue
		}
		delete(s.set, label)
		for i, l := range s.labels {
			if l.String() == label {
				s.labels = append(s.labels[:i], s.labels[i+1:]...)
				break
			}
		}
	}
	if len(s.labels) == 0 {
		s.m = 0
	}
	return s
}

// Update copies every feature of other into the set
func (s *Set) Update(other *Set) *Set {
	if other == nil {
		return s
	}
	for _, f := range other.labels {
		s.Set(f, other.set[f.String()])
	}
	return s
}

// Slice returns a new set holding observations in [start, end)
func (s *Set) Slice(start, end int) *Set {
	res := NewSet()
	for _, f := range s.labels {
		res.Set(f, s.set[f.String()][start:end])
	}
	return res
}

// Labels returns the features sorted by their string representation. The order matches
// the columns of Matrix.
func (s *Set) Labels() *Labels {
	if s == nil {
		return nil
	}

	labels := make([]Feature, len(s.labels))
	copy(labels, s.labels)
	sort.Slice(
		labels,
		func(i, j int) bool {
			return labels[i].String() < labels[j].String()
		},
	)
	return NewLabels(labels)
}

// PruneConstant removes every feature whose values never change and returns the removed
// features. A constant column is indistinguishable from the intercept.
func (s *Set) PruneConstant() []Feature {
	var removed []Feature
	for _, f := range s.Labels().Labels() {
		vals := s.set[f.String()]
		if len(vals) == 0 || floats.Max(vals) == floats.Min(vals) {
			removed = append(removed, f)
		}
	}
	s.Del(removed...)
	return removed
}

// Matrix returns a metric representation of the FeatureSet to be used with matrix methods
// The matrix has m rows representing the number of observations and n columns representing
// the number of features.
func (s *Set) Matrix(intercept bool) *mat.Dense {
	if s == nil {
		return nil
	}

	featureLabels := s.Labels()
	if featureLabels.Len() == 0 || s.m == 0 {
		return nil
	}

	m := s.m
	n := featureLabels.Len()
	if intercept {
		n += 1
	}

	obs := make([]float64, m*n)

	featNum := 0
	if intercept {
		for i := 0; i < m; i++ {
			idx := n * i
			obs[idx] = 1.0
		}
		featNum += 1
	}

	for _, label := range featureLabels.Labels() {
		data := s.set[label.String()]
		for i := 0; i < len(data); i++ {
			idx := n*i + featNum
			obs[idx] = data[i]
		}
		featNum += 1
	}
	return mat.NewDense(m, n, obs)
}

// Rows returns a new set holding the observations at the given indices in order
func (s *Set) Rows(idx []int) *Set {
	res := NewSet()
	for _, f := range s.labels {
		vals := s.set[f.String()]
		sub := make([]float64, len(idx))
		for i, j := range idx {
			sub[i] = vals[j]
		}
		res.Set(f, sub)
	}
	return res
}

// RowFinite reports whether every feature has a finite value at observation i
func (s *Set) RowFinite(i int) bool {
	for _, vals := range s.set {
		if math.IsNaN(vals[i]) || math.IsInf(vals[i], 0) {
			return false
		}
	}
	return true
}
