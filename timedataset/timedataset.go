package timedataset

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"
)

var (
	ErrNoTrainingData     = errors.New("no training data")
	ErrNonMontonic        = errors.New("time feature is not monotonic")
	ErrDatasetLenMismatch = errors.New("time feature has a different length than observations")
	ErrCannotInferFreq    = errors.New("cannot infer frequency from time slice")
)

// TimeDataset represents a time series storing a slice of time points and values.
// Both must be of the same length.
type TimeDataset struct {
	T []time.Time `json:"time"`
	Y []float64   `json:"values"`
}

// NewUnivariateDataset returns an instance of a TimeDataset given a time and value slice.
func NewUnivariateDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	if len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}

	if err := checkMonotonic(t); err != nil {
		return nil, err
	}

	return &TimeDataset{T: slices.Clone(t), Y: slices.Clone(y)}, nil
}

func checkMonotonic(t []time.Time) error {
	for i := 1; i < len(t); i++ {
		if !t[i].After(t[i-1]) {
			return fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMontonic)
		}
	}
	return nil
}

// Len returns the number of observations
func (td *TimeDataset) Len() int {
	if td == nil {
		return 0
	}
	return len(td.T)
}

// Copy returns a deep copy of the dataset
func (td *TimeDataset) Copy() *TimeDataset {
	return td.window(0, len(td.T))
}

// Head returns a copy of the first n observations. If n exceeds the length of the dataset
// the entire dataset is copied.
func (td *TimeDataset) Head(n int) *TimeDataset {
	return td.window(0, clamp(n, len(td.T)))
}

// Tail returns a copy of the last n observations.
func (td *TimeDataset) Tail(n int) *TimeDataset {
	return td.window(len(td.T)-clamp(n, len(td.T)), len(td.T))
}

func (td *TimeDataset) window(start, end int) *TimeDataset {
	return &TimeDataset{
		T: slices.Clone(td.T[start:end:end]),
		Y: slices.Clone(td.Y[start:end:end]),
	}
}

func clamp(n, limit int) int {
	return max(0, min(n, limit))
}

// DropNan returns a copy of the dataset without any NaN observations
func (td *TimeDataset) DropNan() *TimeDataset {
	if td == nil {
		return nil
	}
	res := &TimeDataset{
		T: make([]time.Time, 0, len(td.T)),
		Y: make([]float64, 0, len(td.Y)),
	}
	for i := 0; i < len(td.T); i++ {
		if math.IsNaN(td.Y[i]) {
			continue
		}
		res.T = append(res.T, td.T[i])
		res.Y = append(res.Y, td.Y[i])
	}
	return res
}
