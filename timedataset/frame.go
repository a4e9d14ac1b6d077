package timedataset

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	ErrColumnExists   = errors.New("column already exists in frame")
	ErrColumnNotFound = errors.New("column not found in frame")
	ErrColumnLen      = errors.New("column length does not match frame index")
)

// Frame is a date indexed table of named float columns. Columns keep their insertion order.
type Frame struct {
	T    []time.Time
	cols map[string][]float64
	name []string
}

// NewFrame creates an empty frame over the time index. The index must be strictly
// increasing.
func NewFrame(t []time.Time) (*Frame, error) {
	if err := checkMonotonic(t); err != nil {
		return nil, err
	}
	tIdx := make([]time.Time, len(t))
	copy(tIdx, t)
	return &Frame{
		T:    tIdx,
		cols: make(map[string][]float64),
	}, nil
}

// AddColumn copies the values into a new column
func (f *Frame) AddColumn(name string, vals []float64) error {
	if _, exists := f.cols[name]; exists {
		return fmt.Errorf("%s, %w", name, ErrColumnExists)
	}
	if len(vals) != len(f.T) {
		return fmt.Errorf("column %s has %d values, but index has %d, %w", name, len(vals), len(f.T), ErrColumnLen)
	}
	c := make([]float64, len(vals))
	copy(c, vals)
	f.cols[name] = c
	f.name = append(f.name, name)
	return nil
}

// Column returns a copy of the named column
func (f *Frame) Column(name string) ([]float64, bool) {
	if f == nil {
		return nil, false
	}
	c, exists := f.cols[name]
	if !exists {
		return nil, false
	}
	res := make([]float64, len(c))
	copy(res, c)
	return res, true
}

func (f *Frame) HasColumn(name string) bool {
	if f == nil {
		return false
	}
	_, exists := f.cols[name]
	return exists
}

// Columns returns the column names in insertion order
func (f *Frame) Columns() []string {
	if f == nil {
		return nil
	}
	return slices.Clone(f.name)
}

func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.T)
}

// Head returns a copy of the first n rows
func (f *Frame) Head(n int) *Frame {
	n = max(min(n, len(f.T)), 0)
	res := &Frame{
		T:    slices.Clone(f.T[:n]),
		cols: make(map[string][]float64, len(f.cols)),
		name: slices.Clone(f.name),
	}
	for name, c := range f.cols {
		res.cols[name] = slices.Clone(c[:n])
	}
	return res
}

// Slice returns a copy of rows [start, end)
func (f *Frame) Slice(start, end int) *Frame {
	end = max(min(end, len(f.T)), 0)
	start = max(min(start, end), 0)
	res := &Frame{
		T:    slices.Clone(f.T[start:end]),
		cols: make(map[string][]float64, len(f.cols)),
		name: slices.Clone(f.name),
	}
	for name, c := range f.cols {
		res.cols[name] = slices.Clone(c[start:end])
	}
	return res
}

// Select returns a copy of the frame holding only the requested columns in the given order
func (f *Frame) Select(names ...string) (*Frame, error) {
	res := &Frame{
		T:    slices.Clone(f.T),
		cols: make(map[string][]float64, len(names)),
	}
	for _, name := range names {
		c, exists := f.cols[name]
		if !exists {
			return nil, fmt.Errorf("%s, %w", name, ErrColumnNotFound)
		}
		if err := res.AddColumn(name, c); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (f *Frame) Copy() *Frame {
	if f == nil {
		return nil
	}
	return f.Head(len(f.T))
}

// Series returns the named column as a univariate dataset
func (f *Frame) Series(name string) (*TimeDataset, error) {
	c, exists := f.cols[name]
	if !exists {
		return nil, fmt.Errorf("%s, %w", name, ErrColumnNotFound)
	}
	return NewUnivariateDataset(f.T, c)
}

// Row returns the values of the requested columns at row i
func (f *Frame) Row(i int, names []string) ([]float64, error) {
	row := make([]float64, 0, len(names))
	for _, name := range names {
		c, exists := f.cols[name]
		if !exists {
			return nil, fmt.Errorf("%s, %w", name, ErrColumnNotFound)
		}
		row = append(row, c[i])
	}
	return row, nil
}
