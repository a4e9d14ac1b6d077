// Package mat holds helpers for building gonum dense matrices from plain slices.
package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrColMismatch = errors.New("column size mismatch")
	ErrRowMismatch = errors.New("row size mismatch")
	ErrNoColumns   = errors.New("no columns to stack")
)

// NewDenseFromArray builds an m x n matrix from row major input
func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)

	n := -1
	for i, row := range x {
		if n >= 0 && len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		if n < 0 {
			n = len(row)
		}
	}
	if n < 0 {
		n = 0
	}

	// flatten to row order
	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// NewDenseFromColumns builds an m x n matrix where each input slice becomes one column
func NewDenseFromColumns(cols [][]float64) (*mat.Dense, error) {
	n := len(cols)
	if n == 0 {
		return nil, ErrNoColumns
	}
	m := len(cols[0])
	for j, col := range cols {
		if len(col) != m {
			return nil, fmt.Errorf("column %d has %d rows, expected %d, %w", j, len(col), m, ErrRowMismatch)
		}
	}

	data := make([]float64, m*n)
	for j, col := range cols {
		for i, v := range col {
			data[i*n+j] = v
		}
	}
	return mat.NewDense(m, n, data), nil
}
