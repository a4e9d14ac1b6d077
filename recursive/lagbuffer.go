package recursive

import (
	"fmt"
	"math"
)

// LagBuffer holds the most recent target values of a single forecast request. It starts
// from observed history and is extended with each prediction.
type LagBuffer struct {
	values []float64
	size   int
}

// NewLagBuffer keeps the last size values of history. Every kept value must be finite.
func NewLagBuffer(history []float64, size int) (*LagBuffer, error) {
	if size <= 0 || len(history) < size {
		return nil, fmt.Errorf("need %d observations, got %d, %w", size, len(history), ErrInsufficientHistory)
	}
	values := make([]float64, size)
	copy(values, history[len(history)-size:])
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("observation %d steps back is not finite, %w", size-i, ErrInsufficientHistory)
		}
	}
	return &LagBuffer{values: values, size: size}, nil
}

// Lag returns the value k steps back where 1 is the most recent
func (b *LagBuffer) Lag(k int) float64 {
	return b.values[len(b.values)-k]
}

// Push appends the newest value and drops the oldest
func (b *LagBuffer) Push(v float64) {
	copy(b.values, b.values[1:])
	b.values[b.size-1] = v
}
