// Package stats scores forecasts against held out actuals.
package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoValidPoints  = errors.New("no comparable points between predicted and actual")
)

// Scores tracks the fit scores
type Scores struct {
	MSE  float64 `json:"mean_squared_error"`
	MAE  float64 `json:"mean_absolute_error"`
	MAPE float64 `json:"mean_absolute_percent_error"`
	R2   float64 `json:"r_squared"`
}

// NewScores calculates the fit scores given the predicted and actual input slice values
func NewScores(predicted, actual []float64) (*Scores, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean squared error, %w", err)
	}
	mae, err := MAE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute error, %w", err)
	}
	mape, err := MAPE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute percent error, %w", err)
	}
	rs, err := RSquared(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute r-squared, %w", err)
	}

	return &Scores{
		MSE:  mse,
		MAE:  mae,
		MAPE: mape,
		R2:   rs,
	}, nil
}

// pairs drops every index where either side is NaN
func pairs(predicted, actual []float64, skipZeroActual bool) ([]float64, []float64, error) {
	if len(predicted) != len(actual) {
		return nil, nil, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	p := make([]float64, 0, len(predicted))
	a := make([]float64, 0, len(actual))
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		if skipZeroActual && actual[i] == 0 {
			continue
		}
		p = append(p, predicted[i])
		a = append(a, actual[i])
	}
	if len(a) == 0 {
		return nil, nil, ErrNoValidPoints
	}
	return p, a, nil
}

// MSE computes the mean squared error. This is the same as sum((y-yhat)^2)/n.
// A score of 0 means a perfect match with no errors.
func MSE(predicted, actual []float64) (float64, error) {
	p, a, err := pairs(predicted, actual, false)
	if err != nil {
		return 0, err
	}

	mse := 0.0
	for i := range a {
		mse += math.Pow(a[i]-p[i], 2.0)
	}
	return mse / float64(len(a)), nil
}

// MAE computes the mean absolute error
func MAE(predicted, actual []float64) (float64, error) {
	p, a, err := pairs(predicted, actual, false)
	if err != nil {
		return 0, err
	}

	mae := 0.0
	for i := range a {
		mae += math.Abs(a[i] - p[i])
	}
	return mae / float64(len(a)), nil
}

// MAPE calculates the mean absolute percent error as a percentage, 100*sum(abs((y-yhat)/y))/n.
// Zero actuals are skipped. A score of 0 means a perfect match with no errors.
func MAPE(predicted, actual []float64) (float64, error) {
	p, a, err := pairs(predicted, actual, true)
	if err != nil {
		return 0, err
	}

	mape := 0.0
	for i := range a {
		mape += math.Abs((a[i] - p[i]) / a[i])
	}
	return 100.0 * mape / float64(len(a)), nil
}

// RSquared computes the r squared value between the predicted and actual where 1.0 means perfect
// fit and 0 represents no relationship
func RSquared(predicted, actual []float64) (float64, error) {
	p, a, err := pairs(predicted, actual, false)
	if err != nil {
		return 0, err
	}
	r2 := stat.RSquaredFrom(p, a, nil)
	if math.IsNaN(r2) {
		return 1.0, nil
	}
	return r2, nil
}
