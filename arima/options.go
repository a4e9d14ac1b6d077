// Package arima fits seasonal ARIMA models by conditional sum of squares and forecasts
// them, optionally with exogenous regressors.
package arima

import (
	"errors"
	"fmt"
)

var (
	ErrModelFitFailure     = errors.New("model fit failure")
	ErrExogenousMismatch   = errors.New("exogenous regressors do not match the series")
	ErrInvalidOrder        = errors.New("invalid model order")
	ErrNonPositiveHorizon  = errors.New("horizon must be positive")
	ErrInvalidOptimization = errors.New("invalid optimizer settings")
)

// Order is the non seasonal (p, d, q) order
type Order struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

func (o Order) String() string {
	return fmt.Sprintf("(%d,%d,%d)", o.P, o.D, o.Q)
}

// Validate rejects negative orders
func (o Order) Validate() error {
	if o.P < 0 || o.D < 0 || o.Q < 0 {
		return fmt.Errorf("%s has a negative term, %w", o, ErrInvalidOrder)
	}
	return nil
}

// SeasonalOrder is the seasonal (P, D, Q, s) order where s is the period in observations
type SeasonalOrder struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
	S int `json:"s"`
}

func (o SeasonalOrder) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", o.P, o.D, o.Q, o.S)
}

// IsZero reports whether the order carries no seasonal terms
func (o SeasonalOrder) IsZero() bool {
	return o.P == 0 && o.D == 0 && o.Q == 0
}

// Validate rejects negative orders and seasonal terms without a period of at least 2
func (o SeasonalOrder) Validate() error {
	if o.P < 0 || o.D < 0 || o.Q < 0 || o.S < 0 {
		return fmt.Errorf("%s has a negative term, %w", o, ErrInvalidOrder)
	}
	if !o.IsZero() && o.S < 2 {
		return fmt.Errorf("%s needs a seasonal period of at least 2, %w", o, ErrInvalidOrder)
	}
	return nil
}

// Options configures the conditional sum of squares optimizer
type Options struct {
	// MaxIterations bounds the major iterations of the Nelder-Mead search
	MaxIterations int `json:"max_iterations"`

	// MaxEvaluations bounds the number of objective evaluations
	MaxEvaluations int `json:"max_evaluations"`

	// Tolerance is the absolute and relative change of the objective below which the
	// search is considered converged
	Tolerance float64 `json:"tolerance"`

	// ConvergeIterations is the number of iterations the objective must stay within
	// Tolerance before declaring convergence
	ConvergeIterations int `json:"converge_iterations"`

	// MinResidualDOF is the number of residuals required beyond the number of parameters
	MinResidualDOF int `json:"min_residual_dof"`
}

func NewDefaultOptions() *Options {
	return &Options{
		MaxIterations:      10000,
		MaxEvaluations:     50000,
		Tolerance:          1e-9,
		ConvergeIterations: 200,
		MinResidualDOF:     10,
	}
}

// Validate fills in defaults for nil options and rejects non positive limits
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	if o.MaxIterations <= 0 || o.MaxEvaluations <= 0 || o.ConvergeIterations <= 0 {
		return nil, fmt.Errorf("iteration limits must be positive, %w", ErrInvalidOptimization)
	}
	if o.Tolerance <= 0 {
		return nil, fmt.Errorf("tolerance must be positive, %w", ErrInvalidOptimization)
	}
	if o.MinResidualDOF < 0 {
		return nil, fmt.Errorf("minimum residual degrees of freedom must be non negative, %w", ErrInvalidOptimization)
	}
	return o, nil
}
