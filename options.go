package forecaster

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aouyang1/go-salesforecaster/arima"
	"github.com/aouyang1/go-salesforecaster/recursive"
	"github.com/aouyang1/go-salesforecaster/repository"
)

var (
	ErrNonPositiveHorizon      = errors.New("default horizon must be between 1 and the maximum horizon")
	ErrNonPositiveBacktestDays = errors.New("backtest days must be positive")
	ErrNonPositiveWorkers      = errors.New("compare workers must be positive")
)

const (
	// DefaultHorizon is used when a requested horizon is missing, unparsable or below 1
	DefaultHorizon = 30

	// DefaultBacktestDays matches the hold out window the catalog accuracy was measured on
	DefaultBacktestDays = 61

	// DefaultCompareWorkers bounds how many models Compare fits at once
	DefaultCompareWorkers = 4
)

// Options configures the orchestrator and the forecasting strategies it dispatches to
type Options struct {
	DefaultHorizon int `json:"default_horizon"`
	BacktestDays   int `json:"backtest_days"`
	CompareWorkers int `json:"compare_workers"`

	Recursive *recursive.Options `json:"recursive"`
	ARIMA     *arima.Options     `json:"arima"`

	Logger *slog.Logger `json:"-"`
}

// NewDefaultOptions uses the Holiday and Discounted Stores regressors for the recursive
// models and default optimizer limits for the classical ones
func NewDefaultOptions() *Options {
	rec := recursive.NewDefaultOptions()
	rec.ExogColumns = repository.ExogenousColumns()
	return &Options{
		DefaultHorizon: DefaultHorizon,
		BacktestDays:   DefaultBacktestDays,
		CompareWorkers: DefaultCompareWorkers,
		Recursive:      rec,
		ARIMA:          arima.NewDefaultOptions(),
		Logger:         slog.Default(),
	}
}

// Validate returns a validated copy with defaults filled in for nil sub options
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	if o.DefaultHorizon < 1 || o.DefaultHorizon > MaxHorizon {
		return nil, fmt.Errorf("got %d, must be between 1 and %d, %w", o.DefaultHorizon, MaxHorizon, ErrNonPositiveHorizon)
	}
	if o.BacktestDays < 1 {
		return nil, fmt.Errorf("got %d, %w", o.BacktestDays, ErrNonPositiveBacktestDays)
	}
	if o.CompareWorkers < 1 {
		return nil, fmt.Errorf("got %d, %w", o.CompareWorkers, ErrNonPositiveWorkers)
	}

	rec := o.Recursive
	if rec == nil {
		rec = recursive.NewDefaultOptions()
		rec.ExogColumns = repository.ExogenousColumns()
	}
	rec, err := rec.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid recursive options, %w", err)
	}
	arimaOpt, err := o.ARIMA.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid arima options, %w", err)
	}

	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Options{
		DefaultHorizon: o.DefaultHorizon,
		BacktestDays:   o.BacktestDays,
		CompareWorkers: o.CompareWorkers,
		Recursive:      rec,
		ARIMA:          arimaOpt,
		Logger:         logger,
	}, nil
}
