// Package recursive forecasts a target several steps ahead with a one step regression model,
// feeding each prediction back in as lag history for the next step.
package recursive

import (
	"errors"
	"fmt"
	"slices"

	"github.com/aouyang1/go-salesforecaster/models"
)

var (
	ErrUnsupportedModel    = errors.New("unsupported recursive model")
	ErrExogenousMismatch   = errors.New("exogenous frame does not match the training frame")
	ErrInsufficientHistory = errors.New("insufficient history for lag features")
	ErrMissingColumn       = errors.New("training frame is missing a required column")
	ErrNonFinitePrediction = errors.New("model produced a non-finite prediction")
	ErrInvalidLag          = errors.New("lags must be positive")
	ErrInvalidWeeklyOrders = errors.New("weekly fourier orders must be between 0 and 3")
)

// Flag selects the one step regression model
type Flag string

const (
	FlagLinear  Flag = "lr"
	FlagBoosted Flag = "xgb"
)

func (f Flag) Valid() bool {
	switch f {
	case FlagLinear, FlagBoosted:
		return true
	}
	return false
}

const (
	ColumnHoliday          = "Holiday"
	ColumnDiscountedStores = "Discounted Stores"
)

// Options configures the features and regression model of the recursive forecaster
type Options struct {
	// Lags are the target lags in observations used as features
	Lags []int `json:"lags"`

	// ExogColumns must be present in both the training and the exogenous frames
	ExogColumns []string `json:"exog_columns"`

	// WeeklyOrders is the number of fourier orders of the weekly cycle. A 7 day period
	// sampled daily supports at most 3.
	WeeklyOrders int `json:"weekly_orders"`

	// MinTrainingRows is the minimum number of complete rows required beyond the number of
	// features
	MinTrainingRows int `json:"min_training_rows"`

	Boosting *models.GradientBoostingOptions `json:"boosting"`
}

func NewDefaultOptions() *Options {
	return &Options{
		Lags:            []int{1, 2, 3, 7, 14},
		ExogColumns:     []string{ColumnHoliday, ColumnDiscountedStores},
		WeeklyOrders:    3,
		MinTrainingRows: 10,
		Boosting:        models.NewDefaultGradientBoostingOptions(),
	}
}

// Validate fills in defaults for nil options and sorts and dedupes the lags
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	if len(o.Lags) == 0 {
		return nil, fmt.Errorf("no lags configured, %w", ErrInvalidLag)
	}
	for _, lag := range o.Lags {
		if lag <= 0 {
			return nil, fmt.Errorf("got %d, %w", lag, ErrInvalidLag)
		}
	}
	if o.WeeklyOrders < 0 || o.WeeklyOrders > 3 {
		return nil, fmt.Errorf("got %d, %w", o.WeeklyOrders, ErrInvalidWeeklyOrders)
	}

	boosting, err := o.Boosting.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid boosting options, %w", err)
	}

	lags := slices.Clone(o.Lags)
	slices.Sort(lags)
	return &Options{
		Lags:            slices.Compact(lags),
		ExogColumns:     slices.Clone(o.ExogColumns),
		WeeklyOrders:    o.WeeklyOrders,
		MinTrainingRows: max(o.MinTrainingRows, 1),
		Boosting:        boosting,
	}, nil
}

// MaxLag returns the largest configured lag
func (o *Options) MaxLag() int {
	return slices.Max(o.Lags)
}
