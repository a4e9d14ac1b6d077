package forecaster

import (
	"errors"
	"fmt"
	"math"

	"github.com/aouyang1/go-salesforecaster/repository"
	"github.com/aouyang1/go-salesforecaster/segment"
	"github.com/aouyang1/go-salesforecaster/stats"
	"github.com/aouyang1/go-salesforecaster/timedataset"
)

var (
	ErrNotBacktestable      = errors.New("model cannot be backtested")
	ErrInsufficientBacktest = errors.New("history too short to hold out test days")
)

// BacktestResult compares a forecast of the held out days with what was observed
type BacktestResult struct {
	Request Request       `json:"request"`
	Result  *Result       `json:"result"`
	Actual  []float64     `json:"actual"`
	Scores  *stats.Scores `json:"scores"`
}

// Backtest holds out the last testDays rows of the entity history, forecasts them with the
// selected model trained on the rest and scores the forecast against the held out values.
// A testDays below 1 uses the configured backtest days. Precomputed models cannot be
// backtested.
func (f *Forecaster) Backtest(entity segment.Entity, target segment.Target, model segment.Model, testDays int) (*BacktestResult, error) {
	if testDays < 1 {
		testDays = f.opt.BacktestDays
	}
	req := Request{Entity: entity, Target: target, Model: model, Horizon: testDays}
	if err := req.Validate(); err != nil {
		return nil, &Failure{Stage: Validating, Err: err}
	}
	if model.Precomputed() {
		return nil, &Failure{Stage: Validating, Err: fmt.Errorf("%s, %w", model, ErrNotBacktestable)}
	}
	logger := f.logger.With(
		"entity", entity.String(),
		"target", target.String(),
		"model", model.String(),
		"test_days", testDays,
	)

	data, err := f.fetch(entity, target)
	if err != nil {
		return nil, &Failure{Stage: Fetching, Err: err}
	}
	n := data.prepared.Len()
	if n <= testDays {
		return nil, &Failure{Stage: Fetching, Err: fmt.Errorf("%d rows for %d test days, %w", n, testDays, ErrInsufficientBacktest)}
	}
	train := data.prepared.Head(n - testDays)
	holdout := data.prepared.Slice(n-testDays, n)
	future, err := holdout.Select(repository.ExogenousColumns()...)
	if err != nil {
		return nil, &Failure{Stage: Fetching, Err: err}
	}

	ds, err := f.predict(req, data.params, train, future)
	if err != nil {
		logger.Error("unable to backtest", "stage", Dispatching.String(), "error", err.Error())
		return nil, &Failure{Stage: Dispatching, Err: err}
	}
	next, err := timedataset.TimeSlice(train.T).Next()
	if err != nil {
		return nil, &Failure{Stage: Fetching, Err: fmt.Errorf("%v, %w", err, ErrInsufficientBacktest)}
	}
	res, err := normalize(req, ds, next)
	if err != nil {
		return nil, &Failure{Stage: Normalizing, Err: err}
	}

	observed, _ := holdout.Column(target.String())
	byDate := make(map[int64]float64, len(observed))
	for i, t := range holdout.T {
		byDate[t.Unix()] = observed[i]
	}
	actual := make([]float64, res.Horizon())
	for i, t := range res.T {
		v, exists := byDate[t.Unix()]
		if !exists {
			v = math.NaN()
		}
		actual[i] = v
	}

	scores, err := stats.NewScores(res.Values, actual)
	if err != nil {
		return nil, &Failure{Stage: Normalizing, Err: fmt.Errorf("unable to score backtest, %w", err)}
	}
	logger.Info("backtest complete", "mape", scores.MAPE, "mse", scores.MSE, "r2", scores.R2)

	return &BacktestResult{
		Request: req,
		Result:  res,
		Actual:  actual,
		Scores:  scores,
	}, nil
}
