// Package forecaster turns a sales or orders forecast selection into a normalized forecast
// with an accuracy note. It dispatches to recursive regression, classical ARIMA models or
// precomputed tables depending on the selected model.
package forecaster

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/aouyang1/go-salesforecaster/arima"
	"github.com/aouyang1/go-salesforecaster/catalog"
	"github.com/aouyang1/go-salesforecaster/precomputed"
	"github.com/aouyang1/go-salesforecaster/recursive"
	"github.com/aouyang1/go-salesforecaster/repository"
	"github.com/aouyang1/go-salesforecaster/segment"
	"github.com/aouyang1/go-salesforecaster/timedataset"
)

var (
	ErrIncompleteConfig = errors.New("incomplete forecaster configuration")
	ErrNoHistory        = errors.New("no observed values for target")
)

// Config holds the collaborators of a Forecaster. It is read only once New returns.
type Config struct {
	Parameters  *catalog.ParameterCatalog
	Accuracy    *catalog.AccuracyRegistry
	Precomputed *precomputed.Store
	Data        repository.DataSource

	// Preparer defaults to one using the built in holiday calendar
	Preparer *repository.Preparer

	// Options defaults to NewDefaultOptions
	Options *Options
}

// Forecaster serves forecast requests. Every request recomputes from the data source and
// no state is shared between requests.
type Forecaster struct {
	params      *catalog.ParameterCatalog
	accuracy    *catalog.AccuracyRegistry
	precomputed *precomputed.Store
	data        repository.DataSource
	preparer    *repository.Preparer

	opt    *Options
	logger *slog.Logger
}

// New validates the configuration
func New(cfg Config) (*Forecaster, error) {
	if cfg.Parameters == nil {
		return nil, fmt.Errorf("no parameter catalog, %w", ErrIncompleteConfig)
	}
	if cfg.Accuracy == nil {
		return nil, fmt.Errorf("no accuracy registry, %w", ErrIncompleteConfig)
	}
	if cfg.Precomputed == nil {
		return nil, fmt.Errorf("no precomputed store, %w", ErrIncompleteConfig)
	}
	if cfg.Data == nil {
		return nil, fmt.Errorf("no data source, %w", ErrIncompleteConfig)
	}
	for _, entity := range segment.Entities() {
		if _, err := cfg.Parameters.Lookup(entity); err != nil {
			return nil, fmt.Errorf("%v, %w", err, ErrIncompleteConfig)
		}
	}

	opt, err := cfg.Options.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid options, %w", err)
	}
	preparer := cfg.Preparer
	if preparer == nil {
		preparer = repository.NewPreparer(nil)
	}

	return &Forecaster{
		params:      cfg.Parameters,
		accuracy:    cfg.Accuracy,
		precomputed: cfg.Precomputed,
		data:        cfg.Data,
		preparer:    preparer,
		opt:         opt,
		logger:      opt.Logger,
	}, nil
}

// Options returns the validated options in use
func (f *Forecaster) Options() *Options {
	return f.opt
}

// entityData is the prepared data of one entity and target
type entityData struct {
	params catalog.Parameters

	// prepared holds the target and exogenous columns of the history
	prepared *timedataset.Frame

	// future holds the exogenous columns after the history
	future *timedataset.Frame

	history *timedataset.TimeDataset
}

func (f *Forecaster) fetch(entity segment.Entity, target segment.Target) (*entityData, error) {
	params, err := f.params.Lookup(entity)
	if err != nil {
		return nil, err
	}
	raw, rawExog, err := f.data.Fetch(entity)
	if err != nil {
		return nil, err
	}
	prepared, err := f.preparer.Prepare(raw, target)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare history, %w", err)
	}
	if prepared.Len() == 0 {
		return nil, fmt.Errorf("%s %s, %w", entity, target, ErrNoHistory)
	}
	future, err := f.preparer.PrepareExogenous(rawExog)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare exogenous data, %w", err)
	}
	future = after(future, prepared.T[prepared.Len()-1])

	series, err := prepared.Series(target.String())
	if err != nil {
		return nil, fmt.Errorf("%v, %w", err, ErrNoHistory)
	}
	history := series.DropNan()
	if history.Len() == 0 {
		return nil, fmt.Errorf("%s %s, %w", entity, target, ErrNoHistory)
	}

	return &entityData{
		params:   params,
		prepared: prepared,
		future:   future,
		history:  history,
	}, nil
}

// Forecast runs a request through validation, data fetching, model dispatch and output
// normalization. Errors are a *Failure naming the stage that failed.
func (f *Forecaster) Forecast(req Request) (*Response, error) {
	logger := f.logger.With(
		"entity", req.Entity.String(),
		"target", req.Target.String(),
		"model", req.Model.String(),
		"horizon", req.Horizon,
	)
	fail := func(stage Stage, err error) error {
		logger.Error("unable to forecast", "stage", stage.String(), "error", err.Error())
		return &Failure{Stage: stage, Err: err}
	}

	if err := req.Validate(); err != nil {
		return nil, fail(Validating, err)
	}

	// precomputed forecasts never touch the data repository
	var data *entityData
	if !req.Model.Precomputed() {
		var err error
		data, err = f.fetch(req.Entity, req.Target)
		if err != nil {
			return nil, fail(Fetching, err)
		}
	}

	var (
		ds  *timedataset.TimeDataset
		err error
	)
	if req.Model.Precomputed() {
		ds, err = f.precomputed.Lookup(req.Entity, req.Target, req.Horizon)
	} else {
		ds, err = f.predict(req, data.params, data.prepared, data.future)
	}
	if err != nil {
		return nil, fail(Dispatching, err)
	}

	var (
		history *timedataset.TimeDataset
		next    time.Time
	)
	if req.Model.Precomputed() {
		history = f.attachHistory(req.Entity, req.Target, logger)
	} else {
		history = data.history
		next, err = timedataset.TimeSlice(history.T).Next()
		if err != nil {
			return nil, fail(Normalizing, fmt.Errorf("%v, %w", err, ErrNoHistory))
		}
	}

	res, err := normalize(req, ds, next)
	if err != nil {
		return nil, fail(Normalizing, err)
	}
	if res.Truncated() {
		logger.Warn("forecast truncated", "actual_horizon", res.Horizon())
	}

	resp := &Response{
		Request: req,
		Result:  res,
		History: history,
	}
	if annotation, ok := f.accuracy.Resolve(req.Entity, req.Target, req.Model); ok {
		resp.Annotation = &annotation
	}
	logger.Info("forecast complete", "stage", Done.String(), "actual_horizon", res.Horizon())
	return resp, nil
}

// attachHistory loads the observed series shown next to a precomputed forecast. The
// forecast does not depend on it so any failure only drops the history.
func (f *Forecaster) attachHistory(entity segment.Entity, target segment.Target, logger *slog.Logger) *timedataset.TimeDataset {
	data, err := f.fetch(entity, target)
	if err != nil {
		logger.Debug("no history for precomputed forecast", "error", err.Error())
		return nil
	}
	return data.history
}

// predict fits the selected live model on train and forecasts req.Horizon steps. future
// holds the exogenous rows following train.
func (f *Forecaster) predict(req Request, params catalog.Parameters, train, future *timedataset.Frame) (*timedataset.TimeDataset, error) {
	target := req.Target.String()
	exogCols := repository.ExogenousColumns()

	switch req.Model {
	case segment.LinearRegression, segment.XGBoost:
		flag := recursive.FlagLinear
		if req.Model == segment.XGBoost {
			flag = recursive.FlagBoosted
		}
		return recursive.Forecast(train, future.Head(req.Horizon), target, flag, f.opt.Recursive)
	case segment.ARIMA:
		complete, err := completeRows(train, target)
		if err != nil {
			return nil, err
		}
		series, err := complete.Series(target)
		if err != nil {
			return nil, fmt.Errorf("%v, %w", err, ErrNoHistory)
		}
		return arima.ForecastARIMA(series, req.Horizon, params.ARIMA, f.opt.ARIMA)
	case segment.SARIMAX:
		complete, err := completeRows(train, append([]string{target}, exogCols...)...)
		if err != nil {
			return nil, err
		}
		series, err := complete.Series(target)
		if err != nil {
			return nil, fmt.Errorf("%v, %w", err, ErrNoHistory)
		}
		exogTrain, err := complete.Select(exogCols...)
		if err != nil {
			return nil, fmt.Errorf("%v, %w", err, arima.ErrExogenousMismatch)
		}
		exogFuture, err := future.Select(exogCols...)
		if err != nil {
			return nil, fmt.Errorf("%v, %w", err, arima.ErrExogenousMismatch)
		}
		return arima.ForecastSARIMAX(series, req.Horizon, exogTrain, exogFuture, params.SARIMAX, params.Seasonal, f.opt.ARIMA)
	case segment.Prophet:
		return nil, fmt.Errorf("%s forecasts are precomputed, %w", req.Model, ErrUnsupportedModel)
	default:
		return nil, fmt.Errorf("%s, %w", req.Model, ErrUnsupportedModel)
	}
}

// after drops the leading rows of frame dated on or before t
func after(frame *timedataset.Frame, t time.Time) *timedataset.Frame {
	start := sort.Search(frame.Len(), func(i int) bool {
		return frame.T[i].After(t)
	})
	return frame.Slice(start, frame.Len())
}

// completeRows keeps the rows where every named column is finite
func completeRows(frame *timedataset.Frame, cols ...string) (*timedataset.Frame, error) {
	vals := make([][]float64, len(cols))
	for i, col := range cols {
		v, exists := frame.Column(col)
		if !exists {
			return nil, fmt.Errorf("%s, %w", col, timedataset.ErrColumnNotFound)
		}
		vals[i] = v
	}

	keep := make([]int, 0, frame.Len())
	for r := 0; r < frame.Len(); r++ {
		ok := true
		for _, v := range vals {
			if math.IsNaN(v[r]) || math.IsInf(v[r], 0) {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, r)
		}
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("no complete rows, %w", ErrNoHistory)
	}

	t := make([]time.Time, len(keep))
	for i, r := range keep {
		t[i] = frame.T[r]
	}
	res, err := timedataset.NewFrame(t)
	if err != nil {
		return nil, err
	}
	for i, col := range cols {
		sub := make([]float64, len(keep))
		for j, r := range keep {
			sub[j] = vals[i][r]
		}
		if err := res.AddColumn(col, sub); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// normalize checks the model output and wraps it as a Result. Classical models must
// produce exactly the requested horizon while recursive and precomputed output may be
// truncated. Live forecasts must start exactly on next, the date following the last
// observation.
func normalize(req Request, ds *timedataset.TimeDataset, next time.Time) (*Result, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, fmt.Errorf("empty forecast, %w", ErrInvalidForecast)
	}
	if len(ds.T) != len(ds.Y) {
		return nil, fmt.Errorf("%d dates for %d values, %w", len(ds.T), len(ds.Y), ErrInvalidForecast)
	}

	n := ds.Len()
	switch req.Model {
	case segment.ARIMA, segment.SARIMAX:
		if n != req.Horizon {
			return nil, fmt.Errorf("got %d points for horizon %d, %w", n, req.Horizon, ErrInvalidForecast)
		}
	default:
		if n > req.Horizon {
			return nil, fmt.Errorf("got %d points for horizon %d, %w", n, req.Horizon, ErrInvalidForecast)
		}
	}

	for i := 1; i < n; i++ {
		if !ds.T[i].After(ds.T[i-1]) {
			return nil, fmt.Errorf("date %s does not follow %s, %w",
				ds.T[i].Format(dateLayout), ds.T[i-1].Format(dateLayout), ErrInvalidForecast)
		}
	}
	for i, v := range ds.Y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("value at %s is not finite, %w", ds.T[i].Format(dateLayout), ErrInvalidForecast)
		}
	}
	if !req.Model.Precomputed() && !ds.T[0].Equal(next) {
		return nil, fmt.Errorf("forecast starts at %s, expected %s, %w",
			ds.T[0].Format(dateLayout), next.Format(dateLayout), ErrInvalidForecast)
	}

	res := &Result{
		Target:           req.Target,
		T:                make([]time.Time, n),
		Values:           make([]float64, n),
		RequestedHorizon: req.Horizon,
	}
	copy(res.T, ds.T)
	copy(res.Values, ds.Y)
	return res, nil
}
