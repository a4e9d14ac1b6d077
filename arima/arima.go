package arima

import (
	"fmt"
	"math"

	"github.com/aouyang1/go-salesforecaster/timedataset"
)

// forecastLevels fits the seasonal ARIMA model to y and returns h forecasts on the scale of y
func forecastLevels(y []float64, h int, order Order, seasonal SeasonalOrder, opt *Options) ([]float64, error) {
	diff := newDifferencing(y, order, seasonal)
	w := diff.stationary()
	if len(w) == 0 {
		return nil, fmt.Errorf("%d observations cannot be differenced by %s x %s, %w", len(y), order, seasonal, ErrModelFitFailure)
	}

	spec := sarma{
		p:        order.P,
		q:        order.Q,
		sp:       seasonal.P,
		sq:       seasonal.Q,
		s:        seasonal.S,
		constant: order.D+seasonal.D == 0,
	}
	fit, err := spec.fit(w, opt)
	if err != nil {
		return nil, err
	}

	res := diff.integrate(fit.forecast(h))
	for i, v := range res {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("forecast step %d is not finite, %w", i+1, ErrModelFitFailure)
		}
	}
	return res, nil
}

func validateInputs(series *timedataset.TimeDataset, horizon int, order Order, seasonal SeasonalOrder, opt *Options) (*Options, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("got %d, %w", horizon, ErrNonPositiveHorizon)
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	if err := seasonal.Validate(); err != nil {
		return nil, err
	}
	if series == nil || series.Len() == 0 {
		return nil, fmt.Errorf("no observations, %w", ErrModelFitFailure)
	}
	return opt.Validate()
}

// ForecastARIMA fits an ARIMA(p,d,q) model to the series and forecasts horizon steps. Forecast
// dates continue the series at its most common spacing. A constant is estimated only when
// the series is not differenced.
func ForecastARIMA(series *timedataset.TimeDataset, horizon int, order Order, opt *Options) (*timedataset.TimeDataset, error) {
	opt, err := validateInputs(series, horizon, order, SeasonalOrder{}, opt)
	if err != nil {
		return nil, err
	}

	freq, err := timedataset.TimeSlice(series.T).EstimateFreq()
	if err != nil {
		return nil, fmt.Errorf("unable to estimate series frequency, %v, %w", err, ErrModelFitFailure)
	}

	vals, err := forecastLevels(series.Y, horizon, order, SeasonalOrder{}, opt)
	if err != nil {
		return nil, fmt.Errorf("unable to fit ARIMA%s, %w", order, err)
	}

	t := timedataset.TimeSlice(series.T).Extend(horizon, freq)
	return timedataset.NewUnivariateDataset(t, vals)
}
