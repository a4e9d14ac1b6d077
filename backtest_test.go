package forecaster

import (
	"errors"
	"testing"

	"github.com/aouyang1/go-salesforecaster/segment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBacktest(t *testing.T) {
	f := setupForecaster(t, nil)

	testData := map[string]struct {
		model   segment.Model
		maxMAPE float64
	}{
		"linear":  {segment.LinearRegression, 5},
		"boosted": {segment.XGBoost, 10},
		"sarimax": {segment.SARIMAX, 15},
		"arima":   {segment.ARIMA, 30},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := f.Backtest(segment.Company, segment.Sales, td.model, 14)
			require.Nil(t, err)
			require.Equal(t, 14, res.Result.Horizon())
			assert.Len(t, res.Actual, 14)
			assert.Equal(t, testStart.AddDate(0, 0, testHistoryDays-14), res.Result.T[0])
			assert.Less(t, res.Scores.MAPE, td.maxMAPE)
		})
	}
}

func TestBacktestDefaultDays(t *testing.T) {
	f := setupForecaster(t, nil)
	res, err := f.Backtest(segment.Company, segment.Orders, segment.LinearRegression, 0)
	require.Nil(t, err)
	assert.Equal(t, DefaultBacktestDays, res.Request.Horizon)
	assert.Equal(t, DefaultBacktestDays, res.Result.Horizon())
}

func TestBacktestFailures(t *testing.T) {
	f := setupForecaster(t, nil)

	testData := map[string]struct {
		entity   segment.Entity
		model    segment.Model
		testDays int
		stage    Stage
		err      error
	}{
		"prophet":       {segment.Company, segment.Prophet, 14, Validating, ErrNotBacktestable},
		"invalid model": {segment.Company, segment.Model(-1), 14, Validating, ErrInvalidSelection},
		"no data":       {segment.Region2, segment.ARIMA, 14, Fetching, nil},
		"too many days": {segment.Company, segment.ARIMA, testHistoryDays, Fetching, ErrInsufficientBacktest},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := f.Backtest(td.entity, segment.Sales, td.model, td.testDays)
			require.NotNil(t, err)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
			}
			var failure *Failure
			require.True(t, errors.As(err, &failure))
			assert.Equal(t, td.stage, failure.Stage)
		})
	}
}
