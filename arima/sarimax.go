package arima

import (
	"fmt"
	"math"
	"slices"

	mat_ "github.com/aouyang1/go-salesforecaster/mat"
	"github.com/aouyang1/go-salesforecaster/models"
	"github.com/aouyang1/go-salesforecaster/timedataset"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ForecastSARIMAX fits a regression on the exogenous columns with seasonal ARIMA errors and
// forecasts horizon steps. exogTrain must be row aligned with the series and exogFuture must
// carry the same columns for at least horizon rows directly following the last observation.
// Forecast dates are the first horizon dates of exogFuture.
//
// The regression coefficients are estimated by least squares on the differenced series and
// regressors, then the seasonal ARMA is fit to the differenced regression errors.
func ForecastSARIMAX(
	series *timedataset.TimeDataset,
	horizon int,
	exogTrain, exogFuture *timedataset.Frame,
	order Order,
	seasonal SeasonalOrder,
	opt *Options,
) (*timedataset.TimeDataset, error) {
	opt, err := validateInputs(series, horizon, order, seasonal, opt)
	if err != nil {
		return nil, err
	}
	cols, err := checkExogenous(series, horizon, exogTrain, exogFuture)
	if err != nil {
		return nil, err
	}

	beta, err := regressionCoef(series.Y, exogTrain, cols, order, seasonal)
	if err != nil {
		return nil, fmt.Errorf("unable to estimate regression coefficients, %w", err)
	}

	u := slices.Clone(series.Y)
	future := make([]float64, horizon)
	for i, col := range cols {
		if beta[i] == 0 {
			continue
		}
		x, _ := exogTrain.Column(col)
		floats.AddScaled(u, -beta[i], x)

		xf, _ := exogFuture.Column(col)
		floats.AddScaled(future, beta[i], xf[:horizon])
	}

	errForecast, err := forecastLevels(u, horizon, order, seasonal, opt)
	if err != nil {
		return nil, fmt.Errorf("unable to fit SARIMAX%s x %s, %w", order, seasonal, err)
	}
	floats.Add(future, errForecast)

	return timedataset.NewUnivariateDataset(exogFuture.T[:horizon], future)
}

// checkExogenous validates shapes and returns the regressor names in training order
func checkExogenous(series *timedataset.TimeDataset, horizon int, exogTrain, exogFuture *timedataset.Frame) ([]string, error) {
	if exogTrain == nil || exogFuture == nil {
		return nil, fmt.Errorf("missing exogenous frame, %w", ErrExogenousMismatch)
	}
	if exogTrain.Len() != series.Len() {
		return nil, fmt.Errorf("training regressors have %d rows, series has %d, %w",
			exogTrain.Len(), series.Len(), ErrExogenousMismatch)
	}
	if exogFuture.Len() < horizon {
		return nil, fmt.Errorf("future regressors have %d rows, horizon is %d, %w",
			exogFuture.Len(), horizon, ErrExogenousMismatch)
	}

	cols := exogTrain.Columns()
	trainSet := slices.Sorted(slices.Values(cols))
	futureSet := slices.Sorted(slices.Values(exogFuture.Columns()))
	if !slices.Equal(trainSet, futureSet) {
		return nil, fmt.Errorf("training columns %v, future columns %v, %w", trainSet, futureSet, ErrExogenousMismatch)
	}

	contiguous, err := timedataset.TimeSlice(series.T).Continues(exogFuture.T[:horizon])
	if err != nil {
		return nil, fmt.Errorf("unable to estimate series frequency, %v, %w", err, ErrExogenousMismatch)
	}
	if !contiguous {
		return nil, fmt.Errorf("future regressors starting %s do not directly follow %s, %w",
			exogFuture.T[0].Format("2006-01-02"), series.T[len(series.T)-1].Format("2006-01-02"), ErrExogenousMismatch)
	}

	for _, col := range cols {
		x, _ := exogTrain.Column(col)
		xf, _ := exogFuture.Column(col)
		for _, v := range append(x, xf[:horizon]...) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("column %s has non-finite values, %w", col, ErrExogenousMismatch)
			}
		}
	}
	return cols, nil
}

// regressionCoef regresses the differenced target on the differenced regressors. Columns
// that are constant after differencing carry no information and get a zero coefficient.
func regressionCoef(y []float64, exog *timedataset.Frame, cols []string, order Order, seasonal SeasonalOrder) ([]float64, error) {
	beta := make([]float64, len(cols))
	w := newDifferencing(y, order, seasonal).stationary()
	if len(w) == 0 {
		return nil, fmt.Errorf("%d observations cannot be differenced, %w", len(y), ErrModelFitFailure)
	}

	var keep []int
	var xCols [][]float64
	for i, col := range cols {
		x, _ := exog.Column(col)
		xw := newDifferencing(x, order, seasonal).stationary()
		if floats.Max(xw) == floats.Min(xw) {
			continue
		}
		keep = append(keep, i)
		xCols = append(xCols, xw)
	}
	if len(keep) == 0 {
		return beta, nil
	}

	xMx, err := mat_.NewDenseFromColumns(xCols)
	if err != nil {
		return nil, err
	}
	yMx := mat.NewDense(len(w), 1, w)

	ols, err := models.NewOLSRegression(models.NewDefaultOLSOptions())
	if err != nil {
		return nil, err
	}
	if err := ols.Fit(xMx, yMx); err != nil {
		return nil, fmt.Errorf("%v, %w", err, ErrModelFitFailure)
	}
	for j, i := range keep {
		beta[i] = ols.Coef()[j]
	}
	return beta, nil
}
