package recursive

import (
	"math"
	"testing"
	"time"

	"github.com/aouyang1/go-salesforecaster/timedataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTarget = "Sales"

var testStart = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

type salesData struct {
	train    *timedataset.Frame
	exog     *timedataset.Frame
	expected []float64
}

// generateSales builds n training days and h future days of a weekly pattern with holiday
// and discount effects plus seeded noise
func generateSales(t *testing.T, n, h int) salesData {
	t.Helper()

	total := n + h
	tAll := make([]time.Time, total)
	holiday := make([]float64, total)
	discounted := make([]float64, total)
	clean := make([]float64, total)
	for i := range tAll {
		tAll[i] = testStart.AddDate(0, 0, i)
		if i%30 == 0 {
			holiday[i] = 1
		}
		discounted[i] = float64((i * 7) % 5)
		clean[i] = 100 + 10*math.Sin(2*math.Pi*float64(i)/7) + 20*holiday[i] + 2*discounted[i]
	}
	noise := timedataset.GenerateNoise(n, 1.0, 42)

	train, err := timedataset.NewFrame(tAll[:n])
	require.Nil(t, err)
	y := make([]float64, n)
	for i := range y {
		y[i] = clean[i] + noise[i]
	}
	require.Nil(t, train.AddColumn(testTarget, y))
	require.Nil(t, train.AddColumn(ColumnHoliday, holiday[:n]))
	require.Nil(t, train.AddColumn(ColumnDiscountedStores, discounted[:n]))

	exog, err := timedataset.NewFrame(tAll[n:])
	require.Nil(t, err)
	require.Nil(t, exog.AddColumn(ColumnHoliday, holiday[n:]))
	require.Nil(t, exog.AddColumn(ColumnDiscountedStores, discounted[n:]))

	return salesData{train: train, exog: exog, expected: clean[n:]}
}

func TestForecastLinear(t *testing.T) {
	data := generateSales(t, 420, 14)

	res, err := Forecast(data.train, data.exog, testTarget, FlagLinear, nil)
	require.Nil(t, err)
	require.Equal(t, 14, res.Len())
	assert.Equal(t, data.exog.T, res.T)

	for i, exp := range data.expected {
		assert.InDelta(t, exp, res.Y[i], 4.0, "step %d", i)
	}
}

func TestForecastBoosted(t *testing.T) {
	data := generateSales(t, 420, 14)

	res, err := Forecast(data.train, data.exog, testTarget, FlagBoosted, nil)
	require.Nil(t, err)
	require.Equal(t, 14, res.Len())

	var mae float64
	for i, exp := range data.expected {
		assert.False(t, math.IsNaN(res.Y[i]))
		mae += math.Abs(exp - res.Y[i])
	}
	assert.Less(t, mae/14, 6.0)

	again, err := Forecast(data.train, data.exog, testTarget, FlagBoosted, nil)
	require.Nil(t, err)
	assert.Equal(t, res.Y, again.Y)
}

func TestForecastTruncatesToExogenousRows(t *testing.T) {
	data := generateSales(t, 200, 14)

	res, err := Forecast(data.train, data.exog.Head(5), testTarget, FlagLinear, nil)
	require.Nil(t, err)
	assert.Equal(t, 5, res.Len())
}

func TestForecastConstantExogenous(t *testing.T) {
	data := generateSales(t, 200, 14)

	// no holidays at all in training must not make the regression singular
	train, err := data.train.Select(testTarget, ColumnDiscountedStores)
	require.Nil(t, err)
	require.Nil(t, train.AddColumn(ColumnHoliday, make([]float64, train.Len())))

	res, err := Forecast(train, data.exog, testTarget, FlagLinear, nil)
	require.Nil(t, err)
	assert.Equal(t, 14, res.Len())
}

func TestForecastErrors(t *testing.T) {
	data := generateSales(t, 200, 14)
	short := generateSales(t, 20, 14)

	noTarget, err := data.train.Select(ColumnHoliday, ColumnDiscountedStores)
	require.Nil(t, err)

	exogMissing, err := data.exog.Select(ColumnHoliday)
	require.Nil(t, err)

	// a missing day inside the future rows
	holeT := append(append([]time.Time{}, data.exog.T[:2]...), data.exog.T[4:]...)
	exogHole, err := timedataset.NewFrame(holeT)
	require.Nil(t, err)
	require.Nil(t, exogHole.AddColumn(ColumnHoliday, make([]float64, len(holeT))))
	require.Nil(t, exogHole.AddColumn(ColumnDiscountedStores, make([]float64, len(holeT))))

	testData := map[string]struct {
		train *timedataset.Frame
		exog  *timedataset.Frame
		flag  Flag
		err   error
	}{
		"unsupported flag":       {data.train, data.exog, Flag("prophet"), ErrUnsupportedModel},
		"missing target":         {noTarget, data.exog, FlagLinear, ErrMissingColumn},
		"exog missing column":    {data.train, exogMissing, FlagLinear, ErrExogenousMismatch},
		"exog overlaps training": {data.train, data.train.Slice(150, 160), FlagLinear, ErrExogenousMismatch},
		"empty exog":             {data.train, data.exog.Head(0), FlagLinear, ErrExogenousMismatch},
		"exog starts after gap":  {data.train, data.exog.Slice(3, 14), FlagLinear, ErrExogenousMismatch},
		"exog skips a day":       {data.train, exogHole, FlagBoosted, ErrExogenousMismatch},
		"insufficient history":   {short.train, short.exog, FlagLinear, ErrInsufficientHistory},
		"nil train":              {nil, data.exog, FlagBoosted, ErrInsufficientHistory},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := Forecast(td.train, td.exog, testTarget, td.flag, nil)
			assert.ErrorIs(t, err, td.err)
		})
	}
}
