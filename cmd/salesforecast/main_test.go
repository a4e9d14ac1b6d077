package main

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	forecaster "github.com/aouyang1/go-salesforecaster"
	"github.com/aouyang1/go-salesforecaster/repository"
	"github.com/aouyang1/go-salesforecaster/segment"

	"github.com/goccy/go-json"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

const (
	testHistoryDays = 150
	testExogDays    = 20
)

// writeDataDir writes history and exogenous csv files for Company and a Prophet sales table
func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	var history, exog strings.Builder
	history.WriteString("Date,Sales,Orders,Holiday,Discount A,Discount B\n")
	exog.WriteString("Date,Holiday,Discount A,Discount B\n")
	for i := 0; i < testHistoryDays+testExogDays; i++ {
		day := testStart.AddDate(0, 0, i).Format("2006-01-02")
		holiday := "No"
		if i%30 == 0 {
			holiday = "Yes"
		}
		discA, discB := i%3 == 0, i%4 == 0
		flag := func(b bool) string {
			if b {
				return "Yes"
			}
			return "No"
		}
		if i >= testHistoryDays {
			fmt.Fprintf(&exog, "%s,%s,%s,%s\n", day, holiday, flag(discA), flag(discB))
			continue
		}
		sales := 200 + 15*math.Sin(2*math.Pi*float64(i)/7) + 0.1*float64(i)
		if holiday == "Yes" {
			sales += 25
		}
		if discA {
			sales += 5
		}
		if discB {
			sales += 5
		}
		fmt.Fprintf(&history, "%s,%.3f,%.3f,%s,%s,%s\n", day, sales, sales/8, holiday, flag(discA), flag(discB))
	}

	var prophet strings.Builder
	prophet.WriteString("Date,Company_Sales\n")
	for i := 0; i < 7; i++ {
		fmt.Fprintf(&prophet, "%s,%d\n", testStart.AddDate(0, 0, testHistoryDays+i).Format("2006-01-02"), 210+i)
	}

	files := map[string]string{
		repository.HistoryFile(segment.Company): history.String(),
		repository.ExogFile(segment.Company):    exog.String(),
		"prophet_forecasts_sales.csv":           prophet.String(),
	}
	for name, data := range files {
		require.Nil(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestForecastCommand(t *testing.T) {
	dir := writeDataDir(t)

	testData := map[string]struct {
		args     []string
		contains []string
		err      error
		errOut   string
	}{
		"table": {
			args:     []string{"forecast", "--data-dir", dir, "--model", "Linear Regression", "--horizon", "5"},
			contains: []string{"Linear Regression forecast of Sales for Company", "Date", "2024-05-30"},
		},
		"csv": {
			args:     []string{"forecast", "--data-dir", dir, "--model", "ARIMA", "--target", "Orders", "--horizon", "3", "-o", "csv"},
			contains: []string{"Date,Orders\n2024-05-30,"},
		},
		"prophet truncated": {
			args:     []string{"forecast", "--data-dir", dir, "--model", "Prophet", "--horizon", "30"},
			contains: []string{"Only 7 of 30 requested days could be forecast."},
		},
		"invalid selection": {
			args:   []string{"forecast", "--data-dir", dir, "--entity", "Mars"},
			err:    ErrForecastFailed,
			errOut: "Invalid selection. Please try again.",
		},
		"missing data": {
			args:   []string{"forecast", "--data-dir", dir, "--entity", "Region 3"},
			err:    ErrForecastFailed,
			errOut: "Forecasting failed: ",
		},
		"unknown output": {
			args: []string{"forecast", "--data-dir", dir, "-o", "xml"},
			err:  ErrUnknownOutput,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			out, errOut, err := execute(t, td.args...)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				assert.Contains(t, errOut, td.errOut)
				return
			}
			require.Nil(t, err, errOut)
			for _, c := range td.contains {
				assert.Contains(t, out, c)
			}
		})
	}
}

func TestForecastCommandJSONAndPlot(t *testing.T) {
	dir := writeDataDir(t)
	plotPath := filepath.Join(t.TempDir(), "forecast.html")

	out, errOut, err := execute(t, "forecast", "--data-dir", dir, "--model", "XGBoost", "--horizon", "4", "-o", "json", "--plot", plotPath)
	require.Nil(t, err, errOut)

	var decoded struct {
		Request struct {
			Entity  string `json:"entity"`
			Model   string `json:"model"`
			Horizon int    `json:"horizon"`
		} `json:"request"`
		Result struct {
			Values []float64 `json:"values"`
		} `json:"result"`
	}
	require.Nil(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Company", decoded.Request.Entity)
	assert.Equal(t, "XGBoost", decoded.Request.Model)
	assert.Equal(t, 4, decoded.Request.Horizon)
	assert.Len(t, decoded.Result.Values, 4)

	html, err := os.ReadFile(plotPath)
	require.Nil(t, err)
	assert.Contains(t, string(html), "XGBoost forecast of Sales for Company")
}

func TestBacktestCommand(t *testing.T) {
	dir := writeDataDir(t)

	out, errOut, err := execute(t, "backtest", "--data-dir", dir, "--model", "Linear Regression", "--days", "14")
	require.Nil(t, err, errOut)
	assert.Contains(t, out, "Linear Regression backtest of Sales for Company over 14 days")
	assert.Contains(t, out, "MAPE: ")

	_, errOut, err = execute(t, "backtest", "--data-dir", dir, "--model", "Prophet")
	assert.ErrorIs(t, err, ErrForecastFailed)
	assert.Contains(t, errOut, "Forecasting failed: ")
}

func TestBacktestCommandAll(t *testing.T) {
	dir := writeDataDir(t)

	out, errOut, err := execute(t, "backtest", "--data-dir", dir, "--all", "--days", "14")
	require.Nil(t, err, errOut)
	assert.Contains(t, out, "Model")
	for _, m := range forecaster.LiveModels() {
		assert.Contains(t, out, m.String())
	}
	assert.NotContains(t, out, "Prophet")

	_, errOut, err = execute(t, "backtest", "--data-dir", dir, "--all", "--entity", "Mars")
	assert.ErrorIs(t, err, ErrForecastFailed)
	assert.Contains(t, errOut, "Invalid selection. Please try again.")
}

func TestCatalogCommand(t *testing.T) {
	accuracyPath := filepath.Join(t.TempDir(), "accuracy.json")
	require.Nil(t, os.WriteFile(accuracyPath, []byte(
		`{"models":[{"entity":"Company","target":"Sales","model":"ARIMA","mape":8.5}]}`,
	), 0o644))

	out, errOut, err := execute(t, "catalog", "--accuracy-file", accuracyPath)
	require.Nil(t, err, errOut)
	assert.Contains(t, out, "(2,1,2)")
	assert.Contains(t, out, "(1,0,1,7)")
	assert.Contains(t, out, "Test MAPE: 8.50%")
	assert.Contains(t, out, "Orders forecasts for ARIMA are untested.")
	assert.Contains(t, out, "no measurement")

	_, _, err = execute(t, "catalog", "--accuracy-file", filepath.Join(t.TempDir(), "missing.json"))
	assert.NotNil(t, err)

	out, errOut, err = execute(t, "catalog", "--sample-accuracy")
	require.Nil(t, err, errOut)
	assert.Contains(t, out, "Test MAPE: 8.10%")

	out, errOut, err = execute(t, "catalog", "--sample-accuracy", "--accuracy-file", accuracyPath)
	require.Nil(t, err, errOut)
	assert.Contains(t, out, "Test MAPE: 8.50%")
	assert.NotContains(t, out, "Test MAPE: 8.10%")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "salesforecast.yaml")
	require.Nil(t, os.WriteFile(cfgPath, []byte("data_dir: /srv/data\ndefault_horizon: 14\nlog_level: debug\n"), 0o644))
	t.Setenv("SALESFORECAST_BACKTEST_DAYS", "21")

	cfg, err := loadConfig(viper.New(), cfgPath)
	require.Nil(t, err)
	assert.Equal(t, "/srv/data", cfg.DataDir)
	assert.Equal(t, 14, cfg.DefaultHorizon)
	assert.Equal(t, 21, cfg.BacktestDays)
	assert.Equal(t, forecaster.DefaultCompareWorkers, cfg.CompareWorkers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, filepath.Join("/srv/data", "prophet_forecasts_sales.csv"), cfg.ProphetSales)

	_, err = loadConfig(viper.New(), filepath.Join(dir, "missing.yaml"))
	assert.NotNil(t, err)

	_, err = newLogger("loud", &bytes.Buffer{})
	assert.NotNil(t, err)
}
