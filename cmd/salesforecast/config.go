package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	forecaster "github.com/aouyang1/go-salesforecaster"
	"github.com/aouyang1/go-salesforecaster/catalog"
	"github.com/aouyang1/go-salesforecaster/precomputed"
	"github.com/aouyang1/go-salesforecaster/repository"

	"github.com/spf13/viper"
)

const envPrefix = "SALESFORECAST"

// Config is the process configuration, read from flags, SALESFORECAST_* environment
// variables and an optional config file in that order of precedence
type Config struct {
	DataDir        string `mapstructure:"data_dir"`
	ProphetSales   string `mapstructure:"prophet_sales"`
	ProphetOrders  string `mapstructure:"prophet_orders"`
	ParametersFile string `mapstructure:"parameters_file"`
	AccuracyFile   string `mapstructure:"accuracy_file"`
	SampleAccuracy bool   `mapstructure:"sample_accuracy"`
	LogLevel       string `mapstructure:"log_level"`
	DefaultHorizon int    `mapstructure:"default_horizon"`
	BacktestDays   int    `mapstructure:"backtest_days"`
	CompareWorkers int    `mapstructure:"compare_workers"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("prophet_sales", "")
	v.SetDefault("prophet_orders", "")
	v.SetDefault("parameters_file", "")
	v.SetDefault("accuracy_file", "")
	v.SetDefault("sample_accuracy", false)
	v.SetDefault("log_level", "warn")
	v.SetDefault("default_horizon", forecaster.DefaultHorizon)
	v.SetDefault("backtest_days", forecaster.DefaultBacktestDays)
	v.SetDefault("compare_workers", forecaster.DefaultCompareWorkers)
}

// loadConfig reads cfgFile when set, otherwise an optional salesforecast.yaml in the
// working directory
func loadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("salesforecast")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("unable to read config, %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config, %w", err)
	}
	if cfg.ProphetSales == "" {
		cfg.ProphetSales = filepath.Join(cfg.DataDir, "prophet_forecasts_sales.csv")
	}
	if cfg.ProphetOrders == "" {
		cfg.ProphetOrders = filepath.Join(cfg.DataDir, "prophet_forecasts_orders.csv")
	}
	return &cfg, nil
}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q, %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func loadParameters(path string) (*catalog.ParameterCatalog, error) {
	if path == "" {
		return catalog.DefaultParameterCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open parameter catalog, %w", err)
	}
	defer f.Close()
	return catalog.LoadParameterCatalog(f)
}

// loadAccuracy prefers path over the bundled sample. With neither every forecast is
// unannotated.
func loadAccuracy(path string, sample bool) (*catalog.AccuracyRegistry, error) {
	if path == "" {
		if sample {
			return catalog.SampleAccuracyRegistry(), nil
		}
		return catalog.DefaultAccuracyRegistry(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open accuracy registry, %w", err)
	}
	defer f.Close()
	return catalog.LoadAccuracyRegistry(f)
}

// newForecaster wires the data directory and precomputed tables named by cfg
func newForecaster(cfg *Config, params *catalog.ParameterCatalog, accuracy *catalog.AccuracyRegistry, logger *slog.Logger) (*forecaster.Forecaster, error) {
	opt := forecaster.NewDefaultOptions()
	opt.DefaultHorizon = cfg.DefaultHorizon
	opt.BacktestDays = cfg.BacktestDays
	opt.CompareWorkers = cfg.CompareWorkers
	opt.Logger = logger

	return forecaster.New(forecaster.Config{
		Parameters:  params,
		Accuracy:    accuracy,
		Precomputed: precomputed.Load(cfg.ProphetSales, cfg.ProphetOrders, logger),
		Data:        repository.NewCSVRepository(cfg.DataDir),
		Options:     opt,
	})
}
