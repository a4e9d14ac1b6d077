package main

import (
	"fmt"
	"io"

	forecaster "github.com/aouyang1/go-salesforecaster"
	"github.com/aouyang1/go-salesforecaster/catalog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *Config

	params   *catalog.ParameterCatalog
	accuracy *catalog.AccuracyRegistry
	fc       *forecaster.Forecaster

	out    io.Writer
	errOut io.Writer
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{
		v:      viper.New(),
		out:    out,
		errOut: errOut,
	}

	cmd := &cobra.Command{
		Use:           "salesforecast",
		Short:         "Forecast sales and orders per business segment",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default ./salesforecast.yaml)")
	flags.String("data-dir", "data", "directory holding the <entity>_history.csv and <entity>_exog.csv files")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.String("parameters-file", "", "json file overriding the built in model parameters")
	flags.String("accuracy-file", "", "json file with measured model accuracy, forecasts carry no accuracy annotation without one")
	flags.Bool("sample-accuracy", false, "annotate with the bundled placeholder accuracy values when no accuracy file is set")
	for key, flag := range map[string]string{
		"data_dir":        "data-dir",
		"log_level":       "log-level",
		"parameters_file": "parameters-file",
		"accuracy_file":   "accuracy-file",
		"sample_accuracy": "sample-accuracy",
	} {
		if err := a.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("unable to bind flag %s: %v", flag, err))
		}
	}

	cmd.AddCommand(
		newForecastCmd(a),
		newBacktestCmd(a),
		newCatalogCmd(a),
	)
	return cmd
}

func (a *app) init() error {
	cfg, err := loadConfig(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel, a.errOut)
	if err != nil {
		return err
	}
	params, err := loadParameters(cfg.ParametersFile)
	if err != nil {
		return err
	}
	accuracy, err := loadAccuracy(cfg.AccuracyFile, cfg.SampleAccuracy)
	if err != nil {
		return err
	}
	fc, err := newForecaster(cfg, params, accuracy, logger)
	if err != nil {
		return fmt.Errorf("unable to initialize forecaster, %w", err)
	}

	a.cfg = cfg
	a.params = params
	a.accuracy = accuracy
	a.fc = fc
	return nil
}
