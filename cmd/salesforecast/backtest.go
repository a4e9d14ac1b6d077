package main

import (
	"fmt"
	"sync"
	"text/tabwriter"

	forecaster "github.com/aouyang1/go-salesforecaster"
	"github.com/aouyang1/go-salesforecaster/segment"

	"github.com/goccy/go-json"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func newBacktestCmd(a *app) *cobra.Command {
	var (
		entity, target, model string
		days                  int
		asJSON, all           bool
	)
	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Score a model on the last days of an entity's history",
		Example: `  salesforecast backtest --entity Company --target Sales --model SARIMAX --days 61
  salesforecast backtest --entity "Region 2" --target Orders --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				return runCompare(cmd, a, entity, target, days, asJSON)
			}
			req, err := forecaster.ParseRequest(forecaster.Input{Entity: entity, Target: target, Model: model}, a.cfg.DefaultHorizon)
			if err != nil {
				fmt.Fprintln(a.errOut, forecaster.Message(err))
				return ErrForecastFailed
			}
			res, err := a.fc.Backtest(req.Entity, req.Target, req.Model, days)
			if err != nil {
				fmt.Fprintln(a.errOut, forecaster.Message(err))
				return ErrForecastFailed
			}

			if asJSON {
				data, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return fmt.Errorf("unable to marshal backtest, %w", err)
				}
				_, err = fmt.Fprintln(a.out, string(data))
				return err
			}

			fmt.Fprintf(a.out, "%s backtest of %s for %s over %d days\n", req.Model, req.Target, req.Entity, res.Result.Horizon())
			fmt.Fprintf(a.out, "MAPE: %.2f%%\nMAE: %.4f\nMSE: %.4f\nR2: %.4f\n\n", res.Scores.MAPE, res.Scores.MAE, res.Scores.MSE, res.Scores.R2)

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "Date\tActual\tForecast")
			for i, t := range res.Result.T {
				fmt.Fprintf(tw, "%s\t%.2f\t%.2f\n", t.Format("2006-01-02"), res.Actual[i], res.Result.Values[i])
			}
			return tw.Flush()
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&entity, "entity", segment.Company.String(), "Company or Region 1 to Region 4")
	flags.StringVar(&target, "target", segment.Sales.String(), "Sales or Orders")
	flags.StringVar(&model, "model", segment.LinearRegression.String(), "Linear Regression, XGBoost, ARIMA or SARIMAX")
	flags.IntVar(&days, "days", 0, "days to hold out, 0 uses the configured backtest days")
	flags.BoolVar(&asJSON, "json", false, "print the backtest as json")
	flags.BoolVar(&all, "all", false, "backtest every fitted model and compare their scores, ignores --model")
	return cmd
}

func runCompare(cmd *cobra.Command, a *app, entity, target string, days int, asJSON bool) error {
	req, err := forecaster.ParseRequest(forecaster.Input{Entity: entity, Target: target, Model: segment.LinearRegression.String()}, a.cfg.DefaultHorizon)
	if err != nil {
		fmt.Fprintln(a.errOut, forecaster.Message(err))
		return ErrForecastFailed
	}
	e, t := req.Entity, req.Target

	models := forecaster.LiveModels()
	bar := progressbar.NewOptions(len(models),
		progressbar.OptionSetWriter(a.errOut),
		progressbar.OptionSetDescription(fmt.Sprintf("backtesting %s %s", e, t)),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	var mu sync.Mutex
	res, err := a.fc.Compare(cmd.Context(), e, t, days, func(segment.Model) {
		mu.Lock()
		defer mu.Unlock()
		bar.Add(1)
	})
	if err != nil {
		return fmt.Errorf("unable to compare models, %w", err)
	}

	if asJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("unable to marshal comparison, %w", err)
		}
		_, err = fmt.Fprintln(a.out, string(data))
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Model\tMAPE\tMAE\tMSE\tR2")
	for _, c := range res {
		if c.Err != nil {
			fmt.Fprintf(tw, "%s\t%s\t\t\t\n", c.Model, forecaster.Message(c.Err))
			continue
		}
		s := c.Result.Scores
		fmt.Fprintf(tw, "%s\t%.2f%%\t%.4f\t%.4f\t%.4f\n", c.Model, s.MAPE, s.MAE, s.MSE, s.R2)
	}
	return tw.Flush()
}
