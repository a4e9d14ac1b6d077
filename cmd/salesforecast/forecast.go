package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	forecaster "github.com/aouyang1/go-salesforecaster"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	ErrUnknownOutput  = errors.New("unknown output format")
	ErrForecastFailed = errors.New("forecast failed")
)

const (
	outputTable = "table"
	outputCSV   = "csv"
	outputJSON  = "json"
)

func newForecastCmd(a *app) *cobra.Command {
	var (
		in       forecaster.Input
		output   string
		plotPath string
	)
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast an entity's sales or orders with the selected model",
		Example: `  salesforecast forecast --entity Company --target Sales --model ARIMA --horizon 30
  salesforecast forecast --entity "Region 2" --target Orders --model XGBoost --output csv
  salesforecast forecast --entity Company --target Sales --model Prophet --plot forecast.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case outputTable, outputCSV, outputJSON:
			default:
				return fmt.Errorf("%q, %w", output, ErrUnknownOutput)
			}

			outcome := a.fc.Run(in)
			if !outcome.OK() {
				fmt.Fprintln(a.errOut, outcome.Message)
				return ErrForecastFailed
			}
			resp := outcome.Response

			if plotPath != "" {
				if err := writePlot(plotPath, resp); err != nil {
					return err
				}
			}
			return writeResponse(a.out, resp, output)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&in.Entity, "entity", "Company", "Company or Region 1 to Region 4")
	flags.StringVar(&in.Target, "target", "Sales", "Sales or Orders")
	flags.StringVar(&in.Model, "model", "Linear Regression", "Linear Regression, XGBoost, ARIMA, SARIMAX or Prophet")
	flags.StringVar(&in.Horizon, "horizon", strconv.Itoa(forecaster.DefaultHorizon), fmt.Sprintf("days to forecast up to %d, invalid values use the configured default", forecaster.MaxHorizon))
	flags.StringVarP(&output, "output", "o", outputTable, "output format: table, csv or json")
	flags.StringVar(&plotPath, "plot", "", "write an html chart of the history and forecast to this path")
	return cmd
}

func writePlot(path string, resp *forecaster.Response) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create plot file, %w", err)
	}
	defer f.Close()
	if err := forecaster.PlotForecast(f, resp); err != nil {
		return fmt.Errorf("unable to render plot, %w", err)
	}
	return nil
}

func writeResponse(w io.Writer, resp *forecaster.Response, output string) error {
	switch output {
	case outputCSV:
		return resp.Result.WriteCSV(w)
	case outputJSON:
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("unable to marshal response, %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return writeTable(w, resp)
	}
}

func writeTable(w io.Writer, resp *forecaster.Response) error {
	req := resp.Request
	res := resp.Result
	fmt.Fprintf(w, "%s forecast of %s for %s\n", req.Model, req.Target, req.Entity)
	if res.Truncated() {
		fmt.Fprintf(w, "Only %d of %d requested days could be forecast.\n", res.Horizon(), res.RequestedHorizon)
	}
	if resp.Annotation != nil {
		fmt.Fprintln(w, resp.Annotation.Header)
		for _, line := range resp.Annotation.Lines {
			fmt.Fprintln(w, "  "+line)
		}
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Date\t%s\n", res.Target)
	for i, t := range res.T {
		fmt.Fprintf(tw, "%s\t%.2f\n", t.Format("2006-01-02"), res.Values[i])
	}
	return tw.Flush()
}
