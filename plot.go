package forecaster

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// LineForecast generates an echart line chart of the observed history followed by the
// forecast. The forecast line starts at the last observation so the two lines connect.
// Without history only the forecast is drawn.
func LineForecast(resp *Response) *charts.Line {
	req := resp.Request
	title := opts.Title{
		Title: fmt.Sprintf("%s forecast of %s for %s", req.Model, req.Target, req.Entity),
	}
	if resp.Annotation != nil {
		title.Subtitle = resp.Annotation.Header
	}

	line := charts.NewLine()
	line.SetGlobalOptions(charts.WithTitleOpts(title))

	history := resp.History
	res := resp.Result
	nHist := history.Len()
	n := nHist + res.Horizon()

	xAxis := make([]string, 0, n)
	lineDataActual := make([]opts.LineData, 0, n)
	lineDataForecast := make([]opts.LineData, 0, n)

	for i := 0; i < nHist; i++ {
		xAxis = append(xAxis, history.T[i].Format(dateLayout))
		lineDataActual = append(lineDataActual, opts.LineData{Value: history.Y[i]})
		if i == nHist-1 {
			lineDataForecast = append(lineDataForecast, opts.LineData{Value: history.Y[i]})
		} else {
			lineDataForecast = append(lineDataForecast, opts.LineData{Value: nil})
		}
	}
	for i := 0; i < res.Horizon(); i++ {
		xAxis = append(xAxis, res.T[i].Format(dateLayout))
		lineDataActual = append(lineDataActual, opts.LineData{Value: nil})
		lineDataForecast = append(lineDataForecast, opts.LineData{Value: res.Values[i]})
	}

	line.SetXAxis(xAxis).
		AddSeries("Actual", lineDataActual).
		AddSeries("Forecast", lineDataForecast)
	return line
}

// PlotForecast renders the forecast chart as a standalone html page
func PlotForecast(w io.Writer, resp *Response) error {
	if resp == nil || resp.Result == nil {
		return fmt.Errorf("no forecast to plot, %w", ErrInvalidForecast)
	}
	page := components.NewPage()
	page.AddCharts(LineForecast(resp))
	return page.Render(w)
}
