package forecaster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/aouyang1/go-salesforecaster/catalog"
	"github.com/aouyang1/go-salesforecaster/segment"
	"github.com/aouyang1/go-salesforecaster/timedataset"
)

const dateLayout = "2006-01-02"

// Result is a normalized forecast. Horizon may be shorter than RequestedHorizon when the
// exogenous rows or precomputed table ran out.
type Result struct {
	Target           segment.Target `json:"target"`
	T                []time.Time    `json:"time"`
	Values           []float64      `json:"values"`
	RequestedHorizon int            `json:"requested_horizon"`
}

// Horizon is the number of forecasted points
func (r *Result) Horizon() int {
	return len(r.Values)
}

// Truncated reports whether fewer points than requested were produced
func (r *Result) Truncated() bool {
	return r.Horizon() < r.RequestedHorizon
}

// WriteCSV writes a Date column and one column named after the target
func (r *Result) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", r.Target.String()}); err != nil {
		return fmt.Errorf("unable to write csv header, %w", err)
	}
	for i, t := range r.T {
		rec := []string{t.Format(dateLayout), strconv.FormatFloat(r.Values[i], 'f', -1, 64)}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("unable to write csv row %d, %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Response is everything shown for a successful forecast. Annotation is nil when no
// accuracy measurement applies.
type Response struct {
	Request    Request                  `json:"request"`
	Result     *Result                  `json:"result"`
	Annotation *catalog.Annotation      `json:"annotation,omitempty"`
	History    *timedataset.TimeDataset `json:"history,omitempty"`
}
