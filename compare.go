package forecaster

import (
	"context"

	"github.com/aouyang1/go-salesforecaster/segment"

	"golang.org/x/sync/errgroup"
)

// Comparison is the backtest of one model. Err is set instead of Result when the model
// could not be backtested.
type Comparison struct {
	Model  segment.Model   `json:"model"`
	Result *BacktestResult `json:"result,omitempty"`
	Err    error           `json:"-"`
}

// LiveModels returns the models that are fit on request, in display order
func LiveModels() []segment.Model {
	models := make([]segment.Model, 0, len(segment.Models()))
	for _, m := range segment.Models() {
		if !m.Precomputed() {
			models = append(models, m)
		}
	}
	return models
}

// Compare backtests every live model on the same held out days with up to
// Options.CompareWorkers models fitting at once. A failing model is reported in its
// Comparison rather than failing the others. done is called as each model finishes and
// may be nil. The returned error is only set when ctx ends first.
func (f *Forecaster) Compare(ctx context.Context, entity segment.Entity, target segment.Target, testDays int, done func(segment.Model)) ([]Comparison, error) {
	models := LiveModels()
	res := make([]Comparison, len(models))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(f.opt.CompareWorkers)
	for i, model := range models {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			bt, err := f.Backtest(entity, target, model, testDays)
			res[i] = Comparison{Model: model, Result: bt, Err: err}
			if done != nil {
				done(model)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
