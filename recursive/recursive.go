package recursive

import (
	"fmt"
	"math"
	"time"

	"github.com/aouyang1/go-salesforecaster/feature"
	"github.com/aouyang1/go-salesforecaster/models"
	"github.com/aouyang1/go-salesforecaster/timedataset"

	"gonum.org/v1/gonum/mat"
)

// Model is a fitted one step regression along with the features it was trained on
type Model struct {
	flag    Flag
	opt     *Options
	target  string
	model   models.Model
	labels  *feature.Labels
	removed []feature.Feature
	history []float64
	lastT   time.Time
	freq    time.Duration
}

func newRegression(flag Flag, opt *Options) (models.Model, error) {
	switch flag {
	case FlagLinear:
		return models.NewOLSRegression(models.NewDefaultOLSOptions())
	case FlagBoosted:
		return models.NewGradientBoostingRegression(opt.Boosting)
	}
	return nil, fmt.Errorf("%q, %w", flag, ErrUnsupportedModel)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// stepFeatures builds the feature set for a single row given the lag lookup, the exogenous
// values and the timestamp
func (o *Options) stepFeatures(lag func(int) float64, exog []float64, t time.Time) *feature.Set {
	s := feature.NewSet()
	for _, l := range o.Lags {
		s.Set(feature.NewLag(l), []float64{lag(l)})
	}
	for i, col := range o.ExogColumns {
		s.Set(feature.NewExogenous(col), []float64{exog[i]})
	}
	if o.WeeklyOrders > 0 {
		s.Update(feature.Weekly([]time.Time{t}, o.WeeklyOrders))
	}
	return s
}

// Train fits the one step model on every row of train that has complete lag history and
// finite values
func Train(train *timedataset.Frame, target string, flag Flag, opt *Options) (*Model, error) {
	if !flag.Valid() {
		return nil, fmt.Errorf("%q, %w", flag, ErrUnsupportedModel)
	}
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if train == nil {
		return nil, fmt.Errorf("no training frame, %w", ErrInsufficientHistory)
	}
	freq, err := timedataset.TimeSlice(train.T).EstimateFreq()
	if err != nil {
		return nil, fmt.Errorf("%v, %w", err, ErrInsufficientHistory)
	}

	y, exists := train.Column(target)
	if !exists {
		return nil, fmt.Errorf("%s, %w", target, ErrMissingColumn)
	}
	exogCols := make([][]float64, len(opt.ExogColumns))
	for i, col := range opt.ExogColumns {
		c, exists := train.Column(col)
		if !exists {
			return nil, fmt.Errorf("%s, %w", col, ErrMissingColumn)
		}
		exogCols[i] = c
	}

	full := feature.NewSet()
	for _, l := range opt.Lags {
		full.Set(feature.NewLag(l), feature.NewLag(l).Generate(y))
	}
	for i, col := range opt.ExogColumns {
		full.Set(feature.NewExogenous(col), exogCols[i])
	}
	if opt.WeeklyOrders > 0 {
		full.Update(feature.Weekly(train.T, opt.WeeklyOrders))
	}

	// lag features are NaN until enough history exists
	var idx []int
	var yTrain []float64
	for i := opt.MaxLag(); i < len(y); i++ {
		if !isFinite(y[i]) || !full.RowFinite(i) {
			continue
		}
		idx = append(idx, i)
		yTrain = append(yTrain, y[i])
	}
	trainSet := full.Rows(idx)

	nFeatures := len(opt.Lags) + len(opt.ExogColumns) + 2*opt.WeeklyOrders
	if len(yTrain) < nFeatures+1+opt.MinTrainingRows {
		return nil, fmt.Errorf("%d complete rows for %d features, %w", len(yTrain), nFeatures, ErrInsufficientHistory)
	}

	removed := trainSet.PruneConstant()
	x := trainSet.Matrix(false)
	if x == nil {
		return nil, fmt.Errorf("every feature is constant, %w", ErrInsufficientHistory)
	}

	reg, err := newRegression(flag, opt)
	if err != nil {
		return nil, err
	}
	if err := reg.Fit(x, mat.NewDense(len(yTrain), 1, yTrain)); err != nil {
		return nil, fmt.Errorf("unable to fit %s model, %w", flag, err)
	}

	return &Model{
		flag:    flag,
		opt:     opt,
		target:  target,
		model:   reg,
		labels:  trainSet.Labels(),
		removed: removed,
		history: y,
		lastT:   train.T[len(train.T)-1],
		freq:    freq,
	}, nil
}

// Labels returns the features the model was trained on in coefficient order
func (m *Model) Labels() *feature.Labels {
	return m.labels
}

// Regression returns the fitted one step model
func (m *Model) Regression() models.Model {
	return m.model
}

// Predict iterates one step at a time over every row of exog. Lags that reach past the
// observed history read earlier predictions from a buffer owned by this call, so exog must
// continue the training dates without a gap.
func (m *Model) Predict(exog *timedataset.Frame) (*timedataset.TimeDataset, error) {
	if exog == nil || exog.Len() == 0 {
		return nil, fmt.Errorf("no exogenous rows, %w", ErrExogenousMismatch)
	}
	expected := timedataset.TimeSlice{m.lastT}.Extend(exog.Len(), m.freq)
	for i, t := range exog.T {
		if !t.Equal(expected[i]) {
			return nil, fmt.Errorf("exogenous row %d is dated %s, expected %s, %w",
				i, t.Format("2006-01-02"), expected[i].Format("2006-01-02"), ErrExogenousMismatch)
		}
	}
	for _, col := range m.opt.ExogColumns {
		if !exog.HasColumn(col) {
			return nil, fmt.Errorf("missing column %s, %w", col, ErrExogenousMismatch)
		}
	}

	buf, err := NewLagBuffer(m.history, m.opt.MaxLag())
	if err != nil {
		return nil, err
	}

	h := exog.Len()
	preds := make([]float64, h)
	for i := 0; i < h; i++ {
		exogRow, err := exog.Row(i, m.opt.ExogColumns)
		if err != nil {
			return nil, fmt.Errorf("%v, %w", err, ErrExogenousMismatch)
		}
		for j, v := range exogRow {
			if !isFinite(v) {
				return nil, fmt.Errorf("column %s at %s is not finite, %w",
					m.opt.ExogColumns[j], exog.T[i].Format("2006-01-02"), ErrExogenousMismatch)
			}
		}

		row := m.opt.stepFeatures(buf.Lag, exogRow, exog.T[i])
		row.Del(m.removed...)

		res, err := m.model.Predict(row.Matrix(false))
		if err != nil {
			return nil, fmt.Errorf("unable to predict step %d, %w", i+1, err)
		}
		if !isFinite(res[0]) {
			return nil, fmt.Errorf("step %d, %w", i+1, ErrNonFinitePrediction)
		}
		preds[i] = res[0]
		buf.Push(res[0])
	}

	return timedataset.NewUnivariateDataset(exog.T, preds)
}

// Forecast trains on train and predicts one value per exogenous row. The achievable
// horizon is the number of exogenous rows supplied.
func Forecast(train, exog *timedataset.Frame, target string, flag Flag, opt *Options) (*timedataset.TimeDataset, error) {
	model, err := Train(train, target, flag, opt)
	if err != nil {
		return nil, err
	}
	return model.Predict(exog)
}
