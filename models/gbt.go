package models

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNonPositiveEstimators     = errors.New("number of estimators must be positive")
	ErrNonPositiveLearningRate   = errors.New("learning rate must be positive")
	ErrNonPositiveMaxDepth       = errors.New("max depth must be positive")
	ErrNonPositiveMinSamplesLeaf = errors.New("min samples per leaf must be positive")
)

// GradientBoostingOptions configures a squared loss gradient boosted tree ensemble
type GradientBoostingOptions struct {
	Estimators     int     `json:"estimators"`
	LearningRate   float64 `json:"learning_rate"`
	MaxDepth       int     `json:"max_depth"`
	MinSamplesLeaf int     `json:"min_samples_leaf"`
}

// NewDefaultGradientBoostingOptions returns 100 depth 3 trees with a 0.1 learning rate
func NewDefaultGradientBoostingOptions() *GradientBoostingOptions {
	return &GradientBoostingOptions{
		Estimators:     100,
		LearningRate:   0.1,
		MaxDepth:       3,
		MinSamplesLeaf: 2,
	}
}

// Validate runs basic validation on gradient boosting options
func (g *GradientBoostingOptions) Validate() (*GradientBoostingOptions, error) {
	if g == nil {
		return NewDefaultGradientBoostingOptions(), nil
	}
	if g.Estimators <= 0 {
		return nil, fmt.Errorf("got %d, %w", g.Estimators, ErrNonPositiveEstimators)
	}
	if g.LearningRate <= 0 || math.IsNaN(g.LearningRate) {
		return nil, fmt.Errorf("got %f, %w", g.LearningRate, ErrNonPositiveLearningRate)
	}
	if g.MaxDepth <= 0 {
		return nil, fmt.Errorf("got %d, %w", g.MaxDepth, ErrNonPositiveMaxDepth)
	}
	if g.MinSamplesLeaf <= 0 {
		return nil, fmt.Errorf("got %d, %w", g.MinSamplesLeaf, ErrNonPositiveMinSamplesLeaf)
	}
	return g, nil
}

type treeNode struct {
	feature   int
	threshold float64
	value     float64
	left      *treeNode
	right     *treeNode
}

func (n *treeNode) isLeaf() bool {
	return n.left == nil
}

func (n *treeNode) predict(row []float64) float64 {
	for !n.isLeaf() {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// GradientBoostingRegression fits an additive ensemble of regression trees, each tree
// trained on the residuals of the ensemble so far. Splits are chosen exhaustively so the
// fit is fully deterministic.
type GradientBoostingRegression struct {
	opt        *GradientBoostingOptions
	base       float64
	trees      []*treeNode
	importance []float64
	nFeatures  int
	trained    bool
}

// NewGradientBoostingRegression initializes a boosted tree model ready for fitting
func NewGradientBoostingRegression(opt *GradientBoostingOptions) (*GradientBoostingRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &GradientBoostingRegression{
		opt: opt,
	}, nil
}

// Fit the ensemble according to the given training data
func (g *GradientBoostingRegression) Fit(x, y mat.Matrix) error {
	if g.opt == nil {
		return ErrNoOptions
	}
	if x == nil {
		return ErrNoTrainingMatrix
	}
	if y == nil {
		return ErrNoTargetMatrix
	}
	m, n := x.Dims()
	ym, _ := y.Dims()
	if ym != m {
		return fmt.Errorf("training data has %d rows and target has %d row, %w", m, ym, ErrTargetLenMismatch)
	}

	rows := make([][]float64, m)
	for i := 0; i < m; i++ {
		rows[i] = mat.Row(nil, i, x)
	}
	target := mat.Col(nil, 0, y)

	g.nFeatures = n
	g.base = stat.Mean(target, nil)
	g.trees = make([]*treeNode, 0, g.opt.Estimators)
	g.importance = make([]float64, n)

	pred := make([]float64, m)
	floats.AddConst(g.base, pred)
	residual := make([]float64, m)

	idx := make([]int, m)
	for i := range idx {
		idx[i] = i
	}

	for e := 0; e < g.opt.Estimators; e++ {
		floats.SubTo(residual, target, pred)
		tree := g.grow(rows, residual, idx, 0)
		g.trees = append(g.trees, tree)
		for i, row := range rows {
			pred[i] += g.opt.LearningRate * tree.predict(row)
		}
	}

	if total := floats.Sum(g.importance); total > 0 {
		floats.Scale(1/total, g.importance)
	}
	g.trained = true
	return nil
}

func (g *GradientBoostingRegression) grow(rows [][]float64, residual []float64, idx []int, depth int) *treeNode {
	vals := make([]float64, len(idx))
	for i, j := range idx {
		vals[i] = residual[j]
	}
	node := &treeNode{value: stat.Mean(vals, nil)}
	if depth >= g.opt.MaxDepth || len(idx) < 2*g.opt.MinSamplesLeaf {
		return node
	}

	feature, threshold, gain := g.bestSplit(rows, residual, idx)
	if feature < 0 {
		return node
	}

	var left, right []int
	for _, j := range idx {
		if rows[j][feature] <= threshold {
			left = append(left, j)
		} else {
			right = append(right, j)
		}
	}

	g.importance[feature] += gain
	node.feature = feature
	node.threshold = threshold
	node.left = g.grow(rows, residual, left, depth+1)
	node.right = g.grow(rows, residual, right, depth+1)
	return node
}

// bestSplit scans every feature and every boundary between distinct sorted values for the
// largest reduction in squared error. Returns a negative feature when nothing improves.
func (g *GradientBoostingRegression) bestSplit(rows [][]float64, residual []float64, idx []int) (int, float64, float64) {
	nIdx := len(idx)
	minLeaf := g.opt.MinSamplesLeaf

	var total, sumSq float64
	for _, j := range idx {
		total += residual[j]
		sumSq += residual[j] * residual[j]
	}

	// gains below this are rounding noise from nodes with constant residuals
	bestGain := 1e-9 * sumSq
	bestFeature := -1
	bestThreshold := 0.0

	sorted := make([]int, nIdx)
	for f := 0; f < g.nFeatures; f++ {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, b int) bool {
			return rows[sorted[a]][f] < rows[sorted[b]][f]
		})

		var leftSum float64
		for i := 0; i < nIdx-1; i++ {
			leftSum += residual[sorted[i]]
			nLeft := i + 1
			nRight := nIdx - nLeft
			if nLeft < minLeaf {
				continue
			}
			if nRight < minLeaf {
				break
			}
			lo, hi := rows[sorted[i]][f], rows[sorted[i+1]][f]
			if lo == hi {
				continue
			}
			rightSum := total - leftSum
			gain := leftSum*leftSum/float64(nLeft) + rightSum*rightSum/float64(nRight) - total*total/float64(nIdx)
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (lo + hi) / 2
			}
		}
	}
	return bestFeature, bestThreshold, bestGain
}

// Predict using the boosted ensemble
func (g *GradientBoostingRegression) Predict(x mat.Matrix) ([]float64, error) {
	if g.opt == nil {
		return nil, ErrNoOptions
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	if !g.trained {
		return nil, ErrUntrainedModel
	}
	m, n := x.Dims()
	if n != g.nFeatures {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", n, g.nFeatures, ErrFeatureLenMismatch)
	}

	res := make([]float64, m)
	row := make([]float64, n)
	for i := 0; i < m; i++ {
		mat.Row(row, i, x)
		val := g.base
		for _, tree := range g.trees {
			val += g.opt.LearningRate * tree.predict(row)
		}
		res[i] = val
	}
	return res, nil
}

// Score computes the coefficient of determination of the prediction
func (g *GradientBoostingRegression) Score(x, y mat.Matrix) (float64, error) {
	return score(g, x, y)
}

// Intercept returns the initial constant prediction of the ensemble, the target mean
func (g *GradientBoostingRegression) Intercept() float64 {
	return g.base
}

// Coef returns the normalized split gain attributed to each feature column
func (g *GradientBoostingRegression) Coef() []float64 {
	c := make([]float64, len(g.importance))
	copy(c, g.importance)
	return c
}
