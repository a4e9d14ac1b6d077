package arima

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// objective value returned for parameters outside the stationary and invertible region
const penalty = 1e50

var errLevinsonDurbin = errors.New("levinson-durbin recursion is unstable")

// sarma is a multiplicative seasonal ARMA specification over a stationary series
type sarma struct {
	p, q, sp, sq, s int
	constant        bool
}

func (m sarma) numParams() int {
	n := m.p + m.q + m.sp + m.sq
	if m.constant {
		n++
	}
	return n
}

// unpack splits the optimizer vector into its coefficient groups
func (m sarma) unpack(x []float64) (phi, theta, sphi, stheta []float64, mu float64) {
	idx := 0
	phi = x[idx : idx+m.p]
	idx += m.p
	theta = x[idx : idx+m.q]
	idx += m.q
	sphi = x[idx : idx+m.sp]
	idx += m.sp
	stheta = x[idx : idx+m.sq]
	idx += m.sq
	if m.constant {
		mu = x[idx]
	}
	return
}

// admissible reports whether the AR factors are stationary and the MA factors invertible
func admissible(phi, theta, sphi, stheta []float64) bool {
	return maxInverseRoot(phi) < 1 &&
		maxInverseRoot(sphi) < 1 &&
		maxInverseRoot(negate(theta)) < 1 &&
		maxInverseRoot(negate(stheta)) < 1
}

// residuals computes the conditional residuals of z given the expanded AR and MA
// polynomials. The first len(ar) residuals are conditioned to zero.
func residuals(z, ar, ma []float64, mu float64) ([]float64, float64) {
	n := len(z)
	start := min(len(ar), n)
	e := make([]float64, n)

	var sse float64
	for t := start; t < n; t++ {
		pred := mu
		for k := 1; k <= len(ar); k++ {
			pred += ar[k-1] * (z[t-k] - mu)
		}
		for k := 1; k <= len(ma) && t-k >= 0; k++ {
			pred += ma[k-1] * e[t-k]
		}
		e[t] = z[t] - pred
		sse += e[t] * e[t]
	}
	return e, sse
}

// fitted is a converged model over a standardized stationary series
type fitted struct {
	ar, ma []float64
	mu     float64

	z             []float64
	resid         []float64
	center, scale float64
	sse           float64
	status        optimize.Status
}

// forecast projects h steps ahead on the scale of the stationary series. Future shocks
// are zero.
func (f *fitted) forecast(h int) []float64 {
	n := len(f.z)
	z := append(slices.Clone(f.z), make([]float64, h)...)
	e := append(slices.Clone(f.resid), make([]float64, h)...)

	for t := n; t < n+h; t++ {
		val := f.mu
		for k := 1; k <= len(f.ar) && t-k >= 0; k++ {
			val += f.ar[k-1] * (z[t-k] - f.mu)
		}
		for k := 1; k <= len(f.ma) && t-k >= 0; k++ {
			val += f.ma[k-1] * e[t-k]
		}
		z[t] = val
	}

	res := make([]float64, h)
	for i := range res {
		res[i] = f.center + f.scale*z[n+i]
	}
	return res
}

// fit estimates the specification over the stationary series w by minimizing the
// conditional sum of squares with Nelder-Mead
func (m sarma) fit(w []float64, opt *Options) (*fitted, error) {
	nParams := m.numParams()
	maxLag := m.p + m.sp*m.s
	if len(w)-maxLag < nParams+opt.MinResidualDOF {
		return nil, fmt.Errorf("%d observations after differencing, need at least %d, %w",
			len(w), maxLag+nParams+opt.MinResidualDOF, ErrModelFitFailure)
	}
	for _, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("series contains non-finite values, %w", ErrModelFitFailure)
		}
	}

	center, scale := stat.MeanStdDev(w, nil)
	if scale == 0 || math.IsNaN(scale) {
		return nil, fmt.Errorf("series is constant after differencing, %w", ErrModelFitFailure)
	}
	z := make([]float64, len(w))
	for i, v := range w {
		z[i] = (v - center) / scale
	}

	res := &fitted{
		z:      z,
		center: center,
		scale:  scale,
		status: optimize.Success,
	}

	x0 := m.startingValues(z)

	objective := func(x []float64) float64 {
		phi, theta, sphi, stheta, mu := m.unpack(x)
		if !admissible(phi, theta, sphi, stheta) {
			return penalty
		}
		ar := expandAR(phi, sphi, m.s)
		ma := expandMA(theta, stheta, m.s)
		_, sse := residuals(z, ar, ma, mu)
		if math.IsNaN(sse) || math.IsInf(sse, 0) {
			return penalty
		}
		return sse
	}

	x := x0
	if nParams > 0 {
		problem := optimize.Problem{Func: objective}
		settings := &optimize.Settings{
			MajorIterations: opt.MaxIterations,
			FuncEvaluations: opt.MaxEvaluations,
			Converger: &optimize.FunctionConverge{
				Absolute:   opt.Tolerance,
				Relative:   opt.Tolerance,
				Iterations: opt.ConvergeIterations,
			},
		}
		result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{SimplexSize: 0.1})
		if result == nil {
			return nil, fmt.Errorf("unable to minimize conditional sum of squares, %v, %w", err, ErrModelFitFailure)
		}
		if !converged(result.Status) {
			return nil, fmt.Errorf("optimizer stopped with status %v, %w", result.Status, ErrModelFitFailure)
		}
		if result.F >= penalty {
			return nil, fmt.Errorf("no stationary and invertible solution found, %w", ErrModelFitFailure)
		}
		x = result.X
		res.status = result.Status
	}

	phi, theta, sphi, stheta, mu := m.unpack(x)
	res.ar = expandAR(phi, sphi, m.s)
	res.ma = expandMA(theta, stheta, m.s)
	res.mu = mu
	res.resid, res.sse = residuals(z, res.ar, res.ma, mu)
	return res, nil
}

func converged(status optimize.Status) bool {
	switch status {
	case optimize.Success,
		optimize.MethodConverge,
		optimize.FunctionConvergence,
		optimize.FunctionThreshold,
		optimize.GradientThreshold,
		optimize.StepConvergence:
		return true
	}
	return false
}

// startingValues seeds the AR terms with Yule-Walker estimates and everything else at zero
func (m sarma) startingValues(z []float64) []float64 {
	x0 := make([]float64, m.numParams())
	phi, _, sphi, _, _ := m.unpack(x0)

	if m.p > 0 {
		acf := autocorrelations(z, 1, m.p)
		if coef, err := levinsonDurbin(acf, m.p); err == nil && maxInverseRoot(coef) < 1 {
			copy(phi, coef)
		}
	}
	if m.sp > 0 {
		acf := autocorrelations(z, m.s, m.sp)
		if coef, err := levinsonDurbin(acf, m.sp); err == nil && maxInverseRoot(coef) < 1 {
			copy(sphi, coef)
		}
	}
	return x0
}

// autocorrelations returns the sample autocorrelation at lags 0, step, 2*step, ... up to
// order*step
func autocorrelations(z []float64, step, order int) []float64 {
	mean := stat.Mean(z, nil)
	centered := slices.Clone(z)
	floats.AddConst(-mean, centered)

	c0 := floats.Dot(centered, centered)
	acf := make([]float64, order+1)
	if c0 == 0 {
		return acf
	}
	acf[0] = 1
	for k := 1; k <= order; k++ {
		lag := k * step
		if lag >= len(centered) {
			break
		}
		acf[k] = floats.Dot(centered[lag:], centered[:len(centered)-lag]) / c0
	}
	return acf
}

// levinsonDurbin solves the Yule-Walker equations for an AR(p) given autocorrelations
func levinsonDurbin(acf []float64, p int) ([]float64, error) {
	if p == 0 {
		return []float64{}, nil
	}

	phi := make([][]float64, p+1)
	for i := range phi {
		phi[i] = make([]float64, p+1)
	}

	v := acf[0]
	for k := 1; k <= p; k++ {
		if v <= 0 {
			return nil, errLevinsonDurbin
		}
		num := acf[k]
		for j := 1; j < k; j++ {
			num -= phi[k-1][j] * acf[k-j]
		}
		phi[k][k] = num / v
		for j := 1; j < k; j++ {
			phi[k][j] = phi[k-1][j] - phi[k][k]*phi[k-1][k-j]
		}
		v *= 1 - phi[k][k]*phi[k][k]
	}

	coef := make([]float64, p)
	for i := range coef {
		coef[i] = phi[p][i+1]
	}
	return coef, nil
}
