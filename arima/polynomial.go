package arima

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// expandAR multiplies (1 - sum phi_i L^i)(1 - sum Phi_j L^{js}) and returns a where the
// product is 1 - sum a_k L^k.
func expandAR(phi, sphi []float64, s int) []float64 {
	n := len(phi) + len(sphi)*s
	a := make([]float64, n)
	for i, c := range phi {
		a[i] += c
	}
	for j, sc := range sphi {
		lag := (j + 1) * s
		a[lag-1] += sc
		for i, c := range phi {
			a[lag+i] -= c * sc
		}
	}
	return a
}

// expandMA multiplies (1 + sum theta_i L^i)(1 + sum Theta_j L^{js}) and returns b where the
// product is 1 + sum b_k L^k.
func expandMA(theta, stheta []float64, s int) []float64 {
	n := len(theta) + len(stheta)*s
	b := make([]float64, n)
	for i, c := range theta {
		b[i] += c
	}
	for j, sc := range stheta {
		lag := (j + 1) * s
		b[lag-1] += sc
		for i, c := range theta {
			b[lag+i] += c * sc
		}
	}
	return b
}

// maxInverseRoot returns the largest modulus of the inverse roots of 1 - sum c_i z^i, the
// eigenvalues of its companion matrix. The polynomial has all roots outside the unit
// circle when the result is below 1.
func maxInverseRoot(c []float64) float64 {
	k := len(c)
	switch k {
	case 0:
		return 0
	case 1:
		return math.Abs(c[0])
	}

	comp := mat.NewDense(k, k, nil)
	for j := 0; j < k; j++ {
		comp.Set(0, j, c[j])
	}
	for i := 1; i < k; i++ {
		comp.Set(i, i-1, 1)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(comp, mat.EigenNone); !ok {
		return math.Inf(1)
	}

	var maxMod float64
	for _, v := range eig.Values(nil) {
		maxMod = math.Max(maxMod, cmplx.Abs(v))
	}
	return maxMod
}

func negate(c []float64) []float64 {
	res := make([]float64, len(c))
	for i, v := range c {
		res[i] = -v
	}
	return res
}

// difference applies lag differencing d times
func difference(y []float64, lag, d int) []float64 {
	res := y
	for i := 0; i < d; i++ {
		if len(res) <= lag {
			return nil
		}
		next := make([]float64, len(res)-lag)
		for t := lag; t < len(res); t++ {
			next[t-lag] = res[t] - res[t-lag]
		}
		res = next
	}
	return res
}

// differencing tracks every intermediate level so that forecasts can be integrated back
// to the original scale. Regular differences are applied before seasonal ones.
type differencing struct {
	levels [][]float64
	lags   []int
}

func newDifferencing(y []float64, order Order, seasonal SeasonalOrder) *differencing {
	d := &differencing{levels: [][]float64{y}}
	cur := y
	for i := 0; i < order.D; i++ {
		cur = difference(cur, 1, 1)
		d.levels = append(d.levels, cur)
		d.lags = append(d.lags, 1)
	}
	for i := 0; i < seasonal.D; i++ {
		cur = difference(cur, seasonal.S, 1)
		d.levels = append(d.levels, cur)
		d.lags = append(d.lags, seasonal.S)
	}
	return d
}

// stationary returns the fully differenced series
func (d *differencing) stationary() []float64 {
	return d.levels[len(d.levels)-1]
}

// integrate undoes each differencing level in reverse, extending every level's history
// with the forecasts of the level above it.
func (d *differencing) integrate(forecast []float64) []float64 {
	res := make([]float64, len(forecast))
	copy(res, forecast)

	for lvl := len(d.lags) - 1; lvl >= 0; lvl-- {
		lag := d.lags[lvl]
		hist := d.levels[lvl]
		n := len(hist)

		ext := make([]float64, n+len(res))
		copy(ext, hist)
		for j, v := range res {
			ext[n+j] = v + ext[n+j-lag]
		}
		res = ext[n:]
	}
	return res
}
