package timedataset

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// GenerateT creates n points at the given interval ending just before the time returned by
// nowFunc truncated to the minute.
func GenerateT(n int, interval time.Duration, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := time.Unix(nowFunc().Unix()/60*60, 0).Add(-time.Duration(n) * interval).UTC()
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

// Series is a synthetic value column
type Series []float64

// Add sums src into s in place

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

// GenerateConstY returns n copies of val
func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateTrendY returns a straight line starting at 0 increasing by slope per point
func GenerateTrendY(n int, slope float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, slope*float64(i))
	}
	return Series(y)
}

// GenerateNoise returns gaussian noise scaled by noiseScale. A fixed seed makes the series
// reproducible across runs.
func GenerateNoise(n int, noiseScale float64, seed uint64) Series {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, rng.NormFloat64()*noiseScale)
	}
	return Series(y)
}

// GeneratePulseY sets amp on every point where mask returns true
func GeneratePulseY(t []time.Time, amp float64, mask func(time.Time) bool) Series {
	y := make([]float64, len(t))
	for i, tPnt := range t {
		if mask(tPnt) {
			y[i] = amp
		}
	}
	return Series(y)
}
