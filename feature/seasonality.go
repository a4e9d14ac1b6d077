package feature

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type FourierComp string

const (
	FourierCompSin FourierComp = "sin"
	FourierCompCos FourierComp = "cos"
)

// WeeklyPeriod is the period of the day of week cycle in daily data
const WeeklyPeriod = 7 * 24 * time.Hour

// Seasonality is one fourier term of a named cycle
type Seasonality struct {
	Name        string      `json:"name"`
	FourierComp FourierComp `json:"fourier_component"`
	Order       int         `json:"order"`
}

func NewSeasonality(name string, fcomp FourierComp, order int) *Seasonality {
	return &Seasonality{Name: name, FourierComp: fcomp, Order: order}
}

func (s Seasonality) String() string {
	return fmt.Sprintf("seas_%s_%02d_%s", s.Name, s.Order, s.FourierComp)
}

func (s Seasonality) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return s.Name, true
	case "fourier_component":
		return string(s.FourierComp), true
	case "order":
		return strconv.Itoa(s.Order), true
	}
	return "", false
}

func (s Seasonality) Type() FeatureType {
	return FeatureTypeSeasonality
}

// Generate evaluates the term at each epoch second in t for a cycle of the given period
func (s Seasonality) Generate(t []float64, period time.Duration) []float64 {
	omega := 2.0 * math.Pi * float64(s.Order) / period.Seconds()
	fn := math.Sin
	if s.FourierComp == FourierCompCos {
		fn = math.Cos
	}
	res := make([]float64, len(t))
	for i, sec := range t {
		res[i] = fn(omega * sec)
	}
	return res
}

// Weekly returns sin/cos pairs for orders 1 through orders of a 7 day cycle evaluated at
// each timestamp. Values depend only on the timestamp so training and future rows line up.
func Weekly(t []time.Time, orders int) *Set {
	epoch := make([]float64, len(t))
	for i, tPnt := range t {
		epoch[i] = float64(tPnt.Unix())
	}

	x := NewSet()
	for order := 1; order <= orders; order++ {
		for _, comp := range []FourierComp{FourierCompSin, FourierCompCos} {
			feat := NewSeasonality("weekly", comp, order)
			x.Set(feat, feat.Generate(epoch, WeeklyPeriod))
		}
	}
	return x
}
