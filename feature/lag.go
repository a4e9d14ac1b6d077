package feature

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Lag is the target value Order steps in the past
type Lag struct {
	Order int `json:"order"`
}

func NewLag(order int) *Lag {
	return &Lag{order}
}

func (l Lag) String() string {
	return fmt.Sprintf("lag_%02d", l.Order)
}

func (l Lag) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "order":
		return strconv.Itoa(l.Order), true
	}
	return "", false
}

func (l Lag) Type() FeatureType {
	return FeatureTypeLag
}

// Generate shifts y forward by the lag order. The first Order values have no history and
// are NaN.
func (l Lag) Generate(y []float64) []float64 {
	res := make([]float64, len(y))
	for i := range res {
		if i < l.Order {
			res[i] = math.NaN()
			continue
		}
		res[i] = y[i-l.Order]
	}
	return res
}
