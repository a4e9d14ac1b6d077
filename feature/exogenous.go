package feature

import (
	"fmt"
	"strings"
)

// Exogenous is an externally supplied regressor such as a holiday flag
type Exogenous struct {
	Name string `json:"name"`
}

func NewExogenous(name string) *Exogenous {
	return &Exogenous{name}
}

func (e Exogenous) String() string {
	return fmt.Sprintf("exog_%s", e.Name)
}

func (e Exogenous) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return e.Name, true
	}
	return "", false
}

func (e Exogenous) Type() FeatureType {
	return FeatureTypeExogenous
}
