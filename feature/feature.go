// Package feature describes the named regressors fed to the recursive models and
// assembles them into design matrices.
package feature

type FeatureType int

const (
	FeatureTypeLag FeatureType = iota
	FeatureTypeExogenous
	FeatureTypeSeasonality
)

func (f FeatureType) String() string {
	switch f {
	case FeatureTypeLag:
		return "lag"
	case FeatureTypeExogenous:
		return "exogenous"
	case FeatureTypeSeasonality:
		return "seasonality"
	}
	return "unknown"
}

type Feature interface {
	String() string
	Get(string) (string, bool)
	Type() FeatureType
}
