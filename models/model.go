// Package models contains the regression models used to learn a target from lagged and
// exogenous features.
package models

import "gonum.org/v1/gonum/mat"

// Model is a regression over an m x n design matrix and an m x 1 target
type Model interface {
	Fit(x, y mat.Matrix) error
	Predict(x mat.Matrix) ([]float64, error)
	Score(x, y mat.Matrix) (float64, error)
	Intercept() float64
	Coef() []float64
}

var (
	_ Model = (*OLSRegression)(nil)
	_ Model = (*GradientBoostingRegression)(nil)
)
