package models

import (
	"testing"

	mat_ "github.com/aouyang1/go-salesforecaster/mat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testModel(t *testing.T, model Model, x, y mat.Matrix, intercept float64, coef []float64, tol float64) {
	err := model.Fit(x, y)
	require.Nil(t, err)

	assert.InDelta(t, intercept, model.Intercept(), tol)

	c := model.Coef()
	assert.InDeltaSlice(t, coef, c, tol)

	r2, err := model.Score(x, y)
	require.Nil(t, err)
	assert.InDelta(t, 1.0, r2, tol)
}

// generateBenchData builds a full rank design where feature j is a distinct power of the row index
func generateBenchData(nObs, nFeat int) (mat.Matrix, mat.Matrix, error) {
	data := make([][]float64, nObs)
	target := make([]float64, nObs)
	for i := 0; i < nObs; i++ {
		data[i] = make([]float64, nFeat)
		t := float64(i) / float64(nObs)
		val := 1.0
		for j := 0; j < nFeat; j++ {
			data[i][j] = val
			val *= t + float64(j%7)/10
		}
		target[i] = float64(i)
	}

	x, err := mat_.NewDenseFromArray(data)
	if err != nil {
		return nil, nil, err
	}

	y := mat.NewDense(nObs, 1, target)
	return x, y, nil
}
