package regress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitRidge_ZeroPenaltyMatchesOLS(t *testing.T) {
	// Single centered feature, y = 2x + 5. OLS gives beta = 2, intercept = 5
	// exactly; the closed-form ridge solve with lambda = 0 must reproduce it.
	x := [][]float64{{-3}, {-1}, {1}, {3}}
	y := []float64{-1, 3, 7, 11}

	model, err := FitRidge(x, y, 0)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, model.Coef[0], 1e-12)
	assert.InDelta(t, 5.0, model.Intercept, 1e-12)

	// A vanishing penalty approaches the same answer.
	small, err := FitRidge(x, y, 1e-9)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, small.Coef[0], 1e-6)
}

func TestFitRidge_TwoFeatureOLS(t *testing.T) {
	// Orthogonal centered columns: OLS coefficients are just
	// (x_j . y) / (x_j . x_j), so beta = (1.5, -0.5) with intercept ybar = 10.
	x := [][]float64{
		{-1, -1},
		{-1, 1},
		{1, -1},
		{1, 1},
	}
	y := []float64{9, 8, 12, 11}

	model, err := FitRidge(x, y, 0)
	require.NoError(t, err)

	assert.InDelta(t, 1.5, model.Coef[0], 1e-12)
	assert.InDelta(t, -0.5, model.Coef[1], 1e-12)
	assert.InDelta(t, 10.0, model.Intercept, 1e-12)

	preds := model.Predict(x)
	for i := range y {
		assert.InDelta(t, y[i], preds[i], 1e-9, "row %d", i)
	}
}

func TestFitRidge_PenaltyShrinksCoefficients(t *testing.T) {
	x := [][]float64{{-3}, {-1}, {1}, {3}}
	y := []float64{-1, 3, 7, 11}

	var prev float64 = 1e18
	for _, lambda := range []float64{0, 1, 10, 100} {
		model, err := FitRidge(x, y, lambda)
		require.NoError(t, err)
		assert.Less(t, model.Coef[0], prev, "lambda %v should shrink the coefficient", lambda)
		assert.Greater(t, model.Coef[0], 0.0)
		prev = model.Coef[0]
	}
}

func TestFitRidge_SingularSystemFailsLoudly(t *testing.T) {
	// Duplicate columns with lambda = 0: the Gram matrix is singular and the
	// solver must report it instead of returning a garbage fit.
	x := [][]float64{
		{-1, -1},
		{0, 0},
		{1, 1},
	}
	y := []float64{1, 2, 3}

	model, err := FitRidge(x, y, 0)
	require.Error(t, err)
	assert.Nil(t, model)

	// Any positive penalty makes the system definite again.
	model, err = FitRidge(x, y, 0.01)
	require.NoError(t, err)
	require.NotNil(t, model)
}

func TestFitRidge_Deterministic(t *testing.T) {
	x := [][]float64{{-2, 0.5}, {-1, -0.5}, {0, 1.5}, {1, -1.5}, {2, 0}}
	y := []float64{1.1, 2.3, 3.1, 4.2, 5.0}

	a, err := FitRidge(x, y, 0.5)
	require.NoError(t, err)
	b, err := FitRidge(x, y, 0.5)
	require.NoError(t, err)

	assert.Equal(t, a.Coef, b.Coef, "identical inputs must give bit-identical coefficients")
	assert.Equal(t, a.Intercept, b.Intercept)
}

func TestFitRidge_InputValidation(t *testing.T) {
	_, err := FitRidge(nil, nil, 1)
	require.Error(t, err)

	_, err = FitRidge([][]float64{{1}}, []float64{1, 2}, 1)
	require.Error(t, err)

	_, err = FitRidge([][]float64{{1}}, []float64{1}, -0.5)
	require.Error(t, err)
}
