package regress

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Model is a fitted ridge regression: coefficients over standardized features
// plus an intercept. Immutable once returned.
type Model struct {
	Coef      []float64
	Intercept float64
	Lambda    float64
}

// FitRidge solves the closed-form ridge problem
//
//	(XᵀX + λI) β = Xᵀ(y - ȳ)
//
// on an already-standardized matrix. The target is centered by its mean and
// the mean becomes the intercept. The system is solved via Cholesky
// factorization; for λ > 0 the matrix is positive definite and the solve
// always succeeds. A singular system (possible at λ = 0) is a fatal error,
// never a silent default fit.
func FitRidge(x [][]float64, y []float64, lambda float64) (*Model, error) {
	n := len(x)
	if n == 0 || n != len(y) {
		return nil, fmt.Errorf("ridge fit: %d feature rows vs %d targets", n, len(y))
	}
	if lambda < 0 {
		return nil, fmt.Errorf("ridge fit: negative penalty %v", lambda)
	}

	p := len(x[0])
	yMean := stat.Mean(y, nil)

	// Gram matrix XᵀX + λI.
	gram := mat.NewSymDense(p, nil)
	for j := 0; j < p; j++ {
		for k := j; k < p; k++ {
			var sum float64
			for i := 0; i < n; i++ {
				sum += x[i][j] * x[i][k]
			}
			if j == k {
				sum += lambda
			}
			gram.SetSym(j, k, sum)
		}
	}

	// Right-hand side Xᵀ(y - ȳ).
	rhs := mat.NewVecDense(p, nil)
	for j := 0; j < p; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += x[i][j] * (y[i] - yMean)
		}
		rhs.SetVec(j, sum)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(gram); !ok {
		return nil, fmt.Errorf("ridge fit: singular system for lambda=%v", lambda)
	}

	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, rhs); err != nil {
		return nil, fmt.Errorf("ridge fit: solve failed for lambda=%v: %w", lambda, err)
	}

	coef := make([]float64, p)
	for j := 0; j < p; j++ {
		coef[j] = beta.AtVec(j)
	}

	return &Model{Coef: coef, Intercept: yMean, Lambda: lambda}, nil
}

// Predict applies the model to every row of a standardized matrix.
func (m *Model) Predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = m.PredictRow(row)
	}
	return out
}

// PredictRow returns ŷ = row·β + intercept for a single standardized row.
func (m *Model) PredictRow(row []float64) float64 {
	pred := m.Intercept
	for j, v := range row {
		pred += m.Coef[j] * v
	}
	return pred
}
