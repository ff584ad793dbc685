package regress

import (
	"fmt"
)

// DefaultLambdaGrid is the candidate penalty grid searched during
// cross-validation, ordered from weakest to strongest regularization.
var DefaultLambdaGrid = []float64{0.001, 0.01, 0.1, 1, 10, 100, 1000}

// DefaultFolds is the number of cross-validation folds.
const DefaultFolds = 5

// SelectLambda searches the penalty grid with k-fold cross-validation over
// contiguous, index-ordered folds. Folds are never shuffled: shuffling a
// time series would leak future rows into past training folds. Each fold
// fits its own Scaler on the k-1 training folds only.
//
// The penalty with the lowest average validation MSE wins; ties go to the
// earliest-listed candidate. Returns the selected penalty, not a model.
func SelectLambda(x [][]float64, y []float64, grid []float64, k int) (float64, error) {
	n := len(x)
	if n == 0 || n != len(y) {
		return 0, fmt.Errorf("cross-validation: %d feature rows vs %d targets", n, len(y))
	}
	if len(grid) == 0 {
		return 0, fmt.Errorf("cross-validation: empty penalty grid")
	}
	if k < 2 {
		return 0, fmt.Errorf("cross-validation: need at least 2 folds, got %d", k)
	}
	if k > n {
		k = n
	}

	foldSize := n / k

	bestLambda := grid[0]
	bestMSE := 0.0
	haveBest := false

	for _, lambda := range grid {
		var total float64

		for f := 0; f < k; f++ {
			start := f * foldSize
			end := start + foldSize
			if f == k-1 {
				end = n // last fold absorbs the remainder
			}

			trainX := make([][]float64, 0, n-(end-start))
			trainY := make([]float64, 0, n-(end-start))
			trainX = append(trainX, x[:start]...)
			trainX = append(trainX, x[end:]...)
			trainY = append(trainY, y[:start]...)
			trainY = append(trainY, y[end:]...)

			scaler := FitScaler(trainX)
			model, err := FitRidge(scaler.Transform(trainX), trainY, lambda)
			if err != nil {
				return 0, fmt.Errorf("cross-validation fold %d: %w", f, err)
			}

			var sse float64
			for i := start; i < end; i++ {
				diff := model.PredictRow(scaler.TransformRow(x[i])) - y[i]
				sse += diff * diff
			}
			total += sse / float64(end-start)
		}

		avgMSE := total / float64(k)
		if !haveBest || avgMSE < bestMSE {
			haveBest = true
			bestMSE = avgMSE
			bestLambda = lambda
		}
	}

	return bestLambda, nil
}
