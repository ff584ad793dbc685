package regress

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// trainRatio is the time-ordered share of rows used for fitting during
// evaluation; the remainder is held out as the test split.
const trainRatio = 0.8

// Metrics holds out-of-sample quality measures for one training run.
//
// HitRate is the fraction of held-out predictions whose direction of change
// (vs the row's current close) matches the actual direction. RSquared is
// measured on the secondary price-change regression, which drops the close
// price from the features to isolate how much the contextual features alone
// explain movement, decoupled from autocorrelation in the price level. It may
// legitimately be negative for a model worse than the mean baseline.
type Metrics struct {
	RSquared float64
	HitRate  float64
}

// Evaluate fits and scores both models on a time-ordered 80/20 split.
// The first 80% of rows trains, the last 20% tests; no shuffling.
func Evaluate(ds *Dataset, grid []float64, folds int) (*Metrics, error) {
	n := len(ds.X)
	split := int(float64(n) * trainRatio)
	if split < MinTrainingRows/2 || split >= n {
		return nil, fmt.Errorf("evaluate: cannot split %d rows into train/test", n)
	}

	hitRate, err := evaluateHitRate(ds, split, grid, folds)
	if err != nil {
		return nil, err
	}

	rSquared, err := evaluateChangeR2(ds, split, grid, folds)
	if err != nil {
		return nil, err
	}

	return &Metrics{RSquared: rSquared, HitRate: hitRate}, nil
}

// evaluateHitRate fits the primary price model on the train split and scores
// directional accuracy on the test split.
func evaluateHitRate(ds *Dataset, split int, grid []float64, folds int) (float64, error) {
	trainX, testX := ds.X[:split], ds.X[split:]
	trainY, testY := ds.Y[:split], ds.Y[split:]

	scaler := FitScaler(trainX)
	lambda, err := SelectLambda(trainX, trainY, grid, folds)
	if err != nil {
		return 0, fmt.Errorf("primary model: %w", err)
	}

	model, err := FitRidge(scaler.Transform(trainX), trainY, lambda)
	if err != nil {
		return 0, fmt.Errorf("primary model: %w", err)
	}

	var hits, counted int
	for i, row := range testX {
		current := row[0] // close is feature column 0
		actual := testY[i] - current
		if actual == 0 {
			continue // flat rows are excluded from the denominator
		}
		predicted := model.PredictRow(scaler.TransformRow(row)) - current
		counted++
		if actual*predicted > 0 {
			hits++
		}
	}

	if counted == 0 {
		return 0, nil
	}
	return float64(hits) / float64(counted), nil
}

// evaluateChangeR2 fits the secondary price-change model on the train split
// and computes R² on the change test split.
func evaluateChangeR2(ds *Dataset, split int, grid []float64, folds int) (float64, error) {
	trainX, testX := ds.ChangeX[:split], ds.ChangeX[split:]
	trainY, testY := ds.ChangeY[:split], ds.ChangeY[split:]

	scaler := FitScaler(trainX)
	lambda, err := SelectLambda(trainX, trainY, grid, folds)
	if err != nil {
		return 0, fmt.Errorf("change model: %w", err)
	}

	model, err := FitRidge(scaler.Transform(trainX), trainY, lambda)
	if err != nil {
		return 0, fmt.Errorf("change model: %w", err)
	}

	mean := stat.Mean(testY, nil)
	var ssRes, ssTot float64
	for i, row := range testX {
		diff := testY[i] - model.PredictRow(scaler.TransformRow(row))
		ssRes += diff * diff
		dev := testY[i] - mean
		ssTot += dev * dev
	}

	if ssTot == 0 {
		return 0, nil // constant test target, R² undefined
	}
	return 1 - ssRes/ssTot, nil
}
