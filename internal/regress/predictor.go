package regress

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

// Predictor runs the full train-and-predict pipeline. It holds only
// configuration; every call builds its own dataset, scaler and model, so one
// Predictor may serve concurrent requests without sharing any fitted state.
type Predictor struct {
	grid  []float64
	folds int
	log   zerolog.Logger
}

// NewPredictor creates a predictor with the default penalty grid and fold
// count.
func NewPredictor(log zerolog.Logger) *Predictor {
	return NewPredictorWithGrid(DefaultLambdaGrid, DefaultFolds, log)
}

// NewPredictorWithGrid creates a predictor with a custom penalty grid and
// fold count.
func NewPredictorWithGrid(grid []float64, folds int, log zerolog.Logger) *Predictor {
	return &Predictor{
		grid:  grid,
		folds: folds,
		log:   log.With().Str("component", "regress.predictor").Logger(),
	}
}

// Result is the outcome of one train-and-predict run. Created once per
// request and never stored by this package.
type Result struct {
	PredictedPrice    float64            `json:"predicted_price"`
	RSquared          float64            `json:"r_squared"`
	HitRate           float64            `json:"hit_rate"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
	Lambda            float64            `json:"lambda_selected"`
}

// Predict trains fresh on the given series and forecasts the close price
// `horizon` steps ahead of the current feature row.
//
// Evaluation metrics come from an internal 80/20 split whose test rows never
// touch the final model; the final model is refit on the full aligned matrix.
// The current row must hold 6 finite values in canonical feature order.
func (p *Predictor) Predict(series []Observation, horizon int, current []float64) (*Result, error) {
	if len(current) != NumFeatures {
		return nil, fmt.Errorf("current features: expected %d values, got %d", NumFeatures, len(current))
	}

	ds, err := Align(series, horizon)
	if err != nil {
		return nil, err
	}

	metrics, err := Evaluate(ds, p.grid, p.folds)
	if err != nil {
		return nil, err
	}

	// Refit on the full matrix for the actual forecast.
	scaler := FitScaler(ds.X)
	lambda, err := SelectLambda(ds.X, ds.Y, p.grid, p.folds)
	if err != nil {
		return nil, fmt.Errorf("final model: %w", err)
	}

	model, err := FitRidge(scaler.Transform(ds.X), ds.Y, lambda)
	if err != nil {
		return nil, fmt.Errorf("final model: %w", err)
	}

	predicted := model.PredictRow(scaler.TransformRow(current))

	result := &Result{
		PredictedPrice:    predicted,
		RSquared:          metrics.RSquared,
		HitRate:           metrics.HitRate,
		FeatureImportance: featureImportance(model.Coef),
		Lambda:            lambda,
	}

	p.log.Debug().
		Int("rows", len(ds.X)).
		Int("horizon", horizon).
		Float64("lambda", lambda).
		Float64("predicted_price", predicted).
		Float64("hit_rate", metrics.HitRate).
		Float64("r_squared", metrics.RSquared).
		Msg("prediction generated")

	return result, nil
}

// featureImportance converts coefficients to percentages of total absolute
// magnitude, keyed by canonical feature name. All zeros when the model has no
// weight at all (constant-target degenerate case), never NaN.
func featureImportance(coef []float64) map[string]float64 {
	var total float64
	for _, c := range coef {
		total += math.Abs(c)
	}

	importance := make(map[string]float64, len(coef))
	for j, c := range coef {
		if total == 0 {
			importance[FeatureNames[j]] = 0
			continue
		}
		importance[FeatureNames[j]] = math.Abs(c) / total * 100
	}
	return importance
}
