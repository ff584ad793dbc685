package regress

import (
	"fmt"
	"time"
)

// MinTrainingRows is the minimum number of aligned feature/target rows
// required before any fitting is attempted.
const MinTrainingRows = 50

// NumFeatures is the width of a feature vector in canonical order.
const NumFeatures = 6

// FeatureNames lists the canonical feature order. Feature vectors, fitted
// coefficients and importance percentages all follow this order.
var FeatureNames = [NumFeatures]string{
	"close", "volume", "sma_20", "volatility", "macro_rate", "macro_index",
}

// Observation is a single time-stamped record of engineered features.
// Observations are ordered by date and immutable once ingested. The caller is
// responsible for ensuring all values are finite; NaN/Inf must not reach this
// package.
type Observation struct {
	Date       time.Time
	Close      float64
	Volume     float64
	SMA20      float64
	Volatility float64
	MacroRate  float64
	MacroIndex float64
}

// Features returns the observation's feature vector in canonical order.
func (o Observation) Features() []float64 {
	return []float64{o.Close, o.Volume, o.SMA20, o.Volatility, o.MacroRate, o.MacroIndex}
}

// contextFeatures returns the feature vector without the close price,
// used by the secondary price-change regression.
func (o Observation) contextFeatures() []float64 {
	return []float64{o.Volume, o.SMA20, o.Volatility, o.MacroRate, o.MacroIndex}
}

// Dataset is the supervised learning matrix built from an observation series
// and a forecast horizon. Row i of X holds Observation[i]'s features and Y[i]
// is Observation[i+horizon].Close. ChangeX/ChangeY carry the secondary
// price-change problem: the same rows minus the close column, with
// ChangeY[i] = Y[i] - Observation[i].Close.
type Dataset struct {
	X       [][]float64 // N x 6
	Y       []float64   // N
	ChangeX [][]float64 // N x 5
	ChangeY []float64   // N
	Horizon int
}

// Align builds the training matrix for the given series and horizon.
// Returns an InsufficientDataError when fewer than MinTrainingRows aligned
// rows remain.
func Align(series []Observation, horizon int) (*Dataset, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("horizon must be >= 1, got %d", horizon)
	}

	n := len(series) - horizon
	if n < MinTrainingRows {
		return nil, &InsufficientDataError{Rows: n, MinRows: MinTrainingRows, Horizon: horizon}
	}

	ds := &Dataset{
		X:       make([][]float64, n),
		Y:       make([]float64, n),
		ChangeX: make([][]float64, n),
		ChangeY: make([]float64, n),
		Horizon: horizon,
	}

	for i := 0; i < n; i++ {
		target := series[i+horizon].Close
		ds.X[i] = series[i].Features()
		ds.Y[i] = target
		ds.ChangeX[i] = series[i].contextFeatures()
		ds.ChangeY[i] = target - series[i].Close
	}

	return ds, nil
}
