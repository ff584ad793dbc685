package regress

import (
	"gonum.org/v1/gonum/stat"
)

// Scaler holds per-column z-score state fitted on a training subset.
// The same state must be reused for every other subset derived from the same
// training run (validation, test, the single current-feature row); refitting
// on held-out data would leak future information into the scale.
type Scaler struct {
	Mean []float64
	Std  []float64
}

// FitScaler computes per-column mean and population standard deviation.
func FitScaler(x [][]float64) *Scaler {
	if len(x) == 0 {
		return &Scaler{}
	}

	cols := len(x[0])
	s := &Scaler{
		Mean: make([]float64, cols),
		Std:  make([]float64, cols),
	}

	col := make([]float64, len(x))
	for j := 0; j < cols; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		s.Mean[j] = stat.Mean(col, nil)
		s.Std[j] = stat.PopStdDev(col, nil)
	}

	return s
}

// Transform applies (x - mean) / std column-wise and returns a new matrix.
// A zero-variance column scales to 0 for every row.
func (s *Scaler) Transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = s.TransformRow(row)
	}
	return out
}

// TransformRow applies the fitted scale to a single feature row.
func (s *Scaler) TransformRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		if s.Std[j] == 0 {
			out[j] = 0
			continue
		}
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out
}
