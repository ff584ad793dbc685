package regress

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeSeries builds a deterministic observation series with a linear close
// trend; the remaining features get distinct values so column mix-ups show up
// in assertions.
func makeSeries(n int) []Observation {
	series := make([]Observation, n)
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		close := 100.0 + float64(i)
		series[i] = Observation{
			Date:       start.AddDate(0, 0, i),
			Close:      close,
			Volume:     1000 + float64(i)*3,
			SMA20:      close - 2,
			Volatility: 0.02,
			MacroRate:  4.5,
			MacroIndex: 300,
		}
	}
	return series
}

func TestAlign_RowAndTargetAlignment(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		horizon int
	}{
		{"horizon 1", 100, 1},
		{"horizon 5", 100, 5},
		{"horizon 79", 500, 79},
		{"exactly minimum rows", MinTrainingRows + 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := makeSeries(tt.length)

			ds, err := Align(series, tt.horizon)
			require.NoError(t, err)

			wantRows := tt.length - tt.horizon
			require.Len(t, ds.X, wantRows)
			require.Len(t, ds.Y, wantRows)
			require.Len(t, ds.ChangeX, wantRows)
			require.Len(t, ds.ChangeY, wantRows)

			for i := 0; i < wantRows; i++ {
				assert.Equal(t, series[i].Features(), ds.X[i], "row %d features", i)
				assert.Equal(t, series[i+tt.horizon].Close, ds.Y[i], "row %d target", i)
				assert.Equal(t, ds.Y[i]-series[i].Close, ds.ChangeY[i], "row %d change target", i)

				// Change rows drop the close column but keep the rest.
				require.Len(t, ds.ChangeX[i], NumFeatures-1)
				assert.Equal(t, ds.X[i][1:], ds.ChangeX[i], "row %d context features", i)
			}
		})
	}
}

func TestAlign_InsufficientData(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		horizon int
	}{
		{"one row short", MinTrainingRows, 1},
		{"horizon eats the series", 100, 60},
		{"horizon longer than series", 30, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Align(makeSeries(tt.length), tt.horizon)
			require.Error(t, err)
			assert.Nil(t, ds, "no partial result on failure")
			assert.True(t, IsInsufficientData(err))

			var insufficient *InsufficientDataError
			require.True(t, errors.As(err, &insufficient))
			assert.Equal(t, tt.length-tt.horizon, insufficient.Rows)
			assert.Equal(t, MinTrainingRows, insufficient.MinRows)
			assert.Equal(t, tt.horizon, insufficient.Horizon)
		})
	}
}

func TestAlign_InvalidHorizon(t *testing.T) {
	for _, horizon := range []int{0, -1} {
		_, err := Align(makeSeries(100), horizon)
		require.Error(t, err)
		assert.False(t, IsInsufficientData(err), "invalid horizon is not a data-volume problem")
	}
}
