package market

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBars(n int, closeAt func(i int) float64) []Bar {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]Bar, n)
	for i := range bars {
		bars[i] = Bar{
			Date:   start.AddDate(0, 0, i),
			Close:  closeAt(i),
			Volume: 1000 + float64(i),
		}
	}
	return bars
}

func TestBuildObservationsWarmup(t *testing.T) {
	bars := makeBars(60, func(i int) float64 { return 100 + float64(i) })

	obs, err := BuildObservations(bars, 5.33, 308.0)
	require.NoError(t, err)

	// The first 20 bars are warmup only.
	require.Len(t, obs, 40)
	assert.Equal(t, bars[20].Date, obs[0].Date)
	assert.Equal(t, bars[20].Close, obs[0].Close)
	assert.Equal(t, bars[20].Volume, obs[0].Volume)
	assert.Equal(t, 5.33, obs[0].MacroRate)
	assert.Equal(t, 308.0, obs[0].MacroIndex)

	// SMA over closes 101..120 is 110.5.
	assert.InDelta(t, 110.5, obs[0].SMA20, 1e-9)

	// Returns shrink as the price grows, so volatility is small but nonzero.
	assert.Greater(t, obs[0].Volatility, 0.0)
	assert.Less(t, obs[0].Volatility, 0.01)
	assert.False(t, math.IsNaN(obs[0].Volatility))
}

func TestBuildObservationsConstantClose(t *testing.T) {
	bars := makeBars(30, func(i int) float64 { return 50 })

	obs, err := BuildObservations(bars, 4.5, 300)
	require.NoError(t, err)
	require.Len(t, obs, 10)

	for _, o := range obs {
		assert.Equal(t, 50.0, o.SMA20)
		assert.Equal(t, 0.0, o.Volatility)
	}
}

func TestBuildObservationsTooFewBars(t *testing.T) {
	bars := makeBars(20, func(i int) float64 { return 100 + float64(i) })

	_, err := BuildObservations(bars, 5.33, 308.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need more than 20 bars")
}
