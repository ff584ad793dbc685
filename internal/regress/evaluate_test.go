package regress

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_PerfectLinearUptrend(t *testing.T) {
	// Close rises by exactly 1 every day. Every actual direction is up and
	// the fitted model tracks the trend, so the hit rate is perfect. The
	// change target is the constant 1, which makes the change-model test
	// variance zero; by convention that reports R² = 0 instead of dividing
	// by zero.
	ds, err := Align(makeSeries(100), 1)
	require.NoError(t, err)

	metrics, err := Evaluate(ds, DefaultLambdaGrid, DefaultFolds)
	require.NoError(t, err)

	assert.Equal(t, 1.0, metrics.HitRate)
	assert.Equal(t, 0.0, metrics.RSquared)
}

func TestEvaluate_TrendWithContextDrivenIncrement(t *testing.T) {
	// The daily increment is 1 + 0.5*sin(i), carried in the volatility
	// feature. The change model sees a target that is exactly linear in one
	// of its context features, so its out-of-sample R² must be high, and the
	// increment never goes negative so every direction is up.
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make([]Observation, 200)
	close := 100.0
	for i := range series {
		wiggle := math.Sin(float64(i))
		series[i] = Observation{
			Date:       start.AddDate(0, 0, i),
			Close:      close,
			Volume:     1000,
			SMA20:      close - 2,
			Volatility: wiggle,
			MacroRate:  4.5,
			MacroIndex: 300,
		}
		close += 1 + 0.5*wiggle
	}

	ds, err := Align(series, 1)
	require.NoError(t, err)

	metrics, err := Evaluate(ds, DefaultLambdaGrid, DefaultFolds)
	require.NoError(t, err)

	assert.Greater(t, metrics.RSquared, 0.8)
	assert.LessOrEqual(t, metrics.RSquared, 1.0)
	assert.Greater(t, metrics.HitRate, 0.9)
}

func TestEvaluate_NoisyTrendLongHorizon(t *testing.T) {
	// 500 days of noisy upward-trending data with horizon 79, mirroring a
	// real support case. The pipeline must complete and keep both metrics in
	// their documented ranges; pure noise may push R² below zero but never
	// above 1.
	rng := rand.New(rand.NewSource(42))
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make([]Observation, 500)
	for i := range series {
		trend := 100 + 0.5*float64(i)
		series[i] = Observation{
			Date:       start.AddDate(0, 0, i),
			Close:      trend + rng.NormFloat64()*3,
			Volume:     1000 + rng.NormFloat64()*200,
			SMA20:      trend - 2,
			Volatility: 0.02,
			MacroRate:  4.5,
			MacroIndex: 300,
		}
	}

	ds, err := Align(series, 79)
	require.NoError(t, err)

	metrics, err := Evaluate(ds, DefaultLambdaGrid, DefaultFolds)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, metrics.HitRate, 0.0)
	assert.LessOrEqual(t, metrics.HitRate, 1.0)
	assert.GreaterOrEqual(t, metrics.RSquared, -1.0)
	assert.LessOrEqual(t, metrics.RSquared, 1.0)

	t.Logf("noisy horizon-79 run: hit_rate=%.4f r_squared=%.4f", metrics.HitRate, metrics.RSquared)
}

func TestEvaluate_AllFlatTestRows(t *testing.T) {
	// A completely flat series has no directional rows at all; the hit rate
	// reports 0 rather than NaN, and the constant change target reports
	// R² = 0.
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make([]Observation, 120)
	for i := range series {
		series[i] = Observation{
			Date:       start.AddDate(0, 0, i),
			Close:      50,
			Volume:     1000 + float64(i%13)*10,
			SMA20:      50,
			Volatility: 0.01,
			MacroRate:  4.5,
			MacroIndex: 300,
		}
	}

	ds, err := Align(series, 1)
	require.NoError(t, err)

	metrics, err := Evaluate(ds, DefaultLambdaGrid, DefaultFolds)
	require.NoError(t, err)

	assert.Equal(t, 0.0, metrics.HitRate)
	assert.Equal(t, 0.0, metrics.RSquared)
}
