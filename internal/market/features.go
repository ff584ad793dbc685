package market

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/stockcast/backend/internal/regress"
)

// featureWindow is the lookback for the moving average and the volatility
// estimate. The first featureWindow bars are warmup and produce no
// observation.
const featureWindow = 20

// BuildObservations turns daily bars into model observations. For each bar
// past the warmup it computes the 20-day simple moving average of the close
// and the 20-day sample standard deviation of log returns, and attaches the
// configured macro rate and index.
func BuildObservations(bars []Bar, macroRate, macroIndex float64) ([]regress.Observation, error) {
	if len(bars) <= featureWindow {
		return nil, fmt.Errorf("need more than %d bars to compute features, have %d", featureWindow, len(bars))
	}

	// Log return per bar; index 0 has no prior close.
	returns := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		returns[i] = math.Log(bars[i].Close / bars[i-1].Close)
	}

	obs := make([]regress.Observation, 0, len(bars)-featureWindow)
	closes := make([]float64, featureWindow)
	for i := featureWindow; i < len(bars); i++ {
		for j := 0; j < featureWindow; j++ {
			closes[j] = bars[i-featureWindow+1+j].Close
		}

		obs = append(obs, regress.Observation{
			Date:       bars[i].Date,
			Close:      bars[i].Close,
			Volume:     bars[i].Volume,
			SMA20:      stat.Mean(closes, nil),
			Volatility: stat.StdDev(returns[i-featureWindow+1:i+1], nil),
			MacroRate:  macroRate,
			MacroIndex: macroIndex,
		})
	}

	return obs, nil
}
