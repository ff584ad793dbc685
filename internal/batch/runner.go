package batch

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/stockcast/backend/internal/market"
	"github.com/wonny/stockcast/backend/internal/regress"
	"github.com/wonny/stockcast/backend/internal/store"
	"github.com/wonny/stockcast/backend/pkg/config"
	"github.com/wonny/stockcast/backend/pkg/logger"
	"github.com/wonny/stockcast/backend/pkg/redis"
)

// MarketData supplies the ticker universe and per-ticker price history.
type MarketData interface {
	FetchUniverse(ctx context.Context) ([]string, error)
	FetchHistory(ctx context.Context, ticker string) ([]market.Bar, error)
}

// Forecaster trains and predicts on one ticker's observations.
type Forecaster interface {
	Predict(series []regress.Observation, horizon int, current []float64) (*regress.Result, error)
}

// PredictionStore persists completed forecasts.
type PredictionStore interface {
	Save(ctx context.Context, p *store.Prediction) error
}

// Summary reports the outcome of one batch run.
type Summary struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Skipped   int           `json:"skipped"`
	Duration  time.Duration `json:"duration"`
}

// Runner walks the ticker universe and produces one forecast per ticker.
// Downloads are paced by a local limiter derived from the configured
// per-ticker delay, and optionally by a shared redis sliding window when
// multiple instances hit the same data source.
type Runner struct {
	marketData MarketData
	forecaster Forecaster
	repo       PredictionStore
	broker     *Broker
	logger     *logger.Logger

	horizon     int
	macroRate   float64
	macroIndex  float64
	localLimit  *rate.Limiter
	redisLimit  *redis.RateLimiter
	redisConfig redis.RateLimitConfig
}

// NewRunner creates a batch runner. broker may be nil when no one listens
// for progress; redisLimit may be nil to pace locally only.
func NewRunner(cfg *config.Config, marketData MarketData, forecaster Forecaster, repo PredictionStore, broker *Broker, redisLimit *redis.RateLimiter, log *logger.Logger) *Runner {
	if broker == nil {
		broker = NewBroker()
	}

	limit := rate.Inf
	if cfg.Batch.TickerDelay > 0 {
		limit = rate.Every(cfg.Batch.TickerDelay)
	}

	return &Runner{
		marketData:  marketData,
		forecaster:  forecaster,
		repo:        repo,
		broker:      broker,
		logger:      log,
		horizon:     cfg.Batch.Horizon,
		macroRate:   cfg.Market.MacroRate,
		macroIndex:  cfg.Market.MacroIndex,
		localLimit:  rate.NewLimiter(limit, 1),
		redisLimit:  redisLimit,
		redisConfig: redis.YahooRateLimit,
	}
}

// Broker exposes the progress broker for stream consumers.
func (r *Runner) Broker() *Broker {
	return r.broker
}

// Run processes the whole universe once. Per-ticker failures are logged and
// skipped; the run only fails outright when the universe itself cannot be
// fetched or the context is cancelled.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	tickers, err := r.marketData.FetchUniverse(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch universe: %w", err)
	}

	summary := &Summary{Total: len(tickers)}
	r.logger.WithFields(map[string]interface{}{
		"tickers": len(tickers),
		"horizon": r.horizon,
	}).Info("Batch prediction started")
	r.broker.Publish(Event{Type: EventStarted, Total: len(tickers)})

	for i, ticker := range tickers {
		if err := r.wait(ctx); err != nil {
			return summary, err
		}

		pred, err := r.processTicker(ctx, ticker)
		if err != nil {
			summary.Skipped++
			r.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"error":  err.Error(),
			}).Warn("Ticker skipped")
			r.broker.Publish(Event{
				Type: EventSkipped, Ticker: ticker, Index: i + 1, Total: len(tickers), Error: err.Error(),
			})
			continue
		}

		summary.Succeeded++
		r.broker.Publish(Event{
			Type: EventTicker, Ticker: ticker, Index: i + 1, Total: len(tickers),
			PredictedPrice: pred.PredictedPrice, Direction: pred.Direction,
		})
	}

	summary.Duration = time.Since(start)
	r.logger.WithFields(map[string]interface{}{
		"total":     summary.Total,
		"succeeded": summary.Succeeded,
		"skipped":   summary.Skipped,
		"duration":  summary.Duration,
	}).Info("Batch prediction finished")
	r.broker.Publish(Event{Type: EventFinished, Total: len(tickers)})

	return summary, nil
}

// wait blocks until the next download slot is available.
func (r *Runner) wait(ctx context.Context) error {
	if err := r.localLimit.Wait(ctx); err != nil {
		return err
	}
	if r.redisLimit != nil {
		if err := r.redisLimit.Wait(ctx, r.redisConfig); err != nil {
			return fmt.Errorf("shared rate limit: %w", err)
		}
	}
	return nil
}

// processTicker runs the fetch, feature, predict, store pipeline for one
// ticker.
func (r *Runner) processTicker(ctx context.Context, ticker string) (*store.Prediction, error) {
	bars, err := r.marketData.FetchHistory(ctx, ticker)
	if err != nil {
		return nil, err
	}

	obs, err := market.BuildObservations(bars, r.macroRate, r.macroIndex)
	if err != nil {
		return nil, err
	}

	last := obs[len(obs)-1]
	result, err := r.forecaster.Predict(obs, r.horizon, last.Features())
	if err != nil {
		return nil, err
	}

	pred := &store.Prediction{
		Ticker:         ticker,
		PredictedDate:  last.Date.AddDate(0, 0, r.horizon),
		PredictedPrice: result.PredictedPrice,
		LastClose:      last.Close,
		Direction:      store.DirectionOf(result.PredictedPrice, last.Close),
		RSquared:       result.RSquared,
		HitRate:        result.HitRate,
		Lambda:         result.Lambda,
		Importance:     result.FeatureImportance,
		CreatedAt:      time.Now().UTC(),
	}

	if err := r.repo.Save(ctx, pred); err != nil {
		return nil, err
	}

	r.logger.WithFields(map[string]interface{}{
		"ticker":          ticker,
		"predicted_price": pred.PredictedPrice,
		"direction":       pred.Direction,
		"lambda":          pred.Lambda,
	}).Debug("Ticker predicted")
	return pred, nil
}
