package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Prediction is one stored forecast row. A row is keyed by
// (ticker, predicted_date) so re-running a batch for the same day updates in
// place instead of duplicating.
type Prediction struct {
	Ticker         string             `json:"ticker"`
	PredictedDate  time.Time          `json:"predicted_date"`
	PredictedPrice float64            `json:"predicted_price"`
	LastClose      float64            `json:"last_close"`
	Direction      int                `json:"predicted_direction"`
	RSquared       float64            `json:"r_squared"`
	HitRate        float64            `json:"hit_rate"`
	Lambda         float64            `json:"lambda_selected"`
	Importance     map[string]float64 `json:"feature_importance"`
	CreatedAt      time.Time          `json:"created_at"`
}

// DirectionOf maps a forecast against the last close to +1 (up) or -1 (down
// or flat).
func DirectionOf(predictedPrice, lastClose float64) int {
	if predictedPrice > lastClose {
		return 1
	}
	return -1
}

// PredictionRepository persists batch forecasts.
type PredictionRepository struct {
	pool  *pgxpool.Pool
	table string
}

// NewPredictionRepository creates a repository writing to the given table.
func NewPredictionRepository(pool *pgxpool.Pool, table string) *PredictionRepository {
	if table == "" {
		table = "predictions"
	}
	return &PredictionRepository{pool: pool, table: table}
}

// Save upserts a single prediction.
func (r *PredictionRepository) Save(ctx context.Context, p *Prediction) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (ticker, predicted_date, predicted_price, last_close, predicted_direction, r_squared, hit_rate, lambda_selected, feature_importance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (ticker, predicted_date) DO UPDATE SET
			predicted_price = EXCLUDED.predicted_price,
			last_close = EXCLUDED.last_close,
			predicted_direction = EXCLUDED.predicted_direction,
			r_squared = EXCLUDED.r_squared,
			hit_rate = EXCLUDED.hit_rate,
			lambda_selected = EXCLUDED.lambda_selected,
			feature_importance = EXCLUDED.feature_importance,
			created_at = EXCLUDED.created_at
	`, r.table)

	_, err := r.pool.Exec(ctx, query,
		p.Ticker, p.PredictedDate, p.PredictedPrice, p.LastClose, p.Direction,
		p.RSquared, p.HitRate, p.Lambda, p.Importance, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save prediction for %s: %w", p.Ticker, err)
	}
	return nil
}

// GetLatest retrieves the most recent predictions across all tickers.
func (r *PredictionRepository) GetLatest(ctx context.Context, limit int) ([]*Prediction, error) {
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(`
		SELECT ticker, predicted_date, predicted_price, last_close, predicted_direction, r_squared, hit_rate, lambda_selected, feature_importance, created_at
		FROM %s
		ORDER BY created_at DESC
		LIMIT $1
	`, r.table)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query latest predictions: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// GetByTicker retrieves all stored predictions for one ticker, newest first.
func (r *PredictionRepository) GetByTicker(ctx context.Context, ticker string) ([]*Prediction, error) {
	query := fmt.Sprintf(`
		SELECT ticker, predicted_date, predicted_price, last_close, predicted_direction, r_squared, hit_rate, lambda_selected, feature_importance, created_at
		FROM %s
		WHERE ticker = $1
		ORDER BY predicted_date DESC
	`, r.table)

	rows, err := r.pool.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("query predictions for %s: %w", ticker, err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanPredictions(rows rowScanner) ([]*Prediction, error) {
	var preds []*Prediction
	for rows.Next() {
		var p Prediction
		if err := rows.Scan(
			&p.Ticker, &p.PredictedDate, &p.PredictedPrice, &p.LastClose, &p.Direction,
			&p.RSquared, &p.HitRate, &p.Lambda, &p.Importance, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan prediction row: %w", err)
		}
		preds = append(preds, &p)
	}
	return preds, rows.Err()
}
