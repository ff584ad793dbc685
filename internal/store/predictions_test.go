package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockcast/backend/pkg/config"
	"github.com/wonny/stockcast/backend/pkg/database"
)

func TestDirectionOf(t *testing.T) {
	tests := []struct {
		name      string
		predicted float64
		lastClose float64
		want      int
	}{
		{"up", 105.0, 100.0, 1},
		{"down", 95.0, 100.0, -1},
		{"flat counts as down", 100.0, 100.0, -1},
		{"tiny move up", 100.0000001, 100.0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DirectionOf(tt.predicted, tt.lastClose))
		})
	}
}

func TestNewPredictionRepositoryDefaultTable(t *testing.T) {
	r := NewPredictionRepository(nil, "")
	assert.Equal(t, "predictions", r.table)

	r = NewPredictionRepository(nil, "predictions_staging")
	assert.Equal(t, "predictions_staging", r.table)
}

func TestPredictionRepositoryRoundTrip(t *testing.T) {
	// Integration test against a real database.
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := database.New(cfg)
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo := NewPredictionRepository(db.Pool, cfg.Batch.Table)

	p := &Prediction{
		Ticker:         "TEST",
		PredictedDate:  time.Now().UTC().Truncate(24 * time.Hour),
		PredictedPrice: 123.45,
		LastClose:      120.00,
		Direction:      1,
		RSquared:       0.42,
		HitRate:        0.58,
		Lambda:         0.1,
		Importance:     map[string]float64{"close": 60, "volume": 40},
		CreatedAt:      time.Now().UTC(),
	}

	require.NoError(t, repo.Save(ctx, p))

	// Saving again for the same (ticker, date) must update, not duplicate.
	p.PredictedPrice = 124.00
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.GetByTicker(ctx, "TEST")
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, 124.00, got[0].PredictedPrice)

	latest, err := repo.GetLatest(ctx, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, latest)
}
