package commands

import (
	"fmt"

	"github.com/wonny/stockcast/backend/internal/batch"
	"github.com/wonny/stockcast/backend/internal/market"
	"github.com/wonny/stockcast/backend/internal/regress"
	"github.com/wonny/stockcast/backend/internal/store"
	"github.com/wonny/stockcast/backend/pkg/config"
	"github.com/wonny/stockcast/backend/pkg/database"
	"github.com/wonny/stockcast/backend/pkg/httputil"
	"github.com/wonny/stockcast/backend/pkg/logger"
	"github.com/wonny/stockcast/backend/pkg/redis"
)

// deps bundles the shared wiring for commands that run the full pipeline.
type deps struct {
	cfg    *config.Config
	log    *logger.Logger
	db     *database.DB
	redis  *redis.Client
	repo   *store.PredictionRepository
	runner *batch.Runner
}

// buildDeps loads config and wires the database, cache, market client and
// batch runner. Call close() when done.
func buildDeps() (*deps, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	var cache *redis.Cache
	var limiter *redis.RateLimiter
	if redisClient.Enabled() {
		cache = redis.NewCache(redisClient, "stockcast")
		limiter = redis.NewRateLimiter(redisClient, "stockcast")
	}

	httpClient := httputil.New(cfg, log.WithComponent("http"))
	marketClient := market.NewClient(cfg, httpClient, cache, log.WithComponent("market"))

	repo := store.NewPredictionRepository(db.Pool, cfg.Batch.Table)
	predictor := regress.NewPredictor(log.WithComponent("regress").Zerolog())

	runner := batch.NewRunner(cfg, marketClient, predictor, repo, nil, limiter, log.WithComponent("batch"))

	cleanup := func() {
		redisClient.Close()
		db.Close()
	}

	return &deps{
		cfg:    cfg,
		log:    log,
		db:     db,
		redis:  redisClient,
		repo:   repo,
		runner: runner,
	}, cleanup, nil
}
