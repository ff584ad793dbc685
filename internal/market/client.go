package market

import (
	"time"

	"github.com/wonny/stockcast/backend/pkg/config"
	"github.com/wonny/stockcast/backend/pkg/httputil"
	"github.com/wonny/stockcast/backend/pkg/logger"
	"github.com/wonny/stockcast/backend/pkg/redis"
)

// Client fetches market data: daily candles from the Yahoo Finance chart API
// and the S&P 500 constituent list from Wikipedia. Results are cached in
// redis when a cache is provided.
type Client struct {
	httpClient   *httputil.Client
	cache        *redis.Cache
	logger       *logger.Logger
	yahooBaseURL string
	universeURL  string
	historyRange string
}

// NewClient creates a market data client. cache may be nil, in which case
// every call goes to the network.
func NewClient(cfg *config.Config, httpClient *httputil.Client, cache *redis.Cache, log *logger.Logger) *Client {
	return &Client{
		httpClient:   httpClient,
		cache:        cache,
		logger:       log,
		yahooBaseURL: cfg.Market.YahooBaseURL,
		universeURL:  cfg.Market.UniverseURL,
		historyRange: cfg.Market.HistoryRange,
	}
}

// Bar is one daily candle.
type Bar struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}
