package market

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/stockcast/backend/pkg/redis"
)

// chartResponse mirrors the Yahoo Finance v8 chart API payload, reduced to
// the fields we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchHistory fetches daily candles for a ticker over the configured range.
func (c *Client) FetchHistory(ctx context.Context, ticker string) ([]Bar, error) {
	if c.cache != nil {
		var cached []Bar
		found, err := c.cache.Get(ctx, redis.HistoryKey(ticker), &cached)
		if err != nil {
			c.logger.WithError(err).Warn("History cache lookup failed")
		} else if found {
			return cached, nil
		}
	}

	url := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d", c.yahooBaseURL, ticker, c.historyRange)

	var payload chartResponse
	if err := c.httpClient.GetJSON(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", ticker, err)
	}

	bars, err := parseChart(&payload)
	if err != nil {
		return nil, fmt.Errorf("parse history for %s: %w", ticker, err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, redis.HistoryKey(ticker), bars, redis.TTLShort); err != nil {
			c.logger.WithError(err).Warn("History cache write failed")
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"bars":   len(bars),
	}).Debug("Fetched price history")
	return bars, nil
}

// parseChart converts the chart payload into daily bars. Rows with a null
// close are dropped; a null volume is kept as 0.
func parseChart(payload *chartResponse) ([]Bar, error) {
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error %s: %s", payload.Chart.Error.Code, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart API returned no result")
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart API returned no quote block")
	}

	quote := result.Indicators.Quote[0]
	if len(result.Timestamp) != len(quote.Close) {
		return nil, fmt.Errorf("chart API timestamp/close length mismatch: %d vs %d", len(result.Timestamp), len(quote.Close))
	}

	bars := make([]Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if quote.Close[i] == nil {
			continue
		}

		var volume float64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}

		bars = append(bars, Bar{
			Date:   time.Unix(ts, 0).UTC(),
			Close:  *quote.Close[i],
			Volume: volume,
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("chart API returned no usable rows")
	}
	return bars, nil
}
