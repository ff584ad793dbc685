package market

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/stockcast/backend/pkg/redis"
)

// fallbackUniverse is used when the constituent scrape fails, so the batch
// job still produces something instead of nothing.
var fallbackUniverse = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA"}

// FetchUniverse returns the S&P 500 ticker list scraped from Wikipedia.
// Tickers with share-class dots are rewritten to the dash form Yahoo expects
// (BRK.B -> BRK-B). A failed scrape falls back to a small static list.
func (c *Client) FetchUniverse(ctx context.Context) ([]string, error) {
	if c.cache != nil {
		var cached []string
		found, err := c.cache.Get(ctx, redis.UniverseKey(), &cached)
		if err != nil {
			c.logger.WithError(err).Warn("Universe cache lookup failed")
		} else if found {
			return cached, nil
		}
	}

	tickers, err := c.scrapeUniverse(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Constituent scrape failed, using fallback universe")
		return append([]string(nil), fallbackUniverse...), nil
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, redis.UniverseKey(), tickers, redis.TTLDaily); err != nil {
			c.logger.WithError(err).Warn("Universe cache write failed")
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"count": len(tickers),
	}).Info("Fetched ticker universe")
	return tickers, nil
}

// scrapeUniverse pulls the constituents table and extracts the symbol column.
func (c *Client) scrapeUniverse(ctx context.Context) ([]string, error) {
	resp, err := c.httpClient.GetWithHeaders(ctx, c.universeURL, map[string]string{
		"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	})
	if err != nil {
		return nil, fmt.Errorf("fetch universe page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse universe page: %w", err)
	}

	var tickers []string
	doc.Find("table#constituents tbody tr").Each(func(i int, row *goquery.Selection) {
		symbol := strings.TrimSpace(row.Find("td").First().Text())
		if symbol == "" {
			return
		}
		tickers = append(tickers, strings.ReplaceAll(symbol, ".", "-"))
	})

	if len(tickers) == 0 {
		return nil, fmt.Errorf("no symbols found in constituents table")
	}
	return tickers, nil
}
