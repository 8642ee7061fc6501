package vantage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jpillora/backoff"
)

// WatchItem is one quoted entry of the curated watchlist. Price fields are
// nil when the upstream quote lookup failed for that entry.
type WatchItem struct {
	Ticker    string   `json:"ticker"`
	Name      string   `json:"name"`
	Price     *float64 `json:"price"`
	Change    *float64 `json:"change"`
	ChangePct *float64 `json:"change_pct"`
}

// watchlistRetries is the attempt budget for watchlist polling. Unlike
// analyze fetches, whose failures the caller surfaces or swallows, the
// watchlist is a background convenience and may retry transient errors.
const watchlistRetries = 3

// newWatchlistBackoff creates a backoff with sensible defaults.
func newWatchlistBackoff() *backoff.Backoff {
	return &backoff.Backoff{
		Min:    250 * time.Millisecond,
		Max:    5 * time.Second,
		Factor: 2,
		Jitter: true,
	}
}

// Watchlist fetches the full categorized watchlist with live quotes.
func (c *Client) Watchlist(ctx context.Context) (map[string][]WatchItem, error) {
	endpoint := fmt.Sprintf("%s/api/market/watchlist", c.baseURL)

	var items map[string][]WatchItem
	if err := c.getJSONRetry(ctx, endpoint, &items); err != nil {
		return nil, err
	}

	return items, nil
}

// WatchlistCategory fetches quotes for a single category: stocks, crypto,
// or tokens.
func (c *Client) WatchlistCategory(ctx context.Context, category string) ([]WatchItem, error) {
	endpoint := fmt.Sprintf("%s/api/market/watchlist/category/%s",
		c.baseURL, url.PathEscape(category))

	var body struct {
		Category string      `json:"category"`
		Items    []WatchItem `json:"items"`
	}
	if err := c.getJSONRetry(ctx, endpoint, &body); err != nil {
		return nil, err
	}

	return body.Items, nil
}

func (c *Client) getJSONRetry(ctx context.Context, endpoint string, out any) error {
	retry := newWatchlistBackoff()

	var lastErr error
	for attempt := 0; attempt < watchlistRetries; attempt++ {
		lastErr = c.getJSON(ctx, endpoint, out)
		if lastErr == nil {
			return nil
		}

		// Client errors are not transient, give up immediately.
		var apiErr *APIError
		if errors.As(lastErr, &apiErr) && apiErr.StatusCode < 500 {
			return lastErr
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry.Duration()):
		}
	}

	return lastErr
}
