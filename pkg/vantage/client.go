// Package vantage is the typed client for the analysis API. The API is an
// external collaborator: this package only models its request/response
// contract.
package vantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/core"
	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/logger"
)

const defaultTimeout = 30 * time.Second

// APIError carries the human-readable detail string returned by the
// analysis API on a non-success response. On a first load it becomes the
// message surfaced to the user.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("analysis API returned status %d", e.StatusCode)
}

// Client talks to the analysis API.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// NewClient creates an analysis API client.
func NewClient(baseURL string, log logger.Logger, options ...Option) *Client {
	client := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     log,
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// Analyze fetches the full analysis payload for one symbol. It performs no
// retries: the caller decides whether a failure is surfaced (first load) or
// swallowed (refresh).
func (c *Client) Analyze(ctx context.Context, symbol, period, interval string) (*core.Analysis, error) {
	query := url.Values{}
	query.Set("period", period)
	query.Set("interval", interval)

	endpoint := fmt.Sprintf("%s/api/market/analyze/%s?%s",
		c.baseURL, url.PathEscape(symbol), query.Encode())

	var analysis core.Analysis
	if err := c.getJSON(ctx, endpoint, &analysis); err != nil {
		return nil, err
	}

	return &analysis, nil
}

// Quote is the lightweight price response of the quick price endpoint.
type Quote struct {
	Ticker        string  `json:"ticker"`
	CompanyName   string  `json:"company_name"`
	CurrentPrice  float64 `json:"current_price"`
	PreviousClose float64 `json:"previous_close"`
}

// Price fetches just the current price of a symbol.
func (c *Client) Price(ctx context.Context, symbol string) (*Quote, error) {
	endpoint := fmt.Sprintf("%s/api/market/price/%s", c.baseURL, url.PathEscape(symbol))

	var quote Quote
	if err := c.getJSON(ctx, endpoint, &quote); err != nil {
		return nil, err
	}

	return &quote, nil
}

// getJSON issues one GET and decodes the JSON body. Non-2xx responses are
// converted to an APIError with the payload's detail string.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("analysis API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}

		var body struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			apiErr.Detail = body.Detail
		}

		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
