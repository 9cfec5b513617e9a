// Package stooq fetches daily OHLC history from the Stooq CSV endpoint.
package stooq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rustyeddy/ichiwatch/market"
)

// DefaultURL is the Stooq daily-history CSV endpoint.
const DefaultURL = "https://stooq.com/q/d/l/"

// ErrDataUnavailable marks a failed or unusable provider response. It is
// fatal for a run; no partial computation happens on top of it.
var ErrDataUnavailable = errors.New("price data unavailable")

// Client fetches daily candles for a ticker.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Stooq client. baseURL may be empty to use DefaultURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// DailyCandles fetches the full daily history for symbol and returns it
// ascending by date. Rows with non-numeric prices are dropped; the result
// reports how many so callers can flag window drift.
func (c *Client) DailyCandles(ctx context.Context, symbol string) (market.ParseResult, error) {
	if symbol == "" {
		return market.ParseResult{}, fmt.Errorf("symbol is required")
	}

	params := url.Values{}
	params.Set("s", strings.ToLower(symbol))
	params.Set("i", "d") // daily interval

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return market.ParseResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return market.ParseResult{}, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return market.ParseResult{}, fmt.Errorf("%w: status %d", ErrDataUnavailable, resp.StatusCode)
	}

	res, err := market.ParseCSV(resp.Body)
	if err != nil {
		return market.ParseResult{}, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	if len(res.Candles) == 0 {
		return market.ParseResult{}, fmt.Errorf("%w: empty series for %s", ErrDataUnavailable, symbol)
	}

	// Stooq serves oldest-first, but ordering is load-bearing for the
	// indicator windows, so normalize rather than trust the convention.
	res.Candles, err = market.Normalize(res.Candles)
	if err != nil {
		return market.ParseResult{}, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	return res, nil
}
