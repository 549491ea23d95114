package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// Client fetches the latest price for a security from the reference-data
// feed's REST gateway.
type Client struct {
	host       string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pricefeed error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host string) *Client {
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		httpClient: httpClient,
	}
}

type priceResponse struct {
	Ticker string           `json:"ticker"`
	Price  *decimal.Decimal `json:"price"`
	Error  string           `json:"error"`
}

// PriceResult carries the fetched price together with the resolved full
// security identifier actually queried.
type PriceResult struct {
	ResolvedTicker string
	Price          decimal.Decimal
}

// FetchPrice resolves the ticker and queries the feed. A missing, null or
// non-positive price is an error: callers must never mistake an unavailable
// price for zero.
func (c *Client) FetchPrice(ctx context.Context, ticker string) (PriceResult, error) {
	resolved := ResolveTicker(ticker)
	if resolved == "" {
		return PriceResult{}, fmt.Errorf("ticker is required")
	}

	query := url.Values{}
	query.Set("ticker", resolved)
	fullURL := c.host + "/api/current_price?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return PriceResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PriceResult{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return PriceResult{}, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed priceResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return PriceResult{}, &APIError{Status: resp.StatusCode, Body: string(body)}
		}
		return PriceResult{}, fmt.Errorf("invalid price payload: %w", err)
	}
	if parsed.Error != "" {
		return PriceResult{}, fmt.Errorf("feed error for %s: %s", resolved, parsed.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return PriceResult{}, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	if parsed.Price == nil || !parsed.Price.IsPositive() {
		return PriceResult{}, fmt.Errorf("no usable price for %s", resolved)
	}
	return PriceResult{ResolvedTicker: resolved, Price: *parsed.Price}, nil
}
