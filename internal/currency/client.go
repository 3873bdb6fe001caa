// Package currency converts expense amounts between currencies using a
// public exchange-rate API. Rates are fetched per request; the app shows
// conversions as estimates, so no caching layer is needed.
package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Erfanur1/Voyager/internal/domain"
)

// Conversion is the result of converting an amount between two currencies.
type Conversion struct {
	Amount float64 `json:"amount"`
	Rate   float64 `json:"rate"`
}

// Client fetches exchange rates keyed by base currency.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient constructs a currency Client. A nil httpc falls back to a
// client with a 10s timeout.
func NewClient(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpc: httpc}
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// Convert converts amount from one currency to another at the current rate.
// Returns domain.ErrNotFound when the provider has no rate for the pair.
func (c *Client) Convert(ctx context.Context, amount float64, from, to string) (Conversion, error) {
	rate, err := c.Rate(ctx, from, to)
	if err != nil {
		return Conversion{}, err
	}
	return Conversion{Amount: amount * rate, Rate: rate}, nil
}

// Rate returns the current exchange rate between two currency codes.
func (c *Client) Rate(ctx context.Context, from, to string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/"+strings.ToUpper(from), nil)
	if err != nil {
		return 0, fmt.Errorf("currency.Client.Rate: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("currency.Client.Rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("currency.Client.Rate: provider returned %d", resp.StatusCode)
	}

	var rr ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return 0, fmt.Errorf("currency.Client.Rate: decode: %w", err)
	}

	rate, ok := rr.Rates[strings.ToUpper(to)]
	if !ok {
		return 0, fmt.Errorf("currency.Client.Rate: %s to %s: %w", from, to, domain.ErrNotFound)
	}
	return rate, nil
}
