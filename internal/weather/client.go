// Package weather is a thin client for the current-conditions API used on
// the trip detail screen. One request, one decode, no state.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Erfanur1/Voyager/internal/domain"
)

// Report is the subset of the provider response the app renders.
type Report struct {
	City        string  `json:"city"`
	Country     string  `json:"country"`
	TempC       float64 `json:"temp_c"`
	FeelsLikeC  float64 `json:"feels_like_c"`
	Humidity    int     `json:"humidity"`
	Pressure    int     `json:"pressure"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	WindSpeed   float64 `json:"wind_speed"`
}

// Client fetches current weather by city name.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient constructs a weather Client. A nil httpc falls back to a client
// with a 10s timeout.
func NewClient(baseURL, apiKey string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, httpc: httpc}
}

// providerResponse mirrors the wire shape of the weather provider.
type providerResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// Fetch returns current conditions for the given city.
// Returns domain.ErrNotFound when the provider does not know the city.
func (c *Client) Fetch(ctx context.Context, city string) (Report, error) {
	q := url.Values{"q": {city}, "appid": {c.apiKey}, "units": {"metric"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return Report{}, fmt.Errorf("weather.Client.Fetch: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("weather.Client.Fetch: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Report{}, fmt.Errorf("weather.Client.Fetch: %q: %w", city, domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return Report{}, fmt.Errorf("weather.Client.Fetch: provider returned %d", resp.StatusCode)
	}

	var pr providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return Report{}, fmt.Errorf("weather.Client.Fetch: decode: %w", err)
	}

	r := Report{
		City:       pr.Name,
		Country:    pr.Sys.Country,
		TempC:      pr.Main.Temp,
		FeelsLikeC: pr.Main.FeelsLike,
		Humidity:   pr.Main.Humidity,
		Pressure:   pr.Main.Pressure,
		WindSpeed:  pr.Wind.Speed,
	}
	if len(pr.Weather) > 0 {
		r.Condition = pr.Weather[0].Main
		r.Description = pr.Weather[0].Description
		r.Icon = pr.Weather[0].Icon
	}
	return r, nil
}
