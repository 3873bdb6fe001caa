// Package country looks up destination-country facts (capital, currencies,
// languages) for the trip detail screen.
package country

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Erfanur1/Voyager/internal/domain"
)

// Info is the subset of country metadata the app renders.
type Info struct {
	Name       string            `json:"name"`
	Capital    string            `json:"capital,omitempty"`
	Population int               `json:"population"`
	FlagURL    string            `json:"flag_url,omitempty"`
	Timezones  []string          `json:"timezones,omitempty"`
	Currencies map[string]string `json:"currencies,omitempty"` // code -> display name
	Languages  []string          `json:"languages,omitempty"`
}

// Client fetches country metadata by name.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient constructs a country Client. A nil httpc falls back to a client
// with a 10s timeout.
func NewClient(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpc: httpc}
}

// providerCountry mirrors the wire shape of the countries API.
type providerCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Capital    []string `json:"capital"`
	Population int      `json:"population"`
	Flags      struct {
		PNG string `json:"png"`
	} `json:"flags"`
	Timezones  []string `json:"timezones"`
	Currencies map[string]struct {
		Name string `json:"name"`
	} `json:"currencies"`
	Languages map[string]string `json:"languages"`
}

// Lookup resolves a trip destination to country facts. Destinations are
// usually "City, Country"; the part after the last comma is what gets
// looked up, falling back to the whole string.
// Returns domain.ErrNotFound when no country matches.
func (c *Client) Lookup(ctx context.Context, destination string) (Info, error) {
	name := CountryName(destination)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/name/"+url.PathEscape(name), nil)
	if err != nil {
		return Info{}, fmt.Errorf("country.Client.Lookup: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Info{}, fmt.Errorf("country.Client.Lookup: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Info{}, fmt.Errorf("country.Client.Lookup: %q: %w", name, domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return Info{}, fmt.Errorf("country.Client.Lookup: provider returned %d", resp.StatusCode)
	}

	var countries []providerCountry
	if err := json.NewDecoder(resp.Body).Decode(&countries); err != nil {
		return Info{}, fmt.Errorf("country.Client.Lookup: decode: %w", err)
	}
	if len(countries) == 0 {
		return Info{}, fmt.Errorf("country.Client.Lookup: %q: %w", name, domain.ErrNotFound)
	}

	pc := countries[0]
	info := Info{
		Name:       pc.Name.Common,
		Population: pc.Population,
		FlagURL:    pc.Flags.PNG,
		Timezones:  pc.Timezones,
	}
	if len(pc.Capital) > 0 {
		info.Capital = pc.Capital[0]
	}
	if len(pc.Currencies) > 0 {
		info.Currencies = make(map[string]string, len(pc.Currencies))
		for code, cur := range pc.Currencies {
			info.Currencies[code] = cur.Name
		}
	}
	for _, lang := range pc.Languages {
		info.Languages = append(info.Languages, lang)
	}
	sort.Strings(info.Languages)
	return info, nil
}

// CountryName extracts the country part of a destination string:
// "Paris, France" -> "France", "Japan" -> "Japan".
func CountryName(destination string) string {
	parts := strings.Split(destination, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}
