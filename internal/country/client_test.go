package country_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Erfanur1/Voyager/internal/country"
	"github.com/Erfanur1/Voyager/internal/domain"
)

func TestClient_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/name/Japan", r.URL.Path)
		_, _ = w.Write([]byte(`[{
			"name": {"common": "Japan"},
			"capital": ["Tokyo"],
			"population": 125836021,
			"flags": {"png": "https://example.com/jp.png"},
			"timezones": ["UTC+09:00"],
			"currencies": {"JPY": {"name": "Japanese yen"}},
			"languages": {"jpn": "Japanese"}
		}]`))
	}))
	defer srv.Close()

	c := country.NewClient(srv.URL, srv.Client())

	info, err := c.Lookup(context.Background(), "Kyoto, Japan")
	require.NoError(t, err)

	assert.Equal(t, "Japan", info.Name)
	assert.Equal(t, "Tokyo", info.Capital)
	assert.Equal(t, 125836021, info.Population)
	assert.Equal(t, "https://example.com/jp.png", info.FlagURL)
	assert.Equal(t, []string{"UTC+09:00"}, info.Timezones)
	assert.Equal(t, map[string]string{"JPY": "Japanese yen"}, info.Currencies)
	assert.Equal(t, []string{"Japanese"}, info.Languages)
}

func TestClient_Lookup_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := country.NewClient(srv.URL, srv.Client())

	_, err := c.Lookup(context.Background(), "Atlantis")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_Lookup_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := country.NewClient(srv.URL, srv.Client())

	_, err := c.Lookup(context.Background(), "France")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCountryName(t *testing.T) {
	tests := []struct {
		destination string
		want        string
	}{
		{"Paris, France", "France"},
		{"Japan", "Japan"},
		{"San Jose, Costa Rica ", "Costa Rica"},
		{"Washington, D.C., United States", "United States"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, country.CountryName(tt.destination), tt.destination)
	}
}
