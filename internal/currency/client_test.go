package currency_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Erfanur1/Voyager/internal/currency"
	"github.com/Erfanur1/Voyager/internal/domain"
)

func newRateServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/USD", r.URL.Path)
		_, _ = w.Write([]byte(`{"base":"USD","date":"2026-09-01","rates":{"EUR":0.92,"JPY":147.5}}`))
	}))
}

func TestClient_Convert(t *testing.T) {
	srv := newRateServer(t)
	defer srv.Close()

	c := currency.NewClient(srv.URL, srv.Client())

	conv, err := c.Convert(context.Background(), 100, "USD", "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 92.0, conv.Amount, 0.001)
	assert.InDelta(t, 0.92, conv.Rate, 0.001)
}

func TestClient_Convert_LowercaseCodes(t *testing.T) {
	srv := newRateServer(t)
	defer srv.Close()

	c := currency.NewClient(srv.URL, srv.Client())

	conv, err := c.Convert(context.Background(), 10, "usd", "jpy")
	require.NoError(t, err)
	assert.InDelta(t, 1475.0, conv.Amount, 0.001)
}

func TestClient_Rate_UnknownTarget(t *testing.T) {
	srv := newRateServer(t)
	defer srv.Close()

	c := currency.NewClient(srv.URL, srv.Client())

	_, err := c.Rate(context.Background(), "USD", "XXX")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_Rate_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := currency.NewClient(srv.URL, srv.Client())

	_, err := c.Rate(context.Background(), "USD", "EUR")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
