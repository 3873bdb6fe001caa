package identity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Erfanur1/Voyager/internal/domain"
	"github.com/Erfanur1/Voyager/internal/identity"
)

// signToken issues a session JWT the way the auth service would.
// The provider only reads claims, so any signing key works.
func signToken(t *testing.T, uid string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": uid}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return raw
}

// authServer fakes the anonymous sign-in endpoint, returning the given
// token and counting sign-in requests.
func authServer(t *testing.T, token string, calls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/anonymous", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
	}))
}

func TestProvider_EnsureSignedIn(t *testing.T) {
	token := signToken(t, "anon-42", time.Now().Add(time.Hour))
	var calls int
	srv := authServer(t, token, &calls)
	defer srv.Close()

	p := identity.NewProvider(srv.URL, "api-key", srv.Client(), nil)

	id, err := p.EnsureSignedIn(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "anon-42", id.UID)
	assert.Equal(t, token, id.Token)
	assert.True(t, p.SignedIn())
}

func TestProvider_EnsureSignedIn_Idempotent(t *testing.T) {
	token := signToken(t, "anon-42", time.Now().Add(time.Hour))
	var calls int
	srv := authServer(t, token, &calls)
	defer srv.Close()

	p := identity.NewProvider(srv.URL, "", srv.Client(), nil)

	for i := 0; i < 3; i++ {
		_, err := p.EnsureSignedIn(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 1, calls, "a fresh cached identity is reused, not re-requested")
}

func TestProvider_EnsureSignedIn_RefreshesNearExpiry(t *testing.T) {
	// Expires within the refresh skew, so the second call must re-sign-in.
	token := signToken(t, "anon-42", time.Now().Add(30*time.Second))
	var calls int
	srv := authServer(t, token, &calls)
	defer srv.Close()

	p := identity.NewProvider(srv.URL, "", srv.Client(), nil)

	_, err := p.EnsureSignedIn(context.Background())
	require.NoError(t, err)
	_, err = p.EnsureSignedIn(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestProvider_EnsureSignedIn_ServerDown_LocalOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := identity.NewProvider(srv.URL, "", srv.Client(), nil)

	_, err := p.EnsureSignedIn(context.Background())

	// Sign-in failure leaves the app in local-only mode, not broken.
	require.Error(t, err)
	assert.False(t, p.SignedIn())

	_, ok := p.CurrentIdentity()
	assert.False(t, ok)
}

func TestProvider_Token(t *testing.T) {
	token := signToken(t, "anon-42", time.Now().Add(time.Hour))
	var calls int
	srv := authServer(t, token, &calls)
	defer srv.Close()

	p := identity.NewProvider(srv.URL, "", srv.Client(), nil)
	_, err := p.EnsureSignedIn(context.Background())
	require.NoError(t, err)

	got, err := p.Token(context.Background())

	require.NoError(t, err)
	assert.Equal(t, token, got)
}

func TestProvider_Token_LocalOnly(t *testing.T) {
	p := identity.NewProvider("http://unused", "", nil, nil)

	_, err := p.Token(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestProvider_EnsureSignedIn_TokenWithoutExpiryNeverRefreshes(t *testing.T) {
	token := signToken(t, "anon-42", time.Time{})
	var calls int
	srv := authServer(t, token, &calls)
	defer srv.Close()

	p := identity.NewProvider(srv.URL, "", srv.Client(), nil)

	_, err := p.EnsureSignedIn(context.Background())
	require.NoError(t, err)
	id, ok := p.CurrentIdentity()

	require.True(t, ok)
	assert.True(t, id.ExpiresAt.IsZero())
}

func TestProvider_EnsureSignedIn_RejectsTokenWithoutSubject(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{}).
		SignedString([]byte("test-key"))
	require.NoError(t, err)

	var calls int
	srv := authServer(t, raw, &calls)
	defer srv.Close()

	p := identity.NewProvider(srv.URL, "", srv.Client(), nil)

	_, err = p.EnsureSignedIn(context.Background())

	require.Error(t, err)
	assert.False(t, p.SignedIn())
}
