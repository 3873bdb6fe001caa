// Package identity obtains and caches the anonymous session identity that
// scopes every remote document path. Failure to sign in is never fatal: the
// app keeps running in local-only mode and callers check SignedIn before
// touching the remote store.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Erfanur1/Voyager/internal/domain"
)

// refreshSkew renews a cached token this long before its stated expiry so a
// sync started near the deadline never carries a stale credential.
const refreshSkew = time.Minute

// Identity is one anonymous session: the uid that scopes document paths
// plus the bearer token proving it.
type Identity struct {
	UID       string
	Token     string
	ExpiresAt time.Time // zero when the token carries no expiry
}

// expired reports whether the identity needs to be re-established.
func (id Identity) expired(now time.Time) bool {
	return !id.ExpiresAt.IsZero() && now.After(id.ExpiresAt.Add(-refreshSkew))
}

// Provider signs in anonymously against the auth endpoint and caches the
// resulting identity for the lifetime of the process (or until expiry).
type Provider struct {
	authURL string
	apiKey  string
	httpc   *http.Client
	logger  *slog.Logger

	mu      sync.Mutex
	current *Identity
}

// NewProvider constructs a Provider for the auth service at authURL.
// A nil httpc falls back to a client with a 10s timeout.
func NewProvider(authURL, apiKey string, httpc *http.Client, logger *slog.Logger) *Provider {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		authURL: strings.TrimRight(authURL, "/"),
		apiKey:  apiKey,
		httpc:   httpc,
		logger:  logger,
	}
}

// EnsureSignedIn returns the cached identity, signing in anonymously first
// if none is cached or the cached token is about to expire. Calling it while
// already signed in is a no-op.
func (p *Provider) EnsureSignedIn(ctx context.Context) (Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil && !p.current.expired(time.Now()) {
		return *p.current, nil
	}

	id, err := p.signIn(ctx)
	if err != nil {
		p.logger.Warn("anonymous sign-in failed, staying in local-only mode", "error", err)
		p.current = nil
		return Identity{}, fmt.Errorf("identity.Provider.EnsureSignedIn: %w", err)
	}

	p.current = &id
	p.logger.Info("signed in anonymously", "uid", id.UID)
	return id, nil
}

// CurrentIdentity returns the cached identity, or ok=false when the app is
// in local-only mode.
func (p *Provider) CurrentIdentity() (Identity, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil || p.current.expired(time.Now()) {
		return Identity{}, false
	}
	return *p.current, true
}

// SignedIn reports whether an identity is currently cached and fresh.
func (p *Provider) SignedIn() bool {
	_, ok := p.CurrentIdentity()
	return ok
}

// Token supplies the bearer token for remote requests; it satisfies
// remote.TokenFunc. Returns domain.ErrNotAuthenticated in local-only mode.
func (p *Provider) Token(ctx context.Context) (string, error) {
	id, ok := p.CurrentIdentity()
	if !ok {
		return "", domain.ErrNotAuthenticated
	}
	return id.Token, nil
}

// signIn performs the anonymous sign-in request. Caller holds p.mu.
func (p *Provider) signIn(ctx context.Context) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.authURL+"/v1/anonymous", strings.NewReader("{}"))
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("X-Api-Key", p.apiKey)
	}

	resp, err := p.httpc.Do(req)
	if err != nil {
		return Identity{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return Identity{}, fmt.Errorf("auth service returned %d: %s",
			resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Identity{}, fmt.Errorf("decode sign-in response: %w", err)
	}
	if body.Token == "" {
		return Identity{}, fmt.Errorf("sign-in response carried no token")
	}

	return identityFromToken(body.Token)
}

// identityFromToken extracts uid and expiry from the session JWT.
// The token is issued by the auth service and verified server-side on every
// request, so only the claims are read here — not the signature.
func identityFromToken(raw string) (Identity, error) {
	tok, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return Identity{}, fmt.Errorf("parse session token: %w", err)
	}

	uid, err := tok.Claims.GetSubject()
	if err != nil || uid == "" {
		return Identity{}, fmt.Errorf("session token has no subject")
	}

	id := Identity{UID: uid, Token: raw}
	if exp, err := tok.Claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	return id, nil
}
