package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// TokenFunc supplies the bearer token for a request. The identity provider
// satisfies this; tests pass a literal closure.
type TokenFunc func(ctx context.Context) (string, error)

// Document is one raw document returned by List or Query. Data stays
// undecoded so a single malformed document cannot fail a whole listing —
// callers decode each one and decide what to do with the failures.
type Document struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Client is a thin HTTP client for the document store API.
//
// The store is hierarchical and per-identity: documents live under
// users/{uid}/{collection}/{docID}. Upsert is a merge write (PATCH with a
// JSON merge body): fields present in the body replace the stored ones,
// absent fields are preserved, and a missing document is created. That
// merge-create behavior is what makes every sync push idempotent.
type Client struct {
	baseURL string
	token   TokenFunc
	httpc   *http.Client
}

// NewClient constructs a Client for the store rooted at baseURL.
// A nil httpc falls back to a client with a 15s timeout.
func NewClient(baseURL string, token TokenFunc, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, token: token, httpc: httpc}
}

// APIError reports a non-2xx response from the document store.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("document store returned %d: %s", e.Status, e.Body)
}

// Upsert merge-writes doc at path, creating the document if absent.
func (c *Client) Upsert(ctx context.Context, path string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("remote.Client.Upsert: encode: %w", err)
	}
	if err := c.do(ctx, http.MethodPatch, path, body, nil); err != nil {
		return fmt.Errorf("remote.Client.Upsert: %s: %w", path, err)
	}
	return nil
}

// Delete removes the document at path. Deleting a document that does not
// exist is not an error — the end state is the same either way.
func (c *Client) Delete(ctx context.Context, path string) error {
	err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("remote.Client.Delete: %s: %w", path, err)
	}
	return nil
}

// List returns every document in the collection at path.
func (c *Client) List(ctx context.Context, path string) ([]Document, error) {
	var out listResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("remote.Client.List: %s: %w", path, err)
	}
	return out.Documents, nil
}

// Query returns the documents in the collection whose field equals value.
func (c *Client) Query(ctx context.Context, path, field, value string) ([]Document, error) {
	q := url.Values{field: {value}}
	var out listResponse
	if err := c.do(ctx, http.MethodGet, path+"?"+q.Encode(), nil, &out); err != nil {
		return nil, fmt.Errorf("remote.Client.Query: %s: %w", path, err)
	}
	return out.Documents, nil
}

type listResponse struct {
	Documents []Document `json:"documents"`
}

// do issues one authenticated request and decodes the response into out
// when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/merge-patch+json")
	}

	tok, err := c.token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Keep the beginning of the body for the cause chain; the
		// coordinator collapses this to ErrSyncFailed at its boundary.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
