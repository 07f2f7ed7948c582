// Package transport provides the authenticated HTTP client used to
// talk to the remote sheet API.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopfloor/jobsync/pkg/errors"
	"github.com/shopfloor/jobsync/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
const DefaultHTTPTimeout = 30 * time.Second

// Client provides HTTP client functionality with authentication.
type Client struct {
	http *http.Client
	auth Authenticator
	key  string
}

// New creates a new transport client with the specified authenticator
// and API token.
func New(auth Authenticator, key string) *Client {
	return &Client{
		http: &http.Client{Timeout: DefaultHTTPTimeout},
		auth: auth,
		key:  key,
	}
}

// Do performs an HTTP request with authentication and common headers
// applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.auth != nil && c.key != "" {
		c.auth.Apply(req, c.key)
	}

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.Ctx(req.Context()).Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Msg("sheet API request")

	return c.http.Do(req)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Send performs a request with a JSON-encoded body.
func (c *Client) Send(ctx context.Context, method, url string, body any) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.WrapParse("json", "request body", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}
