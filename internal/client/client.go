// Package client is the HTTP client for the remote Pulse backend. It owns
// the credentialed cookie session, per-call deadlines, and the translation
// of backend payloads into canonical domain types.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/JBcollo2/pulse-sub002/internal/infrastructure/config"
)

// Client talks to the backend API rooted at baseURL. The embedded cookie
// jar carries the backend's session cookie across calls, which is the only
// credential the client ever holds.
type Client struct {
	baseURL  string
	http     *http.Client
	timings  config.Timings
	validate *validator.Validate
	log      zerolog.Logger
}

// New builds a Client for the given base URL.
func New(baseURL string, timings config.Timings, log zerolog.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("client: cookie jar: %w", err)
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Jar: jar},
		timings:  timings,
		validate: validator.New(),
		log:      log,
	}, nil
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// do performs one JSON round-trip. A non-positive timeout falls back to the
// general request deadline; non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, timeout time.Duration, body, out any) error {
	if timeout <= 0 {
		timeout = c.timings.RequestTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s %s: build request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}
