// Package transport wraps net/http with the conditional-request behavior
// the feed client needs: a cached validation token is replayed as
// If-None-Match, and 304 responses are surfaced without a body read.
package transport

import (
	"context"
	"io"
	"net/http"
	"time"
)

// DefaultHTTPTimeout bounds a single feed fetch.
var DefaultHTTPTimeout = 30 * time.Second

// maxBodyBytes caps feed payload reads. Feeds are a few thousand records;
// anything larger is a misbehaving server.
const maxBodyBytes = 32 << 20

// Response is the outcome of a conditional GET.
type Response struct {
	// NotModified is true when the server honored the validation token
	// with a 304; Body is empty in that case.
	NotModified bool

	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Token is the validation token minted by this response (ETag),
	// empty when the server sent none.
	Token string

	// Body is the full payload for a 200 response.
	Body []byte
}

// Client performs conditional GETs against feed endpoints.
type Client struct {
	http      *http.Client
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, used by tests to
// point at a stub server or inject transport failures.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultHTTPTimeout},
		userAgent: "sumai/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConditionalGet performs a GET against url. A non-empty token is sent as
// If-None-Match; a 304 comes back as NotModified without reading a body.
// Non-2xx statuses other than 304 are returned as a Response with the
// status set and a nil error so the caller can build its own error type.
func (c *Client) ConditionalGet(ctx context.Context, url, token string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if token != "" {
		req.Header.Set("If-None-Match", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return &Response{NotModified: true, StatusCode: resp.StatusCode, Token: token}, nil
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Token:      resp.Header.Get("ETag"),
	}
	if resp.StatusCode != http.StatusOK {
		return out, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	out.Body = body
	return out, nil
}
