// Package feed implements the conditional-fetch client for the two listing
// feeds and the transaction feed. A fetch either short-circuits on the
// cached validation token or returns a fully parsed record set plus the
// token minted by the server; it never touches the persisted store.
package feed

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sumai-tools/sumai/internal/transport"
	"github.com/sumai-tools/sumai/pkg/errors"
	"github.com/sumai-tools/sumai/pkg/listings"
	"github.com/sumai-tools/sumai/pkg/logging"
)

// Result is the outcome of one feed fetch.
type Result struct {
	// NotModified is true when the server reported no change for the
	// cached token; Records is nil and Token carries the token forward.
	NotModified bool

	// Records is the parsed snapshot for a modified response.
	Records []listings.ListingRecord

	// Token is the validation token to cache for the next fetch.
	Token string
}

// Client fetches and parses feed payloads.
type Client struct {
	transport *transport.Client
}

// Option configures a feed Client.
type Option func(*Client)

// WithTransport replaces the transport client.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.transport = transport.New(transport.WithHTTPClient(hc))
	}
}

// New creates a feed client.
func New(opts ...Option) *Client {
	c := &Client{transport: transport.New()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs a conditional GET against url for the given feed. The
// cached token (empty for a full fetch) is sent as the request
// precondition. Failures come back as NetworkError or ParseError; either
// way the other feed is unaffected.
func (c *Client) Fetch(ctx context.Context, feed listings.Feed, url, token string) (*Result, error) {
	resp, err := c.transport.ConditionalGet(ctx, url, token)
	if err != nil {
		return nil, errors.WrapNetwork(feed.String(), url, 0, err)
	}

	if resp.NotModified {
		logging.Ctx(ctx).Debug().Str("url", url).Msg("Feed not modified")
		return &Result{NotModified: true, Token: resp.Token}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewNetworkError(feed.String(), url, resp.StatusCode,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	records, err := parseListings(ctx, feed, resp.Body)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Debug().
		Str("url", url).
		Int("records", len(records)).
		Msg("Feed fetched")

	return &Result{Records: records, Token: resp.Token}, nil
}

// FetchTransactions fetches and parses the transaction feed. Transactions
// are an authoritative full snapshot with no conditional-fetch token; the
// caller replaces the whole table with the result.
func (c *Client) FetchTransactions(ctx context.Context, url string) ([]listings.TransactionRecord, error) {
	resp, err := c.transport.ConditionalGet(ctx, url, "")
	if err != nil {
		return nil, errors.WrapNetwork("transactions", url, 0, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewNetworkError("transactions", url, resp.StatusCode,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return parseTransactions(ctx, resp.Body)
}
