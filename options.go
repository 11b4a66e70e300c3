package sumai

import (
	"net/http"

	"github.com/sumai-tools/sumai/pkg/errors"
	"github.com/sumai-tools/sumai/pkg/feed"
	"github.com/sumai-tools/sumai/pkg/store"
)

// Option is a function that configures a Sumai instance.
type Option func(*config) error

// config collects construction-time settings.
type config struct {
	store           store.Store
	client          *feed.Client
	existingURL     string
	newBuildURL     string
	transactionsURL string
}

func defaultConfig() *config {
	return &config{
		existingURL:     DefaultExistingFeedURL,
		newBuildURL:     DefaultNewBuildFeedURL,
		transactionsURL: DefaultTransactionsFeedURL,
	}
}

// WithStore configures the persisted store backing the instance.
func WithStore(st store.Store) Option {
	return func(c *config) error {
		if st == nil {
			return errors.New("store cannot be nil")
		}
		c.store = st
		return nil
	}
}

// WithFeedClient configures the feed client used for fetches.
func WithFeedClient(client *feed.Client) Option {
	return func(c *config) error {
		if client == nil {
			return errors.New("feed client cannot be nil")
		}
		c.client = client
		return nil
	}
}

// WithHTTPClient configures the HTTP client behind a default feed client.
// Tests use this to point fetches at a stub server.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) error {
		c.client = feed.New(feed.WithHTTPClient(hc))
		return nil
	}
}

// WithEndpoints overrides the compiled-in feed URLs at construction time.
// An empty string keeps the default for that feed.
func WithEndpoints(existingURL, newBuildURL string) Option {
	return func(c *config) error {
		if existingURL != "" {
			c.existingURL = existingURL
		}
		if newBuildURL != "" {
			c.newBuildURL = newBuildURL
		}
		return nil
	}
}

// WithTransactionsURL overrides the transaction feed URL.
func WithTransactionsURL(url string) Option {
	return func(c *config) error {
		if url != "" {
			c.transactionsURL = url
		}
		return nil
	}
}
