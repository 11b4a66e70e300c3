// Package sumai synchronizes two external listing feeds (existing-home and
// new-construction) against a local persisted store and serves grouped and
// filtered views of listings and historical transactions. The coordinator
// owns per-feed sync state; the store owns record lifetime; query results
// are ephemeral copies owned by the caller.
package sumai

import (
	"context"
	"sync"
	"time"

	"github.com/sumai-tools/sumai/internal/store/memory"
	"github.com/sumai-tools/sumai/pkg/cluster"
	"github.com/sumai-tools/sumai/pkg/errors"
	"github.com/sumai-tools/sumai/pkg/feed"
	"github.com/sumai-tools/sumai/pkg/filter"
	"github.com/sumai-tools/sumai/pkg/listings"
	"github.com/sumai-tools/sumai/pkg/store"
)

// Default feed endpoints, overridable per instance with SetEndpoints.
const (
	DefaultExistingFeedURL     = "https://data.sumai.tools/feeds/tokyo/existing.json"
	DefaultNewBuildFeedURL     = "https://data.sumai.tools/feeds/tokyo/new_build.json"
	DefaultTransactionsFeedURL = "https://data.sumai.tools/feeds/tokyo/transactions.json"
)

// Sumai is the synchronization and query surface consumed by presentation.
type Sumai interface {
	// Refresh fetches and reconciles both feeds concurrently. One feed's
	// failure never cancels the other; per-feed outcomes are aggregated
	// into the returned result and into SyncState.
	Refresh(ctx context.Context) *RefreshResult

	// ForceRefresh discards cached validation tokens first, so both
	// feeds perform a full unconditional fetch and diff.
	ForceRefresh(ctx context.Context) *RefreshResult

	// LoadTransactions replaces the transaction table from the
	// transaction feed.
	LoadTransactions(ctx context.Context) error

	// ClearCache discards both feeds' validation tokens without
	// touching persisted records.
	ClearCache()

	// SetEndpoints overrides the feed URLs. An empty override reverts
	// that feed to its compiled-in default. Cached tokens are cleared:
	// a token minted by one source is not safe to replay against
	// another.
	SetEndpoints(existingURL, newBuildURL string)

	// SyncState returns a snapshot of the aggregate and per-feed sync
	// state.
	SyncState() SyncState

	// Listings returns the listings of both feeds matching spec, in the
	// given sort order.
	Listings(spec filter.ListingSpec, by listings.Sort) ([]listings.ListingRecord, error)

	// FeedListings returns one feed's listings matching spec.
	FeedListings(f listings.Feed, spec filter.ListingSpec, by listings.Sort) ([]listings.ListingRecord, error)

	// Transactions returns the transaction records matching spec, in
	// ingestion order.
	Transactions(spec filter.TransactionSpec) ([]listings.TransactionRecord, error)

	// Clusters groups the transactions matching spec into ordered
	// building clusters.
	Clusters(spec filter.TransactionSpec) ([]*cluster.BuildingCluster, error)

	// MarkViewed stamps a listing's locally-owned view timestamp.
	MarkViewed(f listings.Feed, url string, at time.Time) error

	// SetFavorite sets a listing's locally-owned favorite flag.
	SetFavorite(f listings.Feed, url string, favorite bool) error
}

// sumai is the internal implementation of the Sumai interface.
type sumai struct {
	// mu guards endpoints, states, and the refreshing counter. It is
	// the single coordination point for shared sync state; the store
	// has its own locking.
	mu         sync.RWMutex
	endpoints  map[listings.Feed]string
	states     map[listings.Feed]listings.FeedSyncState
	refreshing int

	txURL  string
	store  store.Store
	client *feed.Client
}

// New creates a Sumai instance with the given options. Without options it
// runs on an in-memory store and the compiled-in feed endpoints.
func New(opts ...Option) (Sumai, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errors.NewConfigError("sumai", "applying option", err)
		}
	}

	s := &sumai{
		endpoints: map[listings.Feed]string{
			listings.FeedExisting: cfg.existingURL,
			listings.FeedNewBuild: cfg.newBuildURL,
		},
		states: map[listings.Feed]listings.FeedSyncState{},
		txURL:  cfg.transactionsURL,
		store:  cfg.store,
		client: cfg.client,
	}
	if s.store == nil {
		s.store = memory.New()
	}
	if s.client == nil {
		s.client = feed.New()
	}

	// Pick up persisted validation tokens from durable stores.
	if keeper, ok := s.store.(store.StateKeeper); ok {
		if states, err := keeper.SyncStates(); err == nil {
			for f, state := range states {
				if f.Valid() {
					s.states[f] = state
				}
			}
		}
	}

	return s, nil
}

// MarkViewed stamps a listing's view timestamp, preserving everything else.
func (s *sumai) MarkViewed(f listings.Feed, url string, at time.Time) error {
	rec, err := s.store.Listing(f, url)
	if err != nil {
		return err
	}
	at = at.UTC()
	rec.ViewedAt = &at
	return s.store.PutListing(rec)
}

// SetFavorite sets a listing's favorite flag, preserving everything else.
func (s *sumai) SetFavorite(f listings.Feed, url string, favorite bool) error {
	rec, err := s.store.Listing(f, url)
	if err != nil {
		return err
	}
	rec.Favorite = favorite
	return s.store.PutListing(rec)
}
