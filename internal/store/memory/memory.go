// Package memory provides an in-memory store for tests and ephemeral runs.
package memory

import (
	"sync"

	"github.com/sumai-tools/sumai/pkg/errors"
	"github.com/sumai-tools/sumai/pkg/listings"
	"github.com/sumai-tools/sumai/pkg/store"
)

// Store is an in-memory implementation of store.Store. All tables live
// behind one RWMutex; batch application holds the write lock for the whole
// batch, which gives ApplyBatch its atomicity.
type Store struct {
	mu           sync.RWMutex
	byFeed       map[listings.Feed]map[string]listings.ListingRecord
	transactions []listings.TransactionRecord
	states       map[listings.Feed]listings.FeedSyncState
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		byFeed: map[listings.Feed]map[string]listings.ListingRecord{
			listings.FeedExisting: {},
			listings.FeedNewBuild: {},
		},
		states: map[listings.Feed]listings.FeedSyncState{},
	}
}

// Listing returns a single listing by feed and URL.
func (s *Store) Listing(feed listings.Feed, url string) (listings.ListingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byFeed[feed][url]
	if !ok {
		return listings.ListingRecord{}, errors.NewNotFoundError("listing", url)
	}
	return rec, nil
}

// Listings returns all listings of one feed.
func (s *Store) Listings(feed listings.Feed) ([]listings.ListingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table := s.byFeed[feed]
	out := make([]listings.ListingRecord, 0, len(table))
	for _, rec := range table {
		out = append(out, rec)
	}
	return out, nil
}

// Transactions returns all transaction records.
func (s *Store) Transactions() ([]listings.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]listings.TransactionRecord, len(s.transactions))
	copy(out, s.transactions)
	return out, nil
}

// PutListing upserts a single listing.
func (s *Store) PutListing(rec listings.ListingRecord) error {
	if rec.URL == "" {
		return errors.NewValidationError("url", rec.URL, "listing URL cannot be empty")
	}
	if !rec.Feed.Valid() {
		return errors.NewValidationError("feed", rec.Feed, "unknown feed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byFeed[rec.Feed][rec.URL] = rec
	return nil
}

// ApplyBatch applies a reconcile batch to one feed's namespace under a
// single write lock.
func (s *Store) ApplyBatch(feed listings.Feed, batch store.Batch) error {
	if !feed.Valid() {
		return errors.NewValidationError("feed", feed, "unknown feed")
	}
	for _, rec := range batch.Upserts {
		if rec.URL == "" {
			return errors.NewValidationError("url", rec.URL, "listing URL cannot be empty")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.byFeed[feed]
	for _, url := range batch.Deletes {
		delete(table, url)
	}
	for _, rec := range batch.Upserts {
		table[rec.URL] = rec
	}
	return nil
}

// ReplaceTransactions replaces the whole transaction table.
func (s *Store) ReplaceTransactions(recs []listings.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = make([]listings.TransactionRecord, len(recs))
	copy(s.transactions, recs)
	return nil
}

// SyncStates returns a copy of the stored per-feed sync states.
func (s *Store) SyncStates() (map[listings.Feed]listings.FeedSyncState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[listings.Feed]listings.FeedSyncState, len(s.states))
	for feed, state := range s.states {
		out[feed] = state
	}
	return out, nil
}

// SaveSyncStates stores the per-feed sync states.
func (s *Store) SaveSyncStates(states map[listings.Feed]listings.FeedSyncState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states = make(map[listings.Feed]listings.FeedSyncState, len(states))
	for feed, state := range states {
		s.states[feed] = state
	}
	return nil
}
