// Package store defines the persisted-store contract the sync engine works
// against. Implementations live under internal/store; the engine only needs
// keyed upsert/delete, predicate-free scans, and atomic batch application.
package store

import (
	"github.com/sumai-tools/sumai/pkg/listings"
)

// Reader provides read-only access to persisted records. Reads observe the
// last-committed state and may proceed concurrently with an in-flight
// reconcile.
type Reader interface {
	// Listing returns a single listing by feed and URL.
	Listing(feed listings.Feed, url string) (listings.ListingRecord, error)

	// Listings returns all listings of one feed, in unspecified order.
	Listings(feed listings.Feed) ([]listings.ListingRecord, error)

	// Transactions returns all transaction records, in ingestion order.
	Transactions() ([]listings.TransactionRecord, error)
}

// Writer provides write operations for persisted records.
type Writer interface {
	// PutListing upserts a single listing by its feed and URL.
	PutListing(rec listings.ListingRecord) error

	// ApplyBatch applies a reconcile batch to one feed's namespace
	// atomically: either every upsert and delete commits, or none do.
	ApplyBatch(feed listings.Feed, batch Batch) error

	// ReplaceTransactions replaces the whole transaction table.
	ReplaceTransactions(recs []listings.TransactionRecord) error
}

// Store is the complete interface combining read and write access.
type Store interface {
	Reader
	Writer
}

// StateKeeper is implemented by stores that can persist per-feed sync state
// (validation tokens) across process restarts. Implementation is optional;
// the coordinator checks for it at runtime.
type StateKeeper interface {
	// SyncStates loads the persisted per-feed sync states.
	SyncStates() (map[listings.Feed]listings.FeedSyncState, error)

	// SaveSyncStates persists the per-feed sync states.
	SaveSyncStates(states map[listings.Feed]listings.FeedSyncState) error
}

// Batch is the unit of atomic application produced by a reconcile: records
// to upsert and identifiers to delete within a single feed namespace.
type Batch struct {
	Upserts []listings.ListingRecord
	Deletes []string
}

// Empty reports whether the batch would change nothing.
func (b Batch) Empty() bool {
	return len(b.Upserts) == 0 && len(b.Deletes) == 0
}
