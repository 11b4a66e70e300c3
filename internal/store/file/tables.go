package file

import (
	"sync"

	"github.com/sumai-tools/sumai/pkg/errors"
	"github.com/sumai-tools/sumai/pkg/listings"
)

// memoryTables is the working copy of the store's tables. Listing commits
// run against a staged copy so a failed persist leaves the committed state
// untouched; the lock is held across stage, persist, and swap, which is
// what gives the file store its single-writer discipline.
type memoryTables struct {
	mu           sync.RWMutex
	byFeed       map[listings.Feed]map[string]listings.ListingRecord
	transactions []listings.TransactionRecord
	states       map[listings.Feed]listings.FeedSyncState
}

func newMemoryTables() *memoryTables {
	return &memoryTables{
		byFeed: map[listings.Feed]map[string]listings.ListingRecord{
			listings.FeedExisting: {},
			listings.FeedNewBuild: {},
		},
		states: map[listings.Feed]listings.FeedSyncState{},
	}
}

func (m *memoryTables) listing(feed listings.Feed, url string) (listings.ListingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.byFeed[feed][url]
	if !ok {
		return listings.ListingRecord{}, errors.NewNotFoundError("listing", url)
	}
	return rec, nil
}

func (m *memoryTables) listings(feed listings.Feed) []listings.ListingRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	table := m.byFeed[feed]
	out := make([]listings.ListingRecord, 0, len(table))
	for _, rec := range table {
		out = append(out, rec)
	}
	return out
}

func (m *memoryTables) transactionList() []listings.TransactionRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]listings.TransactionRecord, len(m.transactions))
	copy(out, m.transactions)
	return out
}

// commitListings stages a copy of the listing tables, lets commit mutate and
// persist the copy, and swaps it in only when commit returns nil.
func (m *memoryTables) commitListings(commit func(map[listings.Feed]map[string]listings.ListingRecord) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := make(map[listings.Feed]map[string]listings.ListingRecord, len(m.byFeed))
	for feed, table := range m.byFeed {
		copied := make(map[string]listings.ListingRecord, len(table))
		for url, rec := range table {
			copied[url] = rec
		}
		staged[feed] = copied
	}

	if err := commit(staged); err != nil {
		return err
	}
	m.byFeed = staged
	return nil
}

// commitTransactions persists the replacement table before swapping it in.
func (m *memoryTables) commitTransactions(recs []listings.TransactionRecord, persist func([]listings.TransactionRecord) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := make([]listings.TransactionRecord, len(recs))
	copy(staged, recs)

	if err := persist(staged); err != nil {
		return err
	}
	m.transactions = staged
	return nil
}

func (m *memoryTables) resetListings(recs []listings.ListingRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for feed := range m.byFeed {
		m.byFeed[feed] = map[string]listings.ListingRecord{}
	}
	for _, rec := range recs {
		m.byFeed[rec.Feed][rec.URL] = rec
	}
}

func (m *memoryTables) resetTransactions(recs []listings.TransactionRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.transactions = make([]listings.TransactionRecord, len(recs))
	copy(m.transactions, recs)
}

func (m *memoryTables) syncStates() map[listings.Feed]listings.FeedSyncState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[listings.Feed]listings.FeedSyncState, len(m.states))
	for feed, state := range m.states {
		out[feed] = state
	}
	return out
}

func (m *memoryTables) setSyncStates(states map[listings.Feed]listings.FeedSyncState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states = make(map[listings.Feed]listings.FeedSyncState, len(states))
	for feed, state := range states {
		m.states[feed] = state
	}
}
