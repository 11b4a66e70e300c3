// Package file provides the durable YAML-backed store. Each table is one
// YAML document under the store directory; saves go through a temp file and
// rename so a crash mid-write never leaves a half-written table behind.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/sumai-tools/sumai/pkg/errors"
	"github.com/sumai-tools/sumai/pkg/listings"
	"github.com/sumai-tools/sumai/pkg/store"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644

	listingsFile     = "listings.yaml"
	transactionsFile = "transactions.yaml"
	syncStateFile    = "sync_state.yaml"
)

// Store is a file-backed implementation of store.Store. It keeps the
// working copy in an embedded memory store and persists every committed
// write, so reads never touch the filesystem.
type Store struct {
	dir string
	mem *memoryTables
}

// listingsDoc is the on-disk shape of the listings table.
type listingsDoc struct {
	Listings []listings.ListingRecord `yaml:"listings"`
}

// transactionsDoc is the on-disk shape of the transactions table.
type transactionsDoc struct {
	Transactions []listings.TransactionRecord `yaml:"transactions"`
}

// syncStateDoc is the on-disk shape of the per-feed sync states.
type syncStateDoc struct {
	States []listings.FeedSyncState `yaml:"states"`
}

// Open loads (or creates) a file-backed store rooted at dir.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.NewConfigError("store", "store directory cannot be empty", nil)
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, errors.WrapStore("create", "store", err)
	}

	s := &Store{dir: dir, mem: newMemoryTables()}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Listing returns a single listing by feed and URL.
func (s *Store) Listing(feed listings.Feed, url string) (listings.ListingRecord, error) {
	return s.mem.listing(feed, url)
}

// Listings returns all listings of one feed.
func (s *Store) Listings(feed listings.Feed) ([]listings.ListingRecord, error) {
	return s.mem.listings(feed), nil
}

// Transactions returns all transaction records.
func (s *Store) Transactions() ([]listings.TransactionRecord, error) {
	return s.mem.transactionList(), nil
}

// PutListing upserts a single listing and persists the listings table.
func (s *Store) PutListing(rec listings.ListingRecord) error {
	if rec.URL == "" {
		return errors.NewValidationError("url", rec.URL, "listing URL cannot be empty")
	}
	if !rec.Feed.Valid() {
		return errors.NewValidationError("feed", rec.Feed, "unknown feed")
	}
	return s.mem.commitListings(func(tables map[listings.Feed]map[string]listings.ListingRecord) error {
		tables[rec.Feed][rec.URL] = rec
		return s.saveListings(tables)
	})
}

// ApplyBatch applies a reconcile batch atomically: the batch is staged
// against a copy of the feed's table, persisted, and only then swapped in.
// A persistence failure leaves both memory and disk at the previous commit.
func (s *Store) ApplyBatch(feed listings.Feed, batch store.Batch) error {
	if !feed.Valid() {
		return errors.NewValidationError("feed", feed, "unknown feed")
	}
	for _, rec := range batch.Upserts {
		if rec.URL == "" {
			return errors.NewValidationError("url", rec.URL, "listing URL cannot be empty")
		}
	}
	return s.mem.commitListings(func(tables map[listings.Feed]map[string]listings.ListingRecord) error {
		table := tables[feed]
		for _, url := range batch.Deletes {
			delete(table, url)
		}
		for _, rec := range batch.Upserts {
			table[rec.URL] = rec
		}
		return s.saveListings(tables)
	})
}

// ReplaceTransactions replaces and persists the whole transaction table.
func (s *Store) ReplaceTransactions(recs []listings.TransactionRecord) error {
	return s.mem.commitTransactions(recs, func(staged []listings.TransactionRecord) error {
		return s.writeYAML(transactionsFile, transactionsDoc{Transactions: staged})
	})
}

// SyncStates loads the persisted per-feed sync states.
func (s *Store) SyncStates() (map[listings.Feed]listings.FeedSyncState, error) {
	return s.mem.syncStates(), nil
}

// SaveSyncStates persists the per-feed sync states.
func (s *Store) SaveSyncStates(states map[listings.Feed]listings.FeedSyncState) error {
	doc := syncStateDoc{}
	for _, feed := range listings.Feeds() {
		if state, ok := states[feed]; ok {
			doc.States = append(doc.States, state)
		}
	}
	if err := s.writeYAML(syncStateFile, doc); err != nil {
		return err
	}
	s.mem.setSyncStates(states)
	return nil
}

// load reads every table that exists on disk into the working copy.
func (s *Store) load() error {
	var ldoc listingsDoc
	if err := s.readYAML(listingsFile, &ldoc); err != nil {
		return err
	}
	for _, rec := range ldoc.Listings {
		if !rec.Feed.Valid() {
			return errors.NewParseError("", "yaml", fmt.Sprintf("listing %s has unknown feed %q", rec.URL, rec.Feed), nil)
		}
	}
	s.mem.resetListings(ldoc.Listings)

	var tdoc transactionsDoc
	if err := s.readYAML(transactionsFile, &tdoc); err != nil {
		return err
	}
	s.mem.resetTransactions(tdoc.Transactions)

	var sdoc syncStateDoc
	if err := s.readYAML(syncStateFile, &sdoc); err != nil {
		return err
	}
	states := make(map[listings.Feed]listings.FeedSyncState, len(sdoc.States))
	for _, state := range sdoc.States {
		states[state.Feed] = state
	}
	s.mem.setSyncStates(states)

	return nil
}

// saveListings persists the combined listings table for both feeds.
func (s *Store) saveListings(tables map[listings.Feed]map[string]listings.ListingRecord) error {
	doc := listingsDoc{}
	for _, feed := range listings.Feeds() {
		urls := make([]string, 0, len(tables[feed]))
		for url := range tables[feed] {
			urls = append(urls, url)
		}
		sort.Strings(urls)
		for _, url := range urls {
			doc.Listings = append(doc.Listings, tables[feed][url])
		}
	}
	return s.writeYAML(listingsFile, doc)
}

// readYAML reads one table file; a missing file is an empty table.
func (s *Store) readYAML(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WrapStore("load", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return errors.NewParseError("", "yaml", fmt.Sprintf("corrupt table file %s", name), err)
	}
	return nil
}

// writeYAML marshals one table and commits it via temp file + rename.
func (s *Store) writeYAML(name string, doc any) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.WrapStore("save", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return errors.WrapStore("save", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapStore("save", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WrapStore("save", name, err)
	}
	if err := os.Chmod(tmpName, filePermissions); err != nil {
		os.Remove(tmpName)
		return errors.WrapStore("save", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return errors.WrapStore("save", name, err)
	}
	return nil
}
