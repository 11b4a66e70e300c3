package reconcile

import (
	"sort"

	"github.com/sumai-tools/sumai/pkg/listings"
	"github.com/sumai-tools/sumai/pkg/store"
)

// Result describes the changes one reconcile computed for a feed.
type Result struct {
	Inserted  []listings.ListingRecord
	Updated   []listings.ListingRecord
	Deleted   []string
	Unchanged int
}

// HasChanges reports whether the reconcile would modify the store.
func (r *Result) HasChanges() bool {
	return len(r.Inserted) > 0 || len(r.Updated) > 0 || len(r.Deleted) > 0
}

// Batch converts the result into the store's atomic application unit.
func (r *Result) Batch() store.Batch {
	upserts := make([]listings.ListingRecord, 0, len(r.Inserted)+len(r.Updated))
	upserts = append(upserts, r.Inserted...)
	upserts = append(upserts, r.Updated...)
	return store.Batch{Upserts: upserts, Deletes: r.Deleted}
}

// sort orders all slices by identifier for deterministic output.
func (r *Result) sort() {
	sort.Slice(r.Inserted, func(i, j int) bool {
		return r.Inserted[i].URL < r.Inserted[j].URL
	})
	sort.Slice(r.Updated, func(i, j int) bool {
		return r.Updated[i].URL < r.Updated[j].URL
	})
	sort.Strings(r.Deleted)
}
