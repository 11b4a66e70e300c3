// Package reconcile diffs an incoming feed snapshot against the persisted
// store and applies the resulting changes. Feeds are authoritative full
// snapshots: records absent from the snapshot are deleted, new records are
// inserted, and changed records are updated in place with the persisted
// record's locally-owned fields carried forward untouched.
package reconcile

import (
	"context"

	"github.com/sumai-tools/sumai/pkg/errors"
	"github.com/sumai-tools/sumai/pkg/listings"
	"github.com/sumai-tools/sumai/pkg/logging"
	"github.com/sumai-tools/sumai/pkg/store"
)

// Reconcile diffs incoming against the feed's persisted namespace and
// applies the changes atomically. It is idempotent: reconciling the same
// snapshot twice yields a zero-change second result. A store failure aborts
// the apply with nothing committed.
func Reconcile(ctx context.Context, st store.Store, feed listings.Feed, incoming []listings.ListingRecord) (*Result, error) {
	existing, err := st.Listings(feed)
	if err != nil {
		return nil, errors.WrapStore("read", "listings", err)
	}

	result := Diff(existing, incoming)
	if !result.HasChanges() {
		logging.Ctx(ctx).Debug().Int("unchanged", result.Unchanged).Msg("Snapshot matches store")
		return result, nil
	}

	if err := st.ApplyBatch(feed, result.Batch()); err != nil {
		return nil, errors.WrapStore("apply", "listings", err)
	}

	logging.Ctx(ctx).Info().
		Int("inserted", len(result.Inserted)).
		Int("updated", len(result.Updated)).
		Int("deleted", len(result.Deleted)).
		Int("unchanged", result.Unchanged).
		Msg("Snapshot reconciled")

	return result, nil
}

// Diff computes the changes needed to make existing match incoming. It does
// not touch any store; the returned result's Batch is what Reconcile
// applies. A duplicate identifier within incoming keeps the last record,
// matching keyed-upsert semantics.
func Diff(existing, incoming []listings.ListingRecord) *Result {
	existingByURL := make(map[string]listings.ListingRecord, len(existing))
	for _, rec := range existing {
		existingByURL[rec.URL] = rec
	}

	incomingByURL := make(map[string]listings.ListingRecord, len(incoming))
	for _, rec := range incoming {
		incomingByURL[rec.URL] = rec
	}

	result := &Result{}

	for url, rec := range incomingByURL {
		current, exists := existingByURL[url]
		if !exists {
			// Fresh insert: locally-owned fields start at defaults.
			rec.ViewedAt = nil
			rec.Favorite = false
			result.Inserted = append(result.Inserted, rec)
			continue
		}
		if current.FeedEqual(rec) {
			result.Unchanged++
			continue
		}
		// Replace feed-owned fields on the persisted record so the
		// user's view history and favorite state survive the refresh.
		current.ApplyFeedFields(rec)
		result.Updated = append(result.Updated, current)
	}

	for url := range existingByURL {
		if _, ok := incomingByURL[url]; !ok {
			result.Deleted = append(result.Deleted, url)
		}
	}

	result.sort()
	return result
}
