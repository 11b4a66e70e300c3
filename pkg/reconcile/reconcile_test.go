package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/sumai-tools/sumai/internal/store/memory"
	"github.com/sumai-tools/sumai/pkg/errors"
	"github.com/sumai-tools/sumai/pkg/listings"
)

func rec(url string, price int) listings.ListingRecord {
	return listings.ListingRecord{
		URL:      url,
		Feed:     listings.FeedExisting,
		PriceMan: price,
		Layout:   "3LDK",
	}
}

func seed(t *testing.T, recs ...listings.ListingRecord) *memory.Store {
	t.Helper()
	st := memory.New()
	for _, r := range recs {
		if err := st.PutListing(r); err != nil {
			t.Fatal(err)
		}
	}
	return st
}

func TestDiffInsertUpdateDelete(t *testing.T) {
	existing := []listings.ListingRecord{rec("a", 1000), rec("b", 2000), rec("c", 3000)}
	incoming := []listings.ListingRecord{rec("b", 1800), rec("c", 3000), rec("d", 4000)}

	result := Diff(existing, incoming)

	if len(result.Inserted) != 1 || result.Inserted[0].URL != "d" {
		t.Errorf("Inserted = %+v, want [d]", result.Inserted)
	}
	if len(result.Updated) != 1 || result.Updated[0].URL != "b" {
		t.Errorf("Updated = %+v, want [b]", result.Updated)
	}
	if len(result.Deleted) != 1 || result.Deleted[0] != "a" {
		t.Errorf("Deleted = %v, want [a]", result.Deleted)
	}
	if result.Unchanged != 1 {
		t.Errorf("Unchanged = %d, want 1", result.Unchanged)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	st := seed(t, rec("a", 1000))
	incoming := []listings.ListingRecord{rec("a", 1200), rec("b", 2000)}

	first, err := Reconcile(context.Background(), st, listings.FeedExisting, incoming)
	if err != nil {
		t.Fatal(err)
	}
	if !first.HasChanges() {
		t.Fatal("first reconcile should report changes")
	}

	second, err := Reconcile(context.Background(), st, listings.FeedExisting, incoming)
	if err != nil {
		t.Fatal(err)
	}
	if second.HasChanges() {
		t.Errorf("second reconcile of the same snapshot should be a no-op, got %+v", second)
	}
	if second.Unchanged != 2 {
		t.Errorf("Unchanged = %d, want 2", second.Unchanged)
	}
}

func TestReconcilePreservesLocalFields(t *testing.T) {
	viewed := time.Date(2026, 8, 10, 8, 30, 0, 0, time.UTC)
	stored := rec("a", 6980)
	stored.ViewedAt = &viewed
	stored.Favorite = true
	st := seed(t, stored)

	// Same listing, new price.
	if _, err := Reconcile(context.Background(), st, listings.FeedExisting, []listings.ListingRecord{rec("a", 6480)}); err != nil {
		t.Fatal(err)
	}

	got, err := st.Listing(listings.FeedExisting, "a")
	if err != nil {
		t.Fatal(err)
	}
	if got.PriceMan != 6480 {
		t.Errorf("PriceMan = %d, want 6480", got.PriceMan)
	}
	if got.ViewedAt == nil || !got.ViewedAt.Equal(viewed) {
		t.Error("view timestamp must survive a feed refresh")
	}
	if !got.Favorite {
		t.Error("favorite flag must survive a feed refresh")
	}
}

func TestReconcileDeletionComplete(t *testing.T) {
	st := seed(t, rec("a", 1000), rec("b", 2000))

	if _, err := Reconcile(context.Background(), st, listings.FeedExisting, []listings.ListingRecord{rec("b", 2000)}); err != nil {
		t.Fatal(err)
	}

	if _, err := st.Listing(listings.FeedExisting, "a"); !errors.IsNotFound(err) {
		t.Errorf("record absent from snapshot should be removed, got %v", err)
	}
}

func TestReconcileEmptySnapshotClearsFeed(t *testing.T) {
	st := seed(t, rec("a", 1000), rec("b", 2000))

	result, err := Reconcile(context.Background(), st, listings.FeedExisting, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Deleted) != 2 {
		t.Errorf("Deleted = %v, want both records", result.Deleted)
	}

	all, _ := st.Listings(listings.FeedExisting)
	if len(all) != 0 {
		t.Errorf("store should be empty, has %d records", len(all))
	}
}

func TestReconcileLeavesOtherFeedAlone(t *testing.T) {
	st := memory.New()
	other := listings.ListingRecord{URL: "n1", Feed: listings.FeedNewBuild, PriceMan: 9000}
	if err := st.PutListing(other); err != nil {
		t.Fatal(err)
	}

	if _, err := Reconcile(context.Background(), st, listings.FeedExisting, []listings.ListingRecord{rec("a", 1000)}); err != nil {
		t.Fatal(err)
	}

	if _, err := st.Listing(listings.FeedNewBuild, "n1"); err != nil {
		t.Errorf("new-build namespace should be untouched, got %v", err)
	}
}

func TestDiffInsertResetsLocalFields(t *testing.T) {
	// A snapshot record that somehow carries local state must not smuggle
	// it into the store on insert.
	now := time.Now()
	incoming := rec("a", 1000)
	incoming.ViewedAt = &now
	incoming.Favorite = true

	result := Diff(nil, []listings.ListingRecord{incoming})
	if len(result.Inserted) != 1 {
		t.Fatal("expected one insert")
	}
	if result.Inserted[0].ViewedAt != nil || result.Inserted[0].Favorite {
		t.Error("inserted records must start with default local fields")
	}
}

func TestDiffDuplicateIncomingKeepsLast(t *testing.T) {
	first := rec("a", 1000)
	second := rec("a", 1100)

	result := Diff(nil, []listings.ListingRecord{first, second})
	if len(result.Inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(result.Inserted))
	}
	if result.Inserted[0].PriceMan != 1100 {
		t.Errorf("duplicate identifier should keep the last record, got %d", result.Inserted[0].PriceMan)
	}
}
