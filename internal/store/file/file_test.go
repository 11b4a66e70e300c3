package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumai-tools/sumai/pkg/listings"
	"github.com/sumai-tools/sumai/pkg/store"
)

func TestOpenEmptyDirectory(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	recs, err := s.Listings(listings.FeedExisting)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestListingsSurviveReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)

	viewed := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	rec := listings.ListingRecord{
		URL:      "https://example.jp/bukken/1",
		Feed:     listings.FeedExisting,
		Title:    "三軒茶屋 3LDK",
		PriceMan: 6980,
		Layout:   "3LDK",
		ViewedAt: &viewed,
		Favorite: true,
	}
	require.NoError(t, s.PutListing(rec))

	reopened, err := Open(dir)
	require.NoError(t, err)

	got, err := reopened.Listing(listings.FeedExisting, rec.URL)
	require.NoError(t, err)
	assert.Equal(t, 6980, got.PriceMan)
	assert.True(t, got.Favorite, "locally-owned favorite must survive reopen")
	require.NotNil(t, got.ViewedAt)
	assert.True(t, got.ViewedAt.Equal(viewed))
}

func TestApplyBatchPersists(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.PutListing(listings.ListingRecord{URL: "a", Feed: listings.FeedNewBuild, PriceMan: 9000}))

	batch := store.Batch{
		Upserts: []listings.ListingRecord{{URL: "b", Feed: listings.FeedNewBuild, PriceMan: 8000}},
		Deletes: []string{"a"},
	}
	require.NoError(t, s.ApplyBatch(listings.FeedNewBuild, batch))

	reopened, err := Open(dir)
	require.NoError(t, err)

	recs, err := reopened.Listings(listings.FeedNewBuild)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "b", recs[0].URL)
}

func TestSyncStatesSurviveReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)

	states := map[listings.Feed]listings.FeedSyncState{
		listings.FeedExisting: {
			Feed:          listings.FeedExisting,
			Token:         `W/"etag-1"`,
			LastFetchedAt: time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC),
		},
	}
	require.NoError(t, s.SaveSyncStates(states))

	reopened, err := Open(dir)
	require.NoError(t, err)

	got, err := reopened.SyncStates()
	require.NoError(t, err)
	assert.Equal(t, `W/"etag-1"`, got[listings.FeedExisting].Token)
}

func TestTransactionsSurviveReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)

	recs := []listings.TransactionRecord{
		{ID: "t1", Ward: "世田谷区", District: "三軒茶屋", TradePeriod: "2024Q3", PriceMan: 5400, AreaSqm: 60},
	}
	require.NoError(t, s.ReplaceTransactions(recs))

	reopened, err := Open(dir)
	require.NoError(t, err)

	got, err := reopened.Transactions()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024Q3", got[0].TradePeriod)
}

func TestCorruptTableFileFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, listingsFile), []byte("listings: [not: valid: yaml"), 0o644))

	_, err := Open(dir)
	assert.Error(t, err)
}

func TestOpenRequiresDirectory(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
