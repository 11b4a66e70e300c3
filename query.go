package sumai

import (
	"github.com/sumai-tools/sumai/pkg/cluster"
	"github.com/sumai-tools/sumai/pkg/errors"
	"github.com/sumai-tools/sumai/pkg/filter"
	"github.com/sumai-tools/sumai/pkg/listings"
)

// Listings returns the listings of both feeds matching spec, merged and
// sorted. Results are copies; mutating them never touches the store.
func (s *sumai) Listings(spec filter.ListingSpec, by listings.Sort) ([]listings.ListingRecord, error) {
	var all []listings.ListingRecord
	for _, f := range listings.Feeds() {
		recs, err := s.store.Listings(f)
		if err != nil {
			return nil, errors.WrapStore("read", "listings", err)
		}
		all = append(all, recs...)
	}

	out := filter.Listings(spec, all)
	listings.SortRecords(out, by)
	return out, nil
}

// FeedListings returns one feed's listings matching spec, sorted.
func (s *sumai) FeedListings(f listings.Feed, spec filter.ListingSpec, by listings.Sort) ([]listings.ListingRecord, error) {
	if !f.Valid() {
		return nil, errors.NewValidationError("feed", f, "unknown feed")
	}

	recs, err := s.store.Listings(f)
	if err != nil {
		return nil, errors.WrapStore("read", "listings", err)
	}

	out := filter.Listings(spec, recs)
	listings.SortRecords(out, by)
	return out, nil
}

// Transactions returns the transaction records matching spec, in ingestion
// order.
func (s *sumai) Transactions(spec filter.TransactionSpec) ([]listings.TransactionRecord, error) {
	recs, err := s.store.Transactions()
	if err != nil {
		return nil, errors.WrapStore("read", "transactions", err)
	}
	return filter.Transactions(spec, recs), nil
}

// Clusters groups the transactions matching spec into building clusters,
// ordered by recency of trade then cluster size.
func (s *sumai) Clusters(spec filter.TransactionSpec) ([]*cluster.BuildingCluster, error) {
	recs, err := s.Transactions(spec)
	if err != nil {
		return nil, err
	}
	return cluster.Cluster(recs), nil
}
