// Package filter applies declarative multi-field predicates to listing and
// transaction collections. Every field of a spec is independently optional:
// a nil bound or empty set imposes no constraint, and all active
// constraints combine with logical AND. Application preserves input order.
package filter

import (
	"strings"

	"github.com/sumai-tools/sumai/pkg/listings"
)

// ListingSpec is the filter spec for listing queries. Range bounds are
// inclusive; a nil pointer means no constraint on that side. Set fields
// match when the record's value is in the set; an empty set means no
// restriction.
type ListingSpec struct {
	PriceMinMan  *int
	PriceMaxMan  *int
	AreaMinSqm   *float64
	AreaMaxSqm   *float64
	WalkMaxMin   *int
	BuiltAfter   *int
	BuiltBefore  *int
	Stations     []string
	Layouts      []string
	Ownerships   []string
	LineKeywords []string // substring match against the listing's line
	FavoriteOnly bool
}

// IsActive reports whether any field deviates from the all-nil default.
// It is a pure function of the spec.
func (s ListingSpec) IsActive() bool {
	return s.PriceMinMan != nil || s.PriceMaxMan != nil ||
		s.AreaMinSqm != nil || s.AreaMaxSqm != nil ||
		s.WalkMaxMin != nil ||
		s.BuiltAfter != nil || s.BuiltBefore != nil ||
		len(s.Stations) > 0 || len(s.Layouts) > 0 ||
		len(s.Ownerships) > 0 || len(s.LineKeywords) > 0 ||
		s.FavoriteOnly
}

// Reset returns the spec to its all-nil default.
func (s *ListingSpec) Reset() {
	*s = ListingSpec{}
}

// Matches reports whether one record satisfies every active constraint.
func (s ListingSpec) Matches(rec listings.ListingRecord) bool {
	if s.PriceMinMan != nil && rec.PriceMan < *s.PriceMinMan {
		return false
	}
	if s.PriceMaxMan != nil && rec.PriceMan > *s.PriceMaxMan {
		return false
	}
	if s.AreaMinSqm != nil && rec.AreaSqm < *s.AreaMinSqm {
		return false
	}
	if s.AreaMaxSqm != nil && rec.AreaSqm > *s.AreaMaxSqm {
		return false
	}
	if s.WalkMaxMin != nil && rec.WalkMinutes > *s.WalkMaxMin {
		return false
	}
	if s.BuiltAfter != nil && rec.BuiltYear < *s.BuiltAfter {
		return false
	}
	if s.BuiltBefore != nil && rec.BuiltYear > *s.BuiltBefore {
		return false
	}
	if !inSet(s.Stations, rec.Station) {
		return false
	}
	if !inSet(s.Layouts, rec.Layout) {
		return false
	}
	if !inSet(s.Ownerships, rec.Ownership) {
		return false
	}
	if !matchesAnyKeyword(s.LineKeywords, rec.Line) {
		return false
	}
	if s.FavoriteOnly && !rec.Favorite {
		return false
	}
	return true
}

// Listings returns the records satisfying the spec, preserving input order.
func Listings(spec ListingSpec, records []listings.ListingRecord) []listings.ListingRecord {
	out := make([]listings.ListingRecord, 0, len(records))
	for _, rec := range records {
		if spec.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// TransactionSpec is the filter spec for transaction queries.
type TransactionSpec struct {
	PriceMinMan *int
	PriceMaxMan *int
	AreaMinSqm  *float64
	AreaMaxSqm  *float64
	BuiltAfter  *int
	BuiltBefore *int
	PeriodFrom  *string // inclusive "2023Q1"-style bound
	PeriodTo    *string
	Wards       []string
	Districts   []string
	Layouts     []string
}

// IsActive reports whether any field deviates from the all-nil default.
func (s TransactionSpec) IsActive() bool {
	return s.PriceMinMan != nil || s.PriceMaxMan != nil ||
		s.AreaMinSqm != nil || s.AreaMaxSqm != nil ||
		s.BuiltAfter != nil || s.BuiltBefore != nil ||
		s.PeriodFrom != nil || s.PeriodTo != nil ||
		len(s.Wards) > 0 || len(s.Districts) > 0 || len(s.Layouts) > 0
}

// Reset returns the spec to its all-nil default.
func (s *TransactionSpec) Reset() {
	*s = TransactionSpec{}
}

// Matches reports whether one record satisfies every active constraint.
func (s TransactionSpec) Matches(rec listings.TransactionRecord) bool {
	if s.PriceMinMan != nil && rec.PriceMan < *s.PriceMinMan {
		return false
	}
	if s.PriceMaxMan != nil && rec.PriceMan > *s.PriceMaxMan {
		return false
	}
	if s.AreaMinSqm != nil && rec.AreaSqm < *s.AreaMinSqm {
		return false
	}
	if s.AreaMaxSqm != nil && rec.AreaSqm > *s.AreaMaxSqm {
		return false
	}
	if s.BuiltAfter != nil && rec.BuiltYear < *s.BuiltAfter {
		return false
	}
	if s.BuiltBefore != nil && rec.BuiltYear > *s.BuiltBefore {
		return false
	}
	// Zero-padded year+quarter strings compare chronologically.
	if s.PeriodFrom != nil && rec.TradePeriod < *s.PeriodFrom {
		return false
	}
	if s.PeriodTo != nil && rec.TradePeriod > *s.PeriodTo {
		return false
	}
	if !inSet(s.Wards, rec.Ward) {
		return false
	}
	if !inSet(s.Districts, rec.District) {
		return false
	}
	if !inSet(s.Layouts, rec.Layout) {
		return false
	}
	return true
}

// Transactions returns the records satisfying the spec, preserving input
// order.
func Transactions(spec TransactionSpec, records []listings.TransactionRecord) []listings.TransactionRecord {
	out := make([]listings.TransactionRecord, 0, len(records))
	for _, rec := range records {
		if spec.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// inSet reports membership, with an empty set meaning no restriction.
func inSet(set []string, value string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

// matchesAnyKeyword reports whether value contains any keyword, with an
// empty keyword list meaning no restriction.
func matchesAnyKeyword(keywords []string, value string) bool {
	if len(keywords) == 0 {
		return true
	}
	for _, kw := range keywords {
		if strings.Contains(value, kw) {
			return true
		}
	}
	return false
}
