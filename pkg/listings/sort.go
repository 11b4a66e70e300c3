package listings

import (
	"sort"
)

// Sort identifies a listing sort order for the query surface.
type Sort string

// Supported listing sort orders.
const (
	SortPriceAsc         Sort = "price_asc"
	SortPriceDesc        Sort = "price_desc"
	SortAreaDesc         Sort = "area_desc"
	SortWalkAsc          Sort = "walk_asc"
	SortAppreciationDesc Sort = "appreciation_desc"
)

// String returns the string representation of a Sort.
func (s Sort) String() string {
	return string(s)
}

// ParseSort converts a user-supplied sort name to a Sort, falling back to
// price ascending for unknown names.
func ParseSort(name string) Sort {
	switch Sort(name) {
	case SortPriceAsc, SortPriceDesc, SortAreaDesc, SortWalkAsc, SortAppreciationDesc:
		return Sort(name)
	default:
		return SortPriceAsc
	}
}

// SortRecords sorts records in place by the given order. Ties fall back to
// URL so the output is stable across calls.
func SortRecords(records []ListingRecord, by Sort) {
	less := func(a, b ListingRecord) bool { return a.PriceMan < b.PriceMan }

	switch by {
	case SortPriceDesc:
		less = func(a, b ListingRecord) bool { return a.PriceMan > b.PriceMan }
	case SortAreaDesc:
		less = func(a, b ListingRecord) bool { return a.AreaSqm > b.AreaSqm }
	case SortWalkAsc:
		less = func(a, b ListingRecord) bool { return a.WalkMinutes < b.WalkMinutes }
	case SortAppreciationDesc:
		less = func(a, b ListingRecord) bool { return a.Appreciation > b.Appreciation }
	}

	sort.SliceStable(records, func(i, j int) bool {
		if less(records[i], records[j]) {
			return true
		}
		if less(records[j], records[i]) {
			return false
		}
		return records[i].URL < records[j].URL
	})
}
