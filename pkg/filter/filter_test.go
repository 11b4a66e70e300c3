package filter

import (
	"testing"

	"github.com/sumai-tools/sumai/pkg/listings"
)

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func TestListingPriceAndLayout(t *testing.T) {
	records := []listings.ListingRecord{
		{URL: "a", PriceMan: 4000, Layout: "2LDK"},
		{URL: "b", PriceMan: 6000, Layout: "3LDK"},
		{URL: "c", PriceMan: 9000, Layout: "3LDK"},
	}

	spec := ListingSpec{
		PriceMinMan: intPtr(5000),
		PriceMaxMan: intPtr(8000),
		Layouts:     []string{"3LDK"},
	}

	got := Listings(spec, records)
	if len(got) != 1 || got[0].URL != "b" {
		t.Errorf("Listings() = %+v, want exactly [b]", got)
	}
}

func TestListingInclusiveBounds(t *testing.T) {
	records := []listings.ListingRecord{{URL: "a", PriceMan: 5000}}

	spec := ListingSpec{PriceMinMan: intPtr(5000), PriceMaxMan: intPtr(5000)}
	if got := Listings(spec, records); len(got) != 1 {
		t.Error("range bounds must be inclusive")
	}
}

func TestListingEmptySetMeansNoRestriction(t *testing.T) {
	records := []listings.ListingRecord{
		{URL: "a", Station: "三軒茶屋"},
		{URL: "b", Station: "用賀"},
	}

	if got := Listings(ListingSpec{Stations: []string{}}, records); len(got) != 2 {
		t.Error("empty inclusion set should not restrict")
	}
	if got := Listings(ListingSpec{Stations: []string{"渋谷"}}, records); len(got) != 0 {
		t.Error("non-empty set with no matches should exclude everything")
	}
}

func TestListingLineKeywords(t *testing.T) {
	records := []listings.ListingRecord{
		{URL: "a", Line: "東急田園都市線"},
		{URL: "b", Line: "小田急線"},
		{URL: "c", Line: "東京メトロ半蔵門線"},
	}

	spec := ListingSpec{LineKeywords: []string{"東急", "メトロ"}}
	got := Listings(spec, records)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	// Order-preserving.
	if got[0].URL != "a" || got[1].URL != "c" {
		t.Errorf("order not preserved: %+v", got)
	}
}

func TestListingWalkAndBuiltYear(t *testing.T) {
	records := []listings.ListingRecord{
		{URL: "a", WalkMinutes: 5, BuiltYear: 2010},
		{URL: "b", WalkMinutes: 12, BuiltYear: 2010},
		{URL: "c", WalkMinutes: 5, BuiltYear: 1995},
	}

	spec := ListingSpec{WalkMaxMin: intPtr(10), BuiltAfter: intPtr(2000)}
	got := Listings(spec, records)
	if len(got) != 1 || got[0].URL != "a" {
		t.Errorf("got %+v, want [a]", got)
	}
}

func TestListingFavoriteOnly(t *testing.T) {
	records := []listings.ListingRecord{
		{URL: "a", Favorite: true},
		{URL: "b"},
	}

	got := Listings(ListingSpec{FavoriteOnly: true}, records)
	if len(got) != 1 || got[0].URL != "a" {
		t.Errorf("got %+v, want [a]", got)
	}
}

func TestListingSpecIsActiveAndReset(t *testing.T) {
	var spec ListingSpec
	if spec.IsActive() {
		t.Error("zero spec should be inactive")
	}

	spec.AreaMinSqm = floatPtr(50)
	if !spec.IsActive() {
		t.Error("spec with a bound should be active")
	}

	spec.Reset()
	if spec.IsActive() {
		t.Error("reset spec should be inactive")
	}
	if spec.AreaMinSqm != nil {
		t.Error("reset should nil all bounds")
	}
}

func TestTransactionFilter(t *testing.T) {
	records := []listings.TransactionRecord{
		{ID: "t1", Ward: "世田谷区", PriceMan: 5400, TradePeriod: "2024Q3", Layout: "3LDK"},
		{ID: "t2", Ward: "世田谷区", PriceMan: 9800, TradePeriod: "2022Q1", Layout: "3LDK"},
		{ID: "t3", Ward: "渋谷区", PriceMan: 5600, TradePeriod: "2024Q2", Layout: "2LDK"},
	}

	tests := []struct {
		name string
		spec TransactionSpec
		want []string
	}{
		{
			"ward and price",
			TransactionSpec{Wards: []string{"世田谷区"}, PriceMaxMan: intPtr(6000)},
			[]string{"t1"},
		},
		{
			"period window",
			TransactionSpec{PeriodFrom: strPtr("2023Q1"), PeriodTo: strPtr("2024Q4")},
			[]string{"t1", "t3"},
		},
		{
			"no constraints",
			TransactionSpec{},
			[]string{"t1", "t2", "t3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transactions(tt.spec, records)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d records, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("position %d = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestTransactionSpecIsActiveAndReset(t *testing.T) {
	var spec TransactionSpec
	if spec.IsActive() {
		t.Error("zero spec should be inactive")
	}

	spec.PeriodFrom = strPtr("2024Q1")
	if !spec.IsActive() {
		t.Error("spec with period bound should be active")
	}

	spec.Reset()
	if spec.IsActive() {
		t.Error("reset spec should be inactive")
	}
}
