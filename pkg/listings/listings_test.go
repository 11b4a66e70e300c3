package listings

import (
	"testing"
	"time"
)

func ptr(f float64) *float64 { return &f }

func TestFeedEqual(t *testing.T) {
	base := ListingRecord{
		URL:         "https://example.jp/bukken/1",
		Feed:        FeedExisting,
		Title:       "三軒茶屋 3LDK",
		PriceMan:    6980,
		AreaSqm:     68.2,
		Layout:      "3LDK",
		Station:     "三軒茶屋",
		Line:        "東急田園都市線",
		WalkMinutes: 7,
		Ownership:   "所有権",
		BuiltYear:   2005,
		Latitude:    ptr(35.6435),
		Longitude:   ptr(139.6690),
	}

	t.Run("identical records are equal", func(t *testing.T) {
		if !base.FeedEqual(base) {
			t.Error("expected record to equal itself")
		}
	})

	t.Run("local fields do not affect equality", func(t *testing.T) {
		viewed := base
		now := time.Now()
		viewed.ViewedAt = &now
		viewed.Favorite = true
		if !base.FeedEqual(viewed) {
			t.Error("locally-owned fields must not affect feed equality")
		}
	})

	t.Run("price change breaks equality", func(t *testing.T) {
		cheaper := base
		cheaper.PriceMan = 6780
		if base.FeedEqual(cheaper) {
			t.Error("expected price change to break equality")
		}
	})

	t.Run("coordinate nil vs set breaks equality", func(t *testing.T) {
		noCoord := base
		noCoord.Latitude = nil
		if base.FeedEqual(noCoord) {
			t.Error("expected coordinate presence change to break equality")
		}
	})
}

func TestApplyFeedFieldsPreservesLocalState(t *testing.T) {
	viewed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	existing := ListingRecord{
		URL:      "https://example.jp/bukken/1",
		Feed:     FeedExisting,
		PriceMan: 6980,
		ViewedAt: &viewed,
		Favorite: true,
	}
	incoming := ListingRecord{
		URL:      "https://example.jp/bukken/1",
		Feed:     FeedExisting,
		PriceMan: 6480,
	}

	existing.ApplyFeedFields(incoming)

	if existing.PriceMan != 6480 {
		t.Errorf("feed field not applied, price = %d", existing.PriceMan)
	}
	if existing.ViewedAt == nil || !existing.ViewedAt.Equal(viewed) {
		t.Error("ViewedAt was lost during feed-field application")
	}
	if !existing.Favorite {
		t.Error("Favorite was lost during feed-field application")
	}
}

func TestSortRecords(t *testing.T) {
	records := func() []ListingRecord {
		return []ListingRecord{
			{URL: "b", PriceMan: 5000, AreaSqm: 70, WalkMinutes: 10, Appreciation: 0.1},
			{URL: "a", PriceMan: 5000, AreaSqm: 55, WalkMinutes: 3, Appreciation: 0.9},
			{URL: "c", PriceMan: 3000, AreaSqm: 40, WalkMinutes: 15, Appreciation: 0.5},
		}
	}

	tests := []struct {
		name string
		by   Sort
		want []string // expected URL order
	}{
		{"price ascending with URL tiebreak", SortPriceAsc, []string{"c", "a", "b"}},
		{"price descending", SortPriceDesc, []string{"a", "b", "c"}},
		{"area descending", SortAreaDesc, []string{"b", "a", "c"}},
		{"walk ascending", SortWalkAsc, []string{"a", "b", "c"}},
		{"appreciation descending", SortAppreciationDesc, []string{"a", "c", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := records()
			SortRecords(recs, tt.by)
			for i, url := range tt.want {
				if recs[i].URL != url {
					t.Errorf("position %d = %s, want %s", i, recs[i].URL, url)
				}
			}
		})
	}
}

func TestParseSort(t *testing.T) {
	if got := ParseSort("area_desc"); got != SortAreaDesc {
		t.Errorf("ParseSort(area_desc) = %s", got)
	}
	if got := ParseSort("bogus"); got != SortPriceAsc {
		t.Errorf("unknown sort should fall back to price_asc, got %s", got)
	}
}
