package feed

import (
	"context"
	"encoding/json"

	"golang.org/x/text/width"

	"github.com/sumai-tools/sumai/pkg/errors"
	"github.com/sumai-tools/sumai/pkg/listings"
	"github.com/sumai-tools/sumai/pkg/logging"
)

// listingWire is the feed's JSON shape for one listing.
type listingWire struct {
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	PriceMan     int      `json:"price_man"`
	AreaSqm      float64  `json:"area_sqm"`
	Layout       string   `json:"layout"`
	Station      string   `json:"station"`
	Line         string   `json:"line"`
	WalkMinutes  int      `json:"walk_minutes"`
	Ownership    string   `json:"ownership"`
	BuiltYear    int      `json:"built_year"`
	Structure    string   `json:"structure"`
	Appreciation float64  `json:"appreciation"`
	Latitude     *float64 `json:"lat"`
	Longitude    *float64 `json:"lng"`
}

// transactionWire is the transaction feed's JSON shape for one trade.
type transactionWire struct {
	ID              string   `json:"id"`
	Ward            string   `json:"ward"`
	District        string   `json:"district"`
	BuiltYear       int      `json:"built_year"`
	PriceMan        int      `json:"price_man"`
	AreaSqm         float64  `json:"area_sqm"`
	Layout          string   `json:"layout"`
	Structure       string   `json:"structure"`
	TradePeriod     string   `json:"trade_period"`
	Latitude        *float64 `json:"lat"`
	Longitude       *float64 `json:"lng"`
	BuildingGroupID string   `json:"building_group_id"`
	BuildingName    string   `json:"building_name"`
}

// parseListings decodes a feed payload into listing records. Records
// without a URL cannot be reconciled and are skipped with a warning rather
// than failing the whole feed.
func parseListings(ctx context.Context, feed listings.Feed, body []byte) ([]listings.ListingRecord, error) {
	var wires []listingWire
	if err := json.Unmarshal(body, &wires); err != nil {
		return nil, errors.WrapParse(feed.String(), "json", err)
	}

	records := make([]listings.ListingRecord, 0, len(wires))
	for _, w := range wires {
		if w.URL == "" {
			logging.Ctx(ctx).Warn().Str("title", w.Title).Msg("Skipping listing without URL")
			continue
		}
		records = append(records, listings.ListingRecord{
			URL:          w.URL,
			Feed:         feed,
			Title:        w.Title,
			PriceMan:     w.PriceMan,
			AreaSqm:      w.AreaSqm,
			Layout:       foldASCII(w.Layout),
			Station:      w.Station,
			Line:         w.Line,
			WalkMinutes:  w.WalkMinutes,
			Ownership:    w.Ownership,
			BuiltYear:    w.BuiltYear,
			Structure:    w.Structure,
			Appreciation: w.Appreciation,
			Latitude:     w.Latitude,
			Longitude:    w.Longitude,
		})
	}
	return records, nil
}

// parseTransactions decodes the transaction feed payload.
func parseTransactions(ctx context.Context, body []byte) ([]listings.TransactionRecord, error) {
	var wires []transactionWire
	if err := json.Unmarshal(body, &wires); err != nil {
		return nil, errors.WrapParse("transactions", "json", err)
	}

	records := make([]listings.TransactionRecord, 0, len(wires))
	for _, w := range wires {
		if w.ID == "" {
			logging.Ctx(ctx).Warn().Str("ward", w.Ward).Msg("Skipping transaction without id")
			continue
		}
		records = append(records, listings.TransactionRecord{
			ID:              w.ID,
			Ward:            w.Ward,
			District:        w.District,
			BuiltYear:       w.BuiltYear,
			PriceMan:        w.PriceMan,
			AreaSqm:         w.AreaSqm,
			Layout:          foldASCII(w.Layout),
			Structure:       w.Structure,
			TradePeriod:     foldASCII(w.TradePeriod),
			Latitude:        w.Latitude,
			Longitude:       w.Longitude,
			BuildingGroupID: w.BuildingGroupID,
			BuildingName:    w.BuildingName,
		})
	}
	return records, nil
}

// foldASCII canonicalizes width variants: full-width alphanumerics narrow
// (３ＬＤＫ → 3LDK, ２０２４Ｑ３ → 2024Q3) and half-width kana widen, so layout
// matching and the lexicographic trade-period ordering hold for
// Japanese-formatted payloads.
func foldASCII(s string) string {
	return width.Fold.String(s)
}
