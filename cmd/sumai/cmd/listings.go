package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sumai-tools/sumai/internal/cmd/output"
	"github.com/sumai-tools/sumai/pkg/filter"
	"github.com/sumai-tools/sumai/pkg/listings"
)

// listingFlags collects the filter flags shared by the listings command.
// Zero values mean no constraint, matching the filter spec's nil semantics.
type listingFlags struct {
	feed        string
	minPrice    int
	maxPrice    int
	minArea     float64
	maxArea     float64
	maxWalk     int
	builtAfter  int
	builtBefore int
	stations    []string
	layouts     []string
	lines       []string
	favorites   bool
	sortBy      string
}

var listingOpts listingFlags

var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "List tracked listings",
	Long: `Listings prints the locally tracked listings, optionally restricted
to one feed and filtered by price, area, layout, station, and more. Price
bounds are in units of 10,000 yen (man-en).`,
	RunE: func(_ *cobra.Command, _ []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}

		spec := listingOpts.spec()
		sortBy := listings.ParseSort(listingOpts.sortBy)

		var records []listings.ListingRecord
		if listingOpts.feed != "" {
			f := listings.Feed(listingOpts.feed)
			if !f.Valid() {
				return fmt.Errorf("unknown feed %q: must be existing or new_build", listingOpts.feed)
			}
			records, err = engine.FeedListings(f, spec, sortBy)
		} else {
			records, err = engine.Listings(spec, sortBy)
		}
		if err != nil {
			return err
		}

		if output.Format(outputFormat) != output.FormatTable {
			return formatter().Format(os.Stdout, records)
		}
		return formatter().Format(os.Stdout, listingTable(records))
	},
}

func (f listingFlags) spec() filter.ListingSpec {
	spec := filter.ListingSpec{
		Stations:     f.stations,
		Layouts:      f.layouts,
		LineKeywords: f.lines,
		FavoriteOnly: f.favorites,
	}
	if f.minPrice > 0 {
		spec.PriceMinMan = &f.minPrice
	}
	if f.maxPrice > 0 {
		spec.PriceMaxMan = &f.maxPrice
	}
	if f.minArea > 0 {
		spec.AreaMinSqm = &f.minArea
	}
	if f.maxArea > 0 {
		spec.AreaMaxSqm = &f.maxArea
	}
	if f.maxWalk > 0 {
		spec.WalkMaxMin = &f.maxWalk
	}
	if f.builtAfter > 0 {
		spec.BuiltAfter = &f.builtAfter
	}
	if f.builtBefore > 0 {
		spec.BuiltBefore = &f.builtBefore
	}
	return spec
}

func listingTable(records []listings.ListingRecord) output.Data {
	data := output.Data{
		Headers: output.Titles("feed", "title", "price", "area", "layout", "station", "walk", "built", "fav"),
		ColumnAlignment: []output.Align{
			output.AlignLeft, output.AlignLeft, output.AlignRight, output.AlignRight,
			output.AlignLeft, output.AlignLeft, output.AlignRight, output.AlignRight, output.AlignLeft,
		},
	}
	for _, rec := range records {
		fav := ""
		if rec.Favorite {
			fav = "★"
		}
		data.Rows = append(data.Rows, []string{
			rec.Feed.String(),
			rec.Title,
			fmt.Sprintf("%d万", rec.PriceMan),
			fmt.Sprintf("%.1f㎡", rec.AreaSqm),
			rec.Layout,
			rec.Station,
			strconv.Itoa(rec.WalkMinutes) + "分",
			strconv.Itoa(rec.BuiltYear),
			fav,
		})
	}
	return data
}

func init() {
	flags := listingsCmd.Flags()
	flags.StringVar(&listingOpts.feed, "feed", "", "restrict to one feed: existing or new_build")
	flags.IntVar(&listingOpts.minPrice, "min-price", 0, "minimum price in man-en")
	flags.IntVar(&listingOpts.maxPrice, "max-price", 0, "maximum price in man-en")
	flags.Float64Var(&listingOpts.minArea, "min-area", 0, "minimum area in square meters")
	flags.Float64Var(&listingOpts.maxArea, "max-area", 0, "maximum area in square meters")
	flags.IntVar(&listingOpts.maxWalk, "max-walk", 0, "maximum walk minutes from the station")
	flags.IntVar(&listingOpts.builtAfter, "built-after", 0, "earliest construction year")
	flags.IntVar(&listingOpts.builtBefore, "built-before", 0, "latest construction year")
	flags.StringSliceVar(&listingOpts.stations, "station", nil, "station names to include")
	flags.StringSliceVar(&listingOpts.layouts, "layout", nil, "layouts to include, e.g. 3LDK")
	flags.StringSliceVar(&listingOpts.lines, "line", nil, "railway line keywords to include")
	flags.BoolVar(&listingOpts.favorites, "favorites", false, "only favorited listings")
	flags.StringVar(&listingOpts.sortBy, "sort", "price_asc", "sort order: price_asc, price_desc, area_desc, walk_asc, appreciation_desc")
	rootCmd.AddCommand(listingsCmd)
}
