// Package listings defines the domain records the sumai system synchronizes:
// for-sale listings from the two external feeds, historical transaction
// records, and the per-feed sync state tracked across refreshes.
package listings

import (
	"time"
)

// Feed identifies one of the two independent listing sources.
// The two feeds are disjoint namespaces; a listing URL is only unique
// within its own feed and the feeds are never merged.
type Feed string

// String returns the string representation of a Feed.
func (f Feed) String() string {
	return string(f)
}

// The two compiled-in feeds.
const (
	// FeedExisting is the existing-home (中古) listing feed.
	FeedExisting Feed = "existing"
	// FeedNewBuild is the new-construction (新築) listing feed.
	FeedNewBuild Feed = "new_build"
)

// Feeds returns all feeds in their refresh order.
func Feeds() []Feed {
	return []Feed{FeedExisting, FeedNewBuild}
}

// Valid reports whether f is one of the known feeds.
func (f Feed) Valid() bool {
	return f == FeedExisting || f == FeedNewBuild
}

// ListingRecord represents a single for-sale listing. The feed-owned fields
// are replaced wholesale on every reconcile; the locally-owned fields
// (ViewedAt, Favorite) originate from user interaction and must survive any
// number of upstream refreshes.
type ListingRecord struct {
	// Identity. URL is the stable identifier within a feed.
	URL  string `json:"url" yaml:"url"`
	Feed Feed   `json:"feed" yaml:"feed"`

	// Feed-owned fields
	Title        string   `json:"title" yaml:"title"`                                   // Listing headline
	PriceMan     int      `json:"price_man" yaml:"price_man"`                           // Asking price in units of 10,000 yen
	AreaSqm      float64  `json:"area_sqm" yaml:"area_sqm"`                             // Exclusive floor area in square meters
	Layout       string   `json:"layout" yaml:"layout"`                                 // Floor plan, e.g. "3LDK"
	Station      string   `json:"station" yaml:"station"`                               // Nearest station name
	Line         string   `json:"line" yaml:"line"`                                     // Railway line serving the station
	WalkMinutes  int      `json:"walk_minutes" yaml:"walk_minutes"`                     // Walk time from the station in minutes
	Ownership    string   `json:"ownership" yaml:"ownership"`                           // Land ownership type, e.g. 所有権
	BuiltYear    int      `json:"built_year" yaml:"built_year"`                         // Year of construction
	Structure    string   `json:"structure,omitempty" yaml:"structure,omitempty"`       // Building structure, e.g. RC造
	Appreciation float64  `json:"appreciation,omitempty" yaml:"appreciation,omitempty"` // Estimated appreciation metric from the feed
	Latitude     *float64 `json:"lat,omitempty" yaml:"lat,omitempty"`                   // Optional coordinates
	Longitude    *float64 `json:"lng,omitempty" yaml:"lng,omitempty"`

	// Locally-owned fields
	ViewedAt *time.Time `json:"viewed_at,omitempty" yaml:"viewed_at,omitempty"` // Last time the user opened this listing
	Favorite bool       `json:"favorite,omitempty" yaml:"favorite,omitempty"`   // User favorite flag
}

// FeedEqual reports whether the feed-owned fields of two records are equal.
// Locally-owned fields are deliberately excluded: a record whose only
// difference is user state is unchanged from the feed's point of view.
func (l ListingRecord) FeedEqual(other ListingRecord) bool {
	if l.URL != other.URL ||
		l.Feed != other.Feed ||
		l.Title != other.Title ||
		l.PriceMan != other.PriceMan ||
		l.AreaSqm != other.AreaSqm ||
		l.Layout != other.Layout ||
		l.Station != other.Station ||
		l.Line != other.Line ||
		l.WalkMinutes != other.WalkMinutes ||
		l.Ownership != other.Ownership ||
		l.BuiltYear != other.BuiltYear ||
		l.Structure != other.Structure ||
		l.Appreciation != other.Appreciation {
		return false
	}
	return equalCoord(l.Latitude, other.Latitude) && equalCoord(l.Longitude, other.Longitude)
}

// ApplyFeedFields copies the feed-owned fields of src onto l, leaving the
// locally-owned fields untouched.
func (l *ListingRecord) ApplyFeedFields(src ListingRecord) {
	viewedAt, favorite := l.ViewedAt, l.Favorite
	*l = src
	l.ViewedAt = viewedAt
	l.Favorite = favorite
}

func equalCoord(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// FeedSyncState tracks one feed's conditional-fetch token and the outcome of
// its most recent refresh attempt. It is created empty at first run, updated
// after every fetch attempt, and cleared explicitly on cache-clear.
type FeedSyncState struct {
	Feed          Feed      `json:"feed" yaml:"feed"`
	Token         string    `json:"token,omitempty" yaml:"token,omitempty"`                     // Opaque validation token from the feed server
	LastFetchedAt time.Time `json:"last_fetched_at,omitempty" yaml:"last_fetched_at,omitempty"` // Wall clock of the last successful fetch or not-modified
	LastError     string    `json:"last_error,omitempty" yaml:"last_error,omitempty"`           // Message of the last failure, empty on success
	Changed       bool      `json:"changed,omitempty" yaml:"changed,omitempty"`                 // Whether the last refresh applied any diff
}
