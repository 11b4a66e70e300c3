package listings

// TransactionRecord represents one historical trade from the transaction
// feed. Records are immutable after ingestion; the whole table is replaced
// when the feed is reloaded.
type TransactionRecord struct {
	ID        string  `json:"id" yaml:"id"`                 // Transaction identifier from the source
	Ward      string  `json:"ward" yaml:"ward"`             // 区, e.g. 世田谷区
	District  string  `json:"district" yaml:"district"`     // 地区, e.g. 三軒茶屋
	BuiltYear int     `json:"built_year" yaml:"built_year"` // Year of construction
	PriceMan  int     `json:"price_man" yaml:"price_man"`   // Trade price in units of 10,000 yen
	AreaSqm   float64 `json:"area_sqm" yaml:"area_sqm"`     // Floor area in square meters
	Layout    string  `json:"layout" yaml:"layout"`         // Floor plan
	Structure string  `json:"structure,omitempty" yaml:"structure,omitempty"`

	// TradePeriod is a zero-padded year-quarter string such as "2024Q3".
	// The format sorts chronologically under plain lexicographic compare,
	// which the clusterer relies on.
	TradePeriod string `json:"trade_period" yaml:"trade_period"`

	Latitude  *float64 `json:"lat,omitempty" yaml:"lat,omitempty"`
	Longitude *float64 `json:"lng,omitempty" yaml:"lng,omitempty"`

	// BuildingGroupID is an externally estimated same-building grouping id.
	// Empty when upstream estimation produced no grouping for this record.
	BuildingGroupID string `json:"building_group_id,omitempty" yaml:"building_group_id,omitempty"`

	// BuildingName is the estimated building name, when upstream knows one.
	BuildingName string `json:"building_name,omitempty" yaml:"building_name,omitempty"`
}

// AreaPriceMan returns the price per square meter in units of 10,000 yen,
// or 0 when the area is unknown.
func (t TransactionRecord) AreaPriceMan() float64 {
	if t.AreaSqm <= 0 {
		return 0
	}
	return float64(t.PriceMan) / t.AreaSqm
}
