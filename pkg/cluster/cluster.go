// Package cluster groups flat transaction records into estimated-building
// clusters for comparative display. Clusters are derived on every call and
// never persisted.
package cluster

import (
	"fmt"
	"sort"

	"github.com/sumai-tools/sumai/pkg/listings"
)

// BuildingCluster is a derived grouping of transactions believed to belong
// to the same physical building.
type BuildingCluster struct {
	// Key is the building-group id, or the sole member's transaction id
	// for a singleton cluster.
	Key string

	// Label is the estimated building name, or a synthesized
	// "{ward}{district} {builtYear}年築" string when no name is known.
	Label string

	// Members are the cluster's records, sorted by trade period
	// descending.
	Members []listings.TransactionRecord

	// Aggregate statistics over the members.
	MinPriceMan      int
	MaxPriceMan      int
	MeanAreaPriceMan int // integer-truncated mean of per-member area price
}

// LatestPeriod returns the most recent member's trade period.
func (c *BuildingCluster) LatestPeriod() string {
	if len(c.Members) == 0 {
		return ""
	}
	return c.Members[0].TradePeriod
}

// Cluster groups records into ordered building clusters. Records sharing a
// building-group id form one cluster; a record without one becomes a
// singleton keyed by its own transaction id, so unrelated trades are never
// merged just because upstream estimation produced no grouping.
func Cluster(records []listings.TransactionRecord) []*BuildingCluster {
	byKey := make(map[string]*BuildingCluster)
	order := make([]string, 0)

	for _, rec := range records {
		key := rec.BuildingGroupID
		if key == "" {
			key = rec.ID
		}
		c, ok := byKey[key]
		if !ok {
			c = &BuildingCluster{Key: key}
			byKey[key] = c
			order = append(order, key)
		}
		c.Members = append(c.Members, rec)
	}

	clusters := make([]*BuildingCluster, 0, len(order))
	for _, key := range order {
		c := byKey[key]
		finalize(c)
		clusters = append(clusters, c)
	}

	// Most recently active clusters first; bigger clusters win ties.
	sort.SliceStable(clusters, func(i, j int) bool {
		pi, pj := clusters[i].LatestPeriod(), clusters[j].LatestPeriod()
		if pi != pj {
			return pi > pj
		}
		return len(clusters[i].Members) > len(clusters[j].Members)
	})

	return clusters
}

// finalize sorts the members and computes label and aggregate stats.
func finalize(c *BuildingCluster) {
	// Zero-padded year+quarter strings sort chronologically, so a plain
	// string compare gives trade period descending.
	sort.SliceStable(c.Members, func(i, j int) bool {
		return c.Members[i].TradePeriod > c.Members[j].TradePeriod
	})

	c.Label = label(c.Members)

	var areaPriceSum float64
	for i, m := range c.Members {
		if i == 0 || m.PriceMan < c.MinPriceMan {
			c.MinPriceMan = m.PriceMan
		}
		if m.PriceMan > c.MaxPriceMan {
			c.MaxPriceMan = m.PriceMan
		}
		areaPriceSum += m.AreaPriceMan()
	}
	if len(c.Members) > 0 {
		c.MeanAreaPriceMan = int(areaPriceSum / float64(len(c.Members)))
	}
}

// label picks the first known building name, falling back to a synthesized
// location string. Members of one cluster are assumed to share ward,
// district, and built year; that assumption comes from upstream estimation
// and is not revalidated here.
func label(members []listings.TransactionRecord) string {
	for _, m := range members {
		if m.BuildingName != "" {
			return m.BuildingName
		}
	}
	if len(members) == 0 {
		return ""
	}
	m := members[0]
	return fmt.Sprintf("%s%s %d年築", m.Ward, m.District, m.BuiltYear)
}
