// Package market turns raw Transparency Platform documents into normalized,
// fixed-schema tables for one country and one local calendar date.
package market

import (
	"time"

	"github.com/egubrno/svr-dashboard-go/entsoe"
)

// DayAheadPriceRow is one cleared hourly price of the day-ahead market.
type DayAheadPriceRow struct {
	When  time.Time
	Price float64
}

// ActivationPriceRow carries activated aFRR energy prices pivoted by
// direction. Either price is NaN when the source published nothing for that
// direction, but both columns always exist.
type ActivationPriceRow struct {
	When       time.Time
	PlusPrice  float64
	MinusPrice float64
}

// AggregatedBidsRow carries aggregated bid volumes pivoted by direction.
// The minus-direction volumes are negated after pivoting so plots show
// symmetric positive/negative bands. Absent values are NaN; every column
// always exists.
type AggregatedBidsRow struct {
	When             time.Time
	PlusOffered      float64
	PlusActivated    float64
	PlusUnavailable  float64
	MinusOffered     float64
	MinusActivated   float64
	MinusUnavailable float64
}

// BalancingBidRow is one raw balancing energy bid.
type BalancingBidRow struct {
	When      time.Time
	BidID     string
	Power     float64
	Price     float64
	Direction entsoe.Direction
}

// CapacityRow is one procured balancing capacity tranche.
type CapacityRow struct {
	When      time.Time
	SeriesID  string
	Capacity  float64
	Price     float64
	Direction entsoe.Direction
}
