package entsoe

import "time"

// Direction of a balancing flow, derived from the two-valued
// flowDirection.direction code used throughout the Transparency Platform
// schemas (A01 = upward regulation, A02 = downward regulation).
type Direction string

const (
	DirectionUp      Direction = "Up"
	DirectionDown    Direction = "Down"
	DirectionUnknown Direction = "Unknown"
)

// DirectionFromCode maps a flow-direction code to a Direction. Codes outside
// the known set map to DirectionUnknown.
func DirectionFromCode(code string) Direction {
	switch code {
	case "A01":
		return DirectionUp
	case "A02":
		return DirectionDown
	default:
		return DirectionUnknown
	}
}

// BidPoint is one observation from a reserve-bid document (451-7).
type BidPoint struct {
	Timestamp        time.Time
	BidID            string
	Power            float64
	Price            float64
	Direction        Direction
	ProcessType      string
	ConnectingDomain string
}

// ActivationPricePoint is one observation from an activated-balancing-price
// document (451-6, documentType A84). Price is NaN when the point carries no
// activation_Price.amount.
type ActivationPricePoint struct {
	Timestamp     time.Time
	FlowDirection string
	Price         float64
}

// CapacityPoint is one observation from a procured-capacity document
// (451-6, documentType A15).
type CapacityPoint struct {
	Timestamp           time.Time
	SeriesID            string
	Capacity            float64
	Price               float64
	Direction           Direction
	ProcessType         string
	AreaDomain          string
	MarketAgreementType string
}

// AggregatedBidPoint is one observation from an aggregated-bid document
// (451-6, documentType A24). Any of the three volumes may be NaN when the
// source point omits it.
type AggregatedBidPoint struct {
	Timestamp     time.Time
	FlowDirection string
	Offered       float64
	Activated     float64
	Unavailable   float64
}

// DayAheadPricePoint is one observation from a publication document
// (451-3, documentType A44).
type DayAheadPricePoint struct {
	Timestamp time.Time
	Price     float64
}
