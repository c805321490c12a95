package entsoe

import (
	"encoding/xml"
	"log/slog"
	"math"
	"strconv"
	"time"
)

// The three document families share the Period/Point skeleton but differ in
// root element, series element and the schema-qualified value tags carried
// by each point. Struct decoding keys on local element names, which are
// unique within each family, so one set of structs per family is enough.

type xmlInterval struct {
	Start string `xml:"start"`
}

type xmlPoint struct {
	Position string `xml:"position"`

	// Reserve-bid quantity variants, ordered by preference.
	QuantityQuantity string `xml:"quantity.quantity"`
	Quantity         string `xml:"quantity"`

	// Reserve-bid price variants, ordered by preference.
	EnergyPriceAmount string `xml:"energy_Price.amount"`
	PriceAmount       string `xml:"price.amount"`
	CapPriceAmount    string `xml:"Price.amount"`

	// Balancing-document value tags.
	SecondaryQuantity      string `xml:"secondaryQuantity"`
	UnavailableQuantity    string `xml:"unavailable_Quantity.quantity"`
	ActivationPriceAmount  string `xml:"activation_Price.amount"`
	ProcurementPriceAmount string `xml:"procurement_Price.amount"`
}

type xmlPeriod struct {
	Interval   xmlInterval `xml:"timeInterval"`
	Resolution string      `xml:"resolution"`
	Points     []xmlPoint  `xml:"Point"`
}

type xmlBidSeries struct {
	MRID          string      `xml:"mRID"`
	FlowDirection string      `xml:"flowDirection.direction"`
	Periods       []xmlPeriod `xml:"Period"`
}

type xmlReserveBidDocument struct {
	XMLName xml.Name       `xml:"ReserveBid_MarketDocument"`
	Series  []xmlBidSeries `xml:"Bid_TimeSeries"`
}

type xmlBalancingSeries struct {
	MRID          string      `xml:"mRID"`
	FlowDirection string      `xml:"flowDirection.direction"`
	Periods       []xmlPeriod `xml:"Period"`
}

type xmlBalancingDocument struct {
	XMLName xml.Name             `xml:"Balancing_MarketDocument"`
	Series  []xmlBalancingSeries `xml:"TimeSeries"`
}

type xmlPublicationSeries struct {
	Periods []xmlPeriod `xml:"Period"`
}

type xmlPublicationDocument struct {
	XMLName xml.Name               `xml:"Publication_MarketDocument"`
	Series  []xmlPublicationSeries `xml:"TimeSeries"`
}

// periodStart parses the strict YYYY-MM-DDTHH:MMZ interval start. A period
// missing the start or failing to parse is skipped, never an error.
func periodStart(logger *slog.Logger, p xmlPeriod) (time.Time, bool) {
	if p.Interval.Start == "" {
		return time.Time{}, false
	}
	start, err := time.Parse(startLayout, p.Interval.Start)
	if err != nil {
		logger.Warn("cannot parse period start", slog.String("start", p.Interval.Start))
		return time.Time{}, false
	}
	return start, true
}

func pointPosition(p xmlPoint) int {
	pos, err := strconv.Atoi(p.Position)
	if err != nil {
		return 0
	}
	return pos
}

// firstFloat parses the first present candidate value. The boolean is false
// when no candidate is present or parseable.
func firstFloat(candidates ...string) (float64, bool) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}

func floatOrNaN(s string) float64 {
	if v, ok := firstFloat(s); ok {
		return v
	}
	return math.NaN()
}

// ParseReserveBids extracts bid points from a reserve-bid document (451-7).
// The bid id and flow direction are series-scoped; process type and
// connecting domain are request metadata not present in the XML and are
// carried onto every point. Malformed markup yields an empty result.
func ParseReserveBids(logger *slog.Logger, payload, processType, connectingDomain string) []BidPoint {
	var doc xmlReserveBidDocument
	if err := xml.Unmarshal([]byte(payload), &doc); err != nil {
		logger.Warn("failed to parse reserve bid document", slog.Any("error", err))
		return nil
	}

	var points []BidPoint
	for _, series := range doc.Series {
		direction := DirectionFromCode(series.FlowDirection)
		for _, period := range series.Periods {
			start, ok := periodStart(logger, period)
			if !ok {
				continue
			}
			for _, point := range period.Points {
				power, ok := firstFloat(point.QuantityQuantity, point.Quantity)
				if !ok {
					// A bid without a resolvable quantity is useless.
					continue
				}
				// Price absence is common for availability-only series.
				price, _ := firstFloat(point.EnergyPriceAmount, point.PriceAmount, point.CapPriceAmount)

				points = append(points, BidPoint{
					Timestamp:        PointTime(start, period.Resolution, pointPosition(point)),
					BidID:            series.MRID,
					Power:            power,
					Price:            price,
					Direction:        direction,
					ProcessType:      processType,
					ConnectingDomain: connectingDomain,
				})
			}
		}
	}
	return points
}

// ParseActivationPrices extracts activated balancing energy prices from a
// balancing document (451-6, documentType A84). The raw flow-direction code
// is kept for pivoting; prices missing from a point come out as NaN.
func ParseActivationPrices(logger *slog.Logger, payload string) []ActivationPricePoint {
	var doc xmlBalancingDocument
	if err := xml.Unmarshal([]byte(payload), &doc); err != nil {
		logger.Warn("failed to parse activated price document", slog.Any("error", err))
		return nil
	}

	var points []ActivationPricePoint
	for _, series := range doc.Series {
		for _, period := range series.Periods {
			start, ok := periodStart(logger, period)
			if !ok {
				continue
			}
			for _, point := range period.Points {
				points = append(points, ActivationPricePoint{
					Timestamp:     PointTime(start, period.Resolution, pointPosition(point)),
					FlowDirection: series.FlowDirection,
					Price:         floatOrNaN(point.ActivationPriceAmount),
				})
			}
		}
	}
	return points
}

// ParseProcuredCapacity extracts procured balancing capacity from a
// balancing document (451-6, documentType A15).
func ParseProcuredCapacity(logger *slog.Logger, payload, processType, areaDomain, marketAgreementType string) []CapacityPoint {
	var doc xmlBalancingDocument
	if err := xml.Unmarshal([]byte(payload), &doc); err != nil {
		logger.Warn("failed to parse procured capacity document", slog.Any("error", err))
		return nil
	}

	var points []CapacityPoint
	for _, series := range doc.Series {
		direction := DirectionFromCode(series.FlowDirection)
		for _, period := range series.Periods {
			start, ok := periodStart(logger, period)
			if !ok {
				continue
			}
			for _, point := range period.Points {
				capacity, ok := firstFloat(point.Quantity)
				if !ok {
					continue
				}
				price, _ := firstFloat(point.ProcurementPriceAmount)

				points = append(points, CapacityPoint{
					Timestamp:           PointTime(start, period.Resolution, pointPosition(point)),
					SeriesID:            series.MRID,
					Capacity:            capacity,
					Price:               price,
					Direction:           direction,
					ProcessType:         processType,
					AreaDomain:          areaDomain,
					MarketAgreementType: marketAgreementType,
				})
			}
		}
	}
	return points
}

// ParseAggregatedBids extracts aggregated offered/activated/unavailable
// volumes from a balancing document (451-6, documentType A24). Missing
// volumes come out as NaN so the pivot can tell "absent" from zero.
func ParseAggregatedBids(logger *slog.Logger, payload string) []AggregatedBidPoint {
	var doc xmlBalancingDocument
	if err := xml.Unmarshal([]byte(payload), &doc); err != nil {
		logger.Warn("failed to parse aggregated bid document", slog.Any("error", err))
		return nil
	}

	var points []AggregatedBidPoint
	for _, series := range doc.Series {
		for _, period := range series.Periods {
			start, ok := periodStart(logger, period)
			if !ok {
				continue
			}
			for _, point := range period.Points {
				points = append(points, AggregatedBidPoint{
					Timestamp:     PointTime(start, period.Resolution, pointPosition(point)),
					FlowDirection: series.FlowDirection,
					Offered:       floatOrNaN(point.Quantity),
					Activated:     floatOrNaN(point.SecondaryQuantity),
					Unavailable:   floatOrNaN(point.UnavailableQuantity),
				})
			}
		}
	}
	return points
}

// ParseDayAheadPrices extracts hourly day-ahead market prices from a
// publication document (451-3, documentType A44).
func ParseDayAheadPrices(logger *slog.Logger, payload string) []DayAheadPricePoint {
	var doc xmlPublicationDocument
	if err := xml.Unmarshal([]byte(payload), &doc); err != nil {
		logger.Warn("failed to parse day-ahead price document", slog.Any("error", err))
		return nil
	}

	var points []DayAheadPricePoint
	for _, series := range doc.Series {
		for _, period := range series.Periods {
			start, ok := periodStart(logger, period)
			if !ok {
				continue
			}
			for _, point := range period.Points {
				price, ok := firstFloat(point.PriceAmount)
				if !ok {
					continue
				}
				points = append(points, DayAheadPricePoint{
					Timestamp: PointTime(start, period.Resolution, pointPosition(point)),
					Price:     price,
				})
			}
		}
	}
	return points
}
