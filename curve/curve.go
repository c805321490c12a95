// Package curve builds cumulative merit-order supply curves from raw
// price/power tuples of a single hour and direction.
package curve

import (
	"sort"
	"time"

	"github.com/egubrno/svr-dashboard-go/entsoe"
)

// Bid is one price/power observation inside the hour under construction.
type Bid struct {
	When  time.Time
	Price float64
	Power float64
}

// Point is one step of a cumulative curve.
type Point struct {
	CumulativePower float64
	Price           float64
}

// Curve is a merit-order supply curve for one direction: ordered steps
// starting at a synthetic zero-power anchor, plus the volume-weighted
// average price of the underlying bids. WeightedAveragePrice is 0 when no
// strictly-positive power exists; check TotalPower to tell that apart from
// a genuine zero average.
type Curve struct {
	Direction            entsoe.Direction
	Points               []Point
	WeightedAveragePrice float64
	TotalPower           float64
}

type meritRow struct {
	when  time.Time
	price float64
	power float64
	cum   float64
}

// BuildBidCurve constructs the curve for raw balancing bids. Upward
// regulation activates cheapest-first, so the curve ascends in price;
// downward regulation activates highest-price-first, so it descends. The
// zero anchor sits at the first activated price (min for Up, max for Down).
func BuildBidCurve(bids []Bid, direction entsoe.Direction) Curve {
	rows := aggregate(bids)
	if len(rows) == 0 {
		return Curve{Direction: direction}
	}

	priceAscending := direction != entsoe.DirectionDown
	sortMerit(rows, priceAscending)
	cumulate(rows)

	anchor := rows[0].price
	return assemble(rows, direction, anchor, priceAscending)
}

// BuildCapacityCurve constructs the curve for procured capacity.
// Procurement curves ascend in price for both directions, and the zero
// anchor uses the smallest strictly-positive price when one exists, since
// capacity curves conventionally start stepping at the first priced
// tranche.
func BuildCapacityCurve(bids []Bid, direction entsoe.Direction) Curve {
	rows := aggregate(bids)
	if len(rows) == 0 {
		return Curve{Direction: direction}
	}

	sortMerit(rows, true)
	cumulate(rows)

	anchor := rows[0].price
	for _, r := range rows {
		if r.price > 0 {
			anchor = r.price
			break
		}
	}
	return assemble(rows, direction, anchor, true)
}

// aggregate merges duplicate (timestamp, price) observations by summing
// power. The raw feed may list several bids at an identical price within
// the hour; they form one step, not separate ones.
func aggregate(bids []Bid) []meritRow {
	type key struct {
		when  int64
		price float64
	}

	index := make(map[key]int)
	rows := make([]meritRow, 0, len(bids))
	for _, b := range bids {
		k := key{when: b.When.UnixNano(), price: b.Price}
		if i, ok := index[k]; ok {
			rows[i].power += b.Power
			continue
		}
		index[k] = len(rows)
		rows = append(rows, meritRow{when: b.When, price: b.Price, power: b.Power})
	}
	return rows
}

func sortMerit(rows []meritRow, priceAscending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].price != rows[j].price {
			if priceAscending {
				return rows[i].price < rows[j].price
			}
			return rows[i].price > rows[j].price
		}
		return rows[i].power < rows[j].power
	})
}

func cumulate(rows []meritRow) {
	sum := 0.0
	for i := range rows {
		sum += rows[i].power
		rows[i].cum = sum
	}
}

func assemble(rows []meritRow, direction entsoe.Direction, anchorPrice float64, priceAscending bool) Curve {
	points := make([]Point, 0, len(rows)+1)
	points = append(points, Point{CumulativePower: 0, Price: anchorPrice})
	for _, r := range rows {
		points = append(points, Point{CumulativePower: r.cum, Price: r.price})
	}

	points = dedup(points)

	// Re-sort so the zero anchor slots into monotonic display order.
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Price != points[j].Price {
			if priceAscending {
				return points[i].Price < points[j].Price
			}
			return points[i].Price > points[j].Price
		}
		return points[i].CumulativePower < points[j].CumulativePower
	})

	avg, total := weightedAverage(rows)
	return Curve{
		Direction:            direction,
		Points:               points,
		WeightedAveragePrice: avg,
		TotalPower:           total,
	}
}

func dedup(points []Point) []Point {
	seen := make(map[Point]bool, len(points))
	out := points[:0]
	for _, p := range points {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// weightedAverage is Σ(power·price)/Σ(power) over strictly-positive-power
// rows. Zero total positive power yields 0, never NaN.
func weightedAverage(rows []meritRow) (avg, total float64) {
	weighted := 0.0
	for _, r := range rows {
		if r.power <= 0 {
			continue
		}
		weighted += r.power * r.price
		total += r.power
	}
	if total <= 0 {
		return 0, total
	}
	return weighted / total, total
}
