package market

import (
	"math"
	"sort"
	"time"

	"github.com/egubrno/svr-dashboard-go/entsoe"
	"github.com/egubrno/svr-dashboard-go/hours"
)

// meanAcc averages duplicate observations for one pivot cell, ignoring NaN.
// An untouched cell reads back as NaN so a missing column is visible, not
// silently zero.
type meanAcc struct {
	sum float64
	n   int
}

func (m *meanAcc) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	m.sum += v
	m.n++
}

func (m *meanAcc) value() float64 {
	if m.n == 0 {
		return math.NaN()
	}
	return m.sum / float64(m.n)
}

func sortedTimes(set map[int64]time.Time) []time.Time {
	keys := make([]int64, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	times := make([]time.Time, len(keys))
	for i, k := range keys {
		times[i] = set[k]
	}
	return times
}

// pivotActivationPrices spreads per-direction activation price points into
// one row per timestamp with a plus and a minus column. Flow-direction
// codes outside A01/A02 are dropped.
func pivotActivationPrices(points []entsoe.ActivationPricePoint) []ActivationPriceRow {
	stamps := make(map[int64]time.Time)
	cells := make(map[int64]map[string]*meanAcc)

	for _, p := range points {
		if p.FlowDirection != "A01" && p.FlowDirection != "A02" {
			continue
		}
		k := p.Timestamp.UnixNano()
		if _, ok := cells[k]; !ok {
			stamps[k] = p.Timestamp
			cells[k] = map[string]*meanAcc{"A01": {}, "A02": {}}
		}
		cells[k][p.FlowDirection].add(p.Price)
	}

	rows := make([]ActivationPriceRow, 0, len(stamps))
	for _, ts := range sortedTimes(stamps) {
		c := cells[ts.UnixNano()]
		rows = append(rows, ActivationPriceRow{
			When:       ts,
			PlusPrice:  c["A01"].value(),
			MinusPrice: c["A02"].value(),
		})
	}
	return rows
}

// pivotAggregatedBids spreads per-direction volume points into one row per
// timestamp with plus/minus offered, activated and unavailable columns.
func pivotAggregatedBids(points []entsoe.AggregatedBidPoint) []AggregatedBidsRow {
	type cell struct {
		offered, activated, unavailable meanAcc
	}

	stamps := make(map[int64]time.Time)
	cells := make(map[int64]map[string]*cell)

	for _, p := range points {
		if p.FlowDirection != "A01" && p.FlowDirection != "A02" {
			continue
		}
		k := p.Timestamp.UnixNano()
		if _, ok := cells[k]; !ok {
			stamps[k] = p.Timestamp
			cells[k] = map[string]*cell{"A01": {}, "A02": {}}
		}
		c := cells[k][p.FlowDirection]
		c.offered.add(p.Offered)
		c.activated.add(p.Activated)
		c.unavailable.add(p.Unavailable)
	}

	rows := make([]AggregatedBidsRow, 0, len(stamps))
	for _, ts := range sortedTimes(stamps) {
		plus, minus := cells[ts.UnixNano()]["A01"], cells[ts.UnixNano()]["A02"]
		rows = append(rows, AggregatedBidsRow{
			When:             ts,
			PlusOffered:      plus.offered.value(),
			PlusActivated:    plus.activated.value(),
			PlusUnavailable:  plus.unavailable.value(),
			MinusOffered:     minus.offered.value(),
			MinusActivated:   minus.activated.value(),
			MinusUnavailable: minus.unavailable.value(),
		})
	}
	return rows
}

// negateMinusColumns flips the sign of the minus-direction volumes so
// downward bands plot below the axis.
func negateMinusColumns(rows []AggregatedBidsRow) {
	for i := range rows {
		rows[i].MinusOffered = -rows[i].MinusOffered
		rows[i].MinusActivated = -rows[i].MinusActivated
		rows[i].MinusUnavailable = -rows[i].MinusUnavailable
	}
}

// fillNearest replaces NaN values with the nearest non-NaN neighbor by row
// distance, bounded by the available endpoints. Ties prefer the earlier
// row. Offered volume is piecewise-stable between update events, which is
// why it gets this treatment while activated/unavailable keep true gaps.
func fillNearest(values []float64) {
	n := len(values)
	present := make([]int, 0, n)
	for i, v := range values {
		if !math.IsNaN(v) {
			present = append(present, i)
		}
	}
	if len(present) == 0 {
		return
	}

	for i := range values {
		if !math.IsNaN(values[i]) {
			continue
		}
		best := present[0]
		for _, p := range present[1:] {
			if abs(p-i) < abs(best-i) {
				best = p
			}
		}
		values[i] = values[best]
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// fillOfferedNearest applies nearest-neighbor gap filling to the two
// offered columns in place.
func fillOfferedNearest(rows []AggregatedBidsRow) {
	plus := make([]float64, len(rows))
	minus := make([]float64, len(rows))
	for i, r := range rows {
		plus[i] = r.PlusOffered
		minus[i] = r.MinusOffered
	}
	fillNearest(plus)
	fillNearest(minus)
	for i := range rows {
		rows[i].PlusOffered = plus[i]
		rows[i].MinusOffered = minus[i]
	}
}

// onLocalDay keeps the elements whose UTC instant falls on the requested
// civil date of loc. This trims the generous "yesterday + today" UTC fetch
// span down to the exact local day.
func onLocalDay[T any](items []T, when func(T) time.Time, day hours.Day, loc *time.Location) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if hours.DayInLocation(when(item), loc) == day {
			out = append(out, item)
		}
	}
	return out
}
