package market

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"time"

	"github.com/egubrno/svr-dashboard-go/cache"
	"github.com/egubrno/svr-dashboard-go/entsoe"
	"github.com/egubrno/svr-dashboard-go/hours"
)

// Day-ahead market days are delivered against the CET/CEST trading
// calendar regardless of the bidding zone's own timezone.
var tradingCalendar = loadLocation("Europe/Brussels")

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DayAheadPrices returns the cleared hourly day-ahead prices for one
// country and local date, UTC-indexed and ascending. Failures of any kind
// yield an empty table.
func (s *Service) DayAheadPrices(ctx context.Context, country string, day hours.Day) []DayAheadPriceRow {
	key := cache.Key("day_ahead_prices", country, day.String())
	if rows, ok := cache.Lookup[[]DayAheadPriceRow](s.cache, key); ok {
		return rows
	}

	logger := s.logger.With(slog.String("dataset", "day_ahead_prices"),
		slog.String("country", country), slog.String("day", day.String()))

	eic, ok := entsoe.EICForCountry(country)
	if !ok {
		logger.Error("no EIC mapping for country, returning empty table")
		return nil
	}

	params := url.Values{}
	params.Set("documentType", docTypeDayAheadPrices)
	params.Set("in_Domain", eic)
	params.Set("out_Domain", eic)
	dayParams(params, day.StartIn(tradingCalendar))

	var points []entsoe.DayAheadPricePoint
	for _, payload := range s.fetchPayloads(ctx, logger, params, xmlFetchTimeout) {
		points = append(points, entsoe.ParseDayAheadPrices(logger, payload)...)
	}

	rows := make([]DayAheadPriceRow, 0, len(points))
	seen := make(map[int64]bool, len(points))
	for _, p := range points {
		if seen[p.Timestamp.UnixNano()] {
			continue
		}
		seen[p.Timestamp.UnixNano()] = true
		rows = append(rows, DayAheadPriceRow{When: p.Timestamp, Price: p.Price})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].When.Before(rows[j].When) })

	s.cache.Put(key, rows)
	s.notifyRefresh("day_ahead_prices", country, day)
	return rows
}
