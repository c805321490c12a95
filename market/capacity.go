package market

import (
	"context"
	"log/slog"
	"net/url"
	"sort"

	"github.com/egubrno/svr-dashboard-go/cache"
	"github.com/egubrno/svr-dashboard-go/entsoe"
	"github.com/egubrno/svr-dashboard-go/hours"
)

// ProcuredCapacity returns the day-ahead procured balancing capacity
// tranches for one country and date. Rows stay unpivoted: the curve
// builder consumes individual (price, capacity, direction) tuples.
func (s *Service) ProcuredCapacity(ctx context.Context, country string, day hours.Day) []CapacityRow {
	key := cache.Key("procured_capacity", country, day.String())
	if rows, ok := cache.Lookup[[]CapacityRow](s.cache, key); ok {
		return rows
	}

	logger := s.logger.With(slog.String("dataset", "procured_capacity"),
		slog.String("country", country), slog.String("day", day.String()))

	eic, ok := entsoe.EICForCountry(country)
	if !ok {
		logger.Error("no EIC mapping for country, returning empty table")
		return nil
	}

	params := url.Values{}
	params.Set("documentType", docTypeProcuredCapacity)
	params.Set("processType", processTypeAutomatic)
	params.Set("area_Domain", eic)
	params.Set("Type_MarketAgreement.Type", marketAgreementDayAhead)
	dayParams(params, day.Start())

	var points []entsoe.CapacityPoint
	for _, payload := range s.fetchPayloads(ctx, logger, params, zipFetchTimeout) {
		points = append(points, entsoe.ParseProcuredCapacity(logger, payload,
			processTypeAutomatic, eic, marketAgreementDayAhead)...)
	}

	rows := make([]CapacityRow, 0, len(points))
	for _, p := range points {
		rows = append(rows, CapacityRow{
			When:      p.Timestamp,
			SeriesID:  p.SeriesID,
			Capacity:  p.Capacity,
			Price:     p.Price,
			Direction: p.Direction,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].When.Before(rows[j].When) })

	s.cache.Put(key, rows)
	s.notifyRefresh("procured_capacity", country, day)
	return rows
}
