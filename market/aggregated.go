package market

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/egubrno/svr-dashboard-go/cache"
	"github.com/egubrno/svr-dashboard-go/entsoe"
	"github.com/egubrno/svr-dashboard-go/hours"
)

// AggregatedBids returns the aggregated offered/activated/unavailable aFRR
// volumes for one country, local date and activation mode (A67 central or
// A68 local selection). Offered columns get nearest-neighbor gap filling;
// minus-direction volumes come back negated.
func (s *Service) AggregatedBids(ctx context.Context, country string, day hours.Day, processType string) []AggregatedBidsRow {
	key := cache.Key("aggregated_bids", country, day.String(), processType)
	if rows, ok := cache.Lookup[[]AggregatedBidsRow](s.cache, key); ok {
		return rows
	}

	logger := s.logger.With(slog.String("dataset", "aggregated_bids"),
		slog.String("country", country), slog.String("day", day.String()),
		slog.String("processType", processType))

	eic, ok := entsoe.EICForCountry(country)
	if !ok {
		logger.Error("no EIC mapping for country, returning empty table")
		return nil
	}

	var points []entsoe.AggregatedBidPoint
	for _, fetchDay := range []hours.Day{day.Prev(), day} {
		params := url.Values{}
		params.Set("documentType", docTypeAggregatedBids)
		params.Set("processType", processType)
		params.Set("area_Domain", eic)
		dayParams(params, fetchDay.Start())

		for _, payload := range s.fetchPayloads(ctx, logger.With(slog.String("fetchDay", fetchDay.String())), params, xmlFetchTimeout) {
			points = append(points, entsoe.ParseAggregatedBids(logger, payload)...)
		}
	}

	loc := entsoe.LocationForCountry(country)
	points = onLocalDay(points, func(p entsoe.AggregatedBidPoint) time.Time { return p.Timestamp }, day, loc)

	rows := pivotAggregatedBids(points)
	fillOfferedNearest(rows)
	negateMinusColumns(rows)

	s.cache.Put(key, rows)
	s.notifyRefresh("aggregated_bids", country, day)
	return rows
}

// AllAggregatedBids fetches both activation modes.
func (s *Service) AllAggregatedBids(ctx context.Context, country string, day hours.Day) map[string][]AggregatedBidsRow {
	return map[string][]AggregatedBidsRow{
		ProcessTypeCentralSelection: s.AggregatedBids(ctx, country, day, ProcessTypeCentralSelection),
		ProcessTypeLocalSelection:   s.AggregatedBids(ctx, country, day, ProcessTypeLocalSelection),
	}
}
