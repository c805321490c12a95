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

// BalancingBids returns the individual aFRR balancing energy bids for one
// country and date. Like ProcuredCapacity the rows stay unpivoted so the
// curve builder can stack them by direction.
func (s *Service) BalancingBids(ctx context.Context, country string, day hours.Day) []BalancingBidRow {
	key := cache.Key("balancing_bids", country, day.String())
	if rows, ok := cache.Lookup[[]BalancingBidRow](s.cache, key); ok {
		return rows
	}

	logger := s.logger.With(slog.String("dataset", "balancing_bids"),
		slog.String("country", country), slog.String("day", day.String()))

	eic, ok := entsoe.EICForCountry(country)
	if !ok {
		logger.Error("no EIC mapping for country, returning empty table")
		return nil
	}

	params := url.Values{}
	params.Set("documentType", docTypeBalancingBids)
	params.Set("processType", processTypeAutomatic)
	params.Set("businessType", businessTypeOfferedPower)
	params.Set("connecting_Domain", eic)
	dayParams(params, day.Start())

	var points []entsoe.BidPoint
	for _, payload := range s.fetchPayloads(ctx, logger, params, zipFetchTimeout) {
		points = append(points, entsoe.ParseReserveBids(logger, payload,
			processTypeAutomatic, eic)...)
	}

	rows := make([]BalancingBidRow, 0, len(points))
	for _, p := range points {
		rows = append(rows, BalancingBidRow{
			When:      p.Timestamp,
			BidID:     p.BidID,
			Power:     p.Power,
			Price:     p.Price,
			Direction: p.Direction,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].When.Before(rows[j].When) })

	s.cache.Put(key, rows)
	s.notifyRefresh("balancing_bids", country, day)
	return rows
}
