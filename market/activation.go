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

// ActivationPrices returns the activated aFRR energy prices (plus and minus
// direction) for one country and local date. The previous UTC day is
// fetched as well, because a market interval can span local midnight; the
// local-date filter then trims the result to the exact requested day.
func (s *Service) ActivationPrices(ctx context.Context, country string, day hours.Day) []ActivationPriceRow {
	key := cache.Key("activation_prices", country, day.String())
	if rows, ok := cache.Lookup[[]ActivationPriceRow](s.cache, key); ok {
		return rows
	}

	logger := s.logger.With(slog.String("dataset", "activation_prices"),
		slog.String("country", country), slog.String("day", day.String()))

	eic, ok := entsoe.EICForCountry(country)
	if !ok {
		logger.Error("no EIC mapping for country, returning empty table")
		return nil
	}

	var points []entsoe.ActivationPricePoint
	for _, fetchDay := range []hours.Day{day.Prev(), day} {
		params := url.Values{}
		params.Set("documentType", docTypeActivationPrices)
		params.Set("processType", processTypeFrequencyRestoration)
		params.Set("businessType", businessTypeAutomatic)
		params.Set("controlArea_Domain", eic)
		dayParams(params, fetchDay.Start())

		for _, payload := range s.fetchPayloads(ctx, logger.With(slog.String("fetchDay", fetchDay.String())), params, xmlFetchTimeout) {
			points = append(points, entsoe.ParseActivationPrices(logger, payload)...)
		}
	}

	loc := entsoe.LocationForCountry(country)
	points = onLocalDay(points, func(p entsoe.ActivationPricePoint) time.Time { return p.Timestamp }, day, loc)

	rows := pivotActivationPrices(points)

	s.cache.Put(key, rows)
	s.notifyRefresh("activation_prices", country, day)
	return rows
}
