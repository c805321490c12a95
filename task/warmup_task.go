package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/egubrno/svr-dashboard-go/hours"
	"github.com/egubrno/svr-dashboard-go/market"
)

// NewWarmupTask pre-fetches today's datasets for the default country so the
// first page load of the hour is served from cache. Fetchers never return
// errors, a failed warmup just means the page fetches on demand instead.
func NewWarmupTask(logger *slog.Logger, svc *market.Service, country string) func() {
	return func() {
		logger.Debug("running warmup task...", slog.String("country", country))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		today := hours.Today()
		svc.DayAheadPrices(ctx, country, today)
		svc.ActivationPrices(ctx, country, today)
		svc.AllAggregatedBids(ctx, country, today)
		svc.BalancingBids(ctx, country, today)
		svc.ProcuredCapacity(ctx, country, today)

		logger.Info("warmup task done", slog.String("day", today.String()))
	}
}
