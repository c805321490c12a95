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

// Request codes of the Transparency Platform API.
const (
	docTypeProcuredCapacity = "A15"
	docTypeAggregatedBids   = "A24"
	docTypeBalancingBids    = "A37"
	docTypeDayAheadPrices   = "A44"
	docTypeActivationPrices = "A84"

	processTypeFrequencyRestoration = "A16"
	processTypeAutomatic            = "A51"

	// Aggregated-bid activation modes.
	ProcessTypeCentralSelection = "A67"
	ProcessTypeLocalSelection   = "A68"

	businessTypeAutomatic    = "A96"
	businessTypeOfferedPower = "B74"
	marketAgreementDayAhead  = "A01"
)

// Per-dataset request timeouts. Archive-wrapped datasets get the longer
// budget.
const (
	xmlFetchTimeout = 60 * time.Second
	zipFetchTimeout = 90 * time.Second
)

// Service orchestrates dataset retrieval: request building, archive
// unwrapping, parsing, pivoting and local-date trimming, with every result
// held in a TTL cache. No error crosses a fetcher's boundary; the
// documented failure mode of every fetcher is an empty table.
type Service struct {
	logger *slog.Logger
	client *entsoe.Client
	cache  *cache.Cache

	// OnRefresh, when set, is invoked after a dataset has been fetched
	// fresh (not served from cache). The www layer uses it to nudge open
	// pages.
	OnRefresh func(dataset, country string, day hours.Day)
}

func NewService(logger *slog.Logger, client *entsoe.Client, c *cache.Cache) *Service {
	return &Service{
		logger: logger,
		client: client,
		cache:  c,
	}
}

func (s *Service) notifyRefresh(dataset, country string, day hours.Day) {
	if s.OnRefresh != nil {
		s.OnRefresh(dataset, country, day)
	}
}

// fetchPayloads performs one API request and unwraps it into parseable XML
// payloads. Transport errors and malformed archives are logged and yield
// nil; "no matching data" payloads are informational and filtered out.
func (s *Service) fetchPayloads(ctx context.Context, logger *slog.Logger, params url.Values, timeout time.Duration) []string {
	body, contentType, err := s.client.Get(ctx, params, timeout)
	if err != nil {
		logger.Error("fetch step failed, continuing without this day", slog.Any("error", err))
		return nil
	}

	payloads := entsoe.UnwrapPayloads(logger, body, contentType)

	kept := payloads[:0]
	for _, p := range payloads {
		if entsoe.IsEmptyMarker(p) {
			logger.Info("api returned no matching data for this period")
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// dayParams sets the periodStart/periodEnd pair covering one calendar day
// anchored at the given midnight instant.
func dayParams(params url.Values, start time.Time) url.Values {
	params.Set("periodStart", entsoe.CompactPeriod(start))
	params.Set("periodEnd", entsoe.CompactPeriod(start.AddDate(0, 0, 1)))
	return params
}
