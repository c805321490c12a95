package market

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/egubrno/svr-dashboard-go/cache"
	"github.com/egubrno/svr-dashboard-go/entsoe"
	"github.com/egubrno/svr-dashboard-go/hours"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := testLogger()
	client := entsoe.NewClient(srv.URL, "test-token", logger)
	return NewService(logger, client, cache.New(time.Hour))
}

func serveXML(t *testing.T, payload string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		io.WriteString(w, payload)
	}
}

const dayAheadDoc = `<?xml version="1.0" encoding="UTF-8"?>
<Publication_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-3:publicationdocument:7:3">
  <TimeSeries>
    <Period>
      <timeInterval><start>2024-03-14T23:00Z</start><end>2024-03-15T23:00Z</end></timeInterval>
      <resolution>PT60M</resolution>
      <Point><position>1</position><price.amount>85.5</price.amount></Point>
      <Point><position>2</position><price.amount>90.0</price.amount></Point>
    </Period>
  </TimeSeries>
</Publication_MarketDocument>`

func TestDayAheadPrices(t *testing.T) {
	var gotQuery map[string]string
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"documentType": r.URL.Query().Get("documentType"),
			"in_Domain":    r.URL.Query().Get("in_Domain"),
			"out_Domain":   r.URL.Query().Get("out_Domain"),
			"periodStart":  r.URL.Query().Get("periodStart"),
		}
		w.Header().Set("Content-Type", "text/xml")
		io.WriteString(w, dayAheadDoc)
	})

	day := hours.Day{Date: "2024-03-15"}
	rows := s.DayAheadPrices(context.Background(), "cz", day)

	if gotQuery["documentType"] != "A44" {
		t.Errorf("expected documentType A44, got %q", gotQuery["documentType"])
	}
	if gotQuery["in_Domain"] != gotQuery["out_Domain"] || gotQuery["in_Domain"] == "" {
		t.Errorf("expected matching in/out domains, got %q and %q", gotQuery["in_Domain"], gotQuery["out_Domain"])
	}
	// The day-ahead day opens at CET midnight, 23:00 UTC the evening before.
	if gotQuery["periodStart"] != "202403142300" {
		t.Errorf("expected periodStart 202403142300, got %q", gotQuery["periodStart"])
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Price != 85.5 || rows[1].Price != 90.0 {
		t.Errorf("unexpected prices: %+v", rows)
	}
	if !rows[0].When.Before(rows[1].When) {
		t.Errorf("expected ascending rows, got %v then %v", rows[0].When, rows[1].When)
	}
}

const reserveBidDoc = `<?xml version="1.0" encoding="UTF-8"?>
<ReserveBid_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-7:reservebiddocument:6:2">
  <Bid_TimeSeries>
    <mRID>BID-001</mRID>
    <flowDirection.direction>A01</flowDirection.direction>
    <Period>
      <timeInterval><start>2024-03-15T00:00Z</start><end>2024-03-15T01:00Z</end></timeInterval>
      <resolution>PT60M</resolution>
      <Point><position>1</position><quantity.quantity>50</quantity.quantity><energy_Price.amount>30</energy_Price.amount></Point>
    </Period>
  </Bid_TimeSeries>
  <Bid_TimeSeries>
    <mRID>BID-002</mRID>
    <flowDirection.direction>A02</flowDirection.direction>
    <Period>
      <timeInterval><start>2024-03-15T00:00Z</start><end>2024-03-15T01:00Z</end></timeInterval>
      <resolution>PT60M</resolution>
      <Point><position>1</position><quantity.quantity>25</quantity.quantity><energy_Price.amount>-5</energy_Price.amount></Point>
    </Period>
  </Bid_TimeSeries>
</ReserveBid_MarketDocument>`

func TestBalancingBids(t *testing.T) {
	s := newTestService(t, serveXML(t, reserveBidDoc))

	rows := s.BalancingBids(context.Background(), "cz", hours.Day{Date: "2024-03-15"})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	byID := map[string]BalancingBidRow{}
	for _, r := range rows {
		byID[r.BidID] = r
	}
	up := byID["BID-001"]
	if up.Power != 50 || up.Price != 30 || up.Direction != entsoe.DirectionUp {
		t.Errorf("unexpected up bid: %+v", up)
	}
	down := byID["BID-002"]
	if down.Power != 25 || down.Price != -5 || down.Direction != entsoe.DirectionDown {
		t.Errorf("unexpected down bid: %+v", down)
	}
}

const capacityDoc = `<?xml version="1.0" encoding="UTF-8"?>
<Balancing_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-6:balancingdocument:4:1">
  <TimeSeries>
    <mRID>1</mRID>
    <flowDirection.direction>A01</flowDirection.direction>
    <Period>
      <timeInterval><start>2024-03-15T00:00Z</start><end>2024-03-15T04:00Z</end></timeInterval>
      <resolution>PT240M</resolution>
      <Point><position>1</position><quantity>120</quantity><procurement_Price.amount>12.5</procurement_Price.amount></Point>
    </Period>
  </TimeSeries>
</Balancing_MarketDocument>`

func TestProcuredCapacity(t *testing.T) {
	var gotQuery map[string]string
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"documentType":              r.URL.Query().Get("documentType"),
			"Type_MarketAgreement.Type": r.URL.Query().Get("Type_MarketAgreement.Type"),
		}
		w.Header().Set("Content-Type", "text/xml")
		io.WriteString(w, capacityDoc)
	})

	rows := s.ProcuredCapacity(context.Background(), "cz", hours.Day{Date: "2024-03-15"})

	if gotQuery["documentType"] != "A15" || gotQuery["Type_MarketAgreement.Type"] != "A01" {
		t.Errorf("unexpected request query: %v", gotQuery)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.Capacity != 120 || r.Price != 12.5 || r.Direction != entsoe.DirectionUp {
		t.Errorf("unexpected row: %+v", r)
	}
}

const activationDoc = `<?xml version="1.0" encoding="UTF-8"?>
<Balancing_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-6:balancingdocument:4:1">
  <TimeSeries>
    <flowDirection.direction>A01</flowDirection.direction>
    <Period>
      <timeInterval><start>2024-03-15T10:00Z</start><end>2024-03-15T11:00Z</end></timeInterval>
      <resolution>PT60M</resolution>
      <Point><position>1</position><activation_Price.amount>55</activation_Price.amount></Point>
    </Period>
  </TimeSeries>
  <TimeSeries>
    <flowDirection.direction>A02</flowDirection.direction>
    <Period>
      <timeInterval><start>2024-03-15T10:00Z</start><end>2024-03-15T11:00Z</end></timeInterval>
      <resolution>PT60M</resolution>
      <Point><position>1</position><activation_Price.amount>-3</activation_Price.amount></Point>
    </Period>
  </TimeSeries>
</Balancing_MarketDocument>`

func TestActivationPricesFetchesTwoDays(t *testing.T) {
	var starts []string
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		starts = append(starts, r.URL.Query().Get("periodStart"))
		w.Header().Set("Content-Type", "text/xml")
		// Only the today request carries data.
		if r.URL.Query().Get("periodStart") == "202403150000" {
			io.WriteString(w, activationDoc)
			return
		}
		io.WriteString(w, `<?xml version="1.0"?><Acknowledgement_MarketDocument><Reason><code>999</code><text>NoMatchingData</text></Reason></Acknowledgement_MarketDocument>`)
	})

	rows := s.ActivationPrices(context.Background(), "cz", hours.Day{Date: "2024-03-15"})

	if len(starts) != 2 || starts[0] != "202403140000" || starts[1] != "202403150000" {
		t.Fatalf("expected yesterday and today fetched, got %v", starts)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].PlusPrice != 55 || rows[0].MinusPrice != -3 {
		t.Errorf("unexpected prices: %+v", rows[0])
	}
}

const aggregatedDoc = `<?xml version="1.0" encoding="UTF-8"?>
<Balancing_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-6:balancingdocument:4:1">
  <TimeSeries>
    <flowDirection.direction>A01</flowDirection.direction>
    <Period>
      <timeInterval><start>2024-03-15T10:00Z</start><end>2024-03-15T11:00Z</end></timeInterval>
      <resolution>PT60M</resolution>
      <Point><position>1</position><quantity>200</quantity><secondaryQuantity>40</secondaryQuantity></Point>
    </Period>
  </TimeSeries>
  <TimeSeries>
    <flowDirection.direction>A02</flowDirection.direction>
    <Period>
      <timeInterval><start>2024-03-15T10:00Z</start><end>2024-03-15T11:00Z</end></timeInterval>
      <resolution>PT60M</resolution>
      <Point><position>1</position><quantity>150</quantity></Point>
    </Period>
  </TimeSeries>
</Balancing_MarketDocument>`

func TestAggregatedBidsNegatedMinus(t *testing.T) {
	calls := 0
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "text/xml")
		if calls == 1 {
			// The yesterday window stays empty so the pivot sees one day.
			io.WriteString(w, `NoMatchingData`)
			return
		}
		io.WriteString(w, aggregatedDoc)
	})

	rows := s.AggregatedBids(context.Background(), "cz", hours.Day{Date: "2024-03-15"}, ProcessTypeCentralSelection)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.PlusOffered != 200 || r.PlusActivated != 40 {
		t.Errorf("unexpected plus columns: %+v", r)
	}
	if r.MinusOffered != -150 {
		t.Errorf("expected minus offered negated to -150, got %v", r.MinusOffered)
	}
	if !math.IsNaN(r.MinusActivated) {
		t.Errorf("expected NaN minus activated, got %v", r.MinusActivated)
	}
}

func TestAllAggregatedBidsCoversBothModes(t *testing.T) {
	var processTypes []string
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		processTypes = append(processTypes, r.URL.Query().Get("processType"))
		w.Header().Set("Content-Type", "text/xml")
		io.WriteString(w, `NoMatchingData`)
	})

	result := s.AllAggregatedBids(context.Background(), "cz", hours.Day{Date: "2024-03-15"})
	if len(result) != 2 {
		t.Fatalf("expected both activation modes, got %d", len(result))
	}

	seen := map[string]bool{}
	for _, pt := range processTypes {
		seen[pt] = true
	}
	if !seen[ProcessTypeCentralSelection] || !seen[ProcessTypeLocalSelection] {
		t.Errorf("expected A67 and A68 requests, got %v", processTypes)
	}
}

func TestCacheServesRepeatCalls(t *testing.T) {
	calls := 0
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "text/xml")
		io.WriteString(w, dayAheadDoc)
	})

	day := hours.Day{Date: "2024-03-15"}
	first := s.DayAheadPrices(context.Background(), "cz", day)
	second := s.DayAheadPrices(context.Background(), "cz", day)

	if calls != 1 {
		t.Errorf("expected a single upstream request, got %d", calls)
	}
	if len(first) != len(second) {
		t.Errorf("cached result differs: %d vs %d rows", len(first), len(second))
	}
}

func TestOnRefreshFiresOnceForFreshData(t *testing.T) {
	s := newTestService(t, serveXML(t, dayAheadDoc))

	refreshes := 0
	s.OnRefresh = func(dataset, country string, day hours.Day) {
		refreshes++
		if dataset != "day_ahead_prices" || country != "cz" {
			t.Errorf("unexpected refresh event: %s %s %s", dataset, country, day)
		}
	}

	day := hours.Day{Date: "2024-03-15"}
	s.DayAheadPrices(context.Background(), "cz", day)
	s.DayAheadPrices(context.Background(), "cz", day)

	if refreshes != 1 {
		t.Errorf("expected one refresh event, got %d", refreshes)
	}
}

func TestUnknownCountryReturnsEmpty(t *testing.T) {
	requests := 0
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	rows := s.DayAheadPrices(context.Background(), "atlantis", hours.Day{Date: "2024-03-15"})
	if rows != nil {
		t.Errorf("expected nil for unknown country, got %v", rows)
	}
	if requests != 0 {
		t.Errorf("expected no upstream request, got %d", requests)
	}
}

func TestServerErrorYieldsEmptyTable(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	rows := s.BalancingBids(context.Background(), "cz", hours.Day{Date: "2024-03-15"})
	if len(rows) != 0 {
		t.Errorf("expected empty table on upstream failure, got %d rows", len(rows))
	}
}
