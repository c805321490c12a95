package www

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/egubrno/svr-dashboard-go/curve"
	"github.com/egubrno/svr-dashboard-go/entsoe"
	"github.com/egubrno/svr-dashboard-go/market"
	"github.com/egubrno/svr-dashboard-go/www/chartjs"
)

// NewCapacityCurveChartHandler serves the cumulative procurement curves
// built from the day-ahead procured capacity tranches of one day,
// optionally narrowed to a single market hour.
func NewCapacityCurveChartHandler(logger *slog.Logger, svc *market.Service, defaultCountry string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		country := countryOrDefault(r.URL, defaultCountry)
		day := dayOrToday(r.URL)
		hour := hourOrDefault(r.URL)
		loc := entsoe.LocationForCountry(country)

		rows := svc.ProcuredCapacity(r.Context(), country, day)

		var upBids, downBids []curve.Bid
		for _, row := range rows {
			if hour >= 0 && row.When.In(loc).Hour() != hour {
				continue
			}
			bid := curve.Bid{When: row.When, Price: row.Price, Power: row.Capacity}
			switch row.Direction {
			case entsoe.DirectionUp:
				upBids = append(upBids, bid)
			case entsoe.DirectionDown:
				downBids = append(downBids, bid)
			}
		}

		up := curve.BuildCapacityCurve(upBids, entsoe.DirectionUp)
		down := curve.BuildCapacityCurve(downBids, entsoe.DirectionDown)

		chart := chartjs.NewCurveChart([]chartjs.Series{
			{Label: fmt.Sprintf("Up capacity (avg %.2f EUR/MW)", up.WeightedAveragePrice), Color: chartjs.ColorRed},
			{Label: fmt.Sprintf("Down capacity (avg %.2f EUR/MW)", down.WeightedAveragePrice), Color: chartjs.ColorBlue},
		})
		chart.Data.Datasets[0].Data = curvePoints(up)
		chart.Data.Datasets[1].Data = curvePoints(down)

		if len(rows) == 0 {
			chart.SetTitle("No data available for " + day.String())
		} else {
			chart.SetTitle(curveTitle("Procured capacity", country, day, hour))
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode([]chartjs.Chart{chart}); err != nil {
			logger.Error("handling capacity curve request", slog.Any("error", err))
			http.Error(w, "unable to encode data points", http.StatusInternalServerError)
		}
	}
}
