package www

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/egubrno/svr-dashboard-go/hours"
	"github.com/egubrno/svr-dashboard-go/market"
	"github.com/egubrno/svr-dashboard-go/slice"
	"github.com/egubrno/svr-dashboard-go/www/chartjs"
)

// NewPricesChartHandler serves the activated balancing energy prices of one
// day, with the cleared day-ahead price overlaid as a reference line.
func NewPricesChartHandler(logger *slog.Logger, svc *market.Service, defaultCountry string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		country := countryOrDefault(r.URL, defaultCountry)
		day := dayOrToday(r.URL)

		rows := svc.ActivationPrices(r.Context(), country, day)
		dayAhead := svc.DayAheadPrices(r.Context(), country, day)

		hourly := make(map[int64]float64, len(dayAhead))
		for _, da := range dayAhead {
			hourly[da.When.Truncate(time.Hour).UnixNano()] = da.Price
		}

		// One synthetic trailing slot so the final step renders full width.
		labels := priceLabels(rows)
		if n := len(rows); n > 0 {
			step := time.Hour
			if n > 1 {
				step = rows[n-1].When.Sub(rows[n-2].When)
			}
			labels = append(labels, hours.HourLabelInGuiTimezone(rows[n-1].When.Add(step)))
		}

		chart := chartjs.NewTimeChart(labels, []chartjs.Series{
			{Label: "Activation price up", Color: chartjs.ColorRed, Stepped: true},
			{Label: "Activation price down", Color: chartjs.ColorBlue, Stepped: true},
			{Label: "Day-ahead price", Color: chartjs.ColorGrey, Dashed: true, Stepped: true},
		})
		for i, row := range rows {
			if !math.IsNaN(row.PlusPrice) {
				chart.Data.Datasets[0].Data.([]*float64)[i] = chartjs.FixedFloat64(row.PlusPrice, 2)
			}
			if !math.IsNaN(row.MinusPrice) {
				chart.Data.Datasets[1].Data.([]*float64)[i] = chartjs.FixedFloat64(row.MinusPrice, 2)
			}
			if price, ok := hourly[row.When.Truncate(time.Hour).UnixNano()]; ok {
				chart.Data.Datasets[2].Data.([]*float64)[i] = chartjs.FixedFloat64(price, 2)
			}
		}
		if n := len(rows); n > 0 {
			for _, ds := range chart.Data.Datasets {
				data := ds.Data.([]*float64)
				data[n] = data[n-1]
			}
		}
		chart.Options.Scales["YAxis1"] = chart.Options.Scales["YAxis1"].WithTitle("Price (EUR/MWh)")
		if len(rows) == 0 {
			chart.SetTitle("No data available for " + day.String())
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode([]chartjs.Chart{chart}); err != nil {
			logger.Error("handling prices chart request", slog.Any("error", err))
			http.Error(w, "unable to encode data points", http.StatusInternalServerError)
		}
	}
}

func priceLabels(rows []market.ActivationPriceRow) []string {
	return slice.Map(rows, func(r market.ActivationPriceRow) string {
		return hours.HourLabelInGuiTimezone(r.When)
	})
}
