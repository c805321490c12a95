package www

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"

	"github.com/egubrno/svr-dashboard-go/hours"
	"github.com/egubrno/svr-dashboard-go/market"
	"github.com/egubrno/svr-dashboard-go/slice"
	"github.com/egubrno/svr-dashboard-go/www/chartjs"
)

// NewAggregatedChartHandler serves the aggregated offered/activated/
// unavailable volumes of one day and activation mode. Minus-direction
// volumes arrive negated so the bands mirror around the x axis.
func NewAggregatedChartHandler(logger *slog.Logger, svc *market.Service, defaultCountry string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		country := countryOrDefault(r.URL, defaultCountry)
		day := dayOrToday(r.URL)
		processType := market.ProcessTypeCentralSelection
		if r.URL.Query().Get("process") == market.ProcessTypeLocalSelection {
			processType = market.ProcessTypeLocalSelection
		}

		rows := svc.AggregatedBids(r.Context(), country, day, processType)

		labels := slice.Map(rows, func(r market.AggregatedBidsRow) string {
			return hours.HourLabelInGuiTimezone(r.When)
		})

		chart := chartjs.NewTimeChart(labels, []chartjs.Series{
			{Label: "Offered up", Color: chartjs.ColorRed},
			{Label: "Activated up", Color: chartjs.ColorYellow},
			{Label: "Unavailable up", Color: chartjs.ColorGrey},
			{Label: "Offered down", Color: chartjs.ColorBlue, Dashed: true},
			{Label: "Activated down", Color: chartjs.ColorGreen, Dashed: true},
			{Label: "Unavailable down", Color: chartjs.ColorPurple, Dashed: true},
		})
		for i, row := range rows {
			for d, v := range []float64{
				row.PlusOffered, row.PlusActivated, row.PlusUnavailable,
				row.MinusOffered, row.MinusActivated, row.MinusUnavailable,
			} {
				if !math.IsNaN(v) {
					chart.Data.Datasets[d].Data.([]*float64)[i] = chartjs.FixedFloat64(v, 2)
				}
			}
		}
		chart.Options.Scales["YAxis1"] = chart.Options.Scales["YAxis1"].WithTitle("Power (MW)")
		if len(rows) == 0 {
			chart.SetTitle("No data available for " + day.String())
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode([]chartjs.Chart{chart}); err != nil {
			logger.Error("handling aggregated chart request", slog.Any("error", err))
			http.Error(w, "unable to encode data points", http.StatusInternalServerError)
		}
	}
}
