package www

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/egubrno/svr-dashboard-go/curve"
	"github.com/egubrno/svr-dashboard-go/entsoe"
	"github.com/egubrno/svr-dashboard-go/hours"
	"github.com/egubrno/svr-dashboard-go/market"
	"github.com/egubrno/svr-dashboard-go/slice"
	"github.com/egubrno/svr-dashboard-go/www/chartjs"
)

// NewBidCurveChartHandler serves the cumulative merit-order curves built
// from the raw balancing energy bids of one day, optionally narrowed to a
// single market hour, with the day-ahead price as a dashed reference line.
func NewBidCurveChartHandler(logger *slog.Logger, svc *market.Service, defaultCountry string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		country := countryOrDefault(r.URL, defaultCountry)
		day := dayOrToday(r.URL)
		hour := hourOrDefault(r.URL)
		only := directionOrBoth(r.URL)
		loc := entsoe.LocationForCountry(country)

		rows := svc.BalancingBids(r.Context(), country, day)

		var upBids, downBids []curve.Bid
		for _, row := range rows {
			if hour >= 0 && row.When.In(loc).Hour() != hour {
				continue
			}
			if only != entsoe.DirectionUnknown && row.Direction != only {
				continue
			}
			bid := curve.Bid{When: row.When, Price: row.Price, Power: row.Power}
			switch row.Direction {
			case entsoe.DirectionUp:
				upBids = append(upBids, bid)
			case entsoe.DirectionDown:
				downBids = append(downBids, bid)
			}
		}

		up := curve.BuildBidCurve(upBids, entsoe.DirectionUp)
		down := curve.BuildBidCurve(downBids, entsoe.DirectionDown)

		series := []chartjs.Series{}
		curves := []curve.Curve{}
		if only != entsoe.DirectionDown {
			series = append(series, chartjs.Series{
				Label: fmt.Sprintf("Up bids (avg %.2f EUR/MWh)", up.WeightedAveragePrice),
				Color: chartjs.ColorRed,
			})
			curves = append(curves, up)
		}
		if only != entsoe.DirectionUp {
			series = append(series, chartjs.Series{
				Label: fmt.Sprintf("Down bids (avg %.2f EUR/MWh)", down.WeightedAveragePrice),
				Color: chartjs.ColorBlue,
			})
			curves = append(curves, down)
		}
		series = append(series, chartjs.Series{Label: "Day-ahead price", Color: chartjs.ColorGrey, Dashed: true})

		chart := chartjs.NewCurveChart(series)
		for i, c := range curves {
			chart.Data.Datasets[i].Data = curvePoints(c)
		}
		chart.Data.Datasets[len(curves)].Data = referenceLine(svc, r, country, day, hour, maxPower(curves...))

		if len(rows) == 0 {
			chart.SetTitle("No data available for " + day.String())
		} else {
			chart.SetTitle(curveTitle("Balancing energy bids", country, day, hour))
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode([]chartjs.Chart{chart}); err != nil {
			logger.Error("handling bid curve request", slog.Any("error", err))
			http.Error(w, "unable to encode data points", http.StatusInternalServerError)
		}
	}
}

func curvePoints(c curve.Curve) []chartjs.Point {
	points := make([]chartjs.Point, len(c.Points))
	for i, p := range c.Points {
		points[i] = chartjs.Point{X: p.CumulativePower, Y: p.Price}
	}
	return points
}

func maxPower(curves ...curve.Curve) float64 {
	m := 0.0
	for _, c := range curves {
		for _, p := range c.Points {
			if p.CumulativePower > m {
				m = p.CumulativePower
			}
		}
	}
	return m
}

// referenceLine renders the day-ahead price of the selected hour (or the
// daily mean when no hour is selected) as a horizontal two-point line
// spanning the curve width. An empty day-ahead table yields no line.
func referenceLine(svc *market.Service, r *http.Request, country string, day hours.Day, hour int, width float64) []chartjs.Point {
	dayAhead := svc.DayAheadPrices(r.Context(), country, day)
	if len(dayAhead) == 0 || width <= 0 {
		return []chartjs.Point{}
	}

	price := 0.0
	if hour >= 0 {
		loc := entsoe.LocationForCountry(country)
		row, found := slice.Find(dayAhead, func(da market.DayAheadPriceRow) bool {
			return da.When.In(loc).Hour() == hour && hours.DayInLocation(da.When, loc) == day
		})
		if !found {
			return []chartjs.Point{}
		}
		price = row.Price
	} else {
		for _, da := range dayAhead {
			price += da.Price
		}
		price /= float64(len(dayAhead))
	}

	return []chartjs.Point{{X: 0, Y: price}, {X: width, Y: price}}
}

func curveTitle(what, country string, day hours.Day, hour int) string {
	if hour < 0 {
		return fmt.Sprintf("%s %s %s", what, country, day)
	}
	return fmt.Sprintf("%s %s %s %02d:00-%02d:00", what, country, day, hour, (hour+1)%24)
}
