package chartjs

import "math"

const (
	ColorYellow = "#ffc107d4"
	ColorRed    = "#f44336d4"
	ColorBlue   = "#2196f3d4"
	ColorGreen  = "#4caf50d4"
	ColorPurple = "#9c27b0d4"
	ColorGrey   = "#9e9e9ed4"
)

// Series describes one line of a chart before its data is attached.
type Series struct {
	Label   string
	Color   string
	YAxisID string
	Dashed  bool
	Stepped bool
}

// NewTimeChart builds a line chart with one x slot per label. Every dataset
// starts with a nil value in each slot, a slot left nil renders as a gap.
func NewTimeChart(labels []string, series []Series) Chart {
	datasets := make([]ChartDataset, len(series))
	for i, s := range series {
		axis := s.YAxisID
		if axis == "" {
			axis = "YAxis1"
		}
		ds := ChartDataset{
			Label:       s.Label,
			Data:        make([]*float64, len(labels)),
			BorderWidth: 1,
			Tension:     0.4,
			BorderColor: s.Color,
			YAxisID:     axis,
		}
		if s.Dashed {
			ds.BorderDash = []int{6, 4}
		}
		if s.Stepped {
			ds.Stepped = "after"
			ds.Tension = 0
		}
		datasets[i] = ds
	}

	return Chart{
		Type: "line",
		Data: ChartData{Labels: labels, Datasets: datasets},
		Options: ChartOptions{
			Responsive: true,
			Plugins: ChartPlugins{
				Legend: ChartLegend{Display: len(series) > 1},
				Title:  ChartTitle{Display: false},
			},
			Scales: map[string]ChartScale{
				"YAxis1": {
					Type:     "linear",
					Display:  true,
					Position: "left",
					Title:    ChartScaleTitle{Display: true},
				},
			},
		},
	}
}

// NewCurveChart builds a stepped scatter chart for merit-order curves:
// x is cumulative power, y is price.
func NewCurveChart(series []Series) Chart {
	datasets := make([]ChartDataset, len(series))
	for i, s := range series {
		ds := ChartDataset{
			Label:       s.Label,
			Data:        []Point{},
			BorderWidth: 2,
			Stepped:     "before",
			ShowLine:    true,
			BorderColor: s.Color,
		}
		if s.Dashed {
			ds.BorderDash = []int{6, 4}
		}
		datasets[i] = ds
	}

	return Chart{
		Type: "scatter",
		Data: ChartData{Datasets: datasets},
		Options: ChartOptions{
			Responsive: true,
			Plugins: ChartPlugins{
				Legend: ChartLegend{Display: true},
				Title:  ChartTitle{Display: false},
			},
			Scales: map[string]ChartScale{
				"x": {
					Type:     "linear",
					Display:  true,
					Position: "bottom",
					Title:    ChartScaleTitle{Display: true, Text: "Cumulative power (MW)"},
				},
				"y": {
					Type:     "linear",
					Display:  true,
					Position: "left",
					Title:    ChartScaleTitle{Display: true, Text: "Price (EUR/MW)"},
				},
			},
		},
	}
}

func (c *Chart) SetTitle(title string) {
	c.Options.Plugins.Title = ChartTitle{Display: title != "", Text: title}
}

func (cs ChartScale) WithTitle(title string) ChartScale {
	cs.Title.Text = title
	return cs
}

func (cs ChartScale) WithMinAndMax(min, max float64) ChartScale {
	cs.Min = &min
	cs.Max = &max
	return cs
}

func FixedFloat64(num float64, precision int) *float64 {
	p := math.Pow(10, float64(precision))
	rounded := math.Round(num * p)
	result := rounded / p
	return &result
}
