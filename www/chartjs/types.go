package chartjs

type Chart struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

type ChartData struct {
	Labels   []string       `json:"labels,omitempty"`
	Datasets []ChartDataset `json:"datasets"`
}

// ChartDataset.Data is either []*float64 (time charts, nil marks a gap) or
// []Point (curve charts).
type ChartDataset struct {
	Label       string  `json:"label,omitempty"`
	Data        any     `json:"data"`
	BorderWidth int     `json:"borderWidth"`
	Tension     float64 `json:"tension"`
	Fill        bool    `json:"fill"`
	Stepped     string  `json:"stepped,omitempty"`
	ShowLine    bool    `json:"showLine,omitempty"`
	BorderColor string  `json:"borderColor"`
	BorderDash  []int   `json:"borderDash,omitempty"`
	YAxisID     string  `json:"yAxisID,omitempty"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ChartOptions struct {
	Responsive bool                  `json:"responsive"`
	Plugins    ChartPlugins          `json:"plugins"`
	Scales     map[string]ChartScale `json:"scales"`
}

type ChartPlugins struct {
	Legend ChartLegend `json:"legend"`
	Title  ChartTitle  `json:"title"`
}

type ChartLegend struct {
	Display bool `json:"display"`
}

type ChartTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type ChartScale struct {
	Type     string          `json:"type"`
	Display  bool            `json:"display"`
	Position string          `json:"position"`
	Min      *float64        `json:"min,omitempty"`
	Max      *float64        `json:"max,omitempty"`
	Title    ChartScaleTitle `json:"title,omitempty"`
}

type ChartScaleTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
	Color   string `json:"color,omitempty"`
}
