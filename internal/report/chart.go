package report

// Bar is one category of the summary chart.
type Bar struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// ChartSpec describes a horizontal bar chart.
type ChartSpec struct {
	Title string `json:"title"`
	Unit  string `json:"unit"`
	Bars  []Bar  `json:"bars"`
}

// Max returns the largest bar value, used to scale the bars.
func (c ChartSpec) Max() int {
	m := 0
	for _, b := range c.Bars {
		if b.Value > m {
			m = b.Value
		}
	}
	return m
}

// Chart returns the cost breakdown chart shown next to every analysis.
// The values are illustrative and do not come from the result.
func Chart() ChartSpec {
	return ChartSpec{
		Title: "Cost Breakdown",
		Unit:  "%",
		Bars: []Bar{
			{Label: "Production Cost", Value: 40},
			{Label: "Transport", Value: 30},
			{Label: "Profit Margin", Value: 30},
		},
	}
}
