package chart

import (
	"github.com/sartorproj/sunspots/forecast"
)

// Panel kinds of the forecast view.
const (
	KindForecast       = "forecast"
	KindResidual       = "residual"
	KindTrendComponent = "trend-component"
	KindCycle          = "cycle"
)

// ForecastPanel plots actuals, predictions and the prediction interval.
func ForecastPanel(res *forecast.Result) *Spec {
	n := len(res.Points)
	x := make([]float64, n)
	actual := make([]float64, n)
	pred := make([]float64, n)
	lower := make([]float64, n)
	upper := make([]float64, n)
	for i, p := range res.Points {
		x[i] = decimalYear(p)
		actual[i] = p.Actual
		pred[i] = p.Predicted
		lower[i] = p.Lower
		upper[i] = p.Upper
	}

	return &Spec{
		Title:  "Sunspots: Actual vs. Predicted with Prediction Intervals",
		XLabel: "Year",
		YLabel: "Sun Activity",
		Grid:   true,
		Legend: true,
		Layers: []Layer{
			{Kind: BandLayer, Label: "Confidence Interval", Color: skyblue, X: x, Lower: lower, Upper: upper, Alpha: 0.4},
			{Kind: LineLayer, Label: "Actual", Color: black, X: x[:res.History], Y: actual[:res.History], Width: 1},
			{Kind: LineLayer, Label: "Predicted", Color: blue, X: x, Y: pred, Width: 1},
		},
	}
}

// ResidualPanel plots the residuals over the history with a zero line.
func ResidualPanel(res *forecast.Result) *Spec {
	resid := res.ResidualSeries()
	return &Spec{
		Title:  "Residual Over Time",
		XLabel: "Year",
		YLabel: "Residual",
		Grid:   true,
		Legend: true,
		Layers: []Layer{
			{Kind: LineLayer, Label: "Residual", Color: purple, X: resid.Years(), Y: resid.Values, Width: 1},
			{Kind: HLineLayer, Color: gray, Level: 0, Dashed: true},
		},
	}
}

// ComponentPanels plots the trend and the cycle component over the horizon.
func ComponentPanels(res *forecast.Result) (trend, cycle *Spec) {
	n := len(res.Points)
	x := make([]float64, n)
	tr := make([]float64, n)
	cy := make([]float64, n)
	for i, p := range res.Points {
		x[i] = decimalYear(p)
		tr[i] = p.Trend
		cy[i] = p.Seasonal
	}

	trend = &Spec{
		Title:  "Trend",
		XLabel: "Year",
		YLabel: "trend",
		Grid:   true,
		Layers: []Layer{{Kind: LineLayer, Color: blue, X: x, Y: tr, Width: 1.5}},
	}
	cycle = &Spec{
		Title:  "Sunspot Cycle",
		XLabel: "Year",
		YLabel: "sunspot_cycle",
		Grid:   true,
		Layers: []Layer{
			{Kind: LineLayer, Color: blue, X: x, Y: cy, Width: 1.5},
			{Kind: HLineLayer, Color: gray, Level: 0, Dashed: true},
		},
	}
	return trend, cycle
}

func decimalYear(p forecast.Point) float64 {
	d := p.Date.UTC()
	return float64(d.Year()) + float64(d.YearDay()-1)/365.25
}
