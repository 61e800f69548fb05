package chart

import (
	"fmt"

	"github.com/sartorproj/sunspots/stats"
	"github.com/sartorproj/sunspots/timeseries"
)

// Panel kinds of the dashboard, in layout order.
const (
	KindLine         = "line"
	KindDistribution = "distribution"
	KindBox          = "box"
	KindTrend        = "trend"
)

var panelTitles = map[string]string{
	KindLine:         "Sunspot Activity Over Time",
	KindDistribution: "Distribution of Sunspot Activity",
	KindBox:          fmt.Sprintf("Boxplot of Sunspot Activity (%d-%d)", stats.BoxFrom, stats.BoxTo),
	KindTrend:        "Trend of Sunspot Activity",
}

// LinePanel plots activity over time.
func LinePanel(series *timeseries.Series, p Params) (*Spec, error) {
	if series.Empty() {
		return nil, &stats.InsufficientDataError{Op: "line chart", Need: 1, Got: 0}
	}

	spec := &Spec{
		Title:  panelTitles[KindLine],
		XLabel: "Year",
		YLabel: "Sunspot Count",
		Grid:   true,
		Layers: []Layer{{
			Kind:  LineLayer,
			Label: "Activity",
			Color: blue,
			X:     series.Years(),
			Y:     series.Values,
			Width: 1,
		}},
	}
	if p.Smooth > 1 {
		ma := series.MovingAverage(p.Smooth)
		spec.Legend = true
		spec.Layers = append(spec.Layers, Layer{
			Kind:  LineLayer,
			Label: fmt.Sprintf("%d-year mean", p.Smooth),
			Color: orange,
			X:     ma.Years(),
			Y:     ma.Values,
			Width: 2,
		})
	}
	return spec, nil
}

// DistributionPanel plots a density histogram with a kernel density overlay.
func DistributionPanel(series *timeseries.Series, p Params) (*Spec, error) {
	kde, err := stats.Density(series)
	if err != nil {
		return nil, err
	}
	bins, err := stats.Histogram(series, p.Bins)
	if err != nil {
		return nil, err
	}

	return &Spec{
		Title:  panelTitles[KindDistribution],
		XLabel: "Sunspot Count",
		YLabel: "Density",
		Grid:   true,
		Legend: true,
		Layers: []Layer{
			{Kind: HistogramLayer, Label: "Histogram", Color: gray, Bins: bins, Alpha: 0.6},
			{Kind: LineLayer, Label: "Density", Color: red, X: kde.X, Y: kde.Y, Width: 2},
		},
	}, nil
}

// BoxPanel plots a horizontal boxplot of the 1900-2000 window of series.
func BoxPanel(series *timeseries.Series, _ Params) (*Spec, error) {
	box, err := stats.Box(series)
	if err != nil {
		return nil, err
	}

	return &Spec{
		Title:  panelTitles[KindBox],
		XLabel: "Sunspot Count",
		Layers: []Layer{{Kind: BoxLayer, Color: black, Box: box}},
	}, nil
}

// TrendPanel plots the observations with a least-squares polynomial trend.
func TrendPanel(series *timeseries.Series, p Params) (*Spec, error) {
	fit, err := stats.FitTrend(series, p.TrendDegree)
	if err != nil {
		return nil, err
	}
	clean := series.Dropna()

	return &Spec{
		Title:  panelTitles[KindTrend],
		XLabel: "Year",
		YLabel: "Sunspot Count",
		Grid:   true,
		Legend: true,
		Layers: []Layer{
			{
				Kind:  ScatterLayer,
				Label: "Data Points",
				Color: blue,
				X:     clean.Years(),
				Y:     clean.Values,
				Size:  p.PointSize,
				Alpha: p.PointAlpha,
			},
			{Kind: LineLayer, Label: "Trend Line", Color: red, X: fit.Years, Y: fit.Fitted, Width: 2},
		},
	}, nil
}
