package chart

import (
	"errors"
	"fmt"

	"github.com/sartorproj/sunspots/forecast"
	"github.com/sartorproj/sunspots/timeseries"
)

// ErrEmptyRange is returned when the selected year range matches no observation.
var ErrEmptyRange = errors.New("no observations in the selected year range")

// DashboardTitle is the title of the four-panel figure.
const DashboardTitle = "Sunspots Data Advanced Visualization"

// Panel is one cell of a figure: either a Spec or the error that prevented it.
type Panel struct {
	Kind string
	Spec *Spec
	Err  error
}

// Figure is an ordered layout of panels.
type Figure struct {
	Title  string
	Cols   int
	Panels []Panel
}

type builder struct {
	kind  string
	build func(*timeseries.Series, Params) (*Spec, error)
}

var dashboardPanels = []builder{
	{KindLine, LinePanel},
	{KindDistribution, DistributionPanel},
	{KindBox, BoxPanel},
	{KindTrend, TrendPanel},
}

// Compose builds the four dashboard panels from an already filtered series.
// Each panel is built independently; a failing panel keeps its error and
// does not affect the others.
func Compose(series *timeseries.Series, p Params) *Figure {
	fig := &Figure{Title: DashboardTitle, Cols: 2}
	for _, b := range dashboardPanels {
		spec, err := b.build(series, p)
		if err != nil {
			err = fmt.Errorf("%s panel: %w", b.kind, err)
		}
		fig.Panels = append(fig.Panels, Panel{Kind: b.kind, Spec: spec, Err: err})
	}
	return fig
}

// Dashboard validates p, restricts full to [p.YearFrom, p.YearTo] and composes
// the panels. It returns an error wrapping ErrEmptyRange when nothing matches.
func Dashboard(full *timeseries.Series, p Params) (*Figure, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	filtered := full.Between(p.YearFrom, p.YearTo)
	if filtered.Empty() {
		return nil, fmt.Errorf("%w: %d-%d", ErrEmptyRange, p.YearFrom, p.YearTo)
	}
	return Compose(filtered, p), nil
}

// ForecastFigure lays out the forecast and residual panels in one column,
// followed by the trend and cycle components when components is set.
func ForecastFigure(res *forecast.Result, components bool) *Figure {
	fig := &Figure{
		Title: "Sunspot Forecast",
		Cols:  1,
		Panels: []Panel{
			{Kind: KindForecast, Spec: ForecastPanel(res)},
			{Kind: KindResidual, Spec: ResidualPanel(res)},
		},
	}
	if components {
		trend, cycle := ComponentPanels(res)
		fig.Panels = append(fig.Panels,
			Panel{Kind: KindTrendComponent, Spec: trend},
			Panel{Kind: KindCycle, Spec: cycle},
		)
	}
	return fig
}

// Panel returns the panel of the given kind, or nil.
func (f *Figure) Panel(kind string) *Panel {
	for i := range f.Panels {
		if f.Panels[i].Kind == kind {
			return &f.Panels[i]
		}
	}
	return nil
}

// Failed returns the panels that could not be built.
func (f *Figure) Failed() []Panel {
	var failed []Panel
	for _, p := range f.Panels {
		if p.Err != nil {
			failed = append(failed, p)
		}
	}
	return failed
}

// Err joins the errors of all failed panels, or returns nil.
func (f *Figure) Err() error {
	var errs []error
	for _, p := range f.Failed() {
		errs = append(errs, p.Err)
	}
	return errors.Join(errs...)
}
