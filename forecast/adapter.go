package forecast

import (
	"math"
	"time"

	"github.com/sartorproj/sunspots/stats"
	"github.com/sartorproj/sunspots/timeseries"
)

// Point is one date of the combined history and future horizon.
// Actual and Residual are NaN where there is no observation.
type Point struct {
	Date      time.Time
	Actual    float64
	Predicted float64
	Lower     float64
	Upper     float64
	Trend     float64
	Seasonal  float64
	Residual  float64 // Actual - Predicted
}

// HasActual reports whether an observation exists for the point's date.
func (p Point) HasActual() bool {
	return !math.IsNaN(p.Actual)
}

// Result is the shaped output of one forecast run.
type Result struct {
	Config    Config
	Points    []Point
	History   int // Points[:History] are history dates, the rest are future
	Residuals stats.Summary
	LjungBox  *stats.LjungBoxResult // nil when too few residuals
	ACF       *stats.Correlogram    // residual autocorrelation, nil when undefined
	Model     *Model
}

// Run fits a model to series and predicts over its dates plus cfg.Horizon
// future years. Residuals are matched to observations by date.
func Run(series *timeseries.Series, cfg Config) (*Result, error) {
	m := New(cfg)
	if err := m.Fit(series); err != nil {
		return nil, err
	}

	points, err := m.Predict(m.Horizon(series, cfg.Horizon))
	if err != nil {
		return nil, err
	}

	actual := make(map[time.Time]float64, series.Len())
	for i, d := range series.Timestamps {
		actual[d.UTC()] = series.Values[i]
	}
	residuals := make([]float64, 0, series.Len())
	for i := range points {
		v, ok := actual[points[i].Date.UTC()]
		if !ok {
			continue
		}
		points[i].Actual = v
		points[i].Residual = v - points[i].Predicted
		if points[i].HasActual() {
			residuals = append(residuals, points[i].Residual)
		}
	}

	res := &Result{
		Config:    cfg,
		Points:    points,
		History:   series.Len(),
		Residuals: stats.Describe(residuals),
		Model:     m,
	}
	// No ARMA terms were estimated, so no degrees of freedom are subtracted.
	if cfg.ResidualLags > 0 {
		resid := res.ResidualSeries()
		res.LjungBox = stats.LjungBox(resid, cfg.ResidualLags, 0)
		res.ACF = stats.Autocorrelation(resid, cfg.ResidualLags)
	}
	return res, nil
}

// Future returns the points beyond the last observation.
func (r *Result) Future() []Point {
	return r.Points[r.History:]
}

// ResidualSeries returns the residuals over the history dates.
func (r *Result) ResidualSeries() *timeseries.Series {
	history := r.Points[:r.History]
	dates := make([]time.Time, len(history))
	values := make([]float64, len(history))
	for i, p := range history {
		dates[i] = p.Date
		values[i] = p.Residual
	}
	s, _ := timeseries.NewWithTimestamps(dates, values)
	return s
}
