package chart

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"github.com/sartorproj/sunspots/forecast"
	"github.com/sartorproj/sunspots/stats"
	"github.com/sartorproj/sunspots/timeseries"
)

// sunspots returns a synthetic annual record over 1749-2000.
func sunspots() *timeseries.Series {
	values := make([]float64, 2000-1749+1)
	for i := range values {
		yr := float64(1749 + i)
		values[i] = 80 + 60*math.Sin(2*math.Pi*yr/11) + 0.1*(yr-1749)
	}
	values[0] = 58.0
	values[1] = 62.6
	values[len(values)-1] = 120.0
	return timeseries.New(1749, values)
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams(sunspots())
	assert.Equal(t, Params{YearFrom: 1749, YearTo: 2000, Bins: 30, TrendDegree: 1, PointSize: 20, PointAlpha: 0.5}, p)
	assert.NoError(t, p.Validate())
}

func TestParamsValidate(t *testing.T) {
	base := Params{YearFrom: 1750, YearTo: 2000, Bins: 30, TrendDegree: 1, PointSize: 20, PointAlpha: 0.5}

	tests := []struct {
		name  string
		edit  func(*Params)
		field string
	}{
		{"bins", func(p *Params) { p.Bins = 0 }, "Bins"},
		{"degree", func(p *Params) { p.TrendDegree = 0 }, "TrendDegree"},
		{"size", func(p *Params) { p.PointSize = 0 }, "PointSize"},
		{"alpha zero", func(p *Params) { p.PointAlpha = 0 }, "PointAlpha"},
		{"alpha above one", func(p *Params) { p.PointAlpha = 1.5 }, "PointAlpha"},
		{"reversed range", func(p *Params) { p.YearFrom = 2001 }, "YearFrom"},
		{"negative smoothing", func(p *Params) { p.Smooth = -1 }, "Smooth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.edit(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	alphaOne := base
	alphaOne.PointAlpha = 1
	assert.NoError(t, alphaOne.Validate())
}

func TestDashboardAllPanelsSucceed(t *testing.T) {
	params := Params{YearFrom: 1750, YearTo: 2000, Bins: 30, TrendDegree: 1, PointSize: 20, PointAlpha: 0.5}

	fig, err := Dashboard(sunspots(), params)
	require.NoError(t, err)

	require.Len(t, fig.Panels, 4)
	assert.Empty(t, fig.Failed())
	assert.NoError(t, fig.Err())

	kinds := []string{KindLine, KindDistribution, KindBox, KindTrend}
	for i, p := range fig.Panels {
		assert.Equal(t, kinds[i], p.Kind)
		require.NotNil(t, p.Spec, p.Kind)
	}

	line := fig.Panel(KindLine).Spec.Layer(LineLayer)
	require.NotNil(t, line)
	assert.Len(t, line.X, 251)
	assert.Equal(t, 1750.0, line.X[0])

	hist := fig.Panel(KindDistribution).Spec.Layer(HistogramLayer)
	require.NotNil(t, hist)
	assert.Len(t, hist.Bins, 30)

	kde := fig.Panel(KindDistribution).Spec.Layer(LineLayer)
	require.NotNil(t, kde)
	assert.Len(t, kde.X, stats.DensityPoints)

	box := fig.Panel(KindBox).Spec.Layer(BoxLayer)
	require.NotNil(t, box)
	assert.Equal(t, 101, box.Box.N)

	scatter := fig.Panel(KindTrend).Spec.Layer(ScatterLayer)
	require.NotNil(t, scatter)
	assert.Equal(t, 20.0, scatter.Size)
	assert.Equal(t, 0.5, scatter.Alpha)
}

func TestDashboardEmptyRange(t *testing.T) {
	params := DefaultParams(sunspots())
	params.YearFrom, params.YearTo = 2100, 2200

	_, err := Dashboard(sunspots(), params)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyRange))
	assert.Contains(t, err.Error(), "2100-2200")
}

func TestDashboardInvalidParams(t *testing.T) {
	params := DefaultParams(sunspots())
	params.Bins = 0

	_, err := Dashboard(sunspots(), params)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEmptyRange))
}

func TestComposeIsolatesFailures(t *testing.T) {
	tests := []struct {
		name   string
		series *timeseries.Series
		failed []string
	}{
		{
			name:   "no rows in boxplot window",
			series: timeseries.New(1750, []float64{10, 20, 30, 40, 50}),
			failed: []string{KindBox},
		},
		{
			name:   "constant values",
			series: timeseries.New(1950, []float64{5, 5, 5, 5}),
			failed: []string{KindDistribution},
		},
		{
			name:   "single observation",
			series: timeseries.New(1950, []float64{42}),
			failed: []string{KindDistribution, KindTrend},
		},
		{
			name:   "infinite value before boxplot window",
			series: withValue(timeseries.New(1890, seq(20)), 0, math.Inf(1)),
			failed: []string{KindDistribution, KindTrend},
		},
		{
			name:   "all missing",
			series: timeseries.New(1950, []float64{math.NaN(), math.NaN()}),
			failed: []string{KindDistribution, KindBox, KindTrend},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig := Compose(tt.series, DefaultParams(tt.series))
			require.Len(t, fig.Panels, 4)

			var got []string
			for _, p := range fig.Failed() {
				got = append(got, p.Kind)
				assert.Nil(t, p.Spec)

				var insufficient *stats.InsufficientDataError
				assert.True(t, errors.As(p.Err, &insufficient), "%s: %v", p.Kind, p.Err)
			}
			assert.Equal(t, tt.failed, got)
			assert.Error(t, fig.Err())
		})
	}
}

func TestTrendPanelMessage(t *testing.T) {
	fig := Compose(timeseries.New(1950, []float64{math.NaN()}), Params{Bins: 10, TrendDegree: 1, PointSize: 20, PointAlpha: 0.5})

	p := fig.Panel(KindTrend)
	require.NotNil(t, p)
	require.Error(t, p.Err)
	assert.Equal(t, "trend panel: trend fit requires at least 2 points, got 0", p.Err.Error())
}

func TestLinePanelSmoothing(t *testing.T) {
	series := sunspots()
	p := DefaultParams(series)
	p.Smooth = 11

	spec, err := LinePanel(series, p)
	require.NoError(t, err)
	require.Len(t, spec.Layers, 2)
	assert.True(t, spec.Legend)

	ma := spec.Layers[1]
	assert.Equal(t, "11-year mean", ma.Label)
	assert.Len(t, ma.Y, series.Len()-10)
	assert.Equal(t, 1759.0, ma.X[0])
}

func TestSegmentsBreakAtMissing(t *testing.T) {
	nan := math.NaN()
	segs := segments([]float64{1, 2, 3, 4, 5, 6}, []float64{1, nan, 3, 4, nan, nan})

	require.Len(t, segs, 2)
	assert.Len(t, segs[0], 1)
	assert.Len(t, segs[1], 2)
	assert.Equal(t, 3.0, segs[1][0].X)
}

func TestMarkerRadius(t *testing.T) {
	assert.InDelta(t, math.Sqrt(20)/2, float64(markerRadius(20)), 1e-12)
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "aaa bbb\nccc", wrap("aaa bbb ccc", 8))
	assert.Equal(t, "short", wrap("short", 80))
}

func TestRenderDashboard(t *testing.T) {
	fig, err := Dashboard(sunspots(), DefaultParams(sunspots()))
	require.NoError(t, err)

	var png bytes.Buffer
	require.NoError(t, fig.Render(&png, FormatPNG, 8*vg.Inch, 6*vg.Inch))
	assert.True(t, bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")))

	var svg bytes.Buffer
	require.NoError(t, fig.Render(&svg, FormatSVG, 8*vg.Inch, 6*vg.Inch))
	assert.Contains(t, svg.String(), "<svg")
}

func TestRenderWithPlaceholders(t *testing.T) {
	series := timeseries.New(1950, []float64{42})
	fig := Compose(series, DefaultParams(series))
	require.Len(t, fig.Failed(), 2)

	var svg bytes.Buffer
	require.NoError(t, fig.Render(&svg, FormatSVG, 8*vg.Inch, 6*vg.Inch))
	assert.Contains(t, svg.String(), "unavailable")
}

func TestRenderNonFiniteValue(t *testing.T) {
	series := withValue(timeseries.New(1890, seq(20)), 0, math.Inf(1))
	fig := Compose(series, DefaultParams(series))
	require.NotNil(t, fig.Panel(KindLine).Spec)
	require.NotNil(t, fig.Panel(KindBox).Spec)

	var svg bytes.Buffer
	require.NoError(t, fig.Render(&svg, FormatSVG, 8*vg.Inch, 6*vg.Inch))
	assert.Contains(t, svg.String(), "unavailable")
}

func seq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(10 + i%7)
	}
	return out
}

func withValue(s *timeseries.Series, i int, v float64) *timeseries.Series {
	s.Values[i] = v
	return s
}

func TestRenderUnsupportedFormat(t *testing.T) {
	fig := Compose(sunspots(), DefaultParams(sunspots()))
	err := fig.Render(&bytes.Buffer{}, "gif", vg.Inch, vg.Inch)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "gif"))
}

func TestForecastFigure(t *testing.T) {
	series := sunspots()
	res, err := forecast.Run(series, forecast.DefaultConfig())
	require.NoError(t, err)

	fig := ForecastFigure(res, true)
	require.Len(t, fig.Panels, 4)
	assert.Equal(t, 1, fig.Cols)
	assert.Empty(t, fig.Failed())

	main := fig.Panel(KindForecast).Spec
	band := main.Layer(BandLayer)
	require.NotNil(t, band)
	assert.Len(t, band.X, len(res.Points))
	for i := range band.X {
		assert.LessOrEqual(t, band.Lower[i], band.Upper[i])
	}

	resid := fig.Panel(KindResidual).Spec
	assert.NotNil(t, resid.Layer(HLineLayer))
	assert.Len(t, resid.Layer(LineLayer).Y, res.History)

	var png bytes.Buffer
	require.NoError(t, fig.Render(&png, FormatPNG, 8*vg.Inch, 10*vg.Inch))
	assert.NotZero(t, png.Len())

	assert.Len(t, ForecastFigure(res, false).Panels, 2)
}
