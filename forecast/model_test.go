package forecast

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/sunspots/timeseries"
)

// cycle generates a linear trend plus an 11-year sine with small noise.
func cycle(first, n int, noise float64) *timeseries.Series {
	rng := rand.New(rand.NewPCG(1, 2))
	values := make([]float64, n)
	for i := range values {
		yr := float64(first + i)
		values[i] = 60 + 0.05*(yr-float64(first)) + 40*math.Sin(2*math.Pi*yr/11) + noise*rng.NormFloat64()
	}
	return timeseries.New(first, values)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 11.0, cfg.Period)
	assert.Equal(t, 5, cfg.FourierOrder)
	assert.Equal(t, 30, cfg.Horizon)
	assert.Equal(t, 0.8, cfg.IntervalWidth)
	assert.False(t, cfg.YearlySeasonality)
	assert.Equal(t, 10, cfg.ResidualLags)
	assert.Equal(t, 12, cfg.Params())
}

func TestModelFitRecoversCycle(t *testing.T) {
	series := cycle(1800, 200, 0)

	m := New(DefaultConfig())
	require.NoError(t, m.Fit(series))
	assert.Equal(t, 200, m.NObs)
	assert.Equal(t, 188, m.DOF)
	assert.InDelta(t, 0, m.Sigma, 1e-8)

	points, err := m.Predict(series.Timestamps)
	require.NoError(t, err)
	for i, p := range points {
		assert.InDelta(t, series.Values[i], p.Predicted, 1e-6, "year %d", p.Date.Year())
		assert.InDelta(t, p.Predicted, p.Trend+p.Seasonal, 1e-9)
	}
}

func TestModelIntervals(t *testing.T) {
	series := cycle(1750, 250, 5)

	m := New(DefaultConfig())
	require.NoError(t, m.Fit(series))
	assert.InDelta(t, 5, m.Sigma, 1.5)
	assert.False(t, math.IsInf(m.LogLik, 0))
	assert.Greater(t, m.BIC, m.AIC)

	points, err := m.Predict(m.Horizon(series, 30))
	require.NoError(t, err)
	require.Len(t, points, 280)

	for _, p := range points {
		assert.Less(t, p.Lower, p.Predicted)
		assert.Greater(t, p.Upper, p.Predicted)
		assert.True(t, math.IsNaN(p.Actual))
		assert.True(t, math.IsNaN(p.Residual))
	}

	// Intervals widen away from the data.
	inside := points[125].Upper - points[125].Lower
	far := points[279].Upper - points[279].Lower
	assert.Greater(t, far, inside)
}

func TestModelInformationCriteria(t *testing.T) {
	series := cycle(1750, 250, 5)

	full := New(DefaultConfig())
	require.NoError(t, full.Fit(series))

	cfg := DefaultConfig()
	cfg.Period = 7
	wrong := New(cfg)
	require.NoError(t, wrong.Fit(series))

	assert.Less(t, full.AIC, wrong.AIC, "the true cycle length should fit better")
	t.Logf("AIC period 11: %.1f, period 7: %.1f", full.AIC, wrong.AIC)
}

func TestModelHorizon(t *testing.T) {
	series := cycle(1900, 50, 1)
	m := New(DefaultConfig())
	require.NoError(t, m.Fit(series))

	dates := m.Horizon(series, 3)
	require.Len(t, dates, 53)
	assert.Equal(t, timeseries.YearDate(1949), dates[49])
	assert.Equal(t, timeseries.YearDate(1950), dates[50])
	assert.Equal(t, timeseries.YearDate(1952), dates[52])
}

func TestModelPredictBeforeFit(t *testing.T) {
	_, err := New(DefaultConfig()).Predict([]time.Time{timeseries.YearDate(2000)})

	var fe *ForecastError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "predict", fe.Stage)
	assert.True(t, errors.Is(err, ErrNotFitted))
}

func TestModelFitErrors(t *testing.T) {
	yearly := DefaultConfig()
	yearly.YearlySeasonality = true

	badWidth := DefaultConfig()
	badWidth.IntervalWidth = 1

	tests := []struct {
		name   string
		series *timeseries.Series
		cfg    Config
		stage  string
	}{
		{"empty", timeseries.New(1900, nil), DefaultConfig(), "fit"},
		{"too short", cycle(1900, 12, 1), DefaultConfig(), "fit"},
		{"all missing", timeseries.New(1900, []float64{math.NaN(), math.NaN()}), DefaultConfig(), "fit"},
		{"yearly on annual data", cycle(1800, 100, 1), yearly, "configure"},
		{"interval width", cycle(1800, 100, 1), badWidth, "configure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.cfg).Fit(tt.series)
			var fe *ForecastError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.stage, fe.Stage)
			t.Log(err)
		})
	}
}

func TestFractionalYear(t *testing.T) {
	assert.Equal(t, 1999.0, fractionalYear(timeseries.YearDate(1999)))
	mid := time.Date(2001, time.July, 2, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, 2001.5, fractionalYear(mid), 1e-9)
}
