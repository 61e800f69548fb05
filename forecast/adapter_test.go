package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/sunspots/timeseries"
)

func TestRunShapesPoints(t *testing.T) {
	series := cycle(1749, 252, 3)
	series.Values[10] = math.NaN()

	res, err := Run(series, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, res.Points, 252+30)
	assert.Equal(t, 252, res.History)
	assert.Len(t, res.Future(), 30)

	for i, p := range res.Points[:res.History] {
		assert.Equal(t, series.Timestamps[i], p.Date)
		if i == 10 {
			assert.False(t, p.HasActual())
			assert.True(t, math.IsNaN(p.Residual))
			continue
		}
		require.True(t, p.HasActual(), "year %d", p.Date.Year())
		assert.Equal(t, p.Actual-p.Predicted, p.Residual)
		assert.Equal(t, series.Values[i], p.Actual)
	}

	for i, p := range res.Future() {
		assert.Equal(t, timeseries.YearDate(2001+i), p.Date)
		assert.False(t, p.HasActual())
		assert.True(t, math.IsNaN(p.Residual))
		assert.False(t, math.IsNaN(p.Predicted))
	}

	assert.Equal(t, 251, res.Residuals.Count)
	assert.InDelta(t, 0, res.Residuals.Mean, 1e-8)
	assert.InDelta(t, 3, res.Residuals.Std, 1)
	require.NotNil(t, res.LjungBox)
	t.Log(res.LjungBox)
}

func TestRunDeterministic(t *testing.T) {
	series := cycle(1800, 120, 2)

	a, err := Run(series, DefaultConfig())
	require.NoError(t, err)
	b, err := Run(series, DefaultConfig())
	require.NoError(t, err)

	require.Equal(t, len(a.Points), len(b.Points))
	for i := range a.Points {
		assert.Equal(t, a.Points[i].Predicted, b.Points[i].Predicted)
		assert.Equal(t, a.Points[i].Lower, b.Points[i].Lower)
		assert.Equal(t, a.Points[i].Upper, b.Points[i].Upper)
	}
}

func TestRunZeroHorizon(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Horizon = 0

	res, err := Run(cycle(1800, 60, 1), cfg)
	require.NoError(t, err)
	assert.Len(t, res.Points, 60)
	assert.Empty(t, res.Future())
}

func TestRunPropagatesFitFailure(t *testing.T) {
	res, err := Run(timeseries.New(1900, []float64{1, 2, 3}), DefaultConfig())
	assert.Nil(t, res)

	var fe *ForecastError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "fit", fe.Stage)
	assert.Contains(t, err.Error(), "forecast fit")
}

func TestResultSeries(t *testing.T) {
	res, err := Run(cycle(1900, 40, 1), DefaultConfig())
	require.NoError(t, err)

	resid := res.ResidualSeries()
	assert.Equal(t, 40, resid.Len())
	assert.Equal(t, 0, resid.CountMissing())

	first, last, ok := resid.YearRange()
	require.True(t, ok)
	assert.Equal(t, 1900, first)
	assert.Equal(t, 1939, last)
}

func TestRunResidualAutocorrelation(t *testing.T) {
	cfg := DefaultConfig()
	res, err := Run(cycle(1749, 252, 3), cfg)
	require.NoError(t, err)

	require.NotNil(t, res.ACF)
	assert.Len(t, res.ACF.Values, cfg.ResidualLags+1)
	assert.InDelta(t, 1, res.ACF.Values[0], 1e-12)
	assert.InDelta(t, 1.96/math.Sqrt(252), res.ACF.Bound, 1e-12)

	cfg.ResidualLags = 0
	res, err = Run(cycle(1749, 252, 3), cfg)
	require.NoError(t, err)
	assert.Nil(t, res.ACF)
	assert.Nil(t, res.LjungBox)
}
