package stats

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/sunspots/timeseries"
)

// LjungBoxResult represents the result of a Ljung-Box test.
type LjungBoxResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Lags      int     `json:"lags"`
	DOF       int     `json:"dof"` // Degrees of freedom
}

// WhiteNoise reports whether the null of no autocorrelation survives at 5%.
func (r *LjungBoxResult) WhiteNoise() bool {
	return r.PValue > 0.05
}

func (r *LjungBoxResult) String() string {
	return fmt.Sprintf("Ljung-Box Q=%.4f lags=%d dof=%d p=%.4f", r.Statistic, r.Lags, r.DOF, r.PValue)
}

// LjungBox performs the Ljung-Box test for autocorrelation in residuals.
// The null hypothesis is that there is no autocorrelation up to lag h.
// fitdf is the number of parameters estimated by the model that produced
// the residuals. Missing values are skipped. Returns nil when the series is
// too short (fewer than 10 values) or constant.
func LjungBox(series *timeseries.Series, lags, fitdf int) *LjungBoxResult {
	values := series.Valid()
	n := len(values)
	if n < 10 || lags < 1 {
		return nil
	}

	if lags >= n {
		lags = n - 1
	}

	r := acf(values, lags)
	if r == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += (r[k] * r[k]) / float64(n-k)
	}
	q *= float64(n * (n + 2))

	dof := lags - fitdf
	if dof < 1 {
		dof = 1
	}

	chi2 := distuv.ChiSquared{K: float64(dof)}

	return &LjungBoxResult{
		Statistic: q,
		PValue:    chi2.Survival(q),
		Lags:      lags,
		DOF:       dof,
	}
}
