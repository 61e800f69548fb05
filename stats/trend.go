package stats

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/sunspots/timeseries"
)

// TrendFit is a least-squares polynomial of value against year.
// Coefficients are ascending powers of the standardised year
// u = (year - Center) / Scale, which keeps the design well conditioned.
type TrendFit struct {
	Degree int
	Coeffs []float64
	Center float64
	Scale  float64
	Years  []float64 // years used for fitting
	Fitted []float64 // curve evaluated at Years
}

// FitTrend fits a polynomial of the given degree to the non-missing
// (year, value) pairs by ordinary least squares.
func FitTrend(series *timeseries.Series, degree int) (*TrendFit, error) {
	if degree < 1 {
		return nil, fmt.Errorf("trend fit: degree must be at least 1, got %d", degree)
	}

	clean := series.Dropna()
	n := clean.Len()
	if n < degree+1 {
		return nil, &InsufficientDataError{Op: "trend fit", Need: degree + 1, Got: n}
	}
	if err := requireFinite("trend fit", clean.Values); err != nil {
		return nil, err
	}

	years := clean.Years()
	center, scale := stat.MeanStdDev(years, nil)
	if scale == 0 || n == 1 {
		scale = 1
	}

	a := mat.NewDense(n, degree+1, nil)
	for i, yr := range years {
		u := (yr - center) / scale
		p := 1.0
		for j := 0; j <= degree; j++ {
			a.Set(i, j, p)
			p *= u
		}
	}
	b := mat.NewVecDense(n, clean.Values)

	var qr mat.QR
	qr.Factorize(a)
	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, b); err != nil {
		// Too few distinct years for the requested degree.
		return nil, &InsufficientDataError{Op: "trend fit", Need: degree + 1, Got: distinct(years), What: "distinct years"}
	}

	fit := &TrendFit{
		Degree: degree,
		Coeffs: make([]float64, degree+1),
		Center: center,
		Scale:  scale,
		Years:  years,
	}
	for j := range fit.Coeffs {
		fit.Coeffs[j] = coef.AtVec(j)
	}
	fit.Fitted = fit.EvalAll(years)

	return fit, nil
}

// Eval evaluates the fitted polynomial at year.
func (f *TrendFit) Eval(year float64) float64 {
	u := (year - f.Center) / f.Scale
	// Horner
	v := 0.0
	for j := len(f.Coeffs) - 1; j >= 0; j-- {
		v = v*u + f.Coeffs[j]
	}
	return v
}

// EvalAll evaluates the fitted polynomial at each year.
func (f *TrendFit) EvalAll(years []float64) []float64 {
	out := make([]float64, len(years))
	for i, yr := range years {
		out[i] = f.Eval(yr)
	}
	return out
}

// Slope returns the derivative of the curve at year, in value units per year.
func (f *TrendFit) Slope(year float64) float64 {
	u := (year - f.Center) / f.Scale
	d := 0.0
	for j := len(f.Coeffs) - 1; j >= 1; j-- {
		d = d*u + float64(j)*f.Coeffs[j]
	}
	return d / f.Scale
}
