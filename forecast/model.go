package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/sunspots/timeseries"
)

// Yearly seasonality block, used only when Config.YearlySeasonality is set.
const (
	yearlyPeriod = 1.0
	yearlyOrder  = 10
)

// Config holds the model configuration.
type Config struct {
	// Period is the cycle length in years.
	Period       float64 `yaml:"period" json:"period" validate:"gt=0"`
	FourierOrder int     `yaml:"fourier_order" json:"fourier_order" validate:"min=1,max=25"`
	// Horizon is the number of future years to predict.
	Horizon           int     `yaml:"horizon" json:"horizon" validate:"min=0,max=500"`
	IntervalWidth     float64 `yaml:"interval_width" json:"interval_width" validate:"gt=0,lt=1"`
	YearlySeasonality bool    `yaml:"yearly_seasonality" json:"yearly_seasonality"`
	// ResidualLags is the number of lags of the Ljung-Box residual check.
	ResidualLags int `yaml:"residual_lags" json:"residual_lags" validate:"min=1"`
}

// DefaultConfig returns the sunspot-cycle configuration: an 11-year period
// with 5 harmonics and 30 future years.
func DefaultConfig() Config {
	return Config{
		Period:        11,
		FourierOrder:  5,
		Horizon:       30,
		IntervalWidth: 0.8,
		ResidualLags:  10,
	}
}

// Params returns the number of regression coefficients.
func (c Config) Params() int {
	p := 2 + 2*c.FourierOrder
	if c.YearlySeasonality {
		p += 2 * yearlyOrder
	}
	return p
}

func (c Config) check() error {
	switch {
	case !(c.Period > 0):
		return fmt.Errorf("period must be positive, got %v", c.Period)
	case c.FourierOrder < 1:
		return fmt.Errorf("fourier order must be at least 1, got %d", c.FourierOrder)
	case c.Horizon < 0:
		return fmt.Errorf("horizon must not be negative, got %d", c.Horizon)
	case !(c.IntervalWidth > 0 && c.IntervalWidth < 1):
		return fmt.Errorf("interval width must be in (0, 1), got %v", c.IntervalWidth)
	}
	return nil
}

// Model is an additive trend plus Fourier seasonality regression.
type Model struct {
	Config Config
	Coeffs []float64 // [m, k, a1, b1, ..., aN, bN, yearly...]
	Sigma  float64   // residual standard error
	DOF    int       // residual degrees of freedom
	NObs   int
	LogLik float64
	AIC    float64
	BIC    float64

	fitted bool
	t0     float64 // first fractional year of the history
	span   float64 // length of the history in years
	last   time.Time
	cov    *mat.SymDense // (XᵀX)⁻¹
}

// New creates an unfitted model.
func New(cfg Config) *Model {
	return &Model{Config: cfg}
}

// Fit estimates the coefficients from the non-missing observations.
func (m *Model) Fit(series *timeseries.Series) error {
	if err := m.Config.check(); err != nil {
		return &ForecastError{Stage: "configure", Err: err}
	}

	clean := series.Dropna()
	n := clean.Len()
	p := m.Config.Params()
	if n <= p {
		return &ForecastError{
			Stage: "fit",
			Err:   fmt.Errorf("need more than %d observations for %d coefficients, got %d", p, p, n),
		}
	}

	ts := make([]float64, n)
	for i, d := range clean.Timestamps {
		ts[i] = fractionalYear(d)
	}
	if m.Config.YearlySeasonality && wholeYears(ts) {
		return &ForecastError{
			Stage: "configure",
			Err:   errors.New("yearly seasonality is undefined for annual observations"),
		}
	}

	m.t0 = floats.Min(ts)
	m.span = floats.Max(ts) - m.t0
	if m.span == 0 {
		m.span = 1
	}
	m.last = clean.Timestamps[n-1]

	x := mat.NewDense(n, p, nil)
	for i, t := range ts {
		x.SetRow(i, m.features(t))
	}
	y := mat.NewVecDense(n, clean.Values)

	var qr mat.QR
	qr.Factorize(x)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, y); err != nil {
		return &ForecastError{Stage: "fit", Err: fmt.Errorf("singular design matrix: %w", err)}
	}

	coeffs := make([]float64, p)
	for j := range coeffs {
		coeffs[j] = beta.AtVec(j)
		if math.IsNaN(coeffs[j]) || math.IsInf(coeffs[j], 0) {
			return &ForecastError{Stage: "fit", Err: errors.New("least squares did not converge to finite coefficients")}
		}
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	sse := 0.0
	for i := 0; i < n; i++ {
		r := y.AtVec(i) - fitted.AtVec(i)
		sse += r * r
	}

	var xtx mat.SymDense
	xtx.SymOuterK(1, x.T())
	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return &ForecastError{Stage: "fit", Err: errors.New("design matrix is not positive definite")}
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return &ForecastError{Stage: "fit", Err: fmt.Errorf("invert normal equations: %w", err)}
	}

	m.Coeffs = coeffs
	m.NObs = n
	m.DOF = n - p
	m.Sigma = math.Sqrt(sse / float64(m.DOF))
	m.cov = &cov
	m.calculateIC(sse)
	m.fitted = true
	return nil
}

// calculateIC sets the Gaussian log-likelihood, AIC and BIC. The noise
// variance counts as one parameter.
func (m *Model) calculateIC(sse float64) {
	n := float64(m.NObs)
	k := float64(len(m.Coeffs) + 1)

	if sse > 0 {
		m.LogLik = -n/2*math.Log(2*math.Pi) - n/2*math.Log(sse/n) - n/2
	} else {
		m.LogLik = math.Inf(1)
	}
	m.AIC = -2*m.LogLik + 2*k
	m.BIC = -2*m.LogLik + k*math.Log(n)
}

// Horizon returns the dates of series followed by future dates on Jan 1
// of each of the next future years after the last observation.
func (m *Model) Horizon(series *timeseries.Series, future int) []time.Time {
	dates := make([]time.Time, 0, series.Len()+future)
	dates = append(dates, series.Timestamps...)
	last := m.last
	if series.Len() > 0 {
		last = series.Timestamps[series.Len()-1]
	}
	for i := 1; i <= future; i++ {
		dates = append(dates, timeseries.YearDate(last.Year()+i))
	}
	return dates
}

// Predict evaluates the model with prediction intervals at each date.
// Actual and Residual of the returned points are NaN.
func (m *Model) Predict(dates []time.Time) ([]Point, error) {
	if !m.fitted {
		return nil, &ForecastError{Stage: "predict", Err: ErrNotFitted}
	}

	q := (1 + m.Config.IntervalWidth) / 2
	tq := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(m.DOF)}.Quantile(q)

	points := make([]Point, len(dates))
	for i, d := range dates {
		feat := m.features(fractionalYear(d))
		trend := m.Coeffs[0]*feat[0] + m.Coeffs[1]*feat[1]
		seasonal := floats.Dot(m.Coeffs[2:], feat[2:])
		yhat := trend + seasonal

		x0 := mat.NewVecDense(len(feat), feat)
		se := m.Sigma * math.Sqrt(1+mat.Inner(x0, m.cov, x0))

		points[i] = Point{
			Date:      d,
			Actual:    math.NaN(),
			Predicted: yhat,
			Lower:     yhat - tq*se,
			Upper:     yhat + tq*se,
			Trend:     trend,
			Seasonal:  seasonal,
			Residual:  math.NaN(),
		}
	}
	return points, nil
}

// features returns the design row at fractional year t.
func (m *Model) features(t float64) []float64 {
	row := make([]float64, 0, m.Config.Params())
	row = append(row, 1, (t-m.t0)/m.span)
	row = fourier(row, t, m.Config.Period, m.Config.FourierOrder)
	if m.Config.YearlySeasonality {
		row = fourier(row, t, yearlyPeriod, yearlyOrder)
	}
	return row
}

func fourier(dst []float64, t, period float64, order int) []float64 {
	for n := 1; n <= order; n++ {
		x := 2 * math.Pi * float64(n) * t / period
		dst = append(dst, math.Cos(x), math.Sin(x))
	}
	return dst
}

// fractionalYear maps a date to its year plus the elapsed fraction of that year.
func fractionalYear(d time.Time) float64 {
	d = d.UTC()
	start := time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	return float64(d.Year()) + d.Sub(start).Seconds()/end.Sub(start).Seconds()
}

func wholeYears(ts []float64) bool {
	for _, t := range ts {
		if t != math.Trunc(t) {
			return false
		}
	}
	return true
}
