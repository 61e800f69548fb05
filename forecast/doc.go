// Package forecast fits an additive seasonal regression to a yearly series
// and shapes its predictions into actual/predicted/interval/residual points.
//
// The model is a linear trend plus a Fourier series for the
// solar cycle:
//
//	y(t) = k·τ + m + Σₙ aₙ cos(2πnt/P) + bₙ sin(2πnt/P)
//
// where t is the fractional year and τ is t rescaled to [0, 1] over the
// history. Coefficients come from a least-squares fit; prediction intervals
// use the Student-t distribution of the regression residuals.
//
// # Usage
//
//	cfg := forecast.DefaultConfig() // period 11, order 5, 30 years ahead
//	res, err := forecast.Run(series, cfg)
//	if err != nil {
//	    var fe *forecast.ForecastError
//	    errors.As(err, &fe) // fe.Stage is "configure", "fit" or "predict"
//	}
//	for _, p := range res.Points {
//	    fmt.Println(p.Date.Year(), p.Actual, p.Predicted, p.Lower, p.Upper, p.Residual)
//	}
//	fmt.Print(res.Residuals) // describe()-style summary
//
// Run is a single-shot pipeline: configure, fit, predict, shape. Nothing is
// retained between calls, and identical input gives identical output.
//
// Lower-level access is available through Model:
//
//	m := forecast.New(cfg)
//	if err := m.Fit(series); err != nil { ... }
//	points, err := m.Predict(m.Horizon(series, 10))
package forecast
