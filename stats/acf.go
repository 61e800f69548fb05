package stats

import (
	"math"

	"github.com/sartorproj/sunspots/timeseries"
)

// Correlogram holds the autocorrelations of a series with the white-noise
// band used to judge them.
type Correlogram struct {
	Values []float64 `json:"values"` // Values[k] is the autocorrelation at lag k
	Bound  float64   `json:"bound"`  // ±1.96/sqrt(n)
}

// Autocorrelation computes the correlogram of the non-missing values up to
// maxLag, capped at n-1. Returns nil for an empty or constant series.
func Autocorrelation(series *timeseries.Series, maxLag int) *Correlogram {
	values := series.Valid()
	r := acf(values, maxLag)
	if r == nil {
		return nil
	}
	return &Correlogram{Values: r, Bound: 1.96 / math.Sqrt(float64(len(values)))}
}

// Significant returns the lags from 1 whose autocorrelation lies outside the band.
func (c *Correlogram) Significant() []int {
	var lags []int
	for k, r := range c.Values {
		if k > 0 && math.Abs(r) > c.Bound {
			lags = append(lags, k)
		}
	}
	return lags
}

func acf(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}

	if variance == 0 {
		return nil
	}

	out := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (values[i] - mean) * (values[i-k] - mean)
		}
		out[k] = sum / variance
	}

	return out
}
