package stats

import (
	"math"
	"testing"

	"github.com/sartorproj/sunspots/timeseries"
)

func TestACF(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = math.Sin(2 * math.Pi * float64(i) / 11)
	}
	series := timeseries.New(1800, values)

	c := Autocorrelation(series, 20)
	if c == nil {
		t.Fatal("Autocorrelation returned nil")
	}
	r := c.Values
	if len(r) != 21 {
		t.Fatalf("got %d lags, want 21", len(r))
	}
	if math.Abs(r[0]-1) > 1e-10 {
		t.Errorf("ACF[0] = %v, want 1", r[0])
	}
	// An 11-year cycle correlates with itself one period back.
	if r[11] < 0.5 {
		t.Errorf("ACF[11] = %v, want strong positive correlation", r[11])
	}
	if r[5] > -0.5 {
		t.Errorf("ACF[5] = %v, want strong negative correlation", r[5])
	}

	if math.Abs(c.Bound-0.196) > 1e-12 {
		t.Errorf("Bound = %v, want 0.196", c.Bound)
	}
	sig := c.Significant()
	if len(sig) == 0 || sig[0] != 1 {
		t.Errorf("significant lags = %v, want lag 1 first", sig)
	}
	for _, k := range sig {
		if math.Abs(r[k]) <= c.Bound {
			t.Errorf("lag %d reported significant with |r| = %v", k, math.Abs(r[k]))
		}
	}
}

func TestAutocorrelationDegenerate(t *testing.T) {
	if c := Autocorrelation(timeseries.New(1800, []float64{3, 3, 3}), 2); c != nil {
		t.Errorf("constant series: got %v, want nil", c.Values)
	}
	if c := Autocorrelation(timeseries.New(1800, nil), 2); c != nil {
		t.Errorf("empty series: got %v, want nil", c.Values)
	}
	if c := Autocorrelation(timeseries.New(1800, []float64{1, 2, 3}), 10); c == nil || len(c.Values) != 3 {
		t.Error("maxLag should be capped at n-1")
	}
}

func TestAutocorrelationSkipsMissing(t *testing.T) {
	c := Autocorrelation(timeseries.New(1800, []float64{1, math.NaN(), 2, 3, 2}), 1)
	if c == nil {
		t.Fatal("Autocorrelation returned nil")
	}
	if math.Abs(c.Bound-1.96/2) > 1e-12 {
		t.Errorf("Bound = %v, want bound over 4 values", c.Bound)
	}
}

func TestLjungBox(t *testing.T) {
	// Alternating signal: strongly autocorrelated.
	values := make([]float64, 60)
	for i := range values {
		values[i] = float64(i%2)*2 - 1
	}

	lb := LjungBox(timeseries.New(1900, values), 10, 0)
	if lb == nil {
		t.Fatal("LjungBox returned nil")
	}
	if lb.WhiteNoise() {
		t.Errorf("p = %v, alternating series should not look like white noise", lb.PValue)
	}
	if lb.DOF != 10 || lb.Lags != 10 {
		t.Errorf("lags/dof = %d/%d, want 10/10", lb.Lags, lb.DOF)
	}
	t.Log(lb)
}

func TestLjungBoxShortSeries(t *testing.T) {
	if lb := LjungBox(timeseries.New(1900, []float64{1, 2, 3}), 5, 0); lb != nil {
		t.Errorf("expected nil for short series, got %v", lb)
	}

	values := []float64{1, 5, 2, 4, 3, 3, 4, 2, 5, 1, 2}
	lb := LjungBox(timeseries.New(1900, values), 5, 10)
	if lb == nil || lb.DOF != 1 {
		t.Errorf("DOF should be clamped to 1, got %+v", lb)
	}
}
