package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/sartorproj/sunspots/timeseries"
)

func TestHistogram(t *testing.T) {
	series := timeseries.New(1900, []float64{1, 2, 2, 3, 3, 3, 4, 4, 4, 4})

	bins, err := Histogram(series, 3)
	if err != nil {
		t.Fatalf("Histogram: %v", err)
	}
	if len(bins) != 3 {
		t.Fatalf("got %d bins, want 3", len(bins))
	}

	// Maximum lands in the closed last bin.
	wantCounts := []float64{1, 2, 7}
	area := 0.0
	for i, b := range bins {
		if b.Count != wantCounts[i] {
			t.Errorf("bin %d count = %v, want %v", i, b.Count, wantCounts[i])
		}
		area += b.Density * (b.Max - b.Min)
	}
	if math.Abs(area-1) > 1e-10 {
		t.Errorf("area = %v, want 1", area)
	}
	if bins[0].Min != 1 || bins[2].Max != 4 {
		t.Errorf("edges = [%v, %v], want [1, 4]", bins[0].Min, bins[2].Max)
	}
}

func TestHistogramSingleValue(t *testing.T) {
	bins, err := Histogram(timeseries.New(1900, []float64{7, math.NaN(), 7}), 4)
	if err != nil {
		t.Fatalf("Histogram: %v", err)
	}
	total := 0.0
	for _, b := range bins {
		total += b.Count
	}
	if total != 2 {
		t.Errorf("total count = %v, want 2", total)
	}
	if bins[0].Min != 6.5 || bins[3].Max != 7.5 {
		t.Errorf("edges = [%v, %v], want [6.5, 7.5]", bins[0].Min, bins[3].Max)
	}
}

func TestHistogramErrors(t *testing.T) {
	var insufficient *InsufficientDataError

	_, err := Histogram(timeseries.New(1900, nil), 10)
	if !errors.As(err, &insufficient) {
		t.Errorf("empty series: err = %v, want *InsufficientDataError", err)
	}

	_, err = Histogram(timeseries.New(1900, []float64{1, 2}), 0)
	if !errors.As(err, &insufficient) {
		t.Errorf("zero bins: err = %v, want *InsufficientDataError", err)
	}
}

func TestNonFiniteValues(t *testing.T) {
	series := timeseries.New(1950, []float64{5, math.Inf(1), 7, 9, math.Inf(-1)})

	var insufficient *InsufficientDataError
	if _, err := Histogram(series, 10); !errors.As(err, &insufficient) {
		t.Errorf("Histogram: err = %v, want *InsufficientDataError", err)
	} else if insufficient.Got != 3 || insufficient.Need != 5 {
		t.Errorf("Histogram: got %d of %d finite values, want 3 of 5", insufficient.Got, insufficient.Need)
	}
	if _, err := Density(series); !errors.As(err, &insufficient) {
		t.Errorf("Density: err = %v, want *InsufficientDataError", err)
	}
	if _, err := FitTrend(series, 1); !errors.As(err, &insufficient) {
		t.Errorf("FitTrend: err = %v, want *InsufficientDataError", err)
	}
	if _, err := Box(series); !errors.As(err, &insufficient) {
		t.Errorf("Box: err = %v, want *InsufficientDataError", err)
	}
}
