package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/sunspots/timeseries"
)

// Bin is one histogram bin over [Min, Max).
type Bin struct {
	Min     float64
	Max     float64
	Count   float64
	Density float64 // Count normalised so that the histogram area is 1
}

// Histogram bins the non-missing values into equal-width bins over
// [min, max]; the last bin is closed. A single distinct value is binned
// over [v-0.5, v+0.5].
func Histogram(series *timeseries.Series, bins int) ([]Bin, error) {
	if bins < 1 {
		return nil, &InsufficientDataError{Op: "histogram", Need: 1, Got: bins, What: "bins"}
	}
	data := series.Valid()
	if len(data) == 0 {
		return nil, &InsufficientDataError{Op: "histogram", Need: 1, Got: 0}
	}
	if err := requireFinite("histogram", data); err != nil {
		return nil, err
	}
	sort.Float64s(data)

	lo, hi := data[0], data[len(data)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	edges := make([]float64, len(dividers))
	copy(edges, dividers)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, data, nil)

	width := (hi - lo) / float64(bins)
	total := float64(len(data))
	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{
			Min:     edges[i],
			Max:     edges[i+1],
			Count:   counts[i],
			Density: counts[i] / (total * width),
		}
	}
	return out, nil
}
