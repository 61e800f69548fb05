package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of a sample: count, mean, standard
// deviation (ddof 1), extremes and quartiles.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// Describe summarises the non-NaN entries of values.
// Every field except Count is NaN for an empty sample, and Std is NaN
// for a single value.
func Describe(values []float64) Summary {
	data := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			data = append(data, v)
		}
	}

	s := Summary{Count: len(data)}
	if len(data) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	sort.Float64s(data)
	s.Mean = stat.Mean(data, nil)
	s.Std = math.NaN()
	if len(data) > 1 {
		s.Std = stat.StdDev(data, nil)
	}
	s.Min = floats.Min(data)
	s.Max = floats.Max(data)
	s.Q25 = quantile(data, 0.25)
	s.Median = quantile(data, 0.5)
	s.Q75 = quantile(data, 0.75)

	return s
}

// String renders the summary as a two-column table.
func (s Summary) String() string {
	var b strings.Builder
	rows := []struct {
		name  string
		value float64
	}{
		{"count", float64(s.Count)},
		{"mean", s.Mean},
		{"std", s.Std},
		{"min", s.Min},
		{"25%", s.Q25},
		{"50%", s.Median},
		{"75%", s.Q75},
		{"max", s.Max},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "%-6s %12.6f\n", r.name, r.value)
	}
	return b.String()
}
