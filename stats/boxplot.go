package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/sartorproj/sunspots/timeseries"
)

// Fixed historical window of the boxplot summary, independent of any caller filter.
const (
	BoxFrom = 1900
	BoxTo   = 2000
)

// BoxSummary is a five-number summary with 1.5×IQR outlier detection.
type BoxSummary struct {
	N            int
	Min          float64
	Q1           float64
	Median       float64
	Q3           float64
	Max          float64
	LowerWhisker float64 // smallest value >= Q1 - 1.5*IQR
	UpperWhisker float64 // largest value <= Q3 + 1.5*IQR
	Outliers     []float64
}

// IQR returns the interquartile range.
func (b *BoxSummary) IQR() float64 {
	return b.Q3 - b.Q1
}

// Box summarises the non-missing values of series within [BoxFrom, BoxTo].
func Box(series *timeseries.Series) (*BoxSummary, error) {
	return BoxBetween(series, BoxFrom, BoxTo)
}

// BoxBetween summarises the non-missing values of series within [from, to].
func BoxBetween(series *timeseries.Series, from, to int) (*BoxSummary, error) {
	data := series.Between(from, to).Valid()
	if len(data) == 0 {
		return nil, &InsufficientDataError{
			Op:   fmt.Sprintf("boxplot summary (%d-%d)", from, to),
			Need: 1,
			Got:  0,
		}
	}
	if err := requireFinite(fmt.Sprintf("boxplot summary (%d-%d)", from, to), data); err != nil {
		return nil, err
	}
	return BoxOf(data), nil
}

// BoxOf summarises data, which must be non-empty and free of NaN.
func BoxOf(data []float64) *BoxSummary {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	b := &BoxSummary{
		N:      len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
	}

	lo := b.Q1 - 1.5*b.IQR()
	hi := b.Q3 + 1.5*b.IQR()
	b.LowerWhisker, b.UpperWhisker = math.Inf(1), math.Inf(-1)
	for _, v := range sorted {
		if v < lo || v > hi {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		b.LowerWhisker = math.Min(b.LowerWhisker, v)
		b.UpperWhisker = math.Max(b.UpperWhisker, v)
	}

	return b
}

// quantile returns the p-quantile of sorted data, interpolating linearly
// between the closest ranks at position p*(n-1).
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
