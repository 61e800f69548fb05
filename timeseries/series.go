// Package timeseries provides core annual time series data structures and operations.
package timeseries

import (
	"errors"
	"math"
	"sort"
	"time"
)

// Observation is a single annual reading.
type Observation struct {
	Year  int
	Value float64 // NaN when missing
	Date  time.Time
}

// Missing reports whether the observation has no value.
func (o Observation) Missing() bool {
	return math.IsNaN(o.Value)
}

// Series represents an annual time series with timestamps and values.
// Timestamps are January 1 (UTC) of each observation year and are ascending.
// Missing values are stored as NaN.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

// YearDate returns January 1 of the given year in UTC.
func YearDate(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// New creates a series from consecutive years starting at firstYear.
func New(firstYear int, values []float64) *Series {
	timestamps := make([]time.Time, len(values))
	for i := range timestamps {
		timestamps[i] = YearDate(firstYear + i)
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}
}

// NewWithTimestamps creates a time series with explicit timestamps.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, errors.New("timestamps and values must have the same length")
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// FromObservations builds a series from observations, ordering them by date.
func FromObservations(obs []Observation) *Series {
	sorted := make([]Observation, len(obs))
	copy(sorted, obs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	s := &Series{
		Timestamps: make([]time.Time, len(sorted)),
		Values:     make([]float64, len(sorted)),
	}
	for i, o := range sorted {
		s.Timestamps[i] = o.Date
		s.Values[i] = o.Value
	}
	return s
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Empty reports whether the series has no observations.
func (s *Series) Empty() bool {
	return s == nil || len(s.Values) == 0
}

// Year returns the calendar year of the i-th observation.
func (s *Series) Year(i int) int {
	return s.Timestamps[i].Year()
}

// At returns the i-th observation.
func (s *Series) At(i int) Observation {
	return Observation{
		Year:  s.Year(i),
		Value: s.Values[i],
		Date:  s.Timestamps[i],
	}
}

// Years returns the observation years as float64, suitable for plotting and fitting.
func (s *Series) Years() []float64 {
	years := make([]float64, s.Len())
	for i := range years {
		years[i] = float64(s.Year(i))
	}
	return years
}

// YearRange returns the first and last observation years.
// ok is false for an empty series.
func (s *Series) YearRange() (first, last int, ok bool) {
	if s.Empty() {
		return 0, 0, false
	}
	return s.Year(0), s.Year(s.Len() - 1), true
}

// Between returns the observations whose year falls in [lo, hi], preserving order.
// The result is empty, not an error, when nothing matches.
func (s *Series) Between(lo, hi int) *Series {
	out := &Series{
		Timestamps: []time.Time{},
		Values:     []float64{},
		Name:       s.Name,
	}
	for i := range s.Values {
		y := s.Year(i)
		if y < lo || y > hi {
			continue
		}
		out.Timestamps = append(out.Timestamps, s.Timestamps[i])
		out.Values = append(out.Values, s.Values[i])
	}
	return out
}

// Dropna returns a series without missing values.
func (s *Series) Dropna() *Series {
	out := &Series{
		Timestamps: make([]time.Time, 0, s.Len()),
		Values:     make([]float64, 0, s.Len()),
		Name:       s.Name,
	}
	for i, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		out.Timestamps = append(out.Timestamps, s.Timestamps[i])
		out.Values = append(out.Values, v)
	}
	return out
}

// Valid returns the non-missing values.
func (s *Series) Valid() []float64 {
	return s.Dropna().Values
}

// CountMissing returns the number of missing values.
func (s *Series) CountMissing() int {
	n := 0
	for _, v := range s.Values {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}

// MovingAverage calculates a trailing moving average with window size.
// A window containing a missing value yields NaN.
func (s *Series) MovingAverage(window int) *Series {
	if window <= 0 || window > len(s.Values) {
		return &Series{Timestamps: []time.Time{}, Values: []float64{}, Name: s.Name + "_ma"}
	}

	result := make([]float64, len(s.Values)-window+1)
	for i := range result {
		sum := 0.0
		for _, v := range s.Values[i : i+window] {
			sum += v
		}
		result[i] = sum / float64(window)
	}

	timestamps := make([]time.Time, len(result))
	copy(timestamps, s.Timestamps[window-1:])

	return &Series{
		Timestamps: timestamps,
		Values:     result,
		Name:       s.Name + "_ma",
	}
}
