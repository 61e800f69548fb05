package stats

import (
	"fmt"
	"math"
)

// InsufficientDataError reports that a statistic is undefined for the
// current series, e.g. a trend fit over fewer points than its degree needs.
type InsufficientDataError struct {
	Op   string // "density estimate", "trend fit", ...
	Need int
	Got  int
	What string // unit of Need and Got, "points" when empty
}

func (e *InsufficientDataError) Error() string {
	what := e.What
	if what == "" {
		what = "points"
	}
	return fmt.Sprintf("%s requires at least %d %s, got %d", e.Op, e.Need, what, e.Got)
}

// requireFinite fails when data holds an infinite or NaN value.
func requireFinite(op string, data []float64) error {
	finite := 0
	for _, v := range data {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			finite++
		}
	}
	if finite < len(data) {
		return &InsufficientDataError{Op: op, Need: len(data), Got: finite, What: "finite values"}
	}
	return nil
}
