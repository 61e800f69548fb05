package stats

import (
	"math"
	"strings"
	"testing"
)

func TestDescribe(t *testing.T) {
	s := Describe([]float64{4, math.NaN(), 1, 3, 2})

	if s.Count != 4 {
		t.Errorf("Count = %d, want 4", s.Count)
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"Mean", s.Mean, 2.5},
		{"Std", s.Std, math.Sqrt(5.0 / 3)},
		{"Min", s.Min, 1},
		{"Q25", s.Q25, 1.75},
		{"Median", s.Median, 2.5},
		{"Q75", s.Q75, 3.25},
		{"Max", s.Max, 4},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-10 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestDescribeDegenerate(t *testing.T) {
	empty := Describe(nil)
	if empty.Count != 0 || !math.IsNaN(empty.Mean) || !math.IsNaN(empty.Max) {
		t.Errorf("Describe(nil) = %+v", empty)
	}

	one := Describe([]float64{7})
	if one.Mean != 7 || one.Median != 7 || !math.IsNaN(one.Std) {
		t.Errorf("Describe([7]) = %+v", one)
	}
}

func TestSummaryString(t *testing.T) {
	out := Describe([]float64{1, 2, 3, 4}).String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8:\n%s", len(lines), out)
	}
	for i, name := range []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"} {
		if !strings.HasPrefix(lines[i], name) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], name)
		}
	}
	if !strings.Contains(out, "1.750000") {
		t.Errorf("missing 25%% value:\n%s", out)
	}
}
