package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/sunspots/timeseries"
)

// DensityPoints is the number of evaluation points of a density estimate.
const DensityPoints = 200

// DensityEstimate is a kernel density estimate sampled on an even grid.
type DensityEstimate struct {
	X         []float64
	Y         []float64
	Bandwidth float64
}

// Density computes a Gaussian kernel density estimate of the non-missing
// values, evaluated at DensityPoints evenly spaced points over [min, max].
// The bandwidth follows Scott's rule: std * n^(-1/5).
func Density(series *timeseries.Series) (*DensityEstimate, error) {
	return DensityN(series, DensityPoints)
}

// DensityN is Density with an explicit number of evaluation points.
func DensityN(series *timeseries.Series, points int) (*DensityEstimate, error) {
	data := series.Valid()
	if err := requireFinite("density estimate", data); err != nil {
		return nil, err
	}
	if d := distinct(data); d < 2 {
		return nil, &InsufficientDataError{Op: "density estimate", Need: 2, Got: d, What: "distinct values"}
	}
	if points < 2 {
		points = 2
	}

	n := float64(len(data))
	bw := stat.StdDev(data, nil) * math.Pow(n, -1.0/5)
	kernel := distuv.Normal{Mu: 0, Sigma: 1}

	xs := floats.Span(make([]float64, points), floats.Min(data), floats.Max(data))
	ys := make([]float64, points)
	for i, x := range xs {
		sum := 0.0
		for _, v := range data {
			sum += kernel.Prob((x - v) / bw)
		}
		ys[i] = sum / (n * bw)
	}

	return &DensityEstimate{X: xs, Y: ys, Bandwidth: bw}, nil
}

// At evaluates the estimate at x by linear interpolation on the grid.
// Outside the grid it returns 0.
func (d *DensityEstimate) At(x float64) float64 {
	n := len(d.X)
	if n == 0 || x < d.X[0] || x > d.X[n-1] {
		return 0
	}
	for i := 1; i < n; i++ {
		if x <= d.X[i] {
			t := (x - d.X[i-1]) / (d.X[i] - d.X[i-1])
			return d.Y[i-1] + t*(d.Y[i]-d.Y[i-1])
		}
	}
	return d.Y[n-1]
}

func distinct(data []float64) int {
	seen := make(map[float64]struct{}, len(data))
	for _, v := range data {
		seen[v] = struct{}{}
	}
	return len(seen)
}
