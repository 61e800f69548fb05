// Package stats provides the statistical computations behind the dashboard panels.
//
// Every function takes the current (already filtered) series, skips missing
// values, and returns an *InsufficientDataError when the statistic is
// undefined for what remains, including when a value is infinite. Callers check with errors.As:
//
//	var insufficient *stats.InsufficientDataError
//	if errors.As(err, &insufficient) {
//	    // draw a placeholder for this panel only
//	}
//
// # Distribution
//
// Kernel density estimate (Gaussian kernel, Scott's bandwidth) over the
// observed value range, and a density-normalised histogram:
//
//	kde, err := stats.Density(series)     // 200 points over [min, max]
//	bins, err := stats.Histogram(series, 30)
//
// Density estimation needs at least two distinct values.
//
// # Trend
//
// Least-squares polynomial of value against year:
//
//	fit, err := stats.FitTrend(series, 1)
//	y := fit.Eval(1950)
//
// A degree-D fit needs at least D+1 non-missing points.
//
// # Boxplot
//
// Five-number summary over the fixed 1900-2000 window with 1.5×IQR outliers:
//
//	box, err := stats.Box(series)
//	fmt.Println(box.Q1, box.Median, box.Q3, box.Outliers)
//
// # Residual Diagnostics
//
// Describe gives count, mean, std, min, quartiles and max. Autocorrelation
// and LjungBox look for structure left in the residuals:
//
//	fmt.Print(stats.Describe(residuals))
//	acf := stats.Autocorrelation(residualSeries, 10)
//	fmt.Println(acf.Significant())
//	lb := stats.LjungBox(residualSeries, 10, fitdf)
//	if lb != nil && !lb.WhiteNoise() {
//	    // structure left in the residuals
//	}
package stats
