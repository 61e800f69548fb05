// Package chart composes the dashboard and forecast panels.
//
// Each panel builder is a pure function from a series and display
// parameters to a Spec: a renderer-independent list of layers (lines,
// scatter points, histogram bins, interval bands, a boxplot, reference
// lines). Compose runs the four dashboard builders independently and
// records per-panel failures instead of aborting:
//
//	fig, err := chart.Dashboard(series, chart.DefaultParams(series))
//	if errors.Is(err, chart.ErrEmptyRange) { ... }
//	for _, p := range fig.Failed() {
//	    log.Println(p.Kind, p.Err)
//	}
//	err = fig.Render(w, chart.FormatPNG, 15*vg.Inch, 12*vg.Inch)
//
// Rendering uses gonum/plot. Failed panels are drawn as placeholders
// carrying their error message, line layers break at missing values, and
// scatter marker sizes are areas in pt² as in matplotlib.
package chart
