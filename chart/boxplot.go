package chart

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/sartorproj/sunspots/stats"
)

// horizontalBox draws a precomputed five-number summary centred on y = 0.
// plotter.BoxPlot computes its own quartiles, which differ from the
// linearly interpolated ones in stats.BoxSummary.
type horizontalBox struct {
	summary *stats.BoxSummary
	color   color.Color
	median  color.Color
	height  vg.Length
}

func newHorizontalBox(s *stats.BoxSummary, c color.Color) *horizontalBox {
	return &horizontalBox{summary: s, color: c, median: orange, height: vg.Points(40)}
}

// Plot implements plot.Plotter.
func (b *horizontalBox) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	s := b.summary
	y := trY(0)
	half := b.height / 2

	line := draw.LineStyle{Color: b.color, Width: vg.Points(1)}
	q1, q3 := trX(s.Q1), trX(s.Q3)
	box := []vg.Point{
		{X: q1, Y: y - half},
		{X: q3, Y: y - half},
		{X: q3, Y: y + half},
		{X: q1, Y: y + half},
		{X: q1, Y: y - half},
	}
	c.StrokeLines(line, c.ClipLinesXY(box)...)

	med := trX(s.Median)
	c.StrokeLine2(draw.LineStyle{Color: b.median, Width: vg.Points(1.5)}, med, y-half, med, y+half)

	lo, hi := trX(s.LowerWhisker), trX(s.UpperWhisker)
	c.StrokeLine2(line, lo, y, q1, y)
	c.StrokeLine2(line, q3, y, hi, y)
	c.StrokeLine2(line, lo, y-half/2, lo, y+half/2)
	c.StrokeLine2(line, hi, y-half/2, hi, y+half/2)

	glyph := draw.GlyphStyle{Color: b.color, Radius: vg.Points(3), Shape: draw.RingGlyph{}}
	for _, o := range s.Outliers {
		pt := vg.Point{X: trX(o), Y: y}
		if c.Contains(pt) {
			c.DrawGlyph(glyph, pt)
		}
	}
}

// DataRange implements plot.DataRanger.
func (b *horizontalBox) DataRange() (xmin, xmax, ymin, ymax float64) {
	return b.summary.Min, b.summary.Max, -1, 1
}
