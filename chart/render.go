package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Supported output formats of Figure.Render.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Plot converts s into a gonum plot.
func (s *Spec) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = s.Title
	p.X.Label.Text = s.XLabel
	p.Y.Label.Text = s.YLabel
	if s.Grid {
		p.Add(plotter.NewGrid())
	}

	for i := range s.Layers {
		l := &s.Layers[i]
		ps, err := l.plotters()
		if err != nil {
			return nil, fmt.Errorf("%s layer %q: %w", l.Kind, l.Label, err)
		}
		p.Add(ps...)
		if s.Legend && l.Label != "" && len(ps) > 0 {
			if thumb, ok := ps[0].(plot.Thumbnailer); ok {
				p.Legend.Add(l.Label, thumb)
			}
		}
		if l.Kind == BoxLayer {
			p.Y.Tick.Marker = plot.ConstantTicks{{Value: 0, Label: "1"}}
		}
	}
	p.Legend.Top = true

	return p, nil
}

func (l *Layer) plotters() ([]plot.Plotter, error) {
	switch l.Kind {
	case LineLayer:
		var out []plot.Plotter
		for _, seg := range segments(l.X, l.Y) {
			line, err := plotter.NewLine(seg)
			if err != nil {
				return nil, err
			}
			line.LineStyle.Color = l.Color
			line.LineStyle.Width = vg.Points(l.Width)
			if l.Dashed {
				line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
			}
			out = append(out, line)
		}
		return out, nil

	case ScatterLayer:
		var pts plotter.XYs
		for _, seg := range segments(l.X, l.Y) {
			pts = append(pts, seg...)
		}
		if len(pts) == 0 {
			return nil, nil
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = withAlpha(l.Color, l.Alpha)
		sc.GlyphStyle.Radius = markerRadius(l.Size)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		return []plot.Plotter{sc}, nil

	case HistogramLayer:
		if len(l.Bins) == 0 {
			return nil, nil
		}
		bins := make([]plotter.HistogramBin, len(l.Bins))
		for i, b := range l.Bins {
			bins[i] = plotter.HistogramBin{Min: b.Min, Max: b.Max, Weight: b.Density}
		}
		h := &plotter.Histogram{
			Bins:      bins,
			Width:     l.Bins[0].Max - l.Bins[0].Min,
			FillColor: withAlpha(l.Color, l.Alpha),
			LineStyle: plotter.DefaultLineStyle,
		}
		return []plot.Plotter{h}, nil

	case BandLayer:
		var upper, lower plotter.XYs
		for i, x := range l.X {
			if math.IsNaN(l.Lower[i]) || math.IsNaN(l.Upper[i]) {
				continue
			}
			upper = append(upper, plotter.XY{X: x, Y: l.Upper[i]})
			lower = append(lower, plotter.XY{X: x, Y: l.Lower[i]})
		}
		if len(upper) < 2 {
			return nil, nil
		}
		ring := make(plotter.XYs, 0, 2*len(upper))
		ring = append(ring, upper...)
		for i := len(lower) - 1; i >= 0; i-- {
			ring = append(ring, lower[i])
		}
		poly, err := plotter.NewPolygon(ring)
		if err != nil {
			return nil, err
		}
		poly.Color = withAlpha(l.Color, l.Alpha)
		poly.LineStyle.Width = 0
		return []plot.Plotter{poly}, nil

	case BoxLayer:
		if l.Box == nil {
			return nil, nil
		}
		return []plot.Plotter{newHorizontalBox(l.Box, l.Color)}, nil

	case HLineLayer:
		level := l.Level
		fn := plotter.NewFunction(func(float64) float64 { return level })
		fn.LineStyle.Color = l.Color
		fn.LineStyle.Width = vg.Points(1)
		if l.Dashed {
			fn.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		}
		return []plot.Plotter{fn}, nil
	}
	return nil, fmt.Errorf("unknown layer kind %q", l.Kind)
}

// segments splits x/y into runs of finite points.
func segments(x, y []float64) []plotter.XYs {
	var (
		out []plotter.XYs
		cur plotter.XYs
	)
	for i := range x {
		if i >= len(y) || !finite(x[i]) || !finite(y[i]) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: x[i], Y: y[i]})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// markerRadius converts a marker area in pt² to a glyph radius.
func markerRadius(area float64) vg.Length {
	return vg.Points(math.Sqrt(area) / 2)
}

func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	if alpha <= 0 || alpha > 1 {
		return c
	}
	c.A = uint8(math.Round(alpha * 255))
	return c
}

// placeholder is drawn in place of a panel that could not be built.
func placeholder(kind string, err error) *plot.Plot {
	p := plot.New()
	title, ok := panelTitles[kind]
	if !ok {
		title = kind
	}
	p.Title.Text = title + " (unavailable)"
	p.HideAxes()

	labels, lerr := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: 0.5, Y: 0.5}},
		Labels: []string{wrap(err.Error(), 48)},
	})
	if lerr == nil {
		for i := range labels.TextStyle {
			labels.TextStyle[i].XAlign = draw.XCenter
			labels.TextStyle[i].YAlign = draw.YCenter
			labels.TextStyle[i].Color = red
		}
		p.Add(labels)
	}
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	return p
}

// wrap breaks s into lines of at most width characters at spaces.
func wrap(s string, width int) string {
	words := strings.Fields(s)
	var (
		b   strings.Builder
		col int
	)
	for i, w := range words {
		if i > 0 {
			if col+1+len(w) > width {
				b.WriteByte('\n')
				col = 0
			} else {
				b.WriteByte(' ')
				col++
			}
		}
		b.WriteString(w)
		col += len(w)
	}
	return b.String()
}

// Plots returns one plot per panel, substituting placeholders for failed panels.
func (f *Figure) Plots() []*plot.Plot {
	out := make([]*plot.Plot, len(f.Panels))
	for i, panel := range f.Panels {
		if panel.Err != nil {
			out[i] = placeholder(panel.Kind, panel.Err)
			continue
		}
		p, err := panel.Spec.Plot()
		if err != nil {
			out[i] = placeholder(panel.Kind, err)
			continue
		}
		out[i] = p
	}
	return out
}

// Render draws the figure as a grid of panels and writes it to w in the
// given format (png or svg).
func (f *Figure) Render(w io.Writer, format string, width, height vg.Length) error {
	format = strings.ToLower(format)
	if format != FormatPNG && format != FormatSVG {
		return fmt.Errorf("unsupported figure format %q", format)
	}
	if len(f.Panels) == 0 {
		return fmt.Errorf("figure %q has no panels", f.Title)
	}

	cols := f.Cols
	if cols < 1 {
		cols = 1
	}
	rows := (len(f.Panels) + cols - 1) / cols

	plots := f.Plots()
	grid := make([][]*plot.Plot, rows)
	for j := range grid {
		grid[j] = make([]*plot.Plot, cols)
		for i := range grid[j] {
			k := j*cols + i
			if k < len(plots) {
				grid[j][i] = plots[k]
				continue
			}
			blank := plot.New()
			blank.HideAxes()
			grid[j][i] = blank
		}
	}

	c, err := draw.NewFormattedCanvas(width, height, format)
	if err != nil {
		return fmt.Errorf("create %s canvas: %w", format, err)
	}
	dc := draw.New(c)

	if f.Title != "" {
		sty := plot.New().Title.TextStyle
		sty.Font.Size = vg.Points(18)
		sty.XAlign = draw.XCenter
		sty.YAlign = draw.YTop
		pad := vg.Points(8)
		dc.FillText(sty, vg.Point{X: dc.Center().X, Y: dc.Max.Y - pad}, f.Title)
		dc = draw.Crop(dc, 0, 0, 0, -(sty.Height(f.Title) + 2*pad))
	}

	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      cols,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(grid, tiles, dc)
	for j := range grid {
		for i := range grid[j] {
			grid[j][i].Draw(canvases[j][i])
		}
	}

	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}
