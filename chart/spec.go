package chart

import (
	"image/color"

	"github.com/sartorproj/sunspots/stats"
)

// LayerKind identifies how a layer is drawn.
type LayerKind string

const (
	LineLayer      LayerKind = "line"
	ScatterLayer   LayerKind = "scatter"
	HistogramLayer LayerKind = "histogram"
	BandLayer      LayerKind = "band"
	BoxLayer       LayerKind = "box"
	HLineLayer     LayerKind = "hline"
)

// Layer is one drawable element of a panel. Which fields are used depends on Kind:
//
//	line       X, Y (NaN breaks the line), Width, Dashed
//	scatter    X, Y, Size (pt²), Alpha
//	histogram  Bins (drawn by density), Alpha
//	band       X, Lower, Upper, Alpha
//	box        Box, horizontal
//	hline      Level, Dashed
type Layer struct {
	Kind   LayerKind
	Label  string
	Color  color.NRGBA
	X      []float64
	Y      []float64
	Lower  []float64
	Upper  []float64
	Bins   []stats.Bin
	Box    *stats.BoxSummary
	Level  float64
	Width  float64 // points
	Size   float64
	Alpha  float64
	Dashed bool
}

// Spec is a renderer-independent description of one panel.
type Spec struct {
	Title  string
	XLabel string
	YLabel string
	Grid   bool
	Legend bool
	Layers []Layer
}

// Layer returns the first layer of the given kind, or nil.
func (s *Spec) Layer(kind LayerKind) *Layer {
	for i := range s.Layers {
		if s.Layers[i].Kind == kind {
			return &s.Layers[i]
		}
	}
	return nil
}

var (
	blue    = color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	red     = color.NRGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	gray    = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	black   = color.NRGBA{A: 0xff}
	orange  = color.NRGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
	purple  = color.NRGBA{R: 0x80, B: 0x80, A: 0xff}
	skyblue = color.NRGBA{R: 0x87, G: 0xce, B: 0xeb, A: 0xff}
)
