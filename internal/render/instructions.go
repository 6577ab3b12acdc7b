// Package render turns elements into ordered draw instructions and paints
// them on raster layers.
package render

import (
	"image/color"

	"DrawOnScreen/internal/geom"
	"DrawOnScreen/internal/state"
	"DrawOnScreen/internal/transform"

	"github.com/fogleman/gg"
)

type Op int

const (
	OpSave Op = iota
	OpRestore
	OpSetColor
	OpSetLine
	OpSetDash
	OpSetFillRule
	OpSetEraser
	OpMoveTo
	OpLineTo
	OpCubicTo
	OpClosePath
	OpFillPreserve
	OpStroke
	OpText
	OpImage
)

var opNames = [...]string{
	"save", "restore", "setColor", "setLine", "setDash", "setFillRule", "setEraser",
	"moveTo", "lineTo", "cubicTo", "closePath", "fillPreserve", "stroke", "text", "image",
}

func (o Op) String() string { return opNames[o] }

// Instruction is one draw call. Only the fields of its Op are set.
// Coordinates are surface coordinates: paths are emitted already
// transformed, text and images carry their matrix.
type Instruction struct {
	Op     Op
	Points [3]geom.Point
	Color  color.NRGBA
	Line   state.Line
	Dash   []float64
	Offset float64
	Rule   geom.FillRule
	Eraser bool
	Text   *TextRun
	Image  *ImageRun
}

// TextRun is one line of text drawn at Origin (baseline, left) in the
// element's local coordinates, then mapped by Matrix.
type TextRun struct {
	Text   string
	Origin geom.Point
	Size   float64
	Font   *state.Font
	Matrix gg.Matrix
}

// ImageRun draws Ref stretched over Box, in local coordinates mapped by
// Matrix. Tint, when set, replaces the image colors and keeps its alpha.
type ImageRun struct {
	Ref    *state.ImageRef
	Box    geom.Rect
	Tint   *color.NRGBA
	Matrix gg.Matrix
}

// DashArray returns the dash lengths used for e, or nil when solid. A zero
// length falls back to the line width for "on" and three times the line
// width for "off".
func DashArray(e *state.Element) []float64 {
	if !e.Dash.Active {
		return nil
	}
	on, off := e.Dash.Array[0], e.Dash.Array[1]
	if on <= 0 {
		on = e.Line.Width
	}
	if off <= 0 {
		off = 3 * e.Line.Width
	}
	if on <= 0 && off <= 0 {
		return nil
	}
	return []float64{on, off}
}

// Build returns the draw instructions of e: build the path, fill when
// filled, then stroke, inside a save/restore pair.
func Build(e *state.Element) []Instruction {
	ins := []Instruction{
		{Op: OpSave},
		{Op: OpSetEraser, Eraser: e.Eraser},
		{Op: OpSetColor, Color: e.Color.RGBA},
	}
	switch e.Shape {
	case state.Text:
		ins = appendText(ins, e)
	case state.Image:
		ins = appendImage(ins, e)
	default:
		ins = append(ins,
			Instruction{Op: OpSetLine, Line: e.Line},
			Instruction{Op: OpSetDash, Dash: DashArray(e), Offset: e.Dash.Offset},
			Instruction{Op: OpSetFillRule, Rule: e.FillRule},
		)
		ins = AppendPath(ins, e.Path())
		if e.Filled() {
			ins = append(ins, Instruction{Op: OpFillPreserve})
		}
		ins = append(ins, Instruction{Op: OpStroke})
	}
	return append(ins, Instruction{Op: OpRestore})
}

// AppendPath emits the segments of p.
func AppendPath(ins []Instruction, p geom.Path) []Instruction {
	for _, s := range p {
		switch s.Op {
		case geom.MoveTo:
			ins = append(ins, Instruction{Op: OpMoveTo, Points: s.Pts})
		case geom.LineTo:
			ins = append(ins, Instruction{Op: OpLineTo, Points: s.Pts})
		case geom.CubicTo:
			ins = append(ins, Instruction{Op: OpCubicTo, Points: s.Pts})
		case geom.Close:
			ins = append(ins, Instruction{Op: OpClosePath})
		}
	}
	return ins
}

func appendText(ins []Instruction, e *state.Element) []Instruction {
	l := e.TextLayout()
	if l.Size <= 0 {
		return ins
	}
	m := e.Matrix()
	for _, line := range l.Lines {
		if line.Text == "" {
			continue
		}
		ins = append(ins, Instruction{Op: OpText, Text: &TextRun{
			Text:   line.Text,
			Origin: line.Baseline,
			Size:   l.Size,
			Font:   e.Text.Font,
			Matrix: m,
		}})
	}
	return ins
}

func appendImage(ins []Instruction, e *state.Element) []Instruction {
	if len(e.Points) < 2 {
		return ins
	}
	run := &ImageRun{Ref: e.Image.Ref, Box: geom.NewRect(e.Points[0], e.Points[1]), Matrix: e.Matrix()}
	if e.Image.Tinted {
		c := e.Color.RGBA
		run.Tint = &c
	}
	return append(ins, Instruction{Op: OpImage, Image: run})
}

// caretWidth is the stroke width of the text caret.
const caretWidth = 1.5

// Caret returns the instructions drawing the caret of a text element being
// written.
func Caret(e *state.Element) []Instruction {
	if e.Text == nil {
		return nil
	}
	l := e.TextLayout()
	if l.Size <= 0 {
		return nil
	}
	m := e.Matrix()
	var p geom.Path
	p.MoveTo(l.Caret[0])
	p.LineTo(l.Caret[1])
	p = p.Map(func(pt geom.Point) geom.Point { return transform.Apply(m, pt) })
	ins := []Instruction{
		{Op: OpSave},
		{Op: OpSetColor, Color: e.Color.RGBA},
		{Op: OpSetLine, Line: state.Line{Width: caretWidth, Cap: state.CapButt}},
		{Op: OpSetDash},
	}
	ins = AppendPath(ins, p)
	return append(ins, Instruction{Op: OpStroke}, Instruction{Op: OpRestore})
}

var highlightColor = color.NRGBA{R: 128, G: 128, B: 128, A: 200}

// Highlight outlines the bounds of a grabbed element.
func Highlight(e *state.Element) []Instruction {
	b := e.Bounds()
	if b.Empty() {
		return nil
	}
	b = b.Inflate(e.HitTolerance(1))
	var p geom.Path
	c := b.Corners()
	p.Polygon(c[:], true)
	ins := []Instruction{
		{Op: OpSave},
		{Op: OpSetColor, Color: highlightColor},
		{Op: OpSetLine, Line: state.Line{Width: 1, Join: state.JoinMiter, Cap: state.CapButt}},
		{Op: OpSetDash, Dash: []float64{4, 4}},
	}
	ins = AppendPath(ins, p)
	return append(ins, Instruction{Op: OpStroke}, Instruction{Op: OpRestore})
}
