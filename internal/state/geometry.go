package state

import (
	"math"
	"strings"
	"unicode/utf8"

	"DrawOnScreen/internal/geom"
	"DrawOnScreen/internal/transform"

	"github.com/fogleman/gg"
)

// textAdvance approximates the advance of one rune as a fraction of the
// font size. Layout proper is left to the renderer.
const textAdvance = 0.6

// LocalPath builds the outline of the element before transformations.
func (e *Element) LocalPath() geom.Path {
	var p geom.Path
	pts := e.Points
	if len(pts) == 0 {
		return p
	}
	switch e.Shape {
	case Freehand, Polyline:
		p.Polygon(pts, false)
	case Polygon:
		p.Polygon(pts, true)
	case LineShape:
		p.MoveTo(pts[0])
		switch len(pts) {
		case 1:
		case 2:
			p.LineTo(pts[1])
		case 3:
			p.CubicTo(pts[0], pts[1], pts[2])
		default:
			p.CubicTo(pts[1], pts[2], pts[3])
		}
	case Ellipse:
		if len(pts) < 2 {
			p.MoveTo(pts[0])
			break
		}
		r := pts[0].Dist(pts[1])
		p.Ellipse(pts[0], r, r)
	case Rectangle, Image:
		if len(pts) < 2 {
			p.MoveTo(pts[0])
			break
		}
		r := geom.NewRect(pts[0], pts[1])
		c := r.Corners()
		p.Polygon(c[:], true)
	case Text:
		r := e.TextLayout().Box
		if r.Empty() {
			p.MoveTo(pts[0])
			break
		}
		c := r.Corners()
		p.Polygon(c[:], true)
	}
	return p
}

// Matrix is the composition of the active transformations.
func (e *Element) Matrix() gg.Matrix {
	return transform.Compose(e.ActiveTransformations())
}

// Path is the outline in surface coordinates.
func (e *Element) Path() geom.Path {
	m := e.Matrix()
	return e.LocalPath().Map(func(p geom.Point) geom.Point { return transform.Apply(m, p) })
}

// Bounds is the box of the transformed outline.
func (e *Element) Bounds() geom.Rect {
	return e.Path().Bounds()
}

// HitTolerance is the accepted distance from the outline for a stroked
// element.
func (e *Element) HitTolerance(factor float64) float64 {
	if factor <= 0 {
		factor = 1
	}
	return math.Max(e.Line.Width, 2) * factor
}

// ContainsPoint reports whether p hits the element. Filled shapes, text
// and images also match their interior.
func (e *Element) ContainsPoint(p geom.Point, factor float64) bool {
	path := e.Path()
	if len(path) == 0 {
		return false
	}
	switch {
	case e.Shape == Text || e.Shape == Image:
		return path.Contains(p, geom.NonZero) || path.Distance(p) <= e.HitTolerance(factor)
	case e.Filled() && path.Contains(p, e.FillRule):
		return true
	}
	return path.Distance(p) <= e.HitTolerance(factor)
}

// TextLine is one laid out line of a text element, in local coordinates.
type TextLine struct {
	Text     string
	Baseline geom.Point
	Width    float64
}

// TextLayout is the approximate placement of a text element.
type TextLayout struct {
	Size  float64
	Lines []TextLine
	Box   geom.Rect
	Caret [2]geom.Point
}

// TextLayout places the text. The first baseline sits at the lower of the
// two points, the font size is their vertical distance and every further
// line moves down by one size.
func (e *Element) TextLayout() TextLayout {
	var l TextLayout
	if e.Text == nil || len(e.Points) == 0 {
		return l
	}
	box := geom.RectFromPoints(e.Points...)
	l.Size = box.Height()
	if len(e.Points) < 2 || l.Size == 0 {
		return l
	}
	var anchorX float64
	switch e.Text.Align {
	case AlignCenter:
		anchorX = box.Center().X
	case AlignRight:
		anchorX = box.Max.X
	default:
		anchorX = box.Min.X
	}
	baseY := box.Max.Y
	for i, s := range strings.Split(e.Text.Content, "\n") {
		w := float64(utf8.RuneCountInString(s)) * textAdvance * l.Size
		x := anchorX
		switch e.Text.Align {
		case AlignCenter:
			x -= w / 2
		case AlignRight:
			x -= w
		}
		line := TextLine{Text: s, Baseline: geom.Pt(x, baseY+float64(i)*l.Size), Width: w}
		l.Lines = append(l.Lines, line)
		l.Box = l.Box.Extend(geom.Pt(x, line.Baseline.Y-l.Size)).Extend(geom.Pt(x+w, line.Baseline.Y+l.Size/4))
	}
	l.Caret = e.caret(l)
	return l
}

func (e *Element) caret(l TextLayout) [2]geom.Point {
	pos := e.Text.Cursor
	if pos < 0 || pos > utf8.RuneCountInString(e.Text.Content) {
		pos = utf8.RuneCountInString(e.Text.Content)
	}
	for _, line := range l.Lines {
		n := utf8.RuneCountInString(line.Text)
		if pos <= n {
			x := line.Baseline.X + float64(pos)*textAdvance*l.Size
			return [2]geom.Point{geom.Pt(x, line.Baseline.Y-l.Size), geom.Pt(x, line.Baseline.Y+l.Size/4)}
		}
		pos -= n + 1
	}
	return [2]geom.Point{}
}
