package state

import (
	"errors"
	"fmt"

	"DrawOnScreen/internal/geom"
	"DrawOnScreen/internal/transform"
)

// ErrUnknownShape is wrapped by ParseShape for names it does not know.
var ErrUnknownShape = errors.New("unknown shape")

type Shape int

const (
	Freehand Shape = iota
	LineShape
	Ellipse
	Rectangle
	Polygon
	Polyline
	Text
	Image
)

var shapeNames = [...]string{
	Freehand:  "freehand",
	LineShape: "line",
	Ellipse:   "ellipse",
	Rectangle: "rectangle",
	Polygon:   "polygon",
	Polyline:  "polyline",
	Text:      "text",
	Image:     "image",
}

// Shapes lists every shape in tool order.
var Shapes = []Shape{Freehand, LineShape, Ellipse, Rectangle, Polygon, Polyline, Text, Image}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

func ParseShape(name string) (Shape, error) {
	for s, n := range shapeNames {
		if n == name {
			return Shape(s), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// MinPoints is the number of points a finished element of this shape needs.
func (s Shape) MinPoints() int {
	if s == Polygon {
		return 3
	}
	return 2
}

// boxed shapes are defined by two opposite corners.
func (s Shape) boxed() bool {
	return s == Rectangle || s == Ellipse || s == Text || s == Image
}

// TextPayload is carried by TEXT elements only.
type TextPayload struct {
	Content string
	Cursor  int
	Align   TextAlign
	Font    *Font
}

// ImagePayload is carried by IMAGE elements only.
type ImagePayload struct {
	Ref    *ImageRef
	Tinted bool
}

// Element is one drawable unit: shape, style and transformation history.
// Build it with NewElement so the shape-specific payloads are checked.
type Element struct {
	ID       string
	Shape    Shape
	Points   []geom.Point
	Color    *Color
	Line     Line
	Dash     Dash
	Fill     bool
	FillRule FillRule
	Eraser   bool
	Text     *TextPayload
	Image    *ImagePayload

	transformations []*transform.Transformation
	cursor          int
}

// Attrs describes an element to build.
type Attrs struct {
	Shape    Shape
	Points   []geom.Point
	Color    *Color
	Line     Line
	Dash     Dash
	Fill     bool
	FillRule FillRule
	Eraser   bool
	Text     *TextPayload
	Image    *ImagePayload
}

// NewElement validates a and returns the element it describes.
func NewElement(a Attrs) (*Element, error) {
	if a.Shape < 0 || int(a.Shape) >= len(shapeNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, int(a.Shape))
	}
	if a.Color == nil {
		return nil, errors.New("element: missing color")
	}
	switch a.Shape {
	case Text:
		if a.Text == nil || a.Text.Font == nil {
			return nil, errors.New("text element: missing text payload or font")
		}
		if a.Image != nil {
			return nil, errors.New("text element: unexpected image payload")
		}
	case Image:
		if a.Image == nil || a.Image.Ref == nil {
			return nil, errors.New("image element: missing image payload")
		}
		if a.Text != nil {
			return nil, errors.New("image element: unexpected text payload")
		}
	default:
		if a.Text != nil || a.Image != nil {
			return nil, fmt.Errorf("%s element: unexpected payload", a.Shape)
		}
	}
	el := &Element{
		ID:       NewID(),
		Shape:    a.Shape,
		Points:   append([]geom.Point(nil), a.Points...),
		Color:    a.Color,
		Line:     a.Line,
		Dash:     a.Dash,
		Fill:     a.Fill,
		FillRule: a.FillRule,
		Eraser:   a.Eraser,
	}
	if a.Text != nil {
		t := *a.Text
		el.Text = &t
	}
	if a.Image != nil {
		im := *a.Image
		el.Image = &im
	}
	return el, nil
}

// Clone returns a copy with a fresh ID. Value fields and the transformation
// log are copied, color, font and image handles are shared.
func (e *Element) Clone() *Element {
	c := *e
	c.ID = NewID()
	c.Points = append([]geom.Point(nil), e.Points...)
	if e.Text != nil {
		t := *e.Text
		c.Text = &t
	}
	if e.Image != nil {
		im := *e.Image
		c.Image = &im
	}
	c.transformations = make([]*transform.Transformation, len(e.transformations))
	for i, t := range e.transformations {
		cp := *t
		c.transformations[i] = &cp
	}
	return &c
}

// IsStraightLine reports a two point LINE, which is never filled.
func (e *Element) IsStraightLine() bool {
	return e.Shape == LineShape && len(e.Points) == 2
}

// Filled reports whether a paint pass should fill the element.
func (e *Element) Filled() bool {
	if e.Shape == Text || e.Shape == Image {
		return false
	}
	return e.Fill && !e.IsStraightLine()
}
