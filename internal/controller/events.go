package controller

import (
	"fmt"

	"DrawOnScreen/internal/state"
)

type Button int

const (
	ButtonPrimary Button = iota + 1
	ButtonMiddle
	ButtonSecondary
)

type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
)

func (m Modifiers) Shift() bool   { return m&ModShift != 0 }
func (m Modifiers) Control() bool { return m&ModControl != 0 }

// Key is a key the controller reacts to. Printable input arrives through
// TypeRune instead.
type Key int

const (
	KeyOther Key = iota
	KeyReturn
	KeyKPEnter
	KeyControl
	KeyEscape
	KeySpace
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
)

func (k Key) confirms() bool { return k == KeyReturn || k == KeyKPEnter }

type State int

const (
	Idle State = iota
	Drawing
	Writing
	Grabbing
	Transforming
)

var stateNames = [...]string{"idle", "drawing", "writing", "grabbing", "transforming"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Tool is what a primary press does: draw a shape or manipulate an
// element.
type Tool int

const (
	ToolFreehand Tool = iota
	ToolLine
	ToolEllipse
	ToolRectangle
	ToolPolygon
	ToolPolyline
	ToolText
	ToolImage
	ToolMove
	ToolResize
	ToolMirror
)

var toolNames = [...]string{
	"Free drawing", "Line", "Ellipse", "Rectangle", "Polygon", "Polyline", "Text", "Image",
	"Move", "Resize", "Mirror",
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// Tools lists every tool in menu order.
var Tools = []Tool{
	ToolFreehand, ToolLine, ToolEllipse, ToolRectangle, ToolPolygon, ToolPolyline, ToolText, ToolImage,
	ToolMove, ToolResize, ToolMirror,
}

var toolShapes = map[Tool]state.Shape{
	ToolFreehand:  state.Freehand,
	ToolLine:      state.LineShape,
	ToolEllipse:   state.Ellipse,
	ToolRectangle: state.Rectangle,
	ToolPolygon:   state.Polygon,
	ToolPolyline:  state.Polyline,
	ToolText:      state.Text,
	ToolImage:     state.Image,
}

// Shape is the shape a drawing tool creates.
func (t Tool) Shape() (state.Shape, bool) {
	s, ok := toolShapes[t]
	return s, ok
}

// Manipulates reports the move, resize and mirror tools.
func (t Tool) Manipulates() bool {
	return t == ToolMove || t == ToolResize || t == ToolMirror
}
