// Package transform holds the anchor-relative element transformations and
// the rules for switching between paired kinds during a gesture.
package transform

import (
	"errors"
	"fmt"
	"math"

	"DrawOnScreen/internal/geom"

	"github.com/fogleman/gg"
)

// ErrUnknownKind is wrapped by ParseKind for names it does not know.
var ErrUnknownKind = errors.New("unknown transformation kind")

type Kind int

const (
	Translation Kind = iota
	Rotation
	ScalePreserve
	Stretch
	Reflection
	Inversion
)

var kindNames = [...]string{
	Translation:   "translation",
	Rotation:      "rotation",
	ScalePreserve: "scale_preserve",
	Stretch:       "stretch",
	Reflection:    "reflection",
	Inversion:     "inversion",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Pair returns the kind a live switch swaps k with.
func (k Kind) Pair() Kind {
	switch k {
	case Translation:
		return Rotation
	case Rotation:
		return Translation
	case ScalePreserve:
		return Stretch
	case Stretch:
		return ScalePreserve
	case Reflection:
		return Inversion
	case Inversion:
		return Reflection
	}
	return k
}

// minDrag is the pointer travel below which direction-based parameters
// (rotation reference, reflection axis) are left undefined.
const minDrag = 1.0

// Transformation is one entry of an element's transformation log. The
// parameters are recomputed by Update while Active is set.
type Transformation struct {
	Kind     Kind
	Anchor   geom.Point
	Undoable bool
	Active   bool

	Offset         geom.Point // Translation
	Angle          float64    // Rotation, radians
	Center         geom.Point // ScalePreserve, Stretch: fixed point of the scaling
	ScaleX, ScaleY float64    // ScalePreserve, Stretch
	Axis           geom.Point // Reflection: unit direction, zero while degenerate

	// Frame is the element's bounds when the transformation started.
	Frame geom.Rect

	reference geom.Point
	hasRef    bool
	last      geom.Point
}

// New starts a transformation of the given kind at anchor. frame is the
// current bounds of the element it applies to.
func New(kind Kind, anchor geom.Point, frame geom.Rect, undoable bool) *Transformation {
	t := &Transformation{
		Kind:     kind,
		Anchor:   anchor,
		Undoable: undoable,
		Active:   true,
		ScaleX:   1,
		ScaleY:   1,
		Frame:    frame,
		last:     anchor,
	}
	switch kind {
	case ScalePreserve:
		t.Center = frame.Center()
	case Stretch:
		t.Center = t.stretchFixed()
	}
	return t
}

// Switched returns the paired transformation started at the same anchor,
// with the same undoable flag and frame, already updated to the last
// pointer position t has seen.
func (t *Transformation) Switched() *Transformation {
	n := New(t.Kind.Pair(), t.Anchor, t.Frame, t.Undoable)
	n.Update(t.last)
	return n
}

// Last returns the most recent pointer position given to Update.
func (t *Transformation) Last() geom.Point { return t.last }

// Update recomputes the parameters for pointer position p.
func (t *Transformation) Update(p geom.Point) {
	t.last = p
	switch t.Kind {
	case Translation:
		t.Offset = p.Sub(t.Anchor)
	case Rotation:
		v := p.Sub(t.Anchor)
		if !t.hasRef {
			if v.Len() <= minDrag {
				return
			}
			t.reference, t.hasRef = v, true
		}
		if v.Len() <= minDrag {
			return
		}
		t.Angle = math.Atan2(t.reference.Cross(v), t.reference.Dot(v))
	case ScalePreserve:
		d0 := t.Anchor.Dist(t.Center)
		if d0 < 1e-6 {
			t.ScaleX, t.ScaleY = 1, 1
			return
		}
		f := p.Dist(t.Center) / d0
		t.ScaleX, t.ScaleY = f, f
	case Stretch:
		t.ScaleX = ratio(p.X-t.Center.X, t.Anchor.X-t.Center.X)
		t.ScaleY = ratio(p.Y-t.Center.Y, t.Anchor.Y-t.Center.Y)
	case Reflection:
		v := p.Sub(t.Anchor)
		if l := v.Len(); l > minDrag {
			t.Axis = v.Mul(1 / l)
		} else {
			t.Axis = geom.Point{}
		}
	case Inversion:
		// the anchor is the only parameter
	}
}

// stretchFixed picks, per axis, the frame edge opposite to the anchor.
func (t *Transformation) stretchFixed() geom.Point {
	c := t.Frame.Center()
	fixed := geom.Point{X: t.Frame.Max.X, Y: t.Frame.Max.Y}
	if t.Anchor.X >= c.X {
		fixed.X = t.Frame.Min.X
	}
	if t.Anchor.Y >= c.Y {
		fixed.Y = t.Frame.Min.Y
	}
	return fixed
}

func ratio(num, den float64) float64 {
	if math.Abs(den) < 1e-6 {
		return 1
	}
	return num / den
}

// Stop freezes the parameters.
func (t *Transformation) Stop() { t.Active = false }

// Matrix returns the affine map of the transformation in surface
// coordinates.
func (t *Transformation) Matrix() gg.Matrix {
	switch t.Kind {
	case Translation:
		return gg.Translate(t.Offset.X, t.Offset.Y)
	case Rotation:
		return about(t.Anchor, gg.Rotate(t.Angle))
	case ScalePreserve, Stretch:
		return about(t.Center, gg.Scale(t.ScaleX, t.ScaleY))
	case Reflection:
		if t.Axis == (geom.Point{}) {
			return gg.Identity()
		}
		c2 := t.Axis.X*t.Axis.X - t.Axis.Y*t.Axis.Y
		s2 := 2 * t.Axis.X * t.Axis.Y
		return about(t.Anchor, gg.Matrix{XX: c2, YX: s2, XY: s2, YY: -c2})
	case Inversion:
		return about(t.Anchor, gg.Scale(-1, -1))
	}
	return gg.Identity()
}

// about conjugates m so that c is its fixed point.
func about(c geom.Point, m gg.Matrix) gg.Matrix {
	return gg.Translate(-c.X, -c.Y).Multiply(m).Multiply(gg.Translate(c.X, c.Y))
}

// Compose returns the map of ts applied in order.
func Compose(ts []*Transformation) gg.Matrix {
	m := gg.Identity()
	for _, t := range ts {
		m = m.Multiply(t.Matrix())
	}
	return m
}

// Apply maps p through m.
func Apply(m gg.Matrix, p geom.Point) geom.Point {
	x, y := m.TransformPoint(p.X, p.Y)
	return geom.Point{X: x, Y: y}
}

// IsIdentity reports whether m is the identity within eps.
func IsIdentity(m gg.Matrix, eps float64) bool {
	id := gg.Identity()
	return math.Abs(m.XX-id.XX) <= eps && math.Abs(m.YX) <= eps &&
		math.Abs(m.XY) <= eps && math.Abs(m.YY-id.YY) <= eps &&
		math.Abs(m.X0) <= eps && math.Abs(m.Y0) <= eps
}
