package state

import (
	"math"

	"DrawOnScreen/internal/geom"
)

// SnapPolicy is applied to the pointer while the snap modifier is held.
// Segment shapes round the direction from the previous point to a multiple
// of AngleStep radians. Boxed shapes round their size, and an ellipse its
// radius, to a multiple of SizeStep pixels.
type SnapPolicy struct {
	AngleStep float64
	SizeStep  float64
}

var DefaultSnap = SnapPolicy{AngleStep: math.Pi / 12, SizeStep: 10}

// SmoothPolicy weights each interior freehand point against its two
// neighbours. Endpoints never move.
type SmoothPolicy struct {
	Self     float64
	Neighbor float64
	Passes   int
}

var DefaultSmooth = SmoothPolicy{Self: 2, Neighbor: 1, Passes: 1}

// minSampleGap is the distance under which an intermediate sample is
// considered a repeat of the last point.
const minSampleGap = 1.0

// StartDrawing begins the point list at p.
func (e *Element) StartDrawing(p geom.Point) {
	e.Points = append(e.Points[:0], p)
}

// UpdateDrawing follows the pointer. Freehand strokes grow, other shapes
// move their floating point.
func (e *Element) UpdateDrawing(p geom.Point, snap bool, policy SnapPolicy) {
	n := len(e.Points)
	if n == 0 {
		e.StartDrawing(p)
		return
	}
	if snap {
		p = e.snapped(p, policy)
	}
	if e.Shape == Freehand || n == 1 {
		e.Points = append(e.Points, p)
		return
	}
	e.Points[n-1] = p
}

// AddIntermediatePoint densifies a freehand stroke between two motion
// events. It never requests a redisplay; the next motion event does.
func (e *Element) AddIntermediatePoint(p geom.Point, snap bool, policy SnapPolicy) bool {
	if e.Shape != Freehand || len(e.Points) == 0 {
		return false
	}
	if snap {
		p = e.snapped(p, policy)
	}
	if p.Dist(e.Points[len(e.Points)-1]) < minSampleGap {
		return false
	}
	e.Points = append(e.Points, p)
	return true
}

// AddPoint fixes the floating vertex and opens a new one at the same
// position. LINE accepts up to four points.
func (e *Element) AddPoint() bool {
	n := len(e.Points)
	if n < 2 {
		return false
	}
	switch e.Shape {
	case LineShape:
		if n >= 4 {
			return false
		}
	case Polygon, Polyline:
	default:
		return false
	}
	e.Points = append(e.Points, e.Points[n-1])
	return true
}

// StopDrawing finalizes the point list. It reports whether the element has
// enough points to be kept.
func (e *Element) StopDrawing() bool {
	n := len(e.Points)
	if n >= 2 && e.Points[n-1].Eq(e.Points[n-2], 0.5) && e.Shape != Freehand {
		e.Points = e.Points[:n-1]
	}
	return len(e.Points) >= e.Shape.MinPoints()
}

func (e *Element) snapped(p geom.Point, policy SnapPolicy) geom.Point {
	n := len(e.Points)
	if e.Shape.boxed() {
		o := e.Points[0]
		if e.Shape == Ellipse {
			r := p.Dist(o)
			if r == 0 {
				return p
			}
			k := geom.SnapSize(r, policy.SizeStep) / r
			return o.Add(p.Sub(o).Mul(k))
		}
		return geom.Pt(o.X+geom.SnapSize(p.X-o.X, policy.SizeStep), o.Y+geom.SnapSize(p.Y-o.Y, policy.SizeStep))
	}
	prev := e.Points[n-1]
	if e.Shape != Freehand && n >= 2 {
		prev = e.Points[n-2]
	}
	return geom.SnapAngle(prev, p, policy.AngleStep)
}

// SmoothAll averages every interior point of a freehand stroke with its
// neighbours. The result only depends on the input points and the policy.
func (e *Element) SmoothAll(policy SmoothPolicy) bool {
	if e.Shape != Freehand || len(e.Points) < 3 {
		return false
	}
	total := policy.Self + 2*policy.Neighbor
	if total == 0 {
		return false
	}
	passes := policy.Passes
	if passes < 1 {
		passes = 1
	}
	for pass := 0; pass < passes; pass++ {
		src := append([]geom.Point(nil), e.Points...)
		for i := 1; i < len(src)-1; i++ {
			sum := src[i].Mul(policy.Self).Add(src[i-1].Add(src[i+1]).Mul(policy.Neighbor))
			e.Points[i] = sum.Mul(1 / total)
		}
	}
	return true
}
