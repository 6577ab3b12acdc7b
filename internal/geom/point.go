package geom

import "math"

// Point is a position on the drawing surface in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }
func (p Point) Dist(q Point) float64 { return p.Sub(q).Len() }
func (p Point) Angle() float64 { return math.Atan2(p.Y, p.X) }
func (p Point) Eq(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Lerp returns the point at t along p -> q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// SegmentDistance returns the distance from p to the segment ab.
func SegmentDistance(p, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Dist(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(a.Add(ab.Mul(t)))
}

// SnapAngle rotates to around from so that the direction from -> to is a
// multiple of step radians. The length is kept.
func SnapAngle(from, to Point, step float64) Point {
	if step <= 0 {
		return to
	}
	d := to.Sub(from)
	l := d.Len()
	if l == 0 {
		return to
	}
	a := math.Round(d.Angle()/step) * step
	return Point{from.X + l*math.Cos(a), from.Y + l*math.Sin(a)}
}

// SnapSize rounds v to the nearest non-zero multiple of step, keeping its sign.
func SnapSize(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	sign := 1.0
	if v < 0 {
		sign = -1
	}
	n := math.Round(math.Abs(v) / step)
	if n < 1 {
		n = 1
	}
	return sign * n * step
}
