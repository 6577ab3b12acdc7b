package geom

import "math"

type SegmentOp int

const (
	MoveTo SegmentOp = iota
	LineTo
	CubicTo
	Close
)

// Segment is one path command. CubicTo uses all three points (two controls
// then the end point), MoveTo and LineTo only the first one.
type Segment struct {
	Op  SegmentOp
	Pts [3]Point
}

// End returns the point the segment leaves the pen at.
func (s Segment) End() Point {
	if s.Op == CubicTo {
		return s.Pts[2]
	}
	return s.Pts[0]
}

// Path is a list of segments in drawing order.
type Path []Segment

func (p *Path) MoveTo(pt Point) { *p = append(*p, Segment{Op: MoveTo, Pts: [3]Point{pt}}) }
func (p *Path) LineTo(pt Point) { *p = append(*p, Segment{Op: LineTo, Pts: [3]Point{pt}}) }
func (p *Path) Close() { *p = append(*p, Segment{Op: Close}) }

func (p *Path) CubicTo(c1, c2, end Point) {
	*p = append(*p, Segment{Op: CubicTo, Pts: [3]Point{c1, c2, end}})
}

// kappa is the control distance factor for a quarter circle cubic.
const kappa = 0.5522847498

// Ellipse appends a closed ellipse centred on c.
func (p *Path) Ellipse(c Point, rx, ry float64) {
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(Point{c.X + rx, c.Y})
	p.CubicTo(Point{c.X + rx, c.Y + ky}, Point{c.X + kx, c.Y + ry}, Point{c.X, c.Y + ry})
	p.CubicTo(Point{c.X - kx, c.Y + ry}, Point{c.X - rx, c.Y + ky}, Point{c.X - rx, c.Y})
	p.CubicTo(Point{c.X - rx, c.Y - ky}, Point{c.X - kx, c.Y - ry}, Point{c.X, c.Y - ry})
	p.CubicTo(Point{c.X + kx, c.Y - ry}, Point{c.X + rx, c.Y - ky}, Point{c.X + rx, c.Y})
	p.Close()
}

// Polygon appends pts as one sub-path, closed when closed is set.
func (p *Path) Polygon(pts []Point, closed bool) {
	if len(pts) == 0 {
		return
	}
	p.MoveTo(pts[0])
	for _, pt := range pts[1:] {
		p.LineTo(pt)
	}
	if closed {
		p.Close()
	}
}

// Map returns a copy of the path with f applied to every point.
func (p Path) Map(f func(Point) Point) Path {
	out := make(Path, len(p))
	for i, s := range p {
		out[i] = s
		for j := range s.Pts {
			out[i].Pts[j] = f(s.Pts[j])
		}
	}
	return out
}

// Polyline is a flattened sub-path.
type Polyline struct {
	Points []Point
	Closed bool
}

const cubicSteps = 16

// Flatten converts the path into polylines, one per sub-path.
func (p Path) Flatten() []Polyline {
	var (
		out   []Polyline
		cur   *Polyline
		start Point
		pen   Point
	)
	begin := func(pt Point) {
		out = append(out, Polyline{Points: []Point{pt}})
		cur = &out[len(out)-1]
		start, pen = pt, pt
	}
	for _, s := range p {
		switch s.Op {
		case MoveTo:
			begin(s.Pts[0])
		case LineTo:
			if cur == nil {
				begin(pen)
			}
			cur.Points = append(cur.Points, s.Pts[0])
			pen = s.Pts[0]
		case CubicTo:
			if cur == nil {
				begin(pen)
			}
			p0 := pen
			for i := 1; i <= cubicSteps; i++ {
				cur.Points = append(cur.Points, cubicAt(p0, s.Pts[0], s.Pts[1], s.Pts[2], float64(i)/cubicSteps))
			}
			pen = s.Pts[2]
		case Close:
			if cur != nil {
				cur.Closed = true
				cur = nil
			}
			pen = start
		}
	}
	return out
}

func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return Point{
		a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// Bounds returns the box of the flattened path.
func (p Path) Bounds() Rect {
	var r Rect
	for _, pl := range p.Flatten() {
		for _, pt := range pl.Points {
			r = r.Extend(pt)
		}
	}
	return r
}

// Distance returns the shortest distance from pt to the outline.
func (p Path) Distance(pt Point) float64 {
	d := math.Inf(1)
	for _, pl := range p.Flatten() {
		n := len(pl.Points)
		if n == 1 {
			d = math.Min(d, pt.Dist(pl.Points[0]))
			continue
		}
		for i := 1; i < n; i++ {
			d = math.Min(d, SegmentDistance(pt, pl.Points[i-1], pl.Points[i]))
		}
		if pl.Closed {
			d = math.Min(d, SegmentDistance(pt, pl.Points[n-1], pl.Points[0]))
		}
	}
	return d
}

type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// Contains reports whether pt is inside the area the path encloses under
// rule. Open sub-paths are implicitly closed, as a fill would do.
func (p Path) Contains(pt Point, rule FillRule) bool {
	winding, crossings := 0, 0
	for _, pl := range p.Flatten() {
		n := len(pl.Points)
		if n < 3 {
			continue
		}
		for i := 0; i < n; i++ {
			a, b := pl.Points[i], pl.Points[(i+1)%n]
			if (a.Y <= pt.Y) == (b.Y <= pt.Y) {
				continue
			}
			x := a.X + (pt.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if x <= pt.X {
				continue
			}
			crossings++
			if b.Y > a.Y {
				winding++
			} else {
				winding--
			}
		}
	}
	if rule == EvenOdd {
		return crossings%2 == 1
	}
	return winding != 0
}
