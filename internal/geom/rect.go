package geom

import "math"

// Rect is an axis aligned box. The zero value is empty.
type Rect struct {
	Min, Max Point
	nonEmpty bool
}

// RectFromPoints returns the smallest box holding every point.
func RectFromPoints(pts ...Point) Rect {
	var r Rect
	for _, p := range pts {
		r = r.Extend(p)
	}
	return r
}

func (r Rect) Empty() bool { return !r.nonEmpty }

func (r Rect) Extend(p Point) Rect {
	if !r.nonEmpty {
		return Rect{Min: p, Max: p, nonEmpty: true}
	}
	r.Min.X = math.Min(r.Min.X, p.X)
	r.Min.Y = math.Min(r.Min.Y, p.Y)
	r.Max.X = math.Max(r.Max.X, p.X)
	r.Max.Y = math.Max(r.Max.Y, p.Y)
	return r
}

func (r Rect) Union(o Rect) Rect {
	if o.Empty() {
		return r
	}
	return r.Extend(o.Min).Extend(o.Max)
}

func (r Rect) Width() float64 { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }
func (r Rect) Center() Point { return r.Min.Lerp(r.Max, 0.5) }

// Inflate grows the box by d on every side.
func (r Rect) Inflate(d float64) Rect {
	if r.Empty() {
		return r
	}
	r.Min = r.Min.Sub(Point{d, d})
	r.Max = r.Max.Add(Point{d, d})
	return r
}

func (r Rect) Contains(p Point) bool {
	return r.nonEmpty && p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Corners lists the corners clockwise from Min.
func (r Rect) Corners() [4]Point {
	return [4]Point{r.Min, {r.Max.X, r.Min.Y}, r.Max, {r.Min.X, r.Max.Y}}
}

// NewRect returns the box spanned by two opposite corners.
func NewRect(a, b Point) Rect {
	return RectFromPoints(a, b)
}
