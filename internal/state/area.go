package state

import (
	"math"

	"DrawOnScreen/internal/geom"
)

// Area is the part of the surface that accepts new drawings: the whole
// surface, or a centred square when the square area is enabled.
type Area struct {
	Width  float64
	Height float64
	Square bool
	// SquareSize is the side of the square area. Zero picks the largest
	// power of two below the short side, at least 64.
	SquareSize float64
}

// Active returns the rectangle presses must land in.
func (a Area) Active() geom.Rect {
	if !a.Square {
		return geom.NewRect(geom.Pt(0, 0), geom.Pt(a.Width, a.Height))
	}
	short := math.Min(a.Width, a.Height)
	side := a.SquareSize
	if side <= 0 {
		side = 64
		for side*2 < short {
			side *= 2
		}
	}
	side = math.Min(side, short)
	x := (a.Width - side) / 2
	y := (a.Height - side) / 2
	return geom.NewRect(geom.Pt(x, y), geom.Pt(x+side, y+side))
}

// Contains reports whether p is inside the active rectangle. An area with
// no size accepts every point.
func (a Area) Contains(p geom.Point) bool {
	if a.Width <= 0 || a.Height <= 0 {
		return true
	}
	return a.Active().Contains(p)
}
