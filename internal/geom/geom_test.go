package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentDistance(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)
	assert.InDelta(t, 5, SegmentDistance(Pt(5, 5), a, b), 1e-9)
	assert.InDelta(t, 5, SegmentDistance(Pt(-3, 4), a, b), 1e-9)
	assert.InDelta(t, 0, SegmentDistance(Pt(7, 0), a, b), 1e-9)
	assert.InDelta(t, 5, SegmentDistance(Pt(3, 4), a, a), 1e-9)
}

func TestSnapAngle(t *testing.T) {
	got := SnapAngle(Pt(0, 0), Pt(10, 1), math.Pi/12)
	assert.InDelta(t, math.Hypot(10, 1), got.X, 1e-9)
	assert.InDelta(t, 0, got.Y, 1e-9)

	got = SnapAngle(Pt(0, 0), Pt(10, 9), math.Pi/12)
	assert.InDelta(t, got.X, got.Y, 1e-9)
}

func TestSnapSize(t *testing.T) {
	assert.Equal(t, 20.0, SnapSize(17, 10))
	assert.Equal(t, -10.0, SnapSize(-2, 10))
	assert.Equal(t, 7.5, SnapSize(7.5, 0))
}

func TestPathContains(t *testing.T) {
	var p Path
	p.Polygon([]Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}, true)
	assert.True(t, p.Contains(Pt(5, 5), NonZero))
	assert.False(t, p.Contains(Pt(15, 5), NonZero))

	// same direction inner square: nonzero keeps the hole filled, even-odd does not
	p.Polygon([]Point{Pt(3, 3), Pt(7, 3), Pt(7, 7), Pt(3, 7)}, true)
	assert.True(t, p.Contains(Pt(5, 5), NonZero))
	assert.False(t, p.Contains(Pt(5, 5), EvenOdd))
	assert.True(t, p.Contains(Pt(1, 1), EvenOdd))
}

func TestEllipseBoundsAndDistance(t *testing.T) {
	var p Path
	p.Ellipse(Pt(50, 50), 10, 10)
	b := p.Bounds()
	assert.InDelta(t, 40, b.Min.X, 0.1)
	assert.InDelta(t, 60, b.Max.Y, 0.1)
	assert.InDelta(t, 0, p.Distance(Pt(60, 50)), 0.1)
	assert.InDelta(t, 10, p.Distance(Pt(50, 50)), 0.1)
	assert.True(t, p.Contains(Pt(52, 48), NonZero))
}

func TestFlattenImplicitStartAfterClose(t *testing.T) {
	var p Path
	p.MoveTo(Pt(0, 0))
	p.LineTo(Pt(5, 0))
	p.Close()
	p.LineTo(Pt(0, 5))
	pls := p.Flatten()
	if assert.Len(t, pls, 2) {
		assert.True(t, pls[0].Closed)
		assert.Equal(t, []Point{Pt(0, 0), Pt(0, 5)}, pls[1].Points)
	}
}

func TestRect(t *testing.T) {
	var r Rect
	assert.True(t, r.Empty())
	assert.False(t, r.Contains(Pt(0, 0)))
	r = NewRect(Pt(10, 2), Pt(0, 8))
	assert.Equal(t, Pt(0, 2), r.Min)
	assert.Equal(t, Pt(5, 5), r.Center())
	assert.True(t, r.Inflate(1).Contains(Pt(-1, 1)))
}
