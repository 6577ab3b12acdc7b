package state

import (
	"testing"

	"DrawOnScreen/internal/geom"
	"DrawOnScreen/internal/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transformed(t *testing.T, el *Element, kind transform.Kind, from, to geom.Point) {
	t.Helper()
	el.StartTransformation(kind, from, true)
	el.UpdateTransformation(to)
	el.StopTransformation()
}

func TestUndoRedoSymmetry(t *testing.T) {
	s := NewStore()
	el := newElement(t, Rectangle, geom.Pt(0, 0), geom.Pt(10, 10))
	s.Append(el)

	transformed(t, el, transform.Translation, geom.Pt(5, 5), geom.Pt(25, 5))
	transformed(t, el, transform.Rotation, geom.Pt(0, 0), geom.Pt(0, 10))
	transformed(t, el, transform.ScalePreserve, geom.Pt(20, 0), geom.Pt(40, 0))
	before := el.Path()
	const n = 3

	for i := 0; i < n; i++ {
		require.True(t, s.Undo())
	}
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, n, el.UndoneTransformations())

	for i := 0; i < n; i++ {
		require.True(t, s.Redo())
	}
	assert.Equal(t, 1, s.Len())
	assert.Same(t, el, s.Top())
	assert.Equal(t, before, el.Path())
}

func TestWholeElementUndoBoundary(t *testing.T) {
	s := NewStore()
	a := newElement(t, Rectangle, geom.Pt(0, 0), geom.Pt(10, 10))
	b := newElement(t, Ellipse, geom.Pt(0, 0), geom.Pt(10, 10))
	s.Append(a)
	s.Append(b)
	transformed(t, b, transform.Translation, geom.Pt(0, 0), geom.Pt(5, 0))

	require.True(t, s.Undo())
	assert.Equal(t, 2, s.Len())
	require.True(t, s.Undo())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.UndoneLen())
	assert.Same(t, a, s.Top())

	require.True(t, s.Redo())
	assert.Same(t, b, s.Top())
	require.True(t, s.Redo())
	assert.Equal(t, 0, b.UndoneTransformations())
	assert.False(t, s.Redo())
}

func TestUndoResetsNewTop(t *testing.T) {
	s := NewStore()
	a := newElement(t, Rectangle, geom.Pt(0, 0), geom.Pt(10, 10))
	s.Append(a)
	transformed(t, a, transform.Translation, geom.Pt(0, 0), geom.Pt(5, 0))
	require.True(t, s.Undo())
	assert.Equal(t, 1, a.UndoneTransformations())

	b := newElement(t, Rectangle, geom.Pt(0, 0), geom.Pt(10, 10))
	s.Append(b)
	assert.Equal(t, 0, a.UndoneTransformations())

	require.True(t, s.Undo())
	assert.Same(t, a, s.Top())
	require.True(t, s.Redo())
	assert.Same(t, b, s.Top())
}

func TestDuplicateTransformationFallsThroughToElement(t *testing.T) {
	s := NewStore()
	a := newElement(t, Rectangle, geom.Pt(0, 0), geom.Pt(10, 10))
	s.Append(a)
	dup := a.Clone()
	s.Append(dup)
	dup.StartTransformation(transform.Translation, geom.Pt(0, 0), false)
	dup.UpdateTransformation(geom.Pt(30, 0))
	dup.StopTransformation()

	require.True(t, s.Undo())
	assert.Equal(t, 1, s.Len())
	assert.Same(t, a, s.Top())
}

func TestEraseLastAndAll(t *testing.T) {
	s := NewStore()
	a := newElement(t, Rectangle, geom.Pt(0, 0), geom.Pt(10, 10))
	b := newElement(t, Rectangle, geom.Pt(0, 0), geom.Pt(10, 10))
	s.Append(a)
	transformed(t, a, transform.Translation, geom.Pt(0, 0), geom.Pt(5, 0))
	require.True(t, s.Undo())
	s.Append(b)

	assert.Same(t, b, s.EraseLast())
	assert.Equal(t, 0, s.UndoneLen())
	assert.False(t, s.Redo())

	s.Append(b)
	require.True(t, s.Undo())
	s.EraseAll()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.UndoneLen())
	assert.Nil(t, s.EraseLast())
	assert.False(t, s.Undo())
}

func TestHitTestPrefersHighestZOrder(t *testing.T) {
	s := NewStore()
	a := newElement(t, Rectangle, geom.Pt(0, 0), geom.Pt(100, 100))
	b := newElement(t, Rectangle, geom.Pt(50, 50), geom.Pt(150, 150))
	a.Fill, b.Fill = true, true
	s.Append(a)
	s.Append(b)

	assert.Same(t, b, s.HitTest(geom.Pt(75, 75), 1))
	assert.Same(t, a, s.HitTest(geom.Pt(25, 25), 1))
	assert.Nil(t, s.HitTest(geom.Pt(400, 400), 1))
}

func TestSmoothLast(t *testing.T) {
	s := NewStore()
	s.Append(newElement(t, Rectangle, geom.Pt(0, 0), geom.Pt(10, 10)))
	assert.False(t, s.SmoothLast(DefaultSmooth))
	s.Append(newElement(t, Freehand, geom.Pt(0, 0), geom.Pt(1, 4), geom.Pt(2, 0)))
	assert.True(t, s.SmoothLast(DefaultSmooth))
}

func TestArea(t *testing.T) {
	full := Area{Width: 800, Height: 600}
	assert.True(t, full.Contains(geom.Pt(790, 10)))

	sq := Area{Width: 800, Height: 600, Square: true}
	r := sq.Active()
	assert.Equal(t, 512.0, r.Width())
	assert.Equal(t, r.Width(), r.Height())
	assert.Equal(t, geom.Pt(400, 300), r.Center())
	assert.False(t, sq.Contains(geom.Pt(10, 10)))

	fixed := Area{Width: 800, Height: 600, Square: true, SquareSize: 1000}
	assert.Equal(t, 600.0, fixed.Active().Width())

	assert.True(t, Area{}.Contains(geom.Pt(-5, -5)))
}
