package transform

import (
	"errors"
	"math"
	"testing"

	"DrawOnScreen/internal/geom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var square = geom.NewRect(geom.Pt(0, 0), geom.Pt(10, 10))

func applied(t *Transformation, p geom.Point) geom.Point {
	return Apply(t.Matrix(), p)
}

func assertPoint(t *testing.T, want, got geom.Point) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-9, "y")
}

func TestTranslation(t *testing.T) {
	tr := New(Translation, geom.Pt(10, 10), square, true)
	tr.Update(geom.Pt(25, 5))
	assertPoint(t, geom.Pt(15, -5), applied(tr, geom.Pt(0, 0)))
}

func TestRotationUsesFirstSignificantOffsetAsReference(t *testing.T) {
	tr := New(Rotation, geom.Pt(0, 0), square, true)
	tr.Update(geom.Pt(0.5, 0))
	assert.Zero(t, tr.Angle)

	tr.Update(geom.Pt(10, 0))
	assert.Zero(t, tr.Angle)

	tr.Update(geom.Pt(0, 10))
	assert.InDelta(t, math.Pi/2, tr.Angle, 1e-9)
	assertPoint(t, geom.Pt(0, 5), applied(tr, geom.Pt(5, 0)))
}

func TestScalePreserveAboutFrameCenter(t *testing.T) {
	tr := New(ScalePreserve, geom.Pt(10, 10), square, true)
	tr.Update(geom.Pt(15, 15))
	assert.InDelta(t, 2, tr.ScaleX, 1e-9)
	assert.Equal(t, tr.ScaleX, tr.ScaleY)
	assertPoint(t, geom.Pt(5, 5), applied(tr, geom.Pt(5, 5)))
	assertPoint(t, geom.Pt(15, 15), applied(tr, geom.Pt(10, 10)))
}

func TestStretchKeepsOppositeEdge(t *testing.T) {
	tr := New(Stretch, geom.Pt(10, 5), square, true)
	assert.Equal(t, geom.Pt(0, 0), tr.Center)

	tr.Update(geom.Pt(20, 5))
	assert.InDelta(t, 2, tr.ScaleX, 1e-9)
	assert.InDelta(t, 1, tr.ScaleY, 1e-9)
	assertPoint(t, geom.Pt(0, 10), applied(tr, geom.Pt(0, 10)))
	assertPoint(t, geom.Pt(20, 10), applied(tr, geom.Pt(10, 10)))
}

func TestReflection(t *testing.T) {
	tr := New(Reflection, geom.Pt(0, 0), square, true)
	tr.Update(geom.Pt(0.2, 0.2))
	assert.True(t, IsIdentity(tr.Matrix(), 1e-12))

	tr.Update(geom.Pt(10, 0))
	assertPoint(t, geom.Pt(3, -4), applied(tr, geom.Pt(3, 4)))

	tr.Update(geom.Pt(5, 5))
	assertPoint(t, geom.Pt(4, 3), applied(tr, geom.Pt(3, 4)))
}

func TestInversion(t *testing.T) {
	tr := New(Inversion, geom.Pt(5, 5), square, true)
	tr.Update(geom.Pt(40, 40))
	assertPoint(t, geom.Pt(10, 8), applied(tr, geom.Pt(0, 2)))
}

func TestSwitchedKeepsAnchorAndUndoable(t *testing.T) {
	tr := New(Translation, geom.Pt(10, 10), square, false)
	tr.Update(geom.Pt(20, 10))

	sw := tr.Switched()
	assert.Equal(t, Rotation, sw.Kind)
	assert.Equal(t, geom.Pt(10, 10), sw.Anchor)
	assert.False(t, sw.Undoable)
	assert.True(t, sw.Active)
	assert.Equal(t, geom.Pt(20, 10), sw.Last())

	back := sw.Switched()
	assert.Equal(t, Translation, back.Kind)
	assert.Equal(t, geom.Pt(10, 10), back.Anchor)
	assert.Equal(t, geom.Pt(10, 0), back.Offset)
}

func TestCompose(t *testing.T) {
	a := New(Translation, geom.Pt(0, 0), square, true)
	a.Update(geom.Pt(10, 0))
	b := New(Inversion, geom.Pt(10, 0), square, true)
	m := Compose([]*Transformation{a, b})
	assertPoint(t, geom.Pt(10, 0), Apply(m, geom.Pt(0, 0)))
	assertPoint(t, geom.Pt(9, -1), Apply(m, geom.Pt(1, 1)))
}

func TestKindNames(t *testing.T) {
	for k := Translation; k <= Inversion; k++ {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
		assert.Equal(t, k, k.Pair().Pair())
	}
	_, err := ParseKind("shear")
	assert.True(t, errors.Is(err, ErrUnknownKind))
}
