package controller

import (
	"testing"
	"time"

	"DrawOnScreen/internal/config"
	"DrawOnScreen/internal/geom"
	"DrawOnScreen/internal/state"
	"DrawOnScreen/internal/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	redisplays int
	previews   int
}

func (r *recordingRenderer) Redisplay() { r.redisplays++ }
func (r *recordingRenderer) Preview()   { r.previews++ }

type recordingNotifier struct {
	notices []Notice
	cursors []Cursor
	menus   []geom.Point
	leaves  int
}

func (n *recordingNotifier) OSD(no Notice)                { n.notices = append(n.notices, no) }
func (n *recordingNotifier) MenuRequested(at geom.Point) { n.menus = append(n.menus, at) }
func (n *recordingNotifier) CursorChanged(c Cursor)       { n.cursors = append(n.cursors, c) }
func (n *recordingNotifier) LeaveRequested()              { n.leaves++ }

func (n *recordingNotifier) lastText() string {
	if len(n.notices) == 0 {
		return ""
	}
	return n.notices[len(n.notices)-1].Text
}

type harness struct {
	*Controller
	clock    *ManualClock
	renderer *recordingRenderer
	notifier *recordingNotifier
	pointer  geom.Point
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clock:    NewManualClock(),
		renderer: &recordingRenderer{},
		notifier: &recordingNotifier{},
	}
	h.Controller = New(Options{
		Renderer: h.renderer,
		Notifier: h.notifier,
		Clock:    h.clock,
		Config:   config.DefaultSnapshot(),
		Pointer:  func() (geom.Point, bool) { return h.pointer, true },
	})
	h.Resize(800, 600)
	return h
}

func (h *harness) drag(mods Modifiers, pts ...geom.Point) {
	h.Press(pts[0], ButtonPrimary, mods)
	for _, p := range pts[1:] {
		h.Motion(p, mods)
	}
	h.Release(pts[len(pts)-1], ButtonPrimary, mods)
}

func filledRect(t *testing.T, min, max geom.Point) *state.Element {
	t.Helper()
	el, err := state.NewElement(state.Attrs{
		Shape:  state.Rectangle,
		Color:  state.MustColor("red"),
		Line:   state.Line{Width: 2},
		Fill:   true,
		Points: []geom.Point{min, max},
	})
	require.NoError(t, err)
	return el
}

func TestFreehandGesture(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, CursorPointingHand, h.notifier.cursors[0])

	h.Press(geom.Pt(10, 10), ButtonPrimary, 0)
	require.Equal(t, Drawing, h.State())
	h.Motion(geom.Pt(20, 10), 0)
	assert.Equal(t, 1, h.renderer.previews)
	require.Len(t, h.Current().Points, 2)

	before := *h.renderer
	h.pointer = geom.Pt(30, 10)
	h.clock.Advance(10 * time.Millisecond)
	assert.Len(t, h.Current().Points, 3, "sampler adds the pointer position")
	assert.Equal(t, before, *h.renderer, "sampling never renders")

	h.Motion(geom.Pt(40, 10), 0)
	h.pointer = geom.Pt(50, 10)
	h.Release(geom.Pt(40, 10), ButtonPrimary, 0)
	h.clock.Advance(10 * time.Millisecond)

	assert.Equal(t, Idle, h.State())
	require.Equal(t, 1, h.Store().Len())
	assert.Len(t, h.Store().Top().Points, 4)
	assert.Zero(t, h.clock.Pending())
}

func TestEraserAndStyleFromSettings(t *testing.T) {
	h := newHarness(t)
	h.SelectTool(ToolRectangle)
	h.SwitchFill()
	h.SwitchDash()
	h.SwitchFillRule()
	h.drag(ModShift, geom.Pt(10, 10), geom.Pt(50, 50))

	el := h.Store().Top()
	require.NotNil(t, el)
	assert.True(t, el.Eraser)
	assert.True(t, el.Fill)
	assert.Equal(t, geom.EvenOdd, el.FillRule)
	assert.True(t, el.Dash.Active)
	assert.Equal(t, [2]float64{5, 15}, el.Dash.Array)
	assert.Equal(t, state.Line{Width: 5, Join: state.JoinRound, Cap: state.CapRound}, el.Line)
}

func TestPolygonNeedsThreeVertices(t *testing.T) {
	h := newHarness(t)
	h.SelectTool(ToolPolygon)

	h.Press(geom.Pt(0, 0), ButtonPrimary, 0)
	assert.Equal(t, "Press Return to mark vertices", h.notifier.lastText())
	h.Motion(geom.Pt(10, 0), 0)
	assert.True(t, h.KeyPress(KeyReturn, 0))
	h.Release(geom.Pt(10, 0), ButtonPrimary, 0)
	assert.Equal(t, 0, h.Store().Len())

	h.Press(geom.Pt(0, 0), ButtonPrimary, 0)
	h.Motion(geom.Pt(10, 0), 0)
	h.KeyPress(KeyKPEnter, 0)
	h.Motion(geom.Pt(10, 10), 0)
	h.Release(geom.Pt(10, 10), ButtonPrimary, 0)
	require.Equal(t, 1, h.Store().Len())
	assert.Len(t, h.Store().Top().Points, 3)
}

func TestLineControlPoints(t *testing.T) {
	h := newHarness(t)
	h.SelectTool(ToolLine)
	h.Press(geom.Pt(0, 0), ButtonPrimary, 0)
	h.Motion(geom.Pt(50, 0), 0)
	assert.True(t, h.KeyPress(KeyControl, ModControl))
	assert.Contains(t, h.notifier.lastText(), "fourth control point")
	h.Motion(geom.Pt(50, 50), 0)
	h.Release(geom.Pt(50, 50), ButtonPrimary, 0)

	require.Equal(t, 1, h.Store().Len())
	el := h.Store().Top()
	assert.Equal(t, []geom.Point{geom.Pt(0, 0), geom.Pt(50, 0), geom.Pt(50, 50)}, el.Points)
	assert.False(t, el.IsStraightLine())
}

func TestPressOutsideAreaIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.ToggleSquareArea()
	h.Press(geom.Pt(5, 5), ButtonPrimary, 0)
	assert.Equal(t, Idle, h.State())
	assert.Nil(t, h.Current())

	h.Press(geom.Pt(400, 300), ButtonPrimary, 0)
	assert.Equal(t, Drawing, h.State())
}

func TestSpaceSuspendsMotion(t *testing.T) {
	h := newHarness(t)
	h.Press(geom.Pt(10, 10), ButtonPrimary, 0)
	h.KeyPress(KeySpace, 0)
	h.Motion(geom.Pt(20, 20), 0)
	assert.Len(t, h.Current().Points, 1)
	h.KeyRelease(KeySpace, 0)
	h.Motion(geom.Pt(20, 20), 0)
	assert.Len(t, h.Current().Points, 2)
}

func TestGrabPrefersHighestZOrder(t *testing.T) {
	h := newHarness(t)
	a := filledRect(t, geom.Pt(0, 0), geom.Pt(100, 100))
	b := filledRect(t, geom.Pt(50, 50), geom.Pt(150, 150))
	h.Store().Append(a)
	h.Store().Append(b)

	h.SelectTool(ToolMove)
	assert.Equal(t, Grabbing, h.State())
	h.Motion(geom.Pt(75, 75), 0)
	assert.Nil(t, h.Grabbed(), "hit-test waits for the grab timer")

	redisplays := h.renderer.redisplays
	h.clock.Advance(80 * time.Millisecond)
	assert.Same(t, b, h.Grabbed())
	assert.Equal(t, redisplays+1, h.renderer.redisplays)
	assert.Equal(t, CursorMoveOrResize, h.notifier.cursors[len(h.notifier.cursors)-1])
	assert.Same(t, b, h.Scene().Grabbed)

	h.Motion(geom.Pt(25, 25), 0)
	h.clock.Advance(80 * time.Millisecond)
	assert.Same(t, a, h.Grabbed())

	h.Motion(geom.Pt(500, 500), 0)
	h.clock.Advance(80 * time.Millisecond)
	assert.Nil(t, h.Grabbed())
}

func grab(t *testing.T, h *harness, tool Tool, at geom.Point) *state.Element {
	t.Helper()
	el := filledRect(t, geom.Pt(0, 0), geom.Pt(40, 40))
	h.Store().Append(el)
	h.SelectTool(tool)
	h.Motion(at, 0)
	h.clock.Advance(time.Second)
	require.Same(t, el, h.Grabbed())
	return el
}

func TestLiveSwitchContinuity(t *testing.T) {
	h := newHarness(t)
	el := grab(t, h, ToolMove, geom.Pt(10, 10))

	h.Press(geom.Pt(10, 10), ButtonPrimary, 0)
	require.Equal(t, Transforming, h.State())
	h.Motion(geom.Pt(20, 10), 0)
	assert.Equal(t, transform.Translation, el.LastTransformation().Kind)

	h.KeyPress(KeyControl, ModControl)
	tr := el.LastTransformation()
	assert.Equal(t, transform.Rotation, tr.Kind)
	assert.Equal(t, geom.Pt(10, 10), tr.Anchor)
	assert.Len(t, el.ActiveTransformations(), 1)

	h.KeyRelease(KeyControl, 0)
	tr = el.LastTransformation()
	assert.Equal(t, transform.Translation, tr.Kind)
	assert.Equal(t, geom.Pt(10, 10), tr.Anchor)
	assert.Len(t, el.ActiveTransformations(), 1)

	h.Motion(geom.Pt(30, 10), ModControl)
	assert.Equal(t, transform.Rotation, el.LastTransformation().Kind, "motion modifiers switch too")
	h.Motion(geom.Pt(30, 10), 0)

	h.Release(geom.Pt(30, 10), ButtonPrimary, 0)
	assert.Equal(t, Grabbing, h.State())
	assert.Nil(t, h.Grabbed())
	assert.False(t, el.LastTransformation().Active)
	assert.Equal(t, geom.Pt(20, 0), geom.Pt(el.Matrix().X0, el.Matrix().Y0))

	require.True(t, h.Undo())
	assert.Equal(t, 1, h.Store().Len())
	assert.Equal(t, 1, el.UndoneTransformations())
}

func TestResizeStartsStretchWithControl(t *testing.T) {
	h := newHarness(t)
	el := grab(t, h, ToolResize, geom.Pt(38, 38))
	h.Press(geom.Pt(38, 38), ButtonPrimary, ModControl)
	assert.Equal(t, transform.Stretch, el.LastTransformation().Kind)
	h.Motion(geom.Pt(78, 38), ModControl)
	h.Release(geom.Pt(78, 38), ButtonPrimary, ModControl)
	assert.InDelta(t, 80, el.Bounds().Width(), 3)
}

func TestDuplicateIsTheUndoableUnit(t *testing.T) {
	h := newHarness(t)
	orig := grab(t, h, ToolMove, geom.Pt(10, 10))

	h.Press(geom.Pt(10, 10), ButtonPrimary, ModShift)
	h.Motion(geom.Pt(60, 10), ModShift)
	h.Release(geom.Pt(60, 10), ButtonPrimary, ModShift)

	require.Equal(t, 2, h.Store().Len())
	dup := h.Store().Top()
	assert.NotSame(t, orig, dup)
	assert.Same(t, orig.Color, dup.Color)
	assert.False(t, dup.LastTransformation().Undoable)
	assert.Empty(t, orig.ActiveTransformations())

	require.True(t, h.Undo())
	assert.Equal(t, 1, h.Store().Len())
	assert.Same(t, orig, h.Store().Top())
}

func TestMirrorTwoPhaseGesture(t *testing.T) {
	h := newHarness(t)
	el := grab(t, h, ToolMirror, geom.Pt(20, 20))

	h.Press(geom.Pt(20, 0), ButtonPrimary, 0)
	h.Release(geom.Pt(20, 0), ButtonPrimary, 0)
	assert.True(t, h.Locked())
	assert.Equal(t, Grabbing, h.State())
	assert.Empty(t, el.ActiveTransformations())
	assert.Equal(t, "Draw a line of symmetry", h.notifier.lastText())
	assert.Equal(t, CursorCrosshair, h.notifier.cursors[len(h.notifier.cursors)-1])

	h.Motion(geom.Pt(500, 500), 0)
	h.clock.Advance(time.Second)
	assert.Same(t, el, h.Grabbed(), "the grab is frozen while locked")

	h.Press(geom.Pt(20, 40), ButtonPrimary, 0)
	require.Equal(t, Transforming, h.State())
	tr := el.LastTransformation()
	assert.Equal(t, transform.Reflection, tr.Kind)
	assert.Equal(t, geom.Pt(20, 0), tr.Anchor)
	h.Motion(geom.Pt(20, 60), 0)
	h.Release(geom.Pt(20, 60), ButtonPrimary, 0)

	assert.Len(t, el.ActiveTransformations(), 1)
	assert.False(t, h.Locked())
	assert.Nil(t, h.Grabbed())
	b := el.Bounds()
	assert.InDelta(t, 0, b.Min.X, 1e-6)
	assert.InDelta(t, 40, b.Max.X, 1e-6)
}

func TestMirrorInversionWithControl(t *testing.T) {
	h := newHarness(t)
	el := grab(t, h, ToolMirror, geom.Pt(20, 20))
	h.Press(geom.Pt(40, 40), ButtonPrimary, ModControl)
	assert.Equal(t, "Mark a point of symmetry", h.notifier.lastText())
	h.Press(geom.Pt(40, 40), ButtonPrimary, ModControl)
	assert.Equal(t, transform.Inversion, el.LastTransformation().Kind)
	h.Release(geom.Pt(40, 40), ButtonPrimary, ModControl)
	b := el.Bounds()
	assert.InDelta(t, 40, b.Min.X, 1e-6)
	assert.InDelta(t, 80, b.Max.Y, 1e-6)
}

func TestWriting(t *testing.T) {
	h := newHarness(t)
	h.SelectTool(ToolText)
	h.drag(0, geom.Pt(10, 10), geom.Pt(60, 40))
	require.Equal(t, Writing, h.State())
	assert.Equal(t, CursorIBeam, h.notifier.cursors[len(h.notifier.cursors)-1])
	assert.Equal(t, 0, h.Store().Len())
	assert.True(t, h.Scene().CaretVisible)

	for _, r := range "Hi" {
		h.TypeRune(r)
	}
	h.KeyPress(KeyReturn, 0)
	h.TypeRune('x')
	h.KeyPress(KeyLeft, 0)
	h.KeyPress(KeyBackspace, 0)
	assert.Equal(t, "Hix", h.Current().Text.Content)
	h.KeyPress(KeyHome, 0)
	h.TypeRune('>')
	assert.Equal(t, ">Hix", h.Current().Text.Content)
	h.KeyPress(KeyEnd, 0)
	h.KeyPress(KeyDelete, 0)
	assert.Equal(t, 4, h.Current().Text.Cursor)

	redisplays := h.renderer.redisplays
	h.clock.Advance(600 * time.Millisecond)
	assert.False(t, h.Scene().CaretVisible)
	assert.Equal(t, redisplays+1, h.renderer.redisplays)

	h.Press(geom.Pt(300, 300), ButtonPrimary, 0)
	require.Equal(t, 1, h.Store().Len())
	assert.Equal(t, ">Hix", h.Store().Top().Text.Content)
	assert.Equal(t, Drawing, h.State(), "the press also starts the next text box")
}

func TestEscapeDiscardsText(t *testing.T) {
	h := newHarness(t)
	h.SelectTool(ToolText)
	h.drag(0, geom.Pt(10, 10), geom.Pt(60, 40))
	h.TypeRune('a')
	h.KeyPress(KeyEscape, 0)
	assert.Equal(t, Idle, h.State())
	assert.Equal(t, 0, h.Store().Len())
	assert.Zero(t, h.notifier.leaves)

	h.Press(geom.Pt(10, 10), ButtonPrimary, 0)
	h.Motion(geom.Pt(60, 40), 0)
	h.KeyPress(KeyEscape, 0)
	assert.Nil(t, h.Current())
	assert.Zero(t, h.notifier.leaves)

	h.KeyPress(KeyEscape, 0)
	assert.Equal(t, 1, h.notifier.leaves)
}

func TestForceStop(t *testing.T) {
	h := newHarness(t)
	el := grab(t, h, ToolMove, geom.Pt(10, 10))
	h.Press(geom.Pt(10, 10), ButtonPrimary, 0)
	h.Motion(geom.Pt(15, 10), 0)
	h.ForceStop()
	assert.Equal(t, Grabbing, h.State())
	assert.Nil(t, h.Grabbed())
	assert.False(t, el.LastTransformation().Active)

	h.SelectTool(ToolFreehand)
	h.Press(geom.Pt(10, 10), ButtonPrimary, 0)
	h.Motion(geom.Pt(30, 10), 0)
	h.ForceStop()
	assert.Equal(t, Idle, h.State())
	assert.Equal(t, 2, h.Store().Len())
	assert.Zero(t, h.clock.Pending())
}

func TestSecondaryButtonOpensMenu(t *testing.T) {
	h := newHarness(t)
	h.Press(geom.Pt(10, 10), ButtonPrimary, 0)
	h.Motion(geom.Pt(30, 10), 0)
	h.Press(geom.Pt(30, 10), ButtonSecondary, 0)
	assert.Equal(t, []geom.Point{geom.Pt(30, 10)}, h.notifier.menus)
	assert.Equal(t, Idle, h.State())
	assert.Equal(t, 1, h.Store().Len())

	h.Press(geom.Pt(30, 10), ButtonMiddle, 0)
	assert.Equal(t, "Fill", h.notifier.lastText())
}

func TestUndoIgnoredDuringGesture(t *testing.T) {
	h := newHarness(t)
	h.drag(0, geom.Pt(0, 0), geom.Pt(10, 0))
	h.Press(geom.Pt(10, 10), ButtonPrimary, 0)
	assert.False(t, h.Undo())
	assert.False(t, h.Redo())
	h.Release(geom.Pt(10, 10), ButtonPrimary, 0)

	assert.True(t, h.Undo())
	assert.True(t, h.Redo())
	assert.Equal(t, 1, h.Store().Len())

	h.EraseLast()
	assert.Equal(t, 0, h.Store().Len())
	assert.False(t, h.Redo())
}

func TestEraseClearsGrab(t *testing.T) {
	h := newHarness(t)
	grab(t, h, ToolMove, geom.Pt(10, 10))
	h.EraseAll()
	assert.Nil(t, h.Grabbed())
	assert.Equal(t, 0, h.Store().Len())
}

func TestScrollChangesLineWidth(t *testing.T) {
	h := newHarness(t)
	h.Scroll(1)
	assert.Equal(t, 6.0, h.LineWidth())
	assert.Equal(t, Notice{Text: "6 px", Level: 12}, h.notifier.notices[len(h.notifier.notices)-1])
	for i := 0; i < 10; i++ {
		h.Scroll(-1)
	}
	assert.Equal(t, 0.0, h.LineWidth())
}

func TestPaletteAndColor(t *testing.T) {
	h := newHarness(t)
	h.Press(geom.Pt(10, 10), ButtonPrimary, 0)
	h.SelectColor(1)
	assert.Same(t, h.Colors()[1], h.Current().Color)
	assert.Equal(t, "Cyan", h.notifier.lastText())
	h.Release(geom.Pt(10, 10), ButtonPrimary, 0)

	h.SwitchPalette(false)
	assert.Equal(t, "GNOME HIG lighter", h.PaletteName())
	h.SwitchPalette(true)
	h.SwitchPalette(true)
	assert.Equal(t, "GNOME HIG darker", h.PaletteName())
	h.SelectColor(99)
	assert.Equal(t, "GNOME HIG darker", h.notifier.lastText())
}

func TestFontSwitchesFollowWriting(t *testing.T) {
	h := newHarness(t)
	h.SelectTool(ToolText)
	h.drag(0, geom.Pt(10, 10), geom.Pt(60, 40))
	h.SwitchFontWeight()
	h.SwitchFontStyle()
	h.SwitchFontFamily(false)
	h.SwitchTextAlignment()

	text := h.Current().Text
	assert.Equal(t, state.WeightMedium, text.Font.Weight)
	assert.Equal(t, state.StyleItalic, text.Font.Style)
	assert.Equal(t, "Sans-Serif", text.Font.Family)
	assert.Equal(t, state.AlignCenter, text.Align)
}

func TestImageToolNeedsImages(t *testing.T) {
	h := newHarness(t)
	h.SelectTool(ToolImage)
	h.Press(geom.Pt(10, 10), ButtonPrimary, 0)
	assert.Equal(t, Idle, h.State())
	assert.Equal(t, "No image", h.notifier.lastText())

	snap := config.DefaultSnapshot()
	snap.Images = []string{"/pictures/a.png", "/pictures/b.png"}
	h.UpdateConfig(snap)
	h.SwitchImageFile(false)
	h.SwitchImageFile(false)
	assert.Equal(t, "b.png", h.notifier.lastText())
	h.drag(ModShift, geom.Pt(10, 10), geom.Pt(50, 30))
	require.Equal(t, 1, h.Store().Len())
	img := h.Store().Top().Image
	assert.True(t, img.Tinted)
	assert.Equal(t, "/pictures/b.png", img.Ref.Path)
}

func TestSceneOverlays(t *testing.T) {
	h := newHarness(t)
	sc := h.Scene()
	assert.Nil(t, sc.Background)
	assert.False(t, sc.Grid.Enabled)

	h.ToggleBackground()
	h.ToggleGrid()
	sc = h.Scene()
	require.NotNil(t, sc.Background)
	assert.True(t, sc.Grid.Enabled)
	assert.Greater(t, sc.Grid.Spacing, 0.0)
}

func TestSmoothLast(t *testing.T) {
	h := newHarness(t)
	h.drag(0, geom.Pt(0, 0), geom.Pt(10, 10), geom.Pt(20, 0))
	assert.True(t, h.SmoothLast())
}

func TestManualClockDropsStaleCallbacks(t *testing.T) {
	clock := NewManualClock()
	var slot timerSlot
	fired := 0
	slot.schedule(clock, time.Millisecond, func() { fired++ })
	slot.schedule(clock, 2*time.Millisecond, func() { fired += 10 })
	clock.Advance(5 * time.Millisecond)
	assert.Equal(t, 10, fired)
	assert.False(t, slot.armed())
}

func TestPressWhileDrawingCommitsFirst(t *testing.T) {
	h := newHarness(t)
	h.SelectTool(ToolRectangle)

	h.Press(geom.Pt(10, 10), ButtonPrimary, 0)
	h.Motion(geom.Pt(50, 40), 0)
	first := h.Current()
	require.NotNil(t, first)

	// no release for the first gesture
	h.Press(geom.Pt(100, 100), ButtonPrimary, 0)
	require.Equal(t, Drawing, h.State())
	assert.NotSame(t, first, h.Current())
	require.Equal(t, 1, h.Store().Len())
	assert.Same(t, first, h.Store().Top())

	h.Motion(geom.Pt(120, 130), 0)
	h.Release(geom.Pt(120, 130), ButtonPrimary, 0)
	assert.Equal(t, 2, h.Store().Len())
}

func TestNamesOutOfRange(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{Idle.String(), "idle"},
		{State(42).String(), "State(42)"},
		{ToolMirror.String(), "Mirror"},
		{Tool(-1).String(), "Tool(-1)"},
		{CursorIBeam.String(), "ibeam"},
		{Cursor(9).String(), "Cursor(9)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.got)
	}
}
