package ui

import (
	"image"
	"math"
	"sync"

	"DrawOnScreen/internal/controller"
	"DrawOnScreen/internal/geom"
	"DrawOnScreen/internal/render"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// Board is the drawing surface. It forwards fyne input to the controller
// and paints the controller's scene on a raster.
type Board struct {
	widget.BaseWidget

	ctrl    *controller.Controller
	painter *render.Painter
	raster  *canvas.Raster

	mu     sync.Mutex
	scene  render.Scene
	full   bool
	cursor desktop.Cursor
	mods   controller.Modifiers
	// sticky is added to every pointer event, the eraser switch holds
	// shift this way.
	sticky controller.Modifiers

	// OnMenu is called with the absolute position of a menu request.
	OnMenu func(at fyne.Position)
	// OnNotice shows an on-screen message.
	OnNotice func(n controller.Notice)
	// OnLeave is called when the user asks to leave drawing.
	OnLeave func()
}

var _ fyne.Widget = (*Board)(nil)
var _ fyne.Draggable = (*Board)(nil)
var _ fyne.Scrollable = (*Board)(nil)
var _ desktop.Mouseable = (*Board)(nil)
var _ desktop.Hoverable = (*Board)(nil)
var _ desktop.Keyable = (*Board)(nil)
var _ desktop.Cursorable = (*Board)(nil)
var _ controller.Renderer = (*Board)(nil)
var _ controller.Notifier = (*Board)(nil)

func NewBoard() *Board {
	b := &Board{
		painter: render.NewPainter(render.DefaultFonts),
		cursor:  desktop.DefaultCursor,
		full:    true,
	}
	b.raster = canvas.NewRaster(b.draw)
	b.ExtendBaseWidget(b)
	return b
}

// Attach connects the board to the controller driving it.
func (b *Board) Attach(c *controller.Controller) {
	b.ctrl = c
	b.Redisplay()
}

func (b *Board) Controller() *controller.Controller { return b.ctrl }

// SetEraser makes new shapes erase, as holding shift does.
func (b *Board) SetEraser(on bool) {
	if on {
		b.sticky |= controller.ModShift
	} else {
		b.sticky &^= controller.ModShift
	}
}

// draw runs on the render loop. It paints at the widget size and lets the
// raster scale to the output pixels.
func (b *Board) draw(_, _ int) image.Image {
	size := b.Size()
	w, h := int(math.Ceil(float64(size.Width))), int(math.Ceil(float64(size.Height)))
	b.mu.Lock()
	sc, full := b.scene, b.full
	b.full = false
	b.mu.Unlock()
	return b.painter.Paint(sc, w, h, full)
}

func (b *Board) update(full bool) {
	if b.ctrl == nil {
		return
	}
	sc := b.ctrl.Scene()
	b.mu.Lock()
	b.scene = sc
	b.full = b.full || full
	b.mu.Unlock()
	b.raster.Refresh()
}

func (b *Board) Redisplay() { b.update(true) }
func (b *Board) Preview()   { b.update(false) }

func (b *Board) OSD(n controller.Notice) {
	if b.OnNotice != nil {
		b.OnNotice(n)
	}
}

func (b *Board) MenuRequested(at geom.Point) {
	if b.OnMenu == nil {
		return
	}
	abs := fyne.CurrentApp().Driver().AbsolutePositionForObject(b)
	b.OnMenu(abs.Add(fyne.NewPos(float32(at.X), float32(at.Y))))
}

func (b *Board) CursorChanged(c controller.Cursor) {
	var cur desktop.Cursor
	switch c {
	case controller.CursorCrosshair:
		cur = desktop.CrosshairCursor
	case controller.CursorPointingHand, controller.CursorMoveOrResize:
		cur = desktop.PointerCursor
	case controller.CursorIBeam:
		cur = desktop.TextCursor
	default:
		cur = desktop.DefaultCursor
	}
	b.mu.Lock()
	b.cursor = cur
	b.mu.Unlock()
}

func (b *Board) LeaveRequested() {
	if b.OnLeave != nil {
		b.OnLeave()
	}
}

func (b *Board) Cursor() desktop.Cursor {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor
}

func (b *Board) Resize(size fyne.Size) {
	b.BaseWidget.Resize(size)
	if b.ctrl != nil {
		b.ctrl.Resize(float64(size.Width), float64(size.Height))
	}
}

func point(p fyne.Position) geom.Point {
	return geom.Pt(float64(p.X), float64(p.Y))
}

func modifiers(m fyne.KeyModifier) controller.Modifiers {
	var out controller.Modifiers
	if m&fyne.KeyModifierShift != 0 {
		out |= controller.ModShift
	}
	if m&fyne.KeyModifierControl != 0 {
		out |= controller.ModControl
	}
	return out
}

func button(b desktop.MouseButton) (controller.Button, bool) {
	switch {
	case b&desktop.MouseButtonPrimary != 0:
		return controller.ButtonPrimary, true
	case b&desktop.MouseButtonSecondary != 0:
		return controller.ButtonSecondary, true
	case b&desktop.MouseButtonTertiary != 0:
		return controller.ButtonMiddle, true
	}
	return 0, false
}

func (b *Board) MouseDown(e *desktop.MouseEvent) {
	if c := fyne.CurrentApp().Driver().CanvasForObject(b); c != nil {
		c.Focus(b)
	}
	btn, ok := button(e.Button)
	if !ok || b.ctrl == nil {
		return
	}
	b.mods = modifiers(e.Modifier)
	b.ctrl.Press(point(e.Position), btn, b.mods|b.sticky)
}

func (b *Board) MouseUp(e *desktop.MouseEvent) {
	btn, ok := button(e.Button)
	if !ok || b.ctrl == nil {
		return
	}
	b.mods = modifiers(e.Modifier)
	b.ctrl.Release(point(e.Position), btn, b.mods|b.sticky)
}

func (b *Board) MouseIn(e *desktop.MouseEvent) { b.MouseMoved(e) }
func (b *Board) MouseOut()                     {}

func (b *Board) MouseMoved(e *desktop.MouseEvent) {
	if b.ctrl == nil {
		return
	}
	b.mods = modifiers(e.Modifier)
	b.ctrl.Motion(point(e.Position), b.mods|b.sticky)
}

// Dragged carries motion while a button is held. Drag events have no
// modifier state, the last known one is used.
func (b *Board) Dragged(e *fyne.DragEvent) {
	if b.ctrl == nil {
		return
	}
	b.ctrl.Motion(point(e.Position), b.mods|b.sticky)
}

func (b *Board) DragEnd() {}

func (b *Board) Scrolled(e *fyne.ScrollEvent) {
	if b.ctrl == nil {
		return
	}
	b.ctrl.Scroll(float64(e.Scrolled.DY))
}

func (b *Board) FocusGained() {}

// FocusLost drops the modifier state, the key releases will not arrive.
func (b *Board) FocusLost() {
	b.mods = 0
}

func (b *Board) TypedRune(r rune) {
	if b.ctrl != nil {
		b.ctrl.TypeRune(r)
	}
}

var typedKeys = map[fyne.KeyName]controller.Key{
	fyne.KeyReturn:    controller.KeyReturn,
	fyne.KeyEnter:     controller.KeyKPEnter,
	fyne.KeyEscape:    controller.KeyEscape,
	fyne.KeyBackspace: controller.KeyBackspace,
	fyne.KeyDelete:    controller.KeyDelete,
	fyne.KeyLeft:      controller.KeyLeft,
	fyne.KeyRight:     controller.KeyRight,
	fyne.KeyHome:      controller.KeyHome,
	fyne.KeyEnd:       controller.KeyEnd,
}

// TypedKey handles the keys that repeat while held.
func (b *Board) TypedKey(e *fyne.KeyEvent) {
	k, ok := typedKeys[e.Name]
	if !ok || b.ctrl == nil {
		return
	}
	b.ctrl.KeyPress(k, b.mods)
}

// KeyDown tracks modifiers and the space key, which act on press and
// release.
func (b *Board) KeyDown(e *fyne.KeyEvent) {
	if b.ctrl == nil {
		return
	}
	switch e.Name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		b.mods |= controller.ModShift
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		b.mods |= controller.ModControl
		b.ctrl.KeyPress(controller.KeyControl, b.mods)
	case fyne.KeySpace:
		b.ctrl.KeyPress(controller.KeySpace, b.mods)
	}
}

func (b *Board) KeyUp(e *fyne.KeyEvent) {
	if b.ctrl == nil {
		return
	}
	switch e.Name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		b.mods &^= controller.ModShift
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		b.mods &^= controller.ModControl
		b.ctrl.KeyRelease(controller.KeyControl, b.mods)
	case fyne.KeySpace:
		b.ctrl.KeyRelease(controller.KeySpace, b.mods)
	}
}

func (b *Board) CreateRenderer() fyne.WidgetRenderer {
	return &boardRenderer{board: b}
}

type boardRenderer struct {
	board *Board
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.board.raster.Resize(size)
}

func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardRenderer) Refresh() {
	r.board.raster.Refresh()
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.board.raster}
}

func (r *boardRenderer) Destroy() {}
