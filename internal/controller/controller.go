// Package controller turns pointer and keyboard events into element
// construction, grabbing and transformation. It is a state machine driven
// by one dispatch method per event type and two throttled timers.
package controller

import (
	"DrawOnScreen/internal/config"
	"DrawOnScreen/internal/geom"
	"DrawOnScreen/internal/logging"
	"DrawOnScreen/internal/render"
	"DrawOnScreen/internal/state"
)

// Options carries the collaborators of a Controller. Nil fields get a
// silent default.
type Options struct {
	Store    *state.Store
	Renderer Renderer
	Notifier Notifier
	Clock    Clock
	Config   config.Snapshot
	// Pointer reports the current pointer position for intermediate
	// freehand samples. Without it the last motion position is used.
	Pointer func() (geom.Point, bool)
}

type Controller struct {
	store    *state.Store
	renderer Renderer
	notifier Notifier
	clock    Clock
	pointer  func() (geom.Point, bool)
	conf     config.Snapshot

	state   State
	tool    Tool
	current *state.Element
	grabbed *state.Element
	// locked is set between the two presses of a mirror gesture.
	locked     bool
	lockAnchor geom.Point

	lastPointer geom.Point
	lastMods    Modifiers
	spaceHeld   bool
	caret       bool
	cursor      Cursor
	cursorSet   bool

	sampleTimer timerSlot
	grabTimer   timerSlot
	caretTimer  timerSlot

	settings
}

func New(opts Options) *Controller {
	c := &Controller{
		store:    opts.Store,
		renderer: opts.Renderer,
		notifier: opts.Notifier,
		clock:    opts.Clock,
		pointer:  opts.Pointer,
	}
	if c.store == nil {
		c.store = state.NewStore()
	}
	if c.renderer == nil {
		c.renderer = nopRenderer{}
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	if c.clock == nil {
		c.clock = SystemClock{}
	}
	c.settings = newSettings(opts.Config)
	c.conf = opts.Config
	c.updateCursor(false)
	return c
}

func (c *Controller) State() State            { return c.state }
func (c *Controller) Tool() Tool              { return c.tool }
func (c *Controller) Store() *state.Store     { return c.store }
func (c *Controller) Current() *state.Element { return c.current }
func (c *Controller) Grabbed() *state.Element { return c.grabbed }

// Locked reports a mirror gesture waiting for its second press.
func (c *Controller) Locked() bool { return c.locked }

// Scene describes what the renderer should paint now.
func (c *Controller) Scene() render.Scene {
	sc := render.Scene{
		Elements:     c.store.Elements(),
		Current:      c.current,
		Writing:      c.state == Writing,
		CaretVisible: c.caret,
		Area:         c.area,
	}
	if c.tool.Manipulates() {
		sc.Grabbed = c.grabbed
	}
	if c.hasBackground {
		sc.Background = c.conf.Background
	}
	if c.hasGrid {
		spacing, width := c.conf.GridFor(c.area.Width)
		sc.Grid = render.Grid{Enabled: true, Spacing: spacing, Width: width, Color: c.conf.Grid.Color.RGBA}
	}
	return sc
}

// Resize sets the size of the drawing surface.
func (c *Controller) Resize(width, height float64) {
	c.area.Width, c.area.Height = width, height
	c.renderer.Redisplay()
}

// Press dispatches a button press.
func (c *Controller) Press(p geom.Point, b Button, mods Modifiers) {
	if c.spaceHeld {
		return
	}
	c.lastPointer, c.lastMods = p, mods
	if c.state == Writing {
		c.stopWriting()
	}
	switch b {
	case ButtonPrimary:
		if !c.area.Contains(p) {
			return
		}
		if c.state == Drawing {
			// the release of the previous gesture was lost
			c.stopAll(false)
		}
		if c.tool.Manipulates() {
			if c.grabbed != nil {
				c.startTransforming(p, mods)
			}
			return
		}
		c.startDrawing(p, mods)
	case ButtonMiddle:
		c.SwitchFill()
	case ButtonSecondary:
		c.stopAll(false)
		c.notifier.MenuRequested(p)
	}
}

// Motion dispatches a pointer motion.
func (c *Controller) Motion(p geom.Point, mods Modifiers) {
	c.lastPointer, c.lastMods = p, mods
	switch c.state {
	case Drawing:
		c.sampleTimer.stop()
		if c.spaceHeld || !c.area.Contains(p) {
			return
		}
		c.updateDrawing(p, mods)
	case Transforming:
		if c.spaceHeld || !c.area.Contains(p) {
			return
		}
		c.updateTransforming(p, mods.Control())
	case Grabbing:
		c.armGrabber()
	}
}

// Release dispatches a button release. The primary button always ends the
// gesture in progress.
func (c *Controller) Release(p geom.Point, b Button, mods Modifiers) {
	c.lastMods = mods
	if b != ButtonPrimary {
		return
	}
	switch c.state {
	case Drawing:
		c.stopDrawing()
	case Transforming:
		c.stopTransforming()
	}
}

// KeyPress dispatches a key press and reports whether it was used.
func (c *Controller) KeyPress(k Key, mods Modifiers) bool {
	c.lastMods = mods
	if c.state == Writing {
		return c.editText(k)
	}
	switch k {
	case KeySpace:
		c.spaceHeld = true
		return true
	case KeyEscape:
		if c.state == Drawing && c.current != nil && c.current.Shape == state.Text {
			c.discardCurrent()
			return true
		}
		c.ForceStop()
		c.notifier.LeaveRequested()
		return true
	}
	switch c.state {
	case Drawing:
		return c.confirmVertex(k)
	case Transforming:
		if k == KeyControl {
			c.liveSwitch(true)
			return true
		}
	}
	return false
}

// KeyRelease dispatches a key release.
func (c *Controller) KeyRelease(k Key, mods Modifiers) {
	c.lastMods = mods
	switch k {
	case KeySpace:
		c.spaceHeld = false
	case KeyControl:
		if c.state == Transforming {
			c.liveSwitch(false)
		}
	}
}

// TypeRune inserts r at the caret while writing.
func (c *Controller) TypeRune(r rune) {
	if c.state != Writing {
		return
	}
	c.insertText(string(r))
}

// Scroll changes the line width, one pixel per step. Positive is up.
func (c *Controller) Scroll(steps float64) {
	switch {
	case steps > 0:
		c.IncrementLineWidth(1)
	case steps < 0:
		c.IncrementLineWidth(-1)
	}
}

// ForceStop ends every gesture, grab and text entry. The host calls it
// when the drawing mode is left.
func (c *Controller) ForceStop() {
	c.stopAll(true)
}

// stopAll unwinds the transformation and grab, then the element being
// drawn or written.
func (c *Controller) stopAll(force bool) {
	if c.grabbed != nil {
		if c.state == Transforming {
			c.stopTransforming()
		}
		c.grabbed = nil
		c.locked = false
		c.updateCursor(false)
	}
	c.grabTimer.stop()
	if c.current == nil && !force {
		return
	}
	if c.state == Writing {
		c.stopWriting()
		return
	}
	c.stopDrawing()
}

// Undo reverts the newest transformation or element. It does nothing while
// a gesture is in progress.
func (c *Controller) Undo() bool {
	if c.busy() {
		return false
	}
	ok := c.store.Undo()
	c.afterStoreChange()
	return ok
}

// Redo re-applies what Undo reverted.
func (c *Controller) Redo() bool {
	if c.busy() {
		return false
	}
	ok := c.store.Redo()
	c.afterStoreChange()
	return ok
}

// EraseLast removes the top element. It cannot be redone.
func (c *Controller) EraseLast() {
	c.stopAll(false)
	c.store.EraseLast()
	c.afterStoreChange()
}

// EraseAll clears the drawing and the redo stack.
func (c *Controller) EraseAll() {
	c.stopAll(false)
	c.store.EraseAll()
	c.afterStoreChange()
}

// Load replaces the drawing.
func (c *Controller) Load(elements []*state.Element) {
	c.ForceStop()
	c.store.Replace(elements)
	c.afterStoreChange()
}

// UpdateConfig installs a new configuration snapshot.
func (c *Controller) UpdateConfig(s config.Snapshot) {
	c.conf = s
	c.settings.reconfigure(s)
	c.renderer.Redisplay()
}

func (c *Controller) busy() bool {
	return c.state == Drawing || c.state == Writing || c.state == Transforming
}

// afterStoreChange drops a grab on an element that left the store.
func (c *Controller) afterStoreChange() {
	if c.grabbed != nil && !c.inStore(c.grabbed) {
		c.grabbed = nil
		c.locked = false
		c.updateCursor(false)
	}
	c.renderer.Redisplay()
}

func (c *Controller) inStore(el *state.Element) bool {
	for _, e := range c.store.Elements() {
		if e == el {
			return true
		}
	}
	return false
}

// restState is the state to return to when no gesture is running.
func (c *Controller) restState() State {
	if c.tool.Manipulates() {
		return Grabbing
	}
	return Idle
}

func (c *Controller) setCursor(cur Cursor) {
	if c.cursorSet && c.cursor == cur {
		return
	}
	c.cursor, c.cursorSet = cur, true
	c.notifier.CursorChanged(cur)
}

func (c *Controller) updateCursor(control bool) {
	switch {
	case c.tool == ToolMirror && c.locked:
		c.setCursor(CursorCrosshair)
	case c.tool.Manipulates():
		if c.grabbed != nil {
			c.setCursor(CursorMoveOrResize)
		} else {
			c.setCursor(CursorDefault)
		}
	case c.state == Writing:
		c.setCursor(CursorIBeam)
	case c.current == nil:
		if c.tool == ToolFreehand {
			c.setCursor(CursorPointingHand)
		} else {
			c.setCursor(CursorCrosshair)
		}
	case c.current.Shape != state.Freehand && control:
		c.setCursor(CursorMoveOrResize)
	}
}

func (c *Controller) osd(icon, text string) {
	c.notifier.OSD(Notice{Icon: icon, Text: text, Level: -1})
}

func debug(msg string, args ...any) {
	logging.Logger().Debug(msg, args...)
}
