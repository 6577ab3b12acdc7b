package controller

import (
	"fmt"
	"time"

	"DrawOnScreen/internal/geom"
)

// Renderer is told when the picture is out of date. The controller never
// draws itself.
type Renderer interface {
	// Redisplay repaints everything.
	Redisplay()
	// Preview repaints the in-progress element and the overlays only.
	Preview()
}

type Cursor int

const (
	CursorDefault Cursor = iota
	CursorCrosshair
	CursorPointingHand
	CursorMoveOrResize
	CursorIBeam
)

var cursorNames = [...]string{"default", "crosshair", "pointing-hand", "move-or-resize", "ibeam"}

func (c Cursor) String() string {
	if c < 0 || int(c) >= len(cursorNames) {
		return fmt.Sprintf("Cursor(%d)", int(c))
	}
	return cursorNames[c]
}

// Notice is a short on-screen message. Level is a value to show as a bar,
// negative when there is none.
type Notice struct {
	Icon  string
	Text  string
	Level float64
}

// Notifier receives everything the host shows besides the drawing.
type Notifier interface {
	OSD(n Notice)
	MenuRequested(at geom.Point)
	CursorChanged(c Cursor)
	LeaveRequested()
}

type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Callbacks must run on the goroutine that
// dispatches events to the controller.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock uses time.AfterFunc. Post, when set, moves the callback onto
// the event goroutine.
type SystemClock struct {
	Post func(func())
}

func (c SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	if c.Post == nil {
		return time.AfterFunc(d, f)
	}
	return time.AfterFunc(d, func() { c.Post(f) })
}

type nopNotifier struct{}

func (nopNotifier) OSD(Notice)               {}
func (nopNotifier) MenuRequested(geom.Point) {}
func (nopNotifier) CursorChanged(Cursor)     {}
func (nopNotifier) LeaveRequested()          {}

type nopRenderer struct{}

func (nopRenderer) Redisplay() {}
func (nopRenderer) Preview()   {}

// timerSlot holds at most one pending timer. A callback that was already
// queued when the slot was stopped or rescheduled does nothing.
type timerSlot struct {
	t   Timer
	gen uint64
}

func (s *timerSlot) armed() bool { return s.t != nil }

func (s *timerSlot) stop() {
	if s.t != nil {
		s.t.Stop()
		s.t = nil
	}
	s.gen++
}

func (s *timerSlot) schedule(clock Clock, d time.Duration, fn func()) {
	s.stop()
	gen := s.gen
	s.t = clock.AfterFunc(d, func() {
		if s.gen != gen {
			return
		}
		s.t = nil
		fn()
	})
}
