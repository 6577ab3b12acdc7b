// Package session keeps the drawing on the board in step with the
// drawings directory: restore on start, save on leave, browse and export.
package session

import (
	"errors"
	"fmt"

	"DrawOnScreen/internal/controller"
	"DrawOnScreen/internal/export"
	"DrawOnScreen/internal/logging"
	"DrawOnScreen/internal/state"
	"DrawOnScreen/internal/storage"
)

// Session ties the controller's drawing to the drawings directory. The
// current drawing is the file the board was last loaded from or saved to;
// nil means the drawing has no file of its own.
type Session struct {
	files      *storage.Files
	ctrl       *controller.Controller
	resolver   *state.Resolver
	persistent bool
	current    *storage.Drawing
}

func New(files *storage.Files, ctrl *controller.Controller, persistent bool) *Session {
	return &Session{
		files:      files,
		ctrl:       ctrl,
		resolver:   &state.Resolver{},
		persistent: persistent,
	}
}

func (s *Session) Current() *storage.Drawing { return s.current }

func (s *Session) elements() []*state.Element {
	return s.ctrl.Store().Elements()
}

// Restore loads the persistent drawing. Invalid records are dropped and
// reported, the rest of the drawing is still shown.
func (s *Session) Restore() error {
	if !s.persistent {
		return nil
	}
	els, err := s.files.Load(s.files.Persistent(), s.resolver)
	if els != nil {
		s.ctrl.Load(els)
	}
	return err
}

// Leave ends every gesture and keeps the drawing in the persistent file.
func (s *Session) Leave() error {
	s.ctrl.ForceStop()
	if !s.persistent {
		return nil
	}
	d := s.files.Persistent()
	if !s.files.HasChanged(d, s.elements()) {
		return nil
	}
	return s.files.Save(d, s.elements())
}

// Save writes the drawing to its file, or to a new dated one.
func (s *Session) Save() (storage.Drawing, error) {
	var d storage.Drawing
	if s.current != nil {
		d = *s.current
	} else {
		d = s.files.Dated()
	}
	return d, s.saveTo(d)
}

// SaveAs writes the drawing under name and makes it current.
func (s *Session) SaveAs(name string) (storage.Drawing, error) {
	d, err := s.files.Named(name)
	if err != nil {
		return d, err
	}
	return d, s.saveTo(d)
}

func (s *Session) saveTo(d storage.Drawing) error {
	s.ctrl.ForceStop()
	if err := s.files.Save(d, s.elements()); err != nil {
		return err
	}
	s.current = &d
	return nil
}

// Open replaces the drawing with d. Unsaved changes to the current file
// are written first.
func (s *Session) Open(d storage.Drawing) error {
	if err := s.flush(); err != nil {
		return err
	}
	els, err := s.files.Load(d, s.resolver)
	if els == nil && err != nil {
		return err
	}
	s.ctrl.Load(els)
	s.current = &d
	return err
}

// flush writes unsaved changes to the current file.
func (s *Session) flush() error {
	if s.current == nil || !s.files.HasChanged(*s.current, s.elements()) {
		return nil
	}
	return s.saveTo(*s.current)
}

var ErrNoDrawing = errors.New("no other drawing")

// OpenPrevious opens the drawing saved before the current one, or the
// latest one when there is no current file. Unsaved changes are written
// first, so the edited file counts as the most recent.
func (s *Session) OpenPrevious() (storage.Drawing, error) {
	if err := s.flush(); err != nil {
		return storage.Drawing{}, err
	}
	d, ok := s.files.Previous(s.current)
	if !ok {
		return d, ErrNoDrawing
	}
	return d, s.Open(d)
}

// OpenNext opens the drawing saved after the current one.
func (s *Session) OpenNext() (storage.Drawing, error) {
	if err := s.flush(); err != nil {
		return storage.Drawing{}, err
	}
	d, ok := s.files.Next(s.current)
	if !ok {
		return d, ErrNoDrawing
	}
	return d, s.Open(d)
}

// Export writes the drawing as shown: the surface size and the background
// when it is visible.
func (s *Session) Export(path string, f export.Format) error {
	s.ctrl.ForceStop()
	sc := s.ctrl.Scene()
	opts := export.Options{
		Width:      sc.Area.Width,
		Height:     sc.Area.Height,
		Background: sc.Background,
	}
	if err := export.WriteFile(path, f, s.elements(), opts); err != nil {
		logging.Logger().Error("export failed", "path", path, "err", err)
		return fmt.Errorf("export drawing: %w", err)
	}
	return nil
}
