package state

import (
	"sync"

	"DrawOnScreen/internal/geom"
	"DrawOnScreen/internal/logging"
)

// Store is the drawing: elements in z-order plus the elements removed by
// undo, kept for redo.
type Store struct {
	elements []*Element
	undone   []*Element
	mu       sync.RWMutex
}

func NewStore() *Store {
	return &Store{}
}

// Append pushes el on top. Reverted transformations of the previous top
// and of el itself are dropped, a newer edit invalidates them.
func (s *Store) Append(el *Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.elements); n > 0 {
		s.elements[n-1].ResetUndoneTransformations()
	}
	el.ResetUndoneTransformations()
	s.elements = append(s.elements, el)
	logging.Logger().Debug("element appended", "id", el.ID, "shape", el.Shape.String(), "count", len(s.elements))
}

// Undo reverts the newest transformation of the top element, or removes
// the top element when it has none left to revert.
func (s *Store) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.elements)
	if n == 0 {
		return false
	}
	if s.elements[n-1].UndoTransformation() {
		return true
	}
	s.undone = append(s.undone, s.elements[n-1])
	s.elements[n-1] = nil
	s.elements = s.elements[:n-1]
	s.resetTop()
	return true
}

// Redo re-applies a reverted transformation of the top element, or brings
// back the last element removed by undo.
func (s *Store) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.elements); n > 0 && s.elements[n-1].RedoTransformation() {
		return true
	}
	u := len(s.undone)
	if u == 0 {
		return false
	}
	s.elements = append(s.elements, s.undone[u-1])
	s.undone[u-1] = nil
	s.undone = s.undone[:u-1]
	return true
}

// EraseLast removes the top element for good. Callers stop any gesture in
// progress first.
func (s *Store) EraseLast() *Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.elements)
	if n == 0 {
		return nil
	}
	el := s.elements[n-1]
	s.elements[n-1] = nil
	s.elements = s.elements[:n-1]
	s.resetTop()
	return el
}

// EraseAll empties the drawing and the redo stack.
func (s *Store) EraseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements = nil
	s.undone = nil
}

// Replace installs a loaded drawing.
func (s *Store) Replace(els []*Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements = append([]*Element(nil), els...)
	s.undone = nil
}

func (s *Store) resetTop() {
	if n := len(s.elements); n > 0 {
		s.elements[n-1].ResetUndoneTransformations()
	}
}

// Elements returns the elements in z-order. The slice is a copy, the
// elements are not.
func (s *Store) Elements() []*Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Element(nil), s.elements...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.elements)
}

// UndoneLen is the number of whole elements redo can bring back.
func (s *Store) UndoneLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.undone)
}

// Top returns the last element, or nil.
func (s *Store) Top() *Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.elements) == 0 {
		return nil
	}
	return s.elements[len(s.elements)-1]
}

// HitTest returns the topmost element containing p, or nil.
func (s *Store) HitTest(p geom.Point, factor float64) *Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return HitTest(s.elements, p, factor)
}

// SmoothLast smooths the top element when it is a freehand stroke.
func (s *Store) SmoothLast(policy SmoothPolicy) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.elements); n > 0 {
		return s.elements[n-1].SmoothAll(policy)
	}
	return false
}

// HitTest scans elements from the top of the z-order down and returns the
// first one containing p.
func HitTest(elements []*Element, p geom.Point, factor float64) *Element {
	for i := len(elements) - 1; i >= 0; i-- {
		if elements[i].ContainsPoint(p, factor) {
			return elements[i]
		}
	}
	return nil
}
