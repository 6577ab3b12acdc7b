package state

import (
	"DrawOnScreen/internal/geom"
	"DrawOnScreen/internal/transform"
)

// The transformation log is append only from the cursor: entries past the
// cursor were undone and stay available for redo until a new
// transformation starts or they are reset.

// StartTransformation truncates undone entries and appends a new active
// transformation anchored at p.
func (e *Element) StartTransformation(kind transform.Kind, p geom.Point, undoable bool) *transform.Transformation {
	t := transform.New(kind, p, e.Bounds(), undoable)
	e.transformations = append(e.transformations[:e.cursor], t)
	e.cursor = len(e.transformations)
	return t
}

// LastTransformation returns the newest active entry, or nil.
func (e *Element) LastTransformation() *transform.Transformation {
	if e.cursor == 0 {
		return nil
	}
	return e.transformations[e.cursor-1]
}

// UpdateTransformation drives the transformation being performed.
func (e *Element) UpdateTransformation(p geom.Point) {
	if t := e.LastTransformation(); t != nil && t.Active {
		t.Update(p)
	}
}

// StopTransformation freezes the transformation being performed.
func (e *Element) StopTransformation() {
	if t := e.LastTransformation(); t != nil {
		t.Stop()
	}
}

// SwitchTransformation replaces the transformation being performed by its
// paired kind, keeping anchor, frame and undoable flag. The log length does
// not change.
func (e *Element) SwitchTransformation() *transform.Transformation {
	t := e.LastTransformation()
	if t == nil || !t.Active {
		return nil
	}
	n := t.Switched()
	e.transformations[e.cursor-1] = n
	return n
}

// UndoTransformation reverts the newest active entry when it is undoable.
func (e *Element) UndoTransformation() bool {
	t := e.LastTransformation()
	if t == nil || !t.Undoable {
		return false
	}
	e.cursor--
	return true
}

// RedoTransformation re-applies the oldest reverted entry.
func (e *Element) RedoTransformation() bool {
	if e.cursor >= len(e.transformations) {
		return false
	}
	e.cursor++
	return true
}

// ResetUndoneTransformations drops reverted entries so they cannot be
// redone.
func (e *Element) ResetUndoneTransformations() {
	for i := e.cursor; i < len(e.transformations); i++ {
		e.transformations[i] = nil
	}
	e.transformations = e.transformations[:e.cursor]
}

// ActiveTransformations returns the entries in effect, oldest first.
func (e *Element) ActiveTransformations() []*transform.Transformation {
	return e.transformations[:e.cursor]
}

// UndoneTransformations is the number of entries available for redo.
func (e *Element) UndoneTransformations() int {
	return len(e.transformations) - e.cursor
}

// setTransformations installs a committed log, used when loading.
func (e *Element) setTransformations(ts []*transform.Transformation) {
	e.transformations = ts
	e.cursor = len(ts)
}
