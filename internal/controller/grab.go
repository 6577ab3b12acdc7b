package controller

import (
	"DrawOnScreen/internal/geom"
	"DrawOnScreen/internal/state"
	"DrawOnScreen/internal/transform"
)

// armGrabber schedules a hover hit-test unless one is pending. Motion
// between two tests only moves the point that will be tested.
func (c *Controller) armGrabber() {
	if c.locked || c.grabTimer.armed() {
		return
	}
	c.grabTimer.schedule(c.clock, c.conf.GrabInterval, c.refreshGrab)
}

// refreshGrab hit-tests the last pointer position. The highest element in
// z-order containing it becomes the grab.
func (c *Controller) refreshGrab() {
	if c.state != Grabbing || c.locked {
		return
	}
	hit := state.HitTest(c.store.Elements(), c.lastPointer, c.conf.HitTolerance)
	if hit == c.grabbed {
		return
	}
	c.grabbed = hit
	if hit != nil {
		debug("element grabbed", "id", hit.ID, "shape", hit.Shape.String())
	}
	c.updateCursor(false)
	c.renderer.Redisplay()
}

// kinds returns the transformation kinds of the current manipulation tool,
// the one started without and with the control modifier.
func (c *Controller) kinds() (transform.Kind, transform.Kind) {
	switch c.tool {
	case ToolResize:
		return transform.ScalePreserve, transform.Stretch
	case ToolMirror:
		return transform.Reflection, transform.Inversion
	}
	return transform.Translation, transform.Rotation
}

func (c *Controller) startTransforming(p geom.Point, mods Modifiers) {
	anchor := p
	if c.tool == ToolMirror {
		c.locked = !c.locked
		if c.locked {
			c.lockAnchor = p
			c.grabTimer.stop()
			c.updateCursor(false)
			if mods.Control() {
				c.osd("tool-mirror", "Mark a point of symmetry")
			} else {
				c.osd("tool-mirror", "Draw a line of symmetry")
			}
			return
		}
		anchor = c.lockAnchor
	}
	c.grabTimer.stop()

	el := c.grabbed
	undoable := true
	if mods.Shift() {
		el = el.Clone()
		c.store.Append(el)
		c.grabbed = el
		undoable = false
		debug("element duplicated", "id", el.ID)
	}
	base, alt := c.kinds()
	kind := base
	if mods.Control() {
		kind = alt
	}
	el.StartTransformation(kind, anchor, undoable)
	c.state = Transforming
	debug("transformation started", "id", el.ID, "kind", kind.String(), "undoable", undoable)
	if c.tool == ToolMirror {
		el.UpdateTransformation(p)
		c.renderer.Redisplay()
	}
}

func (c *Controller) updateTransforming(p geom.Point, control bool) {
	if c.grabbed == nil {
		return
	}
	c.switchTo(control)
	c.grabbed.UpdateTransformation(p)
	c.renderer.Redisplay()
}

// switchTo swaps the active transformation for its pair when the control
// modifier no longer matches its kind. The anchor and the log length are
// unchanged.
func (c *Controller) switchTo(control bool) bool {
	t := c.grabbed.LastTransformation()
	if t == nil || !t.Active {
		return false
	}
	base, alt := c.kinds()
	want := base
	if control {
		want = alt
	}
	if t.Kind == want {
		return false
	}
	n := c.grabbed.SwitchTransformation()
	debug("transformation switched", "id", c.grabbed.ID, "from", t.Kind.String(), "to", n.Kind.String())
	return true
}

// liveSwitch applies a control key transition without waiting for motion.
func (c *Controller) liveSwitch(control bool) {
	if c.grabbed == nil || c.spaceHeld {
		return
	}
	if c.switchTo(control) {
		c.grabbed.UpdateTransformation(c.lastPointer)
		c.renderer.Redisplay()
	}
}

// stopTransforming commits the transformation and releases the grab.
func (c *Controller) stopTransforming() {
	if c.grabbed != nil {
		c.grabbed.StopTransformation()
	}
	c.grabbed = nil
	c.locked = false
	c.state = c.restState()
	c.renderer.Redisplay()
	c.updateCursor(false)
}
