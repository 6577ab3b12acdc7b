package controller

import (
	"DrawOnScreen/internal/geom"
	"DrawOnScreen/internal/state"
)

// placeholderText is shown while a text box is being dragged out.
const placeholderText = "Text"

func (c *Controller) startDrawing(p geom.Point, mods Modifiers) {
	shape, ok := c.tool.Shape()
	if !ok {
		return
	}
	attrs := state.Attrs{Shape: shape, Color: c.color}
	switch shape {
	case state.Text:
		attrs.Eraser = mods.Shift()
		attrs.Text = &state.TextPayload{Content: placeholderText, Align: c.textAlign, Font: c.font.Copy()}
	case state.Image:
		ref := c.currentImage()
		if ref == nil {
			c.osd("image", "No image")
			return
		}
		attrs.Image = &state.ImagePayload{Ref: ref, Tinted: mods.Shift()}
	default:
		attrs.Eraser = mods.Shift()
		attrs.Fill = c.fill
		attrs.FillRule = c.fillRule
		attrs.Line = state.Line{Width: c.lineWidth, Join: c.lineJoin, Cap: c.lineCap}
		attrs.Dash = state.Dash{Offset: c.conf.DashOffset}
		if c.dashed {
			attrs.Dash.Active = true
			attrs.Dash.Array = c.conf.DashArray
			if attrs.Dash.Array[0] == 0 {
				attrs.Dash.Array[0] = c.lineWidth
			}
			if attrs.Dash.Array[1] == 0 {
				attrs.Dash.Array[1] = 3 * c.lineWidth
			}
		}
	}
	el, err := state.NewElement(attrs)
	if err != nil {
		debug("element not started", "shape", shape.String(), "error", err)
		return
	}
	el.StartDrawing(p)
	c.current = el
	c.state = Drawing
	debug("drawing started", "id", el.ID, "shape", shape.String())

	if shape == state.Polygon || shape == state.Polyline {
		c.osd("tool-"+shape.String(), "Press Return to mark vertices")
	}
}

func (c *Controller) updateDrawing(p geom.Point, mods Modifiers) {
	if c.current == nil {
		return
	}
	c.current.UpdateDrawing(p, mods.Control(), c.conf.Snap)
	c.renderer.Preview()
	c.updateCursor(mods.Control())
	if c.current.Shape == state.Freehand {
		c.scheduleSample()
	}
}

// scheduleSample arms the intermediate point sampler. It keeps firing
// until the next motion event stops it and never requests a repaint.
func (c *Controller) scheduleSample() {
	c.sampleTimer.schedule(c.clock, c.conf.SampleInterval, func() {
		if c.state != Drawing || c.current == nil || c.spaceHeld {
			return
		}
		p, ok := c.lastPointer, true
		if c.pointer != nil {
			p, ok = c.pointer()
		}
		if ok && c.area.Contains(p) {
			c.current.AddIntermediatePoint(p, c.lastMods.Control(), c.conf.Snap)
		}
		c.scheduleSample()
	})
}

// confirmVertex handles the keys that fix a vertex while drawing.
func (c *Controller) confirmVertex(k Key) bool {
	if c.current == nil {
		return false
	}
	switch c.current.Shape {
	case state.LineShape:
		if !k.confirms() && k != KeyControl {
			return false
		}
		if len(c.current.Points) == 2 {
			c.osd("arc", "Press Return to get\na fourth control point")
		}
		c.current.AddPoint()
		c.updateCursor(true)
		c.renderer.Redisplay()
		return true
	case state.Polygon, state.Polyline:
		if !k.confirms() {
			return false
		}
		c.current.AddPoint()
		return true
	}
	return false
}

// stopDrawing ends the drawing gesture. A qualifying element is appended,
// a text box moves on to writing.
func (c *Controller) stopDrawing() {
	c.sampleTimer.stop()
	el := c.current
	c.current = nil
	c.state = c.restState()
	if el != nil && el.StopDrawing() {
		if el.Shape == state.Text {
			c.startWriting(el)
			return
		}
		c.store.Append(el)
	} else if el != nil {
		debug("element discarded", "id", el.ID, "shape", el.Shape.String(), "points", len(el.Points))
	}
	c.renderer.Redisplay()
	c.updateCursor(false)
}

// discardCurrent drops the element being drawn or written.
func (c *Controller) discardCurrent() {
	c.sampleTimer.stop()
	c.caretTimer.stop()
	c.caret = false
	c.current = nil
	c.state = c.restState()
	c.renderer.Redisplay()
	c.updateCursor(false)
}

func (c *Controller) startWriting(el *state.Element) {
	el.Text.Content = ""
	el.Text.Cursor = 0
	c.current = el
	c.state = Writing
	c.osd("tool-text", "Press Return\nto start a new line")
	c.showCaret()
	c.renderer.Redisplay()
	c.updateCursor(false)
}

// stopWriting commits non-empty text.
func (c *Controller) stopWriting() {
	el := c.current
	c.caretTimer.stop()
	c.caret = false
	c.current = nil
	c.state = c.restState()
	if el != nil && el.Text.Content != "" {
		c.store.Append(el)
	}
	c.updateCursor(false)
	c.renderer.Redisplay()
}

// showCaret makes the caret visible and restarts its blinking.
func (c *Controller) showCaret() {
	c.caret = true
	c.blink()
}

func (c *Controller) blink() {
	c.caretTimer.schedule(c.clock, c.conf.CursorBlink, func() {
		if c.state != Writing {
			return
		}
		c.caret = !c.caret
		c.renderer.Redisplay()
		c.blink()
	})
}

func (c *Controller) editText(k Key) bool {
	t := c.current.Text
	runes := []rune(t.Content)
	pos := min(max(t.Cursor, 0), len(runes))
	switch k {
	case KeyEscape:
		t.Content = ""
		c.stopWriting()
		return true
	case KeyReturn, KeyKPEnter:
		c.insertText("\n")
		return true
	case KeyBackspace:
		if pos == 0 {
			return true
		}
		runes = append(runes[:pos-1], runes[pos:]...)
		pos--
	case KeyDelete:
		if pos == len(runes) {
			return true
		}
		runes = append(runes[:pos], runes[pos+1:]...)
	case KeyLeft:
		pos = max(pos-1, 0)
	case KeyRight:
		pos = min(pos+1, len(runes))
	case KeyHome:
		for pos > 0 && runes[pos-1] != '\n' {
			pos--
		}
	case KeyEnd:
		for pos < len(runes) && runes[pos] != '\n' {
			pos++
		}
	default:
		return false
	}
	t.Content, t.Cursor = string(runes), pos
	c.showCaret()
	c.renderer.Redisplay()
	return true
}

func (c *Controller) insertText(s string) {
	t := c.current.Text
	runes := []rune(t.Content)
	pos := min(max(t.Cursor, 0), len(runes))
	ins := []rune(s)
	t.Content = string(runes[:pos]) + s + string(runes[pos:])
	t.Cursor = pos + len(ins)
	c.showCaret()
	c.renderer.Redisplay()
}

