package controller

import (
	"fmt"
	"math"

	"DrawOnScreen/internal/config"
	"DrawOnScreen/internal/geom"
	"DrawOnScreen/internal/state"
)

// genericFamilies follow the configured font family in the family switch.
var genericFamilies = []string{"Sans-Serif", "Serif", "Monospace", "Cursive", "Fantasy"}

// settings are the drawing attributes picked by the user. New elements
// take their style from here.
type settings struct {
	palette   int
	color     *state.Color
	fill      bool
	fillRule  state.FillRule
	dashed    bool
	lineWidth float64
	lineJoin  state.LineJoin
	lineCap   state.LineCap
	font      *state.Font
	families  []string
	textAlign state.TextAlign
	image     int
	imageRefs map[string]*state.ImageRef

	hasBackground bool
	hasGrid       bool
	area          state.Area
}

func newSettings(s config.Snapshot) settings {
	font := s.Font
	if font == nil {
		font = &state.Font{Family: "Sans", Weight: state.WeightNormal}
	}
	st := settings{
		lineWidth: s.LineWidth,
		lineJoin:  state.JoinRound,
		lineCap:   state.CapRound,
		font:      font.Copy(),
		image:     -1,
	}
	st.families = append([]string{font.Family}, genericFamilies...)
	st.reconfigure(s)
	return st
}

// reconfigure keeps the user's choices that are still valid under s.
func (st *settings) reconfigure(s config.Snapshot) {
	if st.palette >= len(s.Palettes) {
		st.palette = 0
	}
	if st.color == nil && len(s.Palettes) > 0 {
		st.color = s.Palettes[st.palette].Colors[0]
	}
	if st.color == nil {
		st.color = state.MustColor("White")
	}
	st.area.SquareSize = s.SquareSize
}

func (c *Controller) colors() []*state.Color {
	if c.palette < len(c.conf.Palettes) {
		return c.conf.Palettes[c.palette].Colors
	}
	return nil
}

// SelectTool changes the tool. Manipulation tools start the grabber.
func (c *Controller) SelectTool(t Tool) {
	if t == c.tool {
		return
	}
	c.stopAll(false)
	c.tool = t
	c.state = c.restState()
	c.grabbed = nil
	c.locked = false
	if c.tool.Manipulates() {
		c.armGrabber()
	}
	c.osd("tool-"+t.String(), t.String())
	c.updateCursor(false)
}

// SelectColor picks the color at index in the current palette. The
// element in progress changes color as well.
func (c *Controller) SelectColor(index int) {
	colors := c.colors()
	if index < 0 || index >= len(colors) {
		return
	}
	c.color = colors[index]
	if c.current != nil {
		c.current.Color = c.color
		c.renderer.Redisplay()
	}
	c.notifier.OSD(Notice{Icon: "color", Text: c.color.Display(), Level: -1})
}

// SwitchPalette moves to the next palette, or the previous one.
func (c *Controller) SwitchPalette(reverse bool) {
	n := len(c.conf.Palettes)
	if n == 0 {
		return
	}
	if reverse {
		c.palette = (c.palette - 1 + n) % n
	} else {
		c.palette = (c.palette + 1) % n
	}
	c.osd("palette", c.conf.Palettes[c.palette].Name)
}

// PaletteName is the name of the current palette.
func (c *Controller) PaletteName() string {
	if c.palette < len(c.conf.Palettes) {
		return c.conf.Palettes[c.palette].Name
	}
	return ""
}

// Colors lists the colors of the current palette.
func (c *Controller) Colors() []*state.Color {
	return append([]*state.Color(nil), c.colors()...)
}

func (c *Controller) SwitchFill() {
	c.fill = !c.fill
	if c.fill {
		c.osd("fill", "Fill")
	} else {
		c.osd("stroke", "Outline")
	}
}

func (c *Controller) SwitchFillRule() {
	if c.fillRule == geom.EvenOdd {
		c.fillRule = geom.NonZero
		c.osd("fillrule-nonzero", "Nonzero")
	} else {
		c.fillRule = geom.EvenOdd
		c.osd("fillrule-evenodd", "Evenodd")
	}
}

func (c *Controller) SwitchDash() {
	c.dashed = !c.dashed
	if c.dashed {
		c.osd("dashed-line", "Dashed line")
	} else {
		c.osd("full-line", "Full line")
	}
}

// IncrementLineWidth changes the line width by delta, never below zero.
func (c *Controller) IncrementLineWidth(delta float64) {
	c.lineWidth = math.Max(c.lineWidth+delta, 0)
	c.notifier.OSD(Notice{Text: fmt.Sprintf("%g px", c.lineWidth), Level: 2 * c.lineWidth})
}

// LineWidth is the width given to new elements.
func (c *Controller) LineWidth() float64 { return c.lineWidth }

func (c *Controller) SwitchLineJoin() {
	c.lineJoin = (c.lineJoin + 1) % 3
	c.osd("linejoin", c.lineJoin.String())
}

func (c *Controller) SwitchLineCap() {
	c.lineCap = (c.lineCap + 1) % 3
	c.osd("linecap", c.lineCap.String())
}

// SwitchFontFamily cycles through the configured family and the generic
// families. The text being written follows.
func (c *Controller) SwitchFontFamily(reverse bool) {
	n := len(c.families)
	i := 0
	for j, f := range c.families {
		if f == c.font.Family {
			i = j
		}
	}
	if reverse {
		i = (i - 1 + n) % n
	} else {
		i = (i + 1) % n
	}
	c.font.Family = c.families[i]
	c.fontChanged()
	c.osd("font-family", c.font.Family)
}

func (c *Controller) SwitchFontWeight() {
	ws := state.FontWeights
	i := 0
	for j, w := range ws {
		if w == c.font.Weight {
			i = (j + 1) % len(ws)
		}
	}
	c.font.Weight = ws[i]
	c.fontChanged()
	c.osd("font-weight", c.font.Weight.String())
}

func (c *Controller) SwitchFontStyle() {
	c.font.Style = (c.font.Style + 1) % 3
	c.fontChanged()
	c.osd("font-style", c.font.Style.String())
}

// fontChanged copies the font settings onto the text being written.
func (c *Controller) fontChanged() {
	if c.current != nil && c.current.Text != nil {
		c.current.Text.Font = c.font.Copy()
		c.renderer.Redisplay()
	}
}

func (c *Controller) SwitchTextAlignment() {
	c.textAlign = (c.textAlign + 1) % 3
	if c.current != nil && c.current.Text != nil && c.current.Text.Align != c.textAlign {
		c.current.Text.Align = c.textAlign
		c.renderer.Redisplay()
	}
	c.osd(c.textAlign.String()+"-aligned", c.textAlign.String())
}

// currentImage returns the image used by the image tool, the first
// configured one until another is selected.
func (c *Controller) currentImage() *state.ImageRef {
	if len(c.conf.Images) == 0 {
		return nil
	}
	if c.image < 0 || c.image >= len(c.conf.Images) {
		c.image = 0
	}
	return c.imageRef(c.conf.Images[c.image])
}

func (c *Controller) imageRef(path string) *state.ImageRef {
	if c.imageRefs == nil {
		c.imageRefs = make(map[string]*state.ImageRef)
	}
	ref, ok := c.imageRefs[path]
	if !ok {
		ref = state.NewImageRef(path)
		c.imageRefs[path] = ref
	}
	return ref
}

func (c *Controller) SwitchImageFile(reverse bool) {
	n := len(c.conf.Images)
	if n == 0 {
		c.osd("image", "No image")
		return
	}
	switch {
	case c.image < 0:
		c.image = 0
	case reverse:
		c.image = (c.image - 1 + n) % n
	default:
		c.image = (c.image + 1) % n
	}
	c.osd("image", c.imageRef(c.conf.Images[c.image]).Name)
}

func (c *Controller) ToggleBackground() {
	c.hasBackground = !c.hasBackground
	c.renderer.Redisplay()
}

func (c *Controller) ToggleGrid() {
	c.hasGrid = !c.hasGrid
	c.renderer.Redisplay()
}

// ToggleSquareArea restricts drawing to a centred square, or lifts the
// restriction.
func (c *Controller) ToggleSquareArea() {
	c.area.Square = !c.area.Square
	c.renderer.Redisplay()
}

// SmoothLast smooths the top element when it is a freehand stroke.
func (c *Controller) SmoothLast() bool {
	if c.busy() {
		return false
	}
	ok := c.store.SmoothLast(c.conf.Smooth)
	if ok {
		c.renderer.Redisplay()
	}
	return ok
}
