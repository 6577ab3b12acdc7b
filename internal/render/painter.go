package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"DrawOnScreen/internal/logging"
	"DrawOnScreen/internal/state"

	"github.com/fogleman/gg"
)

// Grid describes the optional guide grid drawn over the background.
type Grid struct {
	Enabled bool
	Spacing float64
	Width   float64
	Color   color.NRGBA
}

// Scene is everything a paint pass needs. Elements are in z-order; Current
// is the element being drawn or written, not yet in the store.
type Scene struct {
	Elements     []*state.Element
	Current      *state.Element
	Grabbed      *state.Element
	Writing      bool
	CaretVisible bool
	Background   *state.Color
	Grid         Grid
	Area         state.Area
}

var areaFrameColor = color.NRGBA{R: 128, G: 128, B: 128, A: 160}

// Painter keeps three layers: base (background, grid, area frame), back
// (committed elements) and a fore copy of back receiving the in-progress
// element. A preview pass reuses base and back.
type Painter struct {
	mu    sync.Mutex
	fonts *Fonts
	w, h  int
	base  *image.RGBA
	back  *image.RGBA
	out   *image.RGBA
	valid bool
}

func NewPainter(fonts *Fonts) *Painter {
	if fonts == nil {
		fonts = DefaultFonts
	}
	return &Painter{fonts: fonts}
}

// Invalidate forces the next paint to rebuild the cached layers.
func (p *Painter) Invalidate() {
	p.mu.Lock()
	p.valid = false
	p.mu.Unlock()
}

// Paint renders sc at w×h. When full is false and the cached layers match
// the size, only the in-progress element and the overlays are redrawn.
// Failures are logged and the last good image is returned.
func (p *Painter) Paint(sc Scene, w, h int, full bool) (img image.Image) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	defer func() {
		if r := recover(); r != nil {
			logging.Logger().Error("paint failed", "panic", fmt.Sprint(r))
			p.valid = false
			img = p.last(w, h)
		}
	}()
	if full || !p.valid || w != p.w || h != p.h {
		p.rebuild(sc, w, h)
	}

	copy(p.out.Pix, p.base.Pix)
	fore := p.back
	if sc.Current != nil {
		fore = image.NewRGBA(p.back.Bounds())
		copy(fore.Pix, p.back.Pix)
		p.replay(fore, Build(sc.Current), sc.Current)
	}
	draw.Draw(p.out, p.out.Bounds(), fore, image.Point{}, draw.Over)
	if sc.Grabbed != nil {
		p.replay(p.out, Highlight(sc.Grabbed), sc.Grabbed)
	}
	if sc.Writing && sc.CaretVisible && sc.Current != nil {
		p.replay(p.out, Caret(sc.Current), sc.Current)
	}
	return p.out
}

func (p *Painter) last(w, h int) image.Image {
	if p.out != nil && p.w == w && p.h == h {
		return p.out
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func (p *Painter) rebuild(sc Scene, w, h int) {
	r := image.Rect(0, 0, w, h)
	if p.w != w || p.h != h || p.base == nil {
		p.base, p.back, p.out = image.NewRGBA(r), image.NewRGBA(r), image.NewRGBA(r)
		p.w, p.h = w, h
	} else {
		clear(p.base.Pix)
		clear(p.back.Pix)
	}
	p.paintBase(sc)
	for _, el := range sc.Elements {
		p.replay(p.back, Build(el), el)
	}
	p.valid = true
}

func (p *Painter) paintBase(sc Scene) {
	dc := gg.NewContextForRGBA(p.base)
	if sc.Background != nil {
		dc.SetColor(sc.Background.RGBA)
		dc.Clear()
	}
	if g := sc.Grid; g.Enabled && g.Spacing > 0 {
		paintGrid(dc, g, float64(p.w), float64(p.h))
	}
	if sc.Area.Square {
		a := sc.Area
		a.Width, a.Height = float64(p.w), float64(p.h)
		box := a.Active()
		dc.SetColor(areaFrameColor)
		dc.SetLineWidth(1)
		dc.SetDash(6, 6)
		dc.DrawRectangle(box.Min.X, box.Min.Y, box.Width(), box.Height())
		dc.Stroke()
	}
}

// paintGrid draws lines outward from the centre. Every fifth line is drawn
// at full width, the others at half width.
func paintGrid(dc *gg.Context, g Grid, w, h float64) {
	dc.SetColor(g.Color)
	width := func(i int) float64 {
		if i%5 == 0 {
			return g.Width
		}
		return g.Width / 2
	}
	for i, d := 0, 0.0; d < w/2; i, d = i+1, d+g.Spacing {
		dc.SetLineWidth(width(i))
		dc.DrawLine(w/2+d, 0, w/2+d, h)
		dc.DrawLine(w/2-d, 0, w/2-d, h)
		dc.Stroke()
	}
	for i, d := 0, 0.0; d < h/2; i, d = i+1, d+g.Spacing {
		dc.SetLineWidth(width(i))
		dc.DrawLine(0, h/2+d, w, h/2+d)
		dc.DrawLine(0, h/2-d, w, h/2-d)
		dc.Stroke()
	}
}

// replay draws ins on dst. An element that fails is logged and skipped.
func (p *Painter) replay(dst *image.RGBA, ins []Instruction, el *state.Element) {
	if err := Replay(NewRaster(dst, p.fonts), ins); err != nil {
		logging.Logger().Error("element paint failed", "id", el.ID, "shape", el.Shape.String(), "error", err)
	}
}
