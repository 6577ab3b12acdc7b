package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"DrawOnScreen/internal/geom"
	"DrawOnScreen/internal/state"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// Canvas executes draw instructions.
type Canvas interface {
	Execute(in Instruction) error
}

// Replay runs ins on c in order and stops at the first error.
func Replay(c Canvas, ins []Instruction) error {
	for i, in := range ins {
		if err := c.Execute(in); err != nil {
			return fmt.Errorf("instruction %d (%s): %w", i, in.Op, err)
		}
	}
	return nil
}

type rasterState struct {
	color  color.NRGBA
	line   state.Line
	dash   []float64
	offset float64
	rule   geom.FillRule
	eraser bool
}

// Raster is a Canvas drawing into an RGBA image with gg. Eraser drawing
// removes coverage from the image instead of painting.
type Raster struct {
	dst   *image.RGBA
	dc    *gg.Context
	fonts *Fonts
	cur   rasterState
	stack []rasterState
	path  geom.Path
}

func NewRaster(dst *image.RGBA, fonts *Fonts) *Raster {
	if fonts == nil {
		fonts = DefaultFonts
	}
	return &Raster{dst: dst, dc: gg.NewContextForRGBA(dst), fonts: fonts}
}

func (r *Raster) Execute(in Instruction) error {
	switch in.Op {
	case OpSave:
		r.stack = append(r.stack, r.cur)
	case OpRestore:
		if len(r.stack) == 0 {
			return fmt.Errorf("restore without save")
		}
		r.cur = r.stack[len(r.stack)-1]
		r.stack = r.stack[:len(r.stack)-1]
	case OpSetColor:
		r.cur.color = in.Color
	case OpSetLine:
		r.cur.line = in.Line
	case OpSetDash:
		r.cur.dash, r.cur.offset = in.Dash, in.Offset
	case OpSetFillRule:
		r.cur.rule = in.Rule
	case OpSetEraser:
		r.cur.eraser = in.Eraser
	case OpMoveTo:
		r.path.MoveTo(in.Points[0])
	case OpLineTo:
		r.path.LineTo(in.Points[0])
	case OpCubicTo:
		r.path.CubicTo(in.Points[0], in.Points[1], in.Points[2])
	case OpClosePath:
		r.path.Close()
	case OpFillPreserve:
		r.paint(func(dc *gg.Context) {
			r.applyPath(dc)
			dc.Fill()
		})
	case OpStroke:
		r.paint(func(dc *gg.Context) {
			r.applyPath(dc)
			dc.Stroke()
		})
		r.path = r.path[:0]
	case OpText:
		return r.drawText(in.Text)
	case OpImage:
		return r.drawImage(in.Image)
	default:
		return fmt.Errorf("unknown op %d", in.Op)
	}
	return nil
}

// paint runs fn on the destination, or on a coverage mask cut out of the
// destination when the eraser is set.
func (r *Raster) paint(fn func(dc *gg.Context)) {
	if !r.cur.eraser {
		r.applyStyle(r.dc)
		fn(r.dc)
		return
	}
	b := r.dst.Bounds()
	mask := gg.NewContext(b.Dx(), b.Dy())
	r.applyStyle(mask)
	mask.SetColor(color.White)
	fn(mask)
	cutOut(r.dst, mask.Image())
}

func (r *Raster) applyStyle(dc *gg.Context) {
	dc.SetColor(r.cur.color)
	dc.SetLineWidth(r.cur.line.Width)
	switch r.cur.line.Cap {
	case state.CapRound:
		dc.SetLineCap(gg.LineCapRound)
	case state.CapSquare:
		dc.SetLineCap(gg.LineCapSquare)
	default:
		dc.SetLineCap(gg.LineCapButt)
	}
	if r.cur.line.Join == state.JoinRound {
		dc.SetLineJoin(gg.LineJoinRound)
	} else {
		dc.SetLineJoin(gg.LineJoinBevel)
	}
	if r.cur.rule == geom.EvenOdd {
		dc.SetFillRule(gg.FillRuleEvenOdd)
	} else {
		dc.SetFillRule(gg.FillRuleWinding)
	}
	dc.SetDash(r.cur.dash...)
	dc.SetDashOffset(r.cur.offset)
}

func (r *Raster) applyPath(dc *gg.Context) {
	dc.ClearPath()
	for _, s := range r.path {
		switch s.Op {
		case geom.MoveTo:
			dc.MoveTo(s.Pts[0].X, s.Pts[0].Y)
		case geom.LineTo:
			dc.LineTo(s.Pts[0].X, s.Pts[0].Y)
		case geom.CubicTo:
			dc.CubicTo(s.Pts[0].X, s.Pts[0].Y, s.Pts[1].X, s.Pts[1].Y, s.Pts[2].X, s.Pts[2].Y)
		case geom.Close:
			dc.ClosePath()
		}
	}
}

// setMatrix loads m into dc as translate, rotate, shear and scale, the
// operations gg exposes. It reports false for a degenerate matrix.
func setMatrix(dc *gg.Context, m gg.Matrix) bool {
	a, b, c, d := m.XX, m.YX, m.XY, m.YY
	sx := math.Hypot(a, b)
	if sx < 1e-9 {
		return false
	}
	theta := math.Atan2(b, a)
	cos, sin := math.Cos(theta), math.Sin(theta)
	sy := d*cos - c*sin
	if math.Abs(sy) < 1e-9 {
		return false
	}
	h := (c*cos + d*sin) / sy
	dc.Identity()
	dc.Translate(m.X0, m.Y0)
	dc.Rotate(theta)
	dc.Shear(h, 0)
	dc.Scale(sx, sy)
	return true
}

func (r *Raster) drawText(run *TextRun) error {
	if run == nil {
		return fmt.Errorf("text instruction without run")
	}
	face, err := r.fonts.Face(run.Font, run.Size)
	if err != nil {
		return err
	}
	r.paint(func(dc *gg.Context) {
		dc.Push()
		defer dc.Pop()
		if !setMatrix(dc, run.Matrix) {
			return
		}
		dc.SetFontFace(face)
		dc.DrawString(run.Text, run.Origin.X, run.Origin.Y)
	})
	return nil
}

func (r *Raster) drawImage(run *ImageRun) error {
	if run == nil {
		return fmt.Errorf("image instruction without run")
	}
	src, err := run.Ref.Image()
	if err != nil {
		return fmt.Errorf("image %s: %w", run.Ref.Name, err)
	}
	w, h := int(math.Round(run.Box.Width())), int(math.Round(run.Box.Height()))
	if w <= 0 || h <= 0 {
		return nil
	}
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Over, nil)
	if run.Tint != nil {
		scaled = Tint(scaled, *run.Tint)
	}
	r.paint(func(dc *gg.Context) {
		dc.Push()
		defer dc.Pop()
		if !setMatrix(dc, run.Matrix) {
			return
		}
		dc.DrawImage(scaled, int(math.Round(run.Box.Min.X)), int(math.Round(run.Box.Min.Y)))
	})
	return nil
}

// Tint replaces the colors of src with c and keeps its alpha.
func Tint(src image.Image, c color.NRGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, src, b.Min, draw.Src)
	return dst
}

// cutOut scales every pixel of dst by the inverse coverage of mask.
func cutOut(dst *image.RGBA, mask image.Image) {
	b := dst.Bounds().Intersect(mask.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, ma := mask.At(x, y).RGBA()
			if ma == 0 {
				continue
			}
			keep := 0xffff - ma
			i := dst.PixOffset(x, y)
			for k := 0; k < 4; k++ {
				dst.Pix[i+k] = uint8(uint32(dst.Pix[i+k]) * keep / 0xffff)
			}
		}
	}
}
