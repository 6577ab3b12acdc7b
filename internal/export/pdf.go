package export

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"strings"

	"DrawOnScreen/internal/geom"
	"DrawOnScreen/internal/render"
	"DrawOnScreen/internal/state"
	"DrawOnScreen/internal/transform"

	"github.com/fogleman/gg"
	"github.com/jung-kurt/gofpdf"
)

// PDF writes the drawing as a one page document the size of the surface,
// one point per pixel.
func PDF(w io.Writer, elements []*state.Element, opts Options) error {
	width, height := opts.size()
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.SetCreator("DrawOnScreen", true)
	p.AddPage()

	c := newPDFCanvas(p, height, opts.Background)
	if opts.Background != nil {
		bg := opts.Background.RGBA
		p.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
		p.Rect(0, 0, width, height, "F")
	}
	for i, e := range elements {
		if err := render.Replay(c, render.Build(e)); err != nil {
			return fmt.Errorf("element %d (%s): %w", i, e.Shape, err)
		}
	}
	return p.Output(w)
}

type pdfState struct {
	color  color.NRGBA
	line   state.Line
	dash   []float64
	offset float64
	rule   geom.FillRule
	eraser bool
}

// pdfCanvas replays draw instructions on a gofpdf page. Eraser drawing is
// painted with the background color, white without one.
type pdfCanvas struct {
	pdf    *gofpdf.Fpdf
	height float64
	eraser color.NRGBA
	tr     func(string) string
	cur    pdfState
	stack  []pdfState
	path   geom.Path
	images int
}

func newPDFCanvas(p *gofpdf.Fpdf, height float64, bg *state.Color) *pdfCanvas {
	c := &pdfCanvas{
		pdf:    p,
		height: height,
		eraser: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		tr:     p.UnicodeTranslatorFromDescriptor(""),
	}
	if bg != nil {
		c.eraser = bg.RGBA
		c.eraser.A = 0xff
	}
	return c
}

func (c *pdfCanvas) Execute(in render.Instruction) error {
	switch in.Op {
	case render.OpSave:
		c.stack = append(c.stack, c.cur)
	case render.OpRestore:
		if len(c.stack) == 0 {
			return fmt.Errorf("restore without save")
		}
		c.cur = c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
	case render.OpSetColor:
		c.cur.color = in.Color
	case render.OpSetLine:
		c.cur.line = in.Line
	case render.OpSetDash:
		c.cur.dash, c.cur.offset = in.Dash, in.Offset
	case render.OpSetFillRule:
		c.cur.rule = in.Rule
	case render.OpSetEraser:
		c.cur.eraser = in.Eraser
	case render.OpMoveTo:
		c.path.MoveTo(in.Points[0])
	case render.OpLineTo:
		c.path.LineTo(in.Points[0])
	case render.OpCubicTo:
		c.path.CubicTo(in.Points[0], in.Points[1], in.Points[2])
	case render.OpClosePath:
		c.path.Close()
	case render.OpFillPreserve:
		style := "F"
		if c.cur.rule == geom.EvenOdd {
			style = "F*"
		}
		c.drawPath(style)
	case render.OpStroke:
		if c.cur.line.Width > 0 {
			c.drawPath("D")
		}
		c.path = c.path[:0]
	case render.OpText:
		c.drawText(in.Text)
	case render.OpImage:
		if err := c.drawImage(in.Image); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown op %d", in.Op)
	}
	return c.pdf.Error()
}

func (c *pdfCanvas) paintColor() color.NRGBA {
	if c.cur.eraser {
		return c.eraser
	}
	return c.cur.color
}

func (c *pdfCanvas) applyStyle() {
	col := c.paintColor()
	p := c.pdf
	p.SetDrawColor(int(col.R), int(col.G), int(col.B))
	p.SetFillColor(int(col.R), int(col.G), int(col.B))
	p.SetTextColor(int(col.R), int(col.G), int(col.B))
	p.SetAlpha(float64(col.A)/255, "Normal")
	p.SetLineWidth(c.cur.line.Width)
	p.SetLineJoinStyle(c.cur.line.Join.String())
	p.SetLineCapStyle(c.cur.line.Cap.String())
	if c.cur.dash != nil {
		p.SetDashPattern(c.cur.dash, c.cur.offset)
	} else {
		p.SetDashPattern([]float64{}, 0)
	}
}

func (c *pdfCanvas) drawPath(style string) {
	if len(c.path) == 0 {
		return
	}
	c.applyStyle()
	p := c.pdf
	for _, s := range c.path {
		switch s.Op {
		case geom.MoveTo:
			p.MoveTo(s.Pts[0].X, s.Pts[0].Y)
		case geom.LineTo:
			p.LineTo(s.Pts[0].X, s.Pts[0].Y)
		case geom.CubicTo:
			p.CurveBezierCubicTo(s.Pts[0].X, s.Pts[0].Y, s.Pts[1].X, s.Pts[1].Y, s.Pts[2].X, s.Pts[2].Y)
		case geom.Close:
			p.ClosePath()
		}
	}
	p.DrawPath(style)
}

// coreFont maps a font descriptor onto the standard PDF fonts.
func coreFont(f *state.Font) (string, string) {
	family := "Helvetica"
	if f == nil {
		return family, ""
	}
	name := strings.ToLower(f.Family)
	switch {
	case strings.Contains(name, "mono"), strings.Contains(name, "courier"):
		family = "Courier"
	case strings.Contains(name, "serif") && !strings.Contains(name, "sans"):
		family = "Times"
	}
	style := ""
	if f.Weight >= state.WeightBold {
		style += "B"
	}
	if f.Style != state.StyleNormal {
		style += "I"
	}
	return family, style
}

func (c *pdfCanvas) drawText(run *render.TextRun) {
	if run == nil {
		return
	}
	c.applyStyle()
	family, style := coreFont(run.Font)
	c.pdf.SetFont(family, style, run.Size)
	c.transformed(run.Matrix, func() {
		c.pdf.Text(run.Origin.X, run.Origin.Y, c.tr(run.Text))
	})
}

func (c *pdfCanvas) drawImage(run *render.ImageRun) error {
	if run == nil {
		return fmt.Errorf("image instruction without run")
	}
	src, err := run.Ref.Image()
	if err != nil {
		return fmt.Errorf("image %s: %w", run.Ref.Name, err)
	}
	if run.Tint != nil {
		src = render.Tint(src, *run.Tint)
	}
	var data bytes.Buffer
	if err := png.Encode(&data, src); err != nil {
		return fmt.Errorf("image %s: %w", run.Ref.Name, err)
	}
	c.images++
	name := fmt.Sprintf("image%d", c.images)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	c.pdf.RegisterImageOptionsReader(name, opts, &data)
	c.pdf.SetAlpha(1, "Normal")
	c.transformed(run.Matrix, func() {
		c.pdf.ImageOptions(name, run.Box.Min.X, run.Box.Min.Y, run.Box.Width(), run.Box.Height(), false, opts, 0, "")
	})
	return nil
}

// transformed runs fn under m. gofpdf matrices act on the page space,
// where y grows upwards, so m is conjugated by the vertical flip.
func (c *pdfCanvas) transformed(m gg.Matrix, fn func()) {
	if transform.IsIdentity(m, 1e-9) {
		fn()
		return
	}
	h := c.height
	c.pdf.TransformBegin()
	c.pdf.Transform(gofpdf.TransformMatrix{
		A: m.XX,
		B: -m.YX,
		C: -m.XY,
		D: m.YY,
		E: m.XY*h + m.X0,
		F: h - m.YY*h - m.Y0,
	})
	fn()
	c.pdf.TransformEnd()
}
