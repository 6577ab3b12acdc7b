package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"math"
	"strconv"
	"strings"

	"DrawOnScreen/internal/geom"
	"DrawOnScreen/internal/logging"
	"DrawOnScreen/internal/render"
	"DrawOnScreen/internal/state"
	"DrawOnScreen/internal/transform"

	"github.com/fogleman/gg"
)

const (
	svgNS   = "http://www.w3.org/2000/svg"
	xlinkNS = "http://www.w3.org/1999/xlink"
)

var escapeXML = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
).Replace

// SVG returns the vector markup of the drawing: one node per element in
// z-order, after the background rectangle when there is a background.
func SVG(elements []*state.Element, opts Options) []byte {
	w, h := opts.size()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg viewBox="0 0 %s %s" xmlns="%s"`, num(w), num(h), svgNS)
	for _, e := range elements {
		if e.Shape == state.Image {
			fmt.Fprintf(&buf, ` xmlns:xlink="%s"`, xlinkNS)
			break
		}
	}
	buf.WriteString(">")
	bg := "transparent"
	if opts.Background != nil {
		bg = svgColor(opts.Background)
		fmt.Fprintf(&buf, "\n  <rect id=\"background\" width=\"100%%\" height=\"100%%\" fill=\"%s\"/>", bg)
	}
	for _, e := range elements {
		switch e.Shape {
		case state.Text:
			writeText(&buf, e, bg)
		case state.Image:
			writeImage(&buf, e)
		default:
			writePath(&buf, e, bg)
		}
	}
	buf.WriteString("\n</svg>")
	return buf.Bytes()
}

func writePath(buf *bytes.Buffer, e *state.Element, bg string) {
	d := pathData(e.Path())
	if d == "" {
		return
	}
	col, opacity := svgColor(e.Color), opacityAttr(e.Color)
	if e.Eraser {
		col, opacity = bg, ""
	}
	fill := "none"
	if e.Filled() {
		fill = col
	}
	stroke := col
	if e.Line.Width <= 0 {
		stroke = "none"
	}
	fmt.Fprintf(buf, "\n  <path d=\"%s\" fill=\"%s\"", d, fill)
	if e.Filled() && e.FillRule == geom.EvenOdd {
		buf.WriteString(` fill-rule="evenodd"`)
	}
	fmt.Fprintf(buf, ` stroke="%s" stroke-width="%s" stroke-linejoin="%s" stroke-linecap="%s"`,
		stroke, num(e.Line.Width), e.Line.Join, e.Line.Cap)
	if dash := render.DashArray(e); dash != nil {
		fmt.Fprintf(buf, ` stroke-dasharray="%s %s"`, num(dash[0]), num(dash[1]))
		if e.Dash.Offset != 0 {
			fmt.Fprintf(buf, ` stroke-dashoffset="%s"`, num(e.Dash.Offset))
		}
	}
	buf.WriteString(opacity)
	buf.WriteString("/>")
}

func writeText(buf *bytes.Buffer, e *state.Element, bg string) {
	l := e.TextLayout()
	if l.Size <= 0 || e.Text.Content == "" {
		return
	}
	col, opacity := svgColor(e.Color), opacityAttr(e.Color)
	if e.Eraser {
		col, opacity = bg, ""
	}
	f := e.Text.Font
	style := "normal"
	if f.Style != state.StyleNormal {
		style = strings.ToLower(f.Style.String())
	}
	for _, line := range l.Lines {
		if line.Text == "" {
			continue
		}
		fmt.Fprintf(buf, "\n  <text x=\"%s\" y=\"%s\" font-family=\"%s\" font-size=\"%s\" font-weight=\"%d\" font-style=\"%s\" fill=\"%s\"%s%s xml:space=\"preserve\">%s</text>",
			num(line.Baseline.X), num(line.Baseline.Y), escapeXML(f.Family), num(l.Size), int(f.Weight), style,
			col, opacity, matrixAttr(e.Matrix()), escapeXML(line.Text))
	}
}

func writeImage(buf *bytes.Buffer, e *state.Element) {
	if len(e.Points) < 2 {
		return
	}
	src, err := e.Image.Ref.Image()
	if err != nil {
		logging.Logger().Warn("image left out of the export", "image", e.Image.Ref.Name, "error", err)
		return
	}
	if e.Image.Tinted {
		src = render.Tint(src, e.Color.RGBA)
	}
	var data bytes.Buffer
	if err := png.Encode(&data, src); err != nil {
		logging.Logger().Warn("image left out of the export", "image", e.Image.Ref.Name, "error", err)
		return
	}
	box := geom.NewRect(e.Points[0], e.Points[1])
	fmt.Fprintf(buf, "\n  <image x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" preserveAspectRatio=\"none\"%s xlink:href=\"data:image/png;base64,%s\"/>",
		num(box.Min.X), num(box.Min.Y), num(box.Width()), num(box.Height()), matrixAttr(e.Matrix()),
		base64.StdEncoding.EncodeToString(data.Bytes()))
}

func pathData(p geom.Path) string {
	var sb strings.Builder
	for _, s := range p {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		switch s.Op {
		case geom.MoveTo:
			fmt.Fprintf(&sb, "M%s %s", num(s.Pts[0].X), num(s.Pts[0].Y))
		case geom.LineTo:
			fmt.Fprintf(&sb, "L%s %s", num(s.Pts[0].X), num(s.Pts[0].Y))
		case geom.CubicTo:
			fmt.Fprintf(&sb, "C%s %s %s %s %s %s",
				num(s.Pts[0].X), num(s.Pts[0].Y), num(s.Pts[1].X), num(s.Pts[1].Y), num(s.Pts[2].X), num(s.Pts[2].Y))
		case geom.Close:
			sb.WriteString("Z")
		}
	}
	return sb.String()
}

func matrixAttr(m gg.Matrix) string {
	if transform.IsIdentity(m, 1e-9) {
		return ""
	}
	return fmt.Sprintf(` transform="matrix(%s %s %s %s %s %s)"`,
		num(m.XX), num(m.YX), num(m.XY), num(m.YY), num(m.X0), num(m.Y0))
}

func svgColor(c *state.Color) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.RGBA.R, c.RGBA.G, c.RGBA.B)
}

func opacityAttr(c *state.Color) string {
	if c.RGBA.A == 0xff {
		return ""
	}
	return fmt.Sprintf(` opacity="%s"`, num(float64(c.RGBA.A)/255))
}

// num formats v with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100+0, 'f', -1, 64)
}
