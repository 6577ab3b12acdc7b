package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"DrawOnScreen/internal/geom"
	"DrawOnScreen/internal/state"
	"DrawOnScreen/internal/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func element(t *testing.T, a state.Attrs) *state.Element {
	t.Helper()
	if a.Color == nil {
		a.Color = state.MustColor("#ff0000")
	}
	if a.Line.Width == 0 {
		a.Line = state.Line{Width: 4, Join: state.JoinRound, Cap: state.CapRound}
	}
	el, err := state.NewElement(a)
	require.NoError(t, err)
	return el
}

func TestSVGDocument(t *testing.T) {
	rect := element(t, state.Attrs{Shape: state.Rectangle, Fill: true, FillRule: geom.EvenOdd,
		Points: []geom.Point{geom.Pt(10, 10), geom.Pt(30, 20)}})
	eraser := element(t, state.Attrs{Shape: state.Freehand, Eraser: true,
		Points: []geom.Point{geom.Pt(0, 0), geom.Pt(5, 5)}})

	out := string(SVG([]*state.Element{rect, eraser}, Options{Width: 200, Height: 100}))
	assert.True(t, strings.HasPrefix(out, `<svg viewBox="0 0 200 100" xmlns="http://www.w3.org/2000/svg">`))
	assert.NotContains(t, out, "xmlns:xlink")
	assert.NotContains(t, out, `id="background"`)
	assert.Contains(t, out, `<path d="M10 10 L30 10 L30 20 L10 20 Z" fill="rgb(255,0,0)" fill-rule="evenodd" stroke="rgb(255,0,0)" stroke-width="4" stroke-linejoin="round" stroke-linecap="round"/>`)
	assert.Contains(t, out, `<path d="M0 0 L5 5" fill="none" stroke="transparent"`)
	assert.True(t, strings.HasSuffix(out, "\n</svg>"))
}

func TestSVGBackgroundComesFirst(t *testing.T) {
	bg := state.MustColor("#102030")
	eraser := element(t, state.Attrs{Shape: state.Ellipse, Eraser: true,
		Points: []geom.Point{geom.Pt(50, 50), geom.Pt(60, 50)}})
	out := string(SVG([]*state.Element{eraser}, Options{Width: 100, Height: 100, Background: bg}))

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `  <rect id="background" width="100%" height="100%" fill="rgb(16,32,48)"/>`, lines[1])
	assert.Contains(t, lines[2], `stroke="rgb(16,32,48)"`)
	assert.Contains(t, lines[2], `C`)
}

func TestSVGTextAndImage(t *testing.T) {
	text := element(t, state.Attrs{Shape: state.Text, Points: []geom.Point{geom.Pt(0, 0), geom.Pt(40, 20)},
		Text: &state.TextPayload{Content: "a<b\nc", Font: &state.Font{Family: "Serif", Weight: state.WeightBold, Style: state.StyleItalic}}})
	tr := text.StartTransformation(transform.Translation, geom.Pt(0, 0), true)
	tr.Update(geom.Pt(5, 0))
	text.StopTransformation()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	pic := element(t, state.Attrs{Shape: state.Image, Points: []geom.Point{geom.Pt(0, 0), geom.Pt(20, 20)},
		Image: &state.ImagePayload{Ref: state.NewImageRefFrom("dot", img), Tinted: true}})

	out := string(SVG([]*state.Element{text, pic}, Options{Width: 100, Height: 100}))
	assert.Contains(t, out, `xmlns:xlink="http://www.w3.org/1999/xlink"`)
	assert.Contains(t, out, `font-family="Serif" font-size="20" font-weight="700" font-style="italic"`)
	assert.Contains(t, out, `transform="matrix(1 0 0 1 5 0)"`)
	assert.Contains(t, out, ">a&lt;b</text>")
	assert.Contains(t, out, ">c</text>")
	assert.Contains(t, out, `<image x="0" y="0" width="20" height="20" preserveAspectRatio="none" xlink:href="data:image/png;base64,`)
}

func TestPNG(t *testing.T) {
	rect := element(t, state.Attrs{Shape: state.Rectangle, Fill: true,
		Points: []geom.Point{geom.Pt(10, 10), geom.Pt(30, 30)}})
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, []*state.Element{rect}, Options{Width: 40, Height: 40, Background: state.MustColor("#0000ff")}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 40), img.Bounds())
	r, _, b, _ := img.At(20, 20).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Zero(t, b)
	r, _, b, _ = img.At(2, 2).RGBA()
	assert.Zero(t, r)
	assert.Equal(t, uint32(0xffff), b)
}

func TestPDF(t *testing.T) {
	line := element(t, state.Attrs{Shape: state.LineShape, Dash: state.Dash{Active: true},
		Points: []geom.Point{geom.Pt(0, 0), geom.Pt(10, 10), geom.Pt(20, 0)}})
	text := element(t, state.Attrs{Shape: state.Text, Points: []geom.Point{geom.Pt(0, 0), geom.Pt(40, 20)},
		Text: &state.TextPayload{Content: "héllo", Font: &state.Font{Family: "Monospace"}}})
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, []*state.Element{line, text}, Options{Width: 300, Height: 200}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestCoreFont(t *testing.T) {
	tests := []struct {
		font   *state.Font
		family string
		style  string
	}{
		{nil, "Helvetica", ""},
		{&state.Font{Family: "Sans-Serif", Weight: state.WeightNormal}, "Helvetica", ""},
		{&state.Font{Family: "Serif", Weight: state.WeightHeavy}, "Times", "B"},
		{&state.Font{Family: "DejaVu Sans Mono", Weight: state.WeightBold, Style: state.StyleOblique}, "Courier", "BI"},
	}
	for _, tt := range tests {
		family, style := coreFont(tt.font)
		assert.Equal(t, tt.family, family)
		assert.Equal(t, tt.style, style)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	f, err := ParseFormat("SVG")
	require.NoError(t, err)
	path := filepath.Join(dir, "drawing"+f.Ext())
	require.NoError(t, WriteFile(path, f, nil, Options{}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `<svg viewBox="0 0 800 600" xmlns="http://www.w3.org/2000/svg">`+"\n</svg>", string(data))

	_, err = ParseFormat("gif")
	assert.Error(t, err)
}
