package state

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strconv"
	"strings"
	"sync"

	"DrawOnScreen/internal/geom"

	"github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/colornames"
	_ "golang.org/x/image/webp"
)

// Color is a shared color handle. Elements drawn with the same palette
// entry point to the same *Color.
type Color struct {
	RGBA   color.NRGBA
	Source string // machine-readable form, e.g. "#ff0000" or "white"
	Name   string // display name, may be empty
}

// ParseColor reads "colorString" or "colorString:Display Name". The color
// string is a hex value (#rgb, #rrggbb, #rrggbbaa), an SVG color name,
// "transparent", or rgb()/rgba() notation.
func ParseColor(s string) (*Color, error) {
	src, name, _ := strings.Cut(strings.TrimSpace(s), ":")
	src = strings.TrimSpace(src)
	c, err := parseColorString(src)
	if err != nil {
		return nil, err
	}
	return &Color{RGBA: c, Source: src, Name: strings.TrimSpace(name)}, nil
}

// MustColor is ParseColor for literals known to be valid.
func MustColor(s string) *Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseColorString(s string) (color.NRGBA, error) {
	lower := strings.ToLower(s)
	switch {
	case lower == "transparent":
		return color.NRGBA{}, nil
	case strings.HasPrefix(lower, "#"):
		var alpha uint8 = 0xff
		hex := lower
		if len(hex) == 9 {
			a, err := strconv.ParseUint(hex[7:], 16, 8)
			if err != nil {
				return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
			}
			alpha, hex = uint8(a), hex[:7]
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
	case strings.HasPrefix(lower, "rgb"):
		return parseRGBFunc(s)
	}
	if c, ok := colornames.Map[lower]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return color.NRGBA{}, fmt.Errorf("color %q: unrecognized", s)
}

func parseRGBFunc(s string) (color.NRGBA, error) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return color.NRGBA{}, fmt.Errorf("color %q: malformed", s)
	}
	parts := strings.Split(s[open+1:end], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, fmt.Errorf("color %q: expected 3 or 4 components", s)
	}
	var v [4]float64
	v[3] = 1
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
		}
		v[i] = f
	}
	clamp := func(f float64) uint8 {
		if f < 0 {
			return 0
		}
		if f > 255 {
			return 255
		}
		return uint8(f + 0.5)
	}
	return color.NRGBA{R: clamp(v[0]), G: clamp(v[1]), B: clamp(v[2]), A: clamp(v[3] * 255)}, nil
}

// String is the machine-readable projection.
func (c *Color) String() string { return c.Source }

// Display is the human-readable projection.
func (c *Color) Display() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Source
}

// Portable is the form stored in drawing files and configuration.
func (c *Color) Portable() string {
	if c.Name != "" {
		return c.Source + ":" + c.Name
	}
	return c.Source
}

// Hex returns #rrggbb, with an alpha byte appended when not opaque.
func (c *Color) Hex() string {
	h := colorful.Color{R: float64(c.RGBA.R) / 255, G: float64(c.RGBA.G) / 255, B: float64(c.RGBA.B) / 255}.Hex()
	if c.RGBA.A != 0xff {
		h += fmt.Sprintf("%02x", c.RGBA.A)
	}
	return h
}

type FontWeight int

const (
	WeightThin   FontWeight = 100
	WeightLight  FontWeight = 300
	WeightNormal FontWeight = 400
	WeightMedium FontWeight = 500
	WeightBold   FontWeight = 700
	WeightHeavy  FontWeight = 900
)

// FontWeights is the cycling order of the weight switch.
var FontWeights = []FontWeight{WeightThin, WeightLight, WeightNormal, WeightMedium, WeightBold, WeightHeavy}

var weightNames = map[FontWeight]string{
	WeightThin:   "Thin",
	WeightLight:  "Light",
	WeightNormal: "Normal",
	WeightMedium: "Medium",
	WeightBold:   "Bold",
	WeightHeavy:  "Heavy",
}

func (w FontWeight) String() string {
	if n, ok := weightNames[w]; ok {
		return n
	}
	return strconv.Itoa(int(w))
}

type FontStyle int

const (
	StyleNormal FontStyle = iota
	StyleItalic
	StyleOblique
)

var styleNames = [...]string{"Normal", "Italic", "Oblique"}

func (s FontStyle) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return "Normal"
	}
	return styleNames[s]
}

// Font is a font descriptor handle.
type Font struct {
	Family string
	Weight FontWeight
	Style  FontStyle
}

// ParseFont reads a description such as "Sans Bold Italic". Trailing
// weight and style words are recognised, the rest is the family.
func ParseFont(s string) (*Font, error) {
	fields := strings.Fields(s)
	f := &Font{Weight: WeightNormal, Style: StyleNormal}
	for len(fields) > 1 {
		last := fields[len(fields)-1]
		if w, ok := lookupWeight(last); ok {
			f.Weight = w
		} else if st, ok := lookupStyle(last); ok {
			f.Style = st
		} else if _, err := strconv.ParseFloat(last, 64); err == nil {
			// size, the element height drives it instead
		} else {
			break
		}
		fields = fields[:len(fields)-1]
	}
	f.Family = strings.Join(fields, " ")
	if f.Family == "" {
		return nil, fmt.Errorf("font %q: missing family", s)
	}
	return f, nil
}

func lookupWeight(s string) (FontWeight, bool) {
	for w, n := range weightNames {
		if strings.EqualFold(n, s) && w != WeightNormal {
			return w, true
		}
	}
	return 0, false
}

func lookupStyle(s string) (FontStyle, bool) {
	for i, n := range styleNames {
		if i > 0 && strings.EqualFold(n, s) {
			return FontStyle(i), true
		}
	}
	return 0, false
}

// String formats the descriptor in the form ParseFont reads.
func (f *Font) String() string {
	parts := []string{f.Family}
	if f.Weight != WeightNormal {
		parts = append(parts, f.Weight.String())
	}
	if f.Style != StyleNormal {
		parts = append(parts, f.Style.String())
	}
	return strings.Join(parts, " ")
}

// Copy returns an independent descriptor, used when the current font is
// attached to a new text element.
func (f *Font) Copy() *Font {
	c := *f
	return &c
}

// ImageRef is a shared handle on an external image file. Decoding is lazy
// and happens once.
type ImageRef struct {
	Path string
	Name string

	once sync.Once
	img  image.Image
	err  error
}

func NewImageRef(path string) *ImageRef {
	name := path
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		name = path[i+1:]
	}
	return &ImageRef{Path: path, Name: name}
}

// NewImageRefFrom wraps an already decoded image.
func NewImageRefFrom(name string, img image.Image) *ImageRef {
	r := &ImageRef{Path: name, Name: name, img: img}
	r.once.Do(func() {})
	return r
}

func (r *ImageRef) Image() (image.Image, error) {
	r.once.Do(func() {
		f, err := os.Open(r.Path)
		if err != nil {
			r.err = err
			return
		}
		defer f.Close()
		r.img, _, r.err = image.Decode(f)
	})
	return r.img, r.err
}

// AspectRatio returns width / height of the image, 1 when unknown.
func (r *ImageRef) AspectRatio() float64 {
	img, err := r.Image()
	if err != nil || img.Bounds().Dy() == 0 {
		return 1
	}
	return float64(img.Bounds().Dx()) / float64(img.Bounds().Dy())
}

type LineJoin int

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

var joinNames = [...]string{"miter", "round", "bevel"}

func (j LineJoin) String() string { return joinNames[j%3] }

type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

var capNames = [...]string{"butt", "round", "square"}

func (c LineCap) String() string { return capNames[c%3] }

// Line holds the stroke parameters.
type Line struct {
	Width float64
	Join  LineJoin
	Cap   LineCap
}

// Dash is the dash pattern. Array holds on/off lengths.
type Dash struct {
	Active bool
	Array  [2]float64
	Offset float64
}

type FillRule = geom.FillRule

type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

var alignNames = [...]string{"left", "center", "right"}

func (a TextAlign) String() string { return alignNames[a%3] }

func lookupName(names []string, s string) (int, bool) {
	for i, n := range names {
		if n == s {
			return i, true
		}
	}
	return 0, false
}
