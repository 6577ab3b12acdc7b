// Package export writes a drawing as an SVG, PDF or PNG document.
package export

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"DrawOnScreen/internal/logging"
	"DrawOnScreen/internal/state"
)

type Format int

const (
	FormatSVG Format = iota
	FormatPNG
	FormatPDF
)

var formatNames = [...]string{"svg", "png", "pdf"}

func (f Format) String() string { return formatNames[f] }

// Ext is the file extension of the format, with the dot.
func (f Format) Ext() string { return "." + f.String() }

func ParseFormat(s string) (Format, error) {
	for i, n := range formatNames {
		if strings.EqualFold(n, s) {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("unknown export format %q", s)
}

// Options describe the exported page.
type Options struct {
	Width  float64
	Height float64
	// Background fills the page when set. Eraser elements are painted with
	// it, or are transparent without it.
	Background *state.Color
}

func (o Options) size() (float64, float64) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 800
	}
	if h <= 0 {
		h = 600
	}
	return w, h
}

// Render returns the document bytes of elements in format f.
func Render(f Format, elements []*state.Element, opts Options) ([]byte, error) {
	switch f {
	case FormatSVG:
		return SVG(elements, opts), nil
	case FormatPNG:
		var buf bytes.Buffer
		if err := PNG(&buf, elements, opts); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatPDF:
		var buf bytes.Buffer
		if err := PDF(&buf, elements, opts); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown export format %d", int(f))
}

// WriteFile renders elements into path.
func WriteFile(path string, f Format, elements []*state.Element, opts Options) error {
	data, err := Render(f, elements, opts)
	if err != nil {
		return fmt.Errorf("export %s: %w", f, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("export %s: %w", f, err)
	}
	logging.Logger().Info("drawing exported", "path", path, "format", f.String(), "elements", len(elements))
	return nil
}
