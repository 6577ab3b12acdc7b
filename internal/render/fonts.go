package render

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"DrawOnScreen/internal/state"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Fonts maps font descriptors onto the Go font family and caches the
// parsed fonts and sized faces.
type Fonts struct {
	mu    sync.Mutex
	fonts map[string]*truetype.Font
	faces map[faceKey]font.Face
}

type faceKey struct {
	file string
	size float64
}

var DefaultFonts = NewFonts()

func NewFonts() *Fonts {
	return &Fonts{fonts: make(map[string]*truetype.Font), faces: make(map[faceKey]font.Face)}
}

var ttfFiles = map[string][]byte{
	"regular":        goregular.TTF,
	"bold":           gobold.TTF,
	"italic":         goitalic.TTF,
	"bolditalic":     gobolditalic.TTF,
	"mono":           gomono.TTF,
	"monobold":       gomonobold.TTF,
	"monoitalic":     gomonoitalic.TTF,
	"monobolditalic": gomonobolditalic.TTF,
}

// fileFor picks the Go font variant closest to f.
func fileFor(f *state.Font) string {
	var name string
	if f != nil && strings.Contains(strings.ToLower(f.Family), "mono") {
		name = "mono"
	}
	bold := f != nil && f.Weight >= state.WeightBold
	italic := f != nil && f.Style != state.StyleNormal
	switch {
	case bold && italic:
		name += "bolditalic"
	case bold:
		name += "bold"
	case italic:
		name += "italic"
	case name == "":
		name = "regular"
	}
	return name
}

// Face returns a face for f at size pixels. Sizes are rounded to a quarter
// pixel to bound the cache.
func (fs *Fonts) Face(f *state.Font, size float64) (font.Face, error) {
	size = math.Max(1, math.Round(size*4)/4)
	key := faceKey{file: fileFor(f), size: size}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if face, ok := fs.faces[key]; ok {
		return face, nil
	}
	tt, ok := fs.fonts[key.file]
	if !ok {
		var err error
		tt, err = truetype.Parse(ttfFiles[key.file])
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", key.file, err)
		}
		fs.fonts[key.file] = tt
	}
	face := truetype.NewFace(tt, &truetype.Options{Size: size, Hinting: font.HintingFull})
	fs.faces[key] = face
	return face, nil
}
