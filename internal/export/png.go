package export

import (
	"image/png"
	"io"
	"math"

	"DrawOnScreen/internal/render"
	"DrawOnScreen/internal/state"
)

// PNG rasterizes the drawing with the screen painter. Without a
// background the image is transparent where nothing was drawn.
func PNG(w io.Writer, elements []*state.Element, opts Options) error {
	width, height := opts.size()
	p := render.NewPainter(render.DefaultFonts)
	img := p.Paint(render.Scene{
		Elements:   elements,
		Background: opts.Background,
	}, int(math.Ceil(width)), int(math.Ceil(height)), true)
	return png.Encode(w, img)
}
