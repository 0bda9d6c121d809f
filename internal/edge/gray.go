package edge

import (
	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/edge-refine-mcp/internal/raster"
)

// Grayscale reduces a pixel buffer to luminance using bild's fixed weights
// (0.3 R + 0.6 G + 0.1 B).
func Grayscale(buf *raster.PixelBuffer) (*GrayscaleBuffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	gray := effect.Grayscale(buf.NRGBA())
	w, h := buf.Width(), buf.Height()
	out := &GrayscaleBuffer{Width: w, Height: h, Pix: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		src := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		copy(out.Pix[y*w:(y+1)*w], src)
	}
	return out, nil
}
