package raster

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// BytesPerPixel is the number of samples stored per pixel (R, G, B, A).
const BytesPerPixel = 4

var (
	// ErrEmptyBuffer is returned for images or buffers with no pixels.
	ErrEmptyBuffer = errors.New("raster: empty pixel buffer")

	// ErrMalformedBuffer is returned when the sample array does not match the
	// declared dimensions.
	ErrMalformedBuffer = errors.New("raster: malformed pixel buffer")
)

// PixelBuffer is an immutable RGBA capture of a bitmap.
//
// Samples are non-premultiplied and stored row-major: the pixel at (x, y)
// starts at offset (y*Width + x) * 4.
type PixelBuffer struct {
	width  int
	height int
	pix    []byte
}

// New builds a PixelBuffer from raw RGBA samples. The slice is copied.
//
// Returns ErrEmptyBuffer if either dimension is not positive and
// ErrMalformedBuffer if len(pix) != width*height*4.
func New(width, height int, pix []byte) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyBuffer
	}
	if len(pix) != width*height*BytesPerPixel {
		return nil, fmt.Errorf("%w: have %d samples, want %d for %dx%d",
			ErrMalformedBuffer, len(pix), width*height*BytesPerPixel, width, height)
	}
	cp := make([]byte, len(pix))
	copy(cp, pix)
	return &PixelBuffer{width: width, height: height, pix: cp}, nil
}

// Sample reads a decoded image into a new PixelBuffer.
//
// The image is cloned into non-premultiplied RGBA with its origin moved to
// (0, 0), so buffers captured from sub-images start at the top-left corner of
// the sub-image.
func Sample(img image.Image) (*PixelBuffer, error) {
	if img == nil {
		return nil, ErrEmptyBuffer
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyBuffer
	}

	nrgba := imaging.Clone(img)
	return &PixelBuffer{
		width:  nrgba.Bounds().Dx(),
		height: nrgba.Bounds().Dy(),
		pix:    nrgba.Pix,
	}, nil
}

// Width returns the buffer width in pixels. A nil buffer has width 0.
func (b *PixelBuffer) Width() int {
	if b == nil {
		return 0
	}
	return b.width
}

// Height returns the buffer height in pixels. A nil buffer has height 0.
func (b *PixelBuffer) Height() int {
	if b == nil {
		return 0
	}
	return b.height
}

// Bounds returns the rectangle (0,0)-(Width,Height).
func (b *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width(), b.Height())
}

// Validate reports whether the buffer can be fed to the extraction pipeline.
func (b *PixelBuffer) Validate() error {
	if b == nil || b.width <= 0 || b.height <= 0 {
		return ErrEmptyBuffer
	}
	if len(b.pix) != b.width*b.height*BytesPerPixel {
		return ErrMalformedBuffer
	}
	return nil
}

// RGBAAt returns the samples at (x, y). Coordinates outside the buffer
// return all zeros.
func (b *PixelBuffer) RGBAAt(x, y int) (r, g, bl, a uint8) {
	if x < 0 || y < 0 || x >= b.Width() || y >= b.Height() {
		return 0, 0, 0, 0
	}
	i := (y*b.width + x) * BytesPerPixel
	return b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3]
}

// Pix returns a copy of the raw samples.
func (b *PixelBuffer) Pix() []byte {
	if b == nil {
		return nil
	}
	cp := make([]byte, len(b.pix))
	copy(cp, b.pix)
	return cp
}

// NRGBA returns a copy of the buffer as a standard library image.
func (b *PixelBuffer) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(b.Bounds())
	if b != nil {
		copy(img.Pix, b.pix)
	}
	return img
}
