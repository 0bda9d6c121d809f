package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultGridColor is semi-transparent red.
const DefaultGridColor = "#FF000080"

// Grid draws coordinate lines over a rendered image so stroke samples can be
// read off it.
type Grid struct {
	// Spacing is the distance between lines in pixels.
	Spacing int

	// Labels annotates every intersection with its x,y position.
	Labels bool

	// Color is #RRGGBB or #RRGGBBAA; DefaultGridColor when empty.
	Color string
}

// Draw returns a copy of img with the grid on top.
func (g Grid) Draw(img image.Image) (image.Image, error) {
	if g.Spacing <= 0 {
		return nil, fmt.Errorf("grid spacing must be positive, got %d", g.Spacing)
	}
	hex := g.Color
	if hex == "" {
		hex = DefaultGridColor
	}
	lineColor, err := parseHexAlpha(hex)
	if err != nil {
		return nil, err
	}

	out := imaging.Clone(img)
	w, h := out.Bounds().Dx(), out.Bounds().Dy()
	line := image.NewUniform(lineColor)

	for x := g.Spacing; x < w; x += g.Spacing {
		draw.Draw(out, image.Rect(x, 0, x+1, h), line, image.Point{}, draw.Over)
	}
	for y := g.Spacing; y < h; y += g.Spacing {
		draw.Draw(out, image.Rect(0, y, w, y+1), line, image.Point{}, draw.Over)
	}

	if g.Labels {
		for y := g.Spacing; y < h; y += g.Spacing {
			for x := g.Spacing; x < w; x += g.Spacing {
				drawLabel(out, x+2, y+2, fmt.Sprintf("%d,%d", x, y))
			}
		}
	}
	return out, nil
}

// drawLabel writes text with its top-left corner at x, y on a dark box.
func drawLabel(dst draw.Image, x, y int, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent),
	}
	box := image.Rect(x-1, y-1, x+d.MeasureString(text).Ceil()+1, y+face.Height)
	draw.Draw(dst, box, image.NewUniform(color.NRGBA{0, 0, 0, 180}), image.Point{}, draw.Over)
	d.DrawString(text)
}

// parseHexAlpha accepts #RRGGBB and #RRGGBBAA.
func parseHexAlpha(hex string) (color.NRGBA, error) {
	alpha := uint64(255)
	if len(hex) == 9 {
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid grid colour %q: %w", hex, err)
		}
		alpha, hex = a, hex[:7]
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid grid colour %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha)}, nil
}
