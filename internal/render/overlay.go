package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/edge-refine-mcp/internal/raster"
	"github.com/ironsheep/edge-refine-mcp/internal/stroke"
)

// DefaultBackgroundOpacity is how strongly the radiograph shows under the
// refinement paths.
const DefaultBackgroundOpacity = 0.7

// Scene is what Overlay draws on top of the radiograph, bottom to top.
type Scene struct {
	Paths     []stroke.VectorPath
	Active    *stroke.VectorPath
	Indicator *stroke.Indicator
}

// Overlay composites the radiograph onto black at the given opacity and
// strokes the scene over it. Paths use their own width and colour with round
// caps and joins. Opacity is clamped to [0, 1].
func Overlay(buf *raster.PixelBuffer, scene Scene, opacity float64) (image.Image, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	opacity = min(max(opacity, 0), 1)

	bg := imaging.New(buf.Width(), buf.Height(), color.Black)
	bg = imaging.Overlay(bg, buf.NRGBA(), image.Pt(0, 0), opacity)

	dc := gg.NewContextForImage(bg)
	defer dc.Close()
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	for i := range scene.Paths {
		if err := drawPath(dc, &scene.Paths[i]); err != nil {
			return nil, err
		}
	}
	if scene.Active != nil {
		if err := drawPath(dc, scene.Active); err != nil {
			return nil, err
		}
	}
	if ind := scene.Indicator; ind != nil {
		dc.SetColor(stroke.IndicatorColor)
		if err := polyline(dc, ind.Points, ind.Width, false); err != nil {
			return nil, fmt.Errorf("failed to draw erase indicator: %w", err)
		}
	}
	return dc.Image(), nil
}

func drawPath(dc *gg.Context, p *stroke.VectorPath) error {
	c, err := colorful.Hex(p.Color)
	if err != nil {
		c, _ = colorful.Hex(stroke.DefaultColor)
	}
	dc.SetColor(c)
	if err := polyline(dc, p.Points, p.Width, false); err != nil {
		return fmt.Errorf("failed to draw path %s: %w", p.ID, err)
	}
	return nil
}
