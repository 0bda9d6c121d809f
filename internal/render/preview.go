package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"

	"github.com/ironsheep/edge-refine-mcp/internal/edge"
	"github.com/ironsheep/edge-refine-mcp/internal/geom"
)

// ErrEmptyScene is returned when there is no canvas to draw on.
var ErrEmptyScene = errors.New("render: empty canvas")

// PrimaryColor is the colour of the primary contour in previews.
const PrimaryColor = "#00FF00"

// DetectionPreview draws the edge map in white on black, outlines every
// contour in white and the primary contour in 2px green.
//
// Contour vertices are pixel indices, so they are drawn through pixel
// centres.
func DetectionPreview(res *edge.Result) (image.Image, error) {
	if res == nil || res.Width <= 0 || res.Height <= 0 {
		return nil, ErrEmptyScene
	}

	var base image.Image
	if res.Edges != nil {
		base = res.Edges.Gray()
	} else {
		base = imaging.New(res.Width, res.Height, color.Black)
	}

	dc := gg.NewContextForImage(base)
	defer dc.Close()
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	dc.SetColor(color.White)
	for i, c := range res.Contours {
		if i == res.Primary {
			continue
		}
		if err := polyline(dc, pixelCentres(c.Points), 1, true); err != nil {
			return nil, fmt.Errorf("failed to draw contour %d: %w", i, err)
		}
	}

	if c, ok := res.PrimaryContour(); ok {
		dc.SetHexColor(PrimaryColor)
		if err := polyline(dc, pixelCentres(c.Points), 2, true); err != nil {
			return nil, fmt.Errorf("failed to draw primary contour: %w", err)
		}
	}
	return dc.Image(), nil
}

func pixelCentres(pts []edge.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = geom.Pt(float64(p.X)+0.5, float64(p.Y)+0.5)
	}
	return out
}

// polyline strokes pts with the current colour. A single point is drawn as
// a filled dot of the same width.
func polyline(dc *gg.Context, pts []geom.Point, width float64, closed bool) error {
	switch len(pts) {
	case 0:
		return nil
	case 1:
		dc.DrawCircle(pts[0].X, pts[0].Y, width/2)
		return dc.Fill()
	}

	dc.SetLineWidth(width)
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	if closed {
		dc.ClosePath()
	}
	return dc.Stroke()
}
