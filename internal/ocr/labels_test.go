package ocr

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/edge-refine-mcp/internal/raster"
)

// drawText draws text on an image using basicfont
func drawText(img draw.Image, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// createLabelledRadiograph renders white text on a dark background, scaled
// up so Tesseract can read the bitmap font.
func createLabelledRadiograph(t *testing.T, text string, scale int) *raster.PixelBuffer {
	t.Helper()

	small := image.NewNRGBA(image.Rect(0, 0, len(text)*7+40, 40))
	draw.Draw(small, small.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	drawText(small, 20, 25, text, color.White)

	big := imaging.Resize(small, small.Bounds().Dx()*scale, 0, imaging.NearestNeighbor)
	buf, err := raster.Sample(big)
	if err != nil {
		t.Fatalf("failed to sample: %v", err)
	}
	return buf
}

func skipWithoutTesseract(t *testing.T) {
	t.Helper()
	if err := Available(); err != nil {
		t.Skip("Tesseract not available")
	}
}

func TestLabelDetector_FindsText(t *testing.T) {
	skipWithoutTesseract(t)

	buf := createLabelledRadiograph(t, "LEFT LATERAL", 4)
	d := &LabelDetector{MinConfidence: 0, Padding: 6}

	labels, err := d.Detect(context.Background(), buf)
	if err != nil {
		if strings.Contains(err.Error(), "language") {
			t.Skip("Tesseract language data not available")
		}
		t.Fatalf("Detect failed: %v", err)
	}
	if len(labels) == 0 {
		t.Fatal("expected at least one text block")
	}
	for _, l := range labels {
		if !l.Bounds.In(buf.Bounds()) {
			t.Errorf("label %v outside image %v", l.Bounds, buf.Bounds())
		}
	}
}

func TestLabelDetector_InvalidBuffer(t *testing.T) {
	d := &LabelDetector{}
	if _, err := d.Detect(context.Background(), nil); err == nil {
		t.Error("expected error for nil buffer")
	}
}

func TestLabelDetector_FilterAndPad(t *testing.T) {
	d := &LabelDetector{MinConfidence: 50, Padding: 5}
	bounds := image.Rect(0, 0, 100, 100)

	boxes := []gosseract.BoundingBox{
		{Box: image.Rect(10, 10, 30, 20), Word: " R \n", Confidence: 91},
		{Box: image.Rect(40, 40, 60, 50), Word: "noise", Confidence: 12},
		{Box: image.Rect(90, 0, 99, 8), Word: "L", Confidence: 75},
	}

	got := d.labels(boxes, bounds)
	if len(got) != 2 {
		t.Fatalf("labels: got %d, want 2", len(got))
	}

	if got[0].Bounds != image.Rect(5, 5, 35, 25) {
		t.Errorf("padded bounds: got %v", got[0].Bounds)
	}
	if got[0].Text != "R" {
		t.Errorf("text: got %q, want R", got[0].Text)
	}
	if got[1].Bounds != image.Rect(85, 0, 100, 13) {
		t.Errorf("clipped bounds: got %v", got[1].Bounds)
	}

	rects := Rects(got)
	if len(rects) != 2 || rects[1] != got[1].Bounds {
		t.Errorf("Rects: got %v", rects)
	}
}
