package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/edge-refine-mcp/internal/raster"
)

// Label is a block of burned-in text.
type Label struct {
	// Bounds is the padded rectangle, clipped to the image.
	Bounds image.Rectangle `json:"bounds"`

	// Text is what Tesseract read in the block, trimmed.
	Text string `json:"text"`

	// Confidence is Tesseract's certainty that the block is text, 0-100.
	Confidence float64 `json:"confidence"`
}

// LabelDetector locates text blocks in a pixel buffer.
type LabelDetector struct {
	// Language is the Tesseract language code, "eng" when empty.
	Language string

	// MinConfidence drops blocks Tesseract is less certain about (0-100).
	MinConfidence float64

	// Padding grows every block on all sides, in pixels.
	Padding int
}

// Available reports whether Tesseract can be initialised.
func Available() error {
	client := gosseract.NewClient()
	defer client.Close()
	if client.Version() == "" {
		return fmt.Errorf("tesseract library not available")
	}
	return nil
}

// Detect runs block-level OCR over buf.
func (d *LabelDetector) Detect(ctx context.Context, buf *raster.PixelBuffer) ([]Label, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	var encoded bytes.Buffer
	if err := imaging.Encode(&encoded, buf.NRGBA(), imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image for OCR: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	lang := d.Language
	if lang == "" {
		lang = "eng"
	}
	if err := client.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set language %s: %w", lang, err)
	}
	if err := client.SetImageFromBytes(encoded.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return nil, fmt.Errorf("failed to get text blocks: %w", err)
	}

	return d.labels(boxes, buf.Bounds()), nil
}

// Mask returns the rectangles to exclude from extraction.
func (d *LabelDetector) Mask(ctx context.Context, buf *raster.PixelBuffer) ([]image.Rectangle, error) {
	labels, err := d.Detect(ctx, buf)
	if err != nil {
		return nil, err
	}
	return Rects(labels), nil
}

// labels filters boxes by confidence and pads them within bounds.
func (d *LabelDetector) labels(boxes []gosseract.BoundingBox, bounds image.Rectangle) []Label {
	out := make([]Label, 0, len(boxes))
	for _, box := range boxes {
		if box.Confidence < d.MinConfidence {
			continue
		}
		r := box.Box.Inset(-d.Padding).Intersect(bounds)
		if r.Empty() {
			continue
		}
		out = append(out, Label{
			Bounds:     r,
			Text:       strings.TrimSpace(box.Word),
			Confidence: box.Confidence,
		})
	}
	return out
}

// Rects returns the bounds of every label.
func Rects(labels []Label) []image.Rectangle {
	out := make([]image.Rectangle, len(labels))
	for i, l := range labels {
		out[i] = l.Bounds
	}
	return out
}
