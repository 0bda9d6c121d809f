package render

import (
	"fmt"
	"io"

	"github.com/gotranspile/gotrace"

	"github.com/ironsheep/edge-refine-mcp/internal/edge"
)

// VectorizeEdges traces the edge pixels of m with potrace and writes the
// outlines as an SVG document the size of the map.
func VectorizeEdges(w io.Writer, m *edge.BinaryEdgeMap) error {
	if m == nil || m.Width <= 0 || m.Height <= 0 {
		return ErrEmptyScene
	}

	bm := gotrace.BitmapFromGray(m.Gray(), nil)
	paths, err := gotrace.Trace(bm, nil)
	if err != nil {
		return fmt.Errorf("failed to trace edge map: %w", err)
	}
	if err := gotrace.Render("svg", nil, w, paths, m.Width, m.Height); err != nil {
		return fmt.Errorf("failed to render traced edges: %w", err)
	}
	return nil
}
