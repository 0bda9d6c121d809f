package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ironsheep/edge-refine-mcp/internal/geom"
	"github.com/ironsheep/edge-refine-mcp/internal/stroke"
)

// PathSummary describes one path of a handoff.
type PathSummary struct {
	ID     string        `json:"id"`
	Origin stroke.Origin `json:"origin"`
	Points int           `json:"points"`
	Length float64       `json:"length"`
	Bounds geom.Rect     `json:"bounds"`
}

// Summary aggregates a path set for reporting.
type Summary struct {
	PathCount   int           `json:"path_count"`
	PointCount  int           `json:"point_count"`
	TotalLength float64       `json:"total_length"`
	Bounds      geom.Rect     `json:"bounds"`
	Paths       []PathSummary `json:"paths"`
}

// Summarize measures paths. Bounds cover every point of every path.
func Summarize(paths []stroke.VectorPath) Summary {
	s := Summary{
		PathCount: len(paths),
		Paths:     make([]PathSummary, 0, len(paths)),
	}
	var all []geom.Point
	for _, p := range paths {
		length := geom.PathLength(p.Points)
		s.Paths = append(s.Paths, PathSummary{
			ID:     p.ID,
			Origin: p.Origin,
			Points: len(p.Points),
			Length: length,
			Bounds: geom.Bounds(p.Points),
		})
		s.PointCount += len(p.Points)
		s.TotalLength += length
		all = append(all, p.Points...)
	}
	s.Bounds = geom.Bounds(all)
	return s
}

// Handoff is the final path set passed to the annotation tools.
type Handoff struct {
	ImageID string              `json:"image_id"`
	Width   int                 `json:"width"`
	Height  int                 `json:"height"`
	Paths   []stroke.VectorPath `json:"paths"`
	Summary Summary             `json:"summary"`
}

// NewHandoff builds a handoff for an image and fills in its summary.
func NewHandoff(imageID string, width, height int, paths []stroke.VectorPath) *Handoff {
	if paths == nil {
		paths = []stroke.VectorPath{}
	}
	return &Handoff{
		ImageID: imageID,
		Width:   width,
		Height:  height,
		Paths:   paths,
		Summary: Summarize(paths),
	}
}

// ExportJSON writes h as indented JSON.
func ExportJSON(w io.Writer, h *Handoff) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(h); err != nil {
		return fmt.Errorf("failed to encode handoff: %w", err)
	}
	return nil
}

// ImportJSON reads a handoff written by ExportJSON.
func ImportJSON(r io.Reader) (*Handoff, error) {
	var h Handoff
	if err := json.NewDecoder(r).Decode(&h); err != nil {
		return nil, fmt.Errorf("failed to decode handoff: %w", err)
	}
	return &h, nil
}
