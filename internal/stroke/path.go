package stroke

import (
	"github.com/ironsheep/edge-refine-mcp/internal/geom"
)

// Origin records where a path came from.
type Origin string

const (
	// OriginDrawn marks paths drawn by the operator.
	OriginDrawn Origin = "drawn"

	// OriginDerived marks paths seeded from an extracted contour.
	OriginDerived Origin = "derived"
)

// VectorPath is a freehand or contour-derived stroke.
type VectorPath struct {
	ID     string       `json:"id"`
	Points []geom.Point `json:"points"`

	// Width is the stroke width in pixels.
	Width float64 `json:"width"`

	// Color is the stroke colour as #RRGGBB.
	Color string `json:"color"`

	Origin Origin `json:"origin"`
}

// Clone returns a deep copy of p.
func (p *VectorPath) Clone() *VectorPath {
	cp := *p
	cp.Points = append([]geom.Point(nil), p.Points...)
	return &cp
}

// Hit reports whether pt lies strictly closer than radius to any segment of
// the path. A single-point path is treated as a zero-length segment.
func (p *VectorPath) Hit(pt geom.Point, radius float64) bool {
	return geom.DistToPolyline(pt, p.Points) < radius
}

// PathSet is an ordered collection of paths. The last path is topmost.
type PathSet struct {
	paths []*VectorPath
}

// NewPathSet returns a set holding copies of paths in order.
func NewPathSet(paths ...VectorPath) *PathSet {
	s := &PathSet{paths: make([]*VectorPath, 0, len(paths))}
	for i := range paths {
		s.paths = append(s.paths, paths[i].Clone())
	}
	return s
}

// Len returns the number of paths.
func (s *PathSet) Len() int {
	return len(s.paths)
}

// At returns the i-th path from the bottom. The returned path is live:
// modifying it modifies the set.
func (s *PathSet) At(i int) *VectorPath {
	return s.paths[i]
}

// Add appends p on top of the set.
func (s *PathSet) Add(p *VectorPath) {
	s.paths = append(s.paths, p)
}

// Remove deletes the path with the given id and reports whether it existed.
func (s *PathSet) Remove(id string) bool {
	for i, p := range s.paths {
		if p.ID == id {
			s.removeAt(i)
			return true
		}
	}
	return false
}

func (s *PathSet) has(id string) bool {
	for _, p := range s.paths {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (s *PathSet) removeAt(i int) {
	copy(s.paths[i:], s.paths[i+1:])
	s.paths[len(s.paths)-1] = nil
	s.paths = s.paths[:len(s.paths)-1]
}

// TopmostHit returns the index of the topmost path hit by pt, or -1.
func (s *PathSet) TopmostHit(pt geom.Point, radius float64) int {
	for i := len(s.paths) - 1; i >= 0; i-- {
		if s.paths[i].Hit(pt, radius) {
			return i
		}
	}
	return -1
}

// Snapshot returns deep copies of every path, bottom first.
func (s *PathSet) Snapshot() []VectorPath {
	out := make([]VectorPath, len(s.paths))
	for i, p := range s.paths {
		out[i] = *p.Clone()
	}
	return out
}

// Filter returns copies of the paths with the given origin, bottom first.
func (s *PathSet) Filter(origin Origin) []VectorPath {
	out := make([]VectorPath, 0)
	for _, p := range s.paths {
		if p.Origin == origin {
			out = append(out, *p.Clone())
		}
	}
	return out
}
