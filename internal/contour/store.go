// Package contour carries extraction results and refined paths between the
// stages of a refinement session.
//
// Store is the single handoff point, keyed by image identifier. Lookups for
// an unknown identifier report "no data" and never return another image's
// results; Seed turns that into the placeholder ring so refinement always has
// something to start from.
//
// Store is safe for concurrent use: asynchronous extraction commits results
// from worker goroutines.
package contour

import (
	"sync"

	"github.com/ironsheep/edge-refine-mcp/internal/edge"
	"github.com/ironsheep/edge-refine-mcp/internal/geom"
	"github.com/ironsheep/edge-refine-mcp/internal/stroke"
)

// Seed is the polyline refinement starts from.
type Seed struct {
	Points []geom.Point `json:"points"`

	// Placeholder is set when no primary contour was stored for the image
	// and Points holds the synthetic ring.
	Placeholder bool `json:"placeholder"`

	// Seq is the extraction sequence number the seed came from, zero for the
	// placeholder.
	Seq uint64 `json:"seq"`
}

type entry struct {
	seq       uint64
	detection *edge.Result
	refined   []stroke.VectorPath
}

// Store holds the latest detection and refined paths per image.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

func (s *Store) entry(id string) *entry {
	e, ok := s.entries[id]
	if !ok {
		e = &entry{}
		s.entries[id] = e
	}
	return e
}

// PutDetection stores res as the detection for id produced by request seq.
// It replaces any earlier detection and reports false, storing nothing, when
// a result from a later request is already stored.
func (s *Store) PutDetection(id string, seq uint64, res *edge.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(id)
	if seq < e.seq {
		return false
	}
	e.seq = seq
	e.detection = res
	return true
}

// ClearDetection drops the detection for id unless a later request has
// already stored one. It reports whether anything was cleared.
func (s *Store) ClearDetection(id string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || seq < e.seq {
		return false
	}
	e.seq = seq
	e.detection = nil
	return true
}

// Detection returns the stored detection for id and the sequence number it
// came from.
func (s *Store) Detection(id string) (*edge.Result, uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok || e.detection == nil {
		return nil, 0, false
	}
	return e.detection, e.seq, true
}

// Seed returns the primary contour of the stored detection for id as a
// polyline, or the placeholder ring when there is none.
func (s *Store) Seed(id string) Seed {
	res, seq, ok := s.Detection(id)
	if ok {
		if c, found := res.PrimaryContour(); found {
			return Seed{Points: toGeom(c.Points), Seq: seq}
		}
	}
	return Seed{Points: toGeom(edge.Placeholder().Points), Placeholder: true}
}

// PutRefined stores copies of the refined paths for id.
func (s *Store) PutRefined(id string, paths []stroke.VectorPath) {
	cp := make([]stroke.VectorPath, len(paths))
	for i := range paths {
		cp[i] = *paths[i].Clone()
	}

	s.mu.Lock()
	s.entry(id).refined = cp
	s.mu.Unlock()
}

// Refined returns copies of the refined paths stored for id.
func (s *Store) Refined(id string) ([]stroke.VectorPath, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok || e.refined == nil {
		return nil, false
	}
	out := make([]stroke.VectorPath, len(e.refined))
	for i := range e.refined {
		out[i] = *e.refined[i].Clone()
	}
	return out, true
}

// Forget removes everything stored for id.
func (s *Store) Forget(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

func toGeom(pts []edge.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = geom.Pt(float64(p.X), float64(p.Y))
	}
	return out
}
