// Package smooth provides the curve smoothing operators applied to refined
// paths: a moving average and corner-cutting subdivision.
//
// Both operators are pure functions over ordered point lists. Smoother binds
// them to stroke paths and replaces point lists in place.
package smooth

import (
	"github.com/ironsheep/edge-refine-mcp/internal/geom"
	"github.com/ironsheep/edge-refine-mcp/internal/stroke"
)

// Defaults match the refinement screen's initial slider positions.
const (
	DefaultWindow     = 3
	DefaultIterations = 1

	MinWindow = 1
	MaxWindow = 10
)

// MovingAverage smooths pts with a centred window of w points.
//
// Each output point is the mean of the input points within w/2 indices of
// the same position, with the window clipped to the list. The first input
// point is prepended verbatim and the last input point is appended when it
// differs from the final mean, so endpoints are preserved exactly. The
// output is therefore one or two points longer than the input.
//
// Windows below 1 behave as 1. Lists with fewer than 3 points, or fewer
// points than the window, are returned unchanged (as a copy).
func MovingAverage(pts []geom.Point, w int) []geom.Point {
	w = max(w, 1)
	if len(pts) < 3 || len(pts) < w {
		return append([]geom.Point(nil), pts...)
	}

	half := w / 2
	out := make([]geom.Point, 0, len(pts)+2)
	out = append(out, pts[0])

	for i := range pts {
		lo := max(i-half, 0)
		hi := min(i+half, len(pts)-1)

		var sum geom.Point
		for j := lo; j <= hi; j++ {
			sum = sum.Add(pts[j])
		}
		n := float64(hi - lo + 1)
		out = append(out, geom.Pt(sum.X/n, sum.Y/n))
	}

	if last := pts[len(pts)-1]; out[len(out)-1] != last {
		out = append(out, last)
	}
	return out
}

// CornerCut applies k iterations of corner-cutting subdivision.
//
// Every iteration keeps the first and last points and replaces each
// consecutive pair (p0, p1) with the points 25% and 75% of the way from p0
// to p1, so an n-point list grows to 2n points. Lists with fewer than 2
// points, or k < 1, are returned unchanged (as a copy).
func CornerCut(pts []geom.Point, k int) []geom.Point {
	out := append([]geom.Point(nil), pts...)
	if len(pts) < 2 {
		return out
	}

	for iter := 0; iter < k; iter++ {
		next := make([]geom.Point, 0, 2*len(out))
		next = append(next, out[0])
		for i := 0; i+1 < len(out); i++ {
			p0, p1 := out[i], out[i+1]
			next = append(next, p0.Lerp(p1, 0.25), p0.Lerp(p1, 0.75))
		}
		next = append(next, out[len(out)-1])
		out = next
	}
	return out
}

// Smoother applies the operators to stroke paths in place.
type Smoother struct {
	// Window is the moving-average window size.
	Window int

	// Iterations is the number of corner-cutting passes.
	Iterations int
}

// New returns a Smoother with the default settings.
func New() *Smoother {
	return &Smoother{Window: DefaultWindow, Iterations: DefaultIterations}
}

// SmoothPath replaces p's points with their moving average.
func (s *Smoother) SmoothPath(p *stroke.VectorPath) {
	p.Points = MovingAverage(p.Points, s.Window)
}

// CutPath replaces p's points with their corner-cut subdivision.
func (s *Smoother) CutPath(p *stroke.VectorPath) {
	p.Points = CornerCut(p.Points, s.Iterations)
}

// SmoothSet applies SmoothPath to every path in set.
func (s *Smoother) SmoothSet(set *stroke.PathSet) {
	for i := 0; i < set.Len(); i++ {
		s.SmoothPath(set.At(i))
	}
}

// CutSet applies CutPath to every path in set.
func (s *Smoother) CutSet(set *stroke.PathSet) {
	for i := 0; i < set.Len(); i++ {
		s.CutPath(set.At(i))
	}
}
