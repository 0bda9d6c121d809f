package smooth

import (
	"math"
	"reflect"
	"testing"

	"github.com/ironsheep/edge-refine-mcp/internal/geom"
	"github.com/ironsheep/edge-refine-mcp/internal/stroke"
)

const eps = 1e-9

func TestMovingAverage_VerticalLine(t *testing.T) {
	pts := []geom.Point{
		geom.Pt(10, 10), geom.Pt(10, 20), geom.Pt(10, 30), geom.Pt(10, 40), geom.Pt(10, 50),
	}

	got := MovingAverage(pts, 3)

	if got[0] != geom.Pt(10, 10) {
		t.Errorf("first: got %v, want (10,10)", got[0])
	}
	if got[len(got)-1] != geom.Pt(10, 50) {
		t.Errorf("last: got %v, want (10,50)", got[len(got)-1])
	}
	for i, p := range got {
		if p.X != 10 {
			t.Errorf("point %d left the line: %v", i, p)
		}
	}

	// First point, five means, then the last point since mean(40,50) = 45.
	if len(got) != 7 {
		t.Errorf("length: got %d, want 7", len(got))
	}
	if got[3] != geom.Pt(10, 30) {
		t.Errorf("middle mean: got %v, want (10,30)", got[3])
	}
}

func TestMovingAverage_StraightLineStaysOnLine(t *testing.T) {
	pts := make([]geom.Point, 12)
	for i := range pts {
		x := float64(i) * 3
		pts[i] = geom.Pt(x, 2*x+1)
	}

	for _, w := range []int{1, 2, 3, 5, 10} {
		got := MovingAverage(pts, w)
		for i, p := range got {
			if math.Abs(p.Y-(2*p.X+1)) > eps {
				t.Errorf("w=%d: point %d %v is off the line", w, i, p)
			}
		}
		if got[0] != pts[0] || got[len(got)-1] != pts[len(pts)-1] {
			t.Errorf("w=%d: endpoints moved", w)
		}
	}
}

func TestMovingAverage_Unchanged(t *testing.T) {
	tests := []struct {
		name string
		pts  []geom.Point
		w    int
	}{
		{"empty", nil, 3},
		{"two points", []geom.Point{geom.Pt(0, 0), geom.Pt(5, 5)}, 3},
		{"shorter than window", []geom.Point{geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(2, 0)}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MovingAverage(tt.pts, tt.w)
			if len(got) != len(tt.pts) {
				t.Fatalf("length: got %d, want %d", len(got), len(tt.pts))
			}
			for i := range got {
				if got[i] != tt.pts[i] {
					t.Errorf("point %d: got %v, want %v", i, got[i], tt.pts[i])
				}
			}
		})
	}
}

func TestMovingAverage_WindowBelowOne(t *testing.T) {
	pts := []geom.Point{geom.Pt(0, 0), geom.Pt(4, 8), geom.Pt(6, 2)}
	got := MovingAverage(pts, 0)

	// A window of one copies every point after the prepended first point.
	want := []geom.Point{pts[0], pts[0], pts[1], pts[2]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMovingAverage_DoesNotModifyInput(t *testing.T) {
	pts := []geom.Point{geom.Pt(0, 0), geom.Pt(10, 10), geom.Pt(20, 0), geom.Pt(30, 10)}
	orig := append([]geom.Point(nil), pts...)
	MovingAverage(pts, 3)
	if !reflect.DeepEqual(pts, orig) {
		t.Error("input slice modified")
	}
}

func TestCornerCut_GrowsAndKeepsEndpoints(t *testing.T) {
	pts := []geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10)}

	prev := len(pts)
	for k := 1; k <= 4; k++ {
		got := CornerCut(pts, k)
		if len(got) <= prev {
			t.Errorf("k=%d: length %d did not grow past %d", k, len(got), prev)
		}
		if got[0] != pts[0] || got[len(got)-1] != pts[len(pts)-1] {
			t.Errorf("k=%d: endpoints moved: %v ... %v", k, got[0], got[len(got)-1])
		}
		prev = len(got)
	}
}

func TestCornerCut_OneIteration(t *testing.T) {
	got := CornerCut([]geom.Point{geom.Pt(0, 0), geom.Pt(8, 0), geom.Pt(8, 8)}, 1)
	want := []geom.Point{
		geom.Pt(0, 0),
		geom.Pt(2, 0), geom.Pt(6, 0),
		geom.Pt(8, 2), geom.Pt(8, 6),
		geom.Pt(8, 8),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCornerCut_Unchanged(t *testing.T) {
	one := []geom.Point{geom.Pt(3, 3)}
	if got := CornerCut(one, 3); !reflect.DeepEqual(got, one) {
		t.Errorf("single point: got %v", got)
	}
	two := []geom.Point{geom.Pt(0, 0), geom.Pt(4, 4)}
	if got := CornerCut(two, 0); !reflect.DeepEqual(got, two) {
		t.Errorf("k=0: got %v", got)
	}
}

func TestSmoother_AppliesInPlace(t *testing.T) {
	set := stroke.NewPathSet(
		stroke.VectorPath{ID: "a", Points: []geom.Point{geom.Pt(0, 0), geom.Pt(5, 5), geom.Pt(10, 0), geom.Pt(15, 5)}},
		stroke.VectorPath{ID: "b", Points: []geom.Point{geom.Pt(1, 1)}},
	)

	s := New()
	s.SmoothSet(set)
	if n := len(set.At(0).Points); n != 6 {
		t.Errorf("smoothed length: got %d, want 6", n)
	}
	if n := len(set.At(1).Points); n != 1 {
		t.Errorf("short path changed: %d points", n)
	}

	s.Iterations = 2
	before := len(set.At(0).Points)
	s.CutSet(set)
	if n := len(set.At(0).Points); n != before*4 {
		t.Errorf("cut length: got %d, want %d", n, before*4)
	}
}
