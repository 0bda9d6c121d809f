package stroke

import (
	"testing"

	"github.com/ironsheep/edge-refine-mcp/internal/geom"
)

// drawPath draws a stroke through pts and returns the finalized path.
func drawPath(t *testing.T, e *Editor, pts ...geom.Point) *VectorPath {
	t.Helper()
	e.SetMode(ModeDraw)
	e.BeginStroke(pts[0])
	for _, p := range pts[1:] {
		e.ExtendStroke(p)
	}
	done := e.EndStroke()
	if done == nil {
		t.Fatal("EndStroke returned nil in draw mode")
	}
	return done
}

func TestEditor_DrawAppendsUnconditionally(t *testing.T) {
	e := NewEditor(100, 100)
	p := drawPath(t, e, geom.Pt(10, 10), geom.Pt(10, 10), geom.Pt(20, 10), geom.Pt(20, 10))

	if len(p.Points) != 4 {
		t.Errorf("points: got %d, want 4 (duplicates are kept)", len(p.Points))
	}
	if p.Origin != OriginDrawn {
		t.Errorf("origin: got %s, want drawn", p.Origin)
	}
	if p.Width != DefaultWidth || p.Color != DefaultColor {
		t.Errorf("style: got %v %s, want %v %s", p.Width, p.Color, DefaultWidth, DefaultColor)
	}
	if e.Paths().Len() != 1 {
		t.Errorf("paths: got %d, want 1", e.Paths().Len())
	}
	if e.Active() != nil {
		t.Error("active stroke not cleared after end")
	}
}

func TestEditor_EraseRemovesWholePath(t *testing.T) {
	e := NewEditor(200, 200)

	pts := make([]geom.Point, 10)
	for i := range pts {
		pts[i] = geom.Pt(20+float64(i)*10, 50)
	}
	target := drawPath(t, e, pts...)
	other := drawPath(t, e, geom.Pt(20, 150), geom.Pt(180, 150))

	e.SetMode(ModeErase)
	change := e.BeginStroke(geom.Pt(75, 51))
	e.EndStroke()

	if change.Removed != target.ID {
		t.Errorf("removed: got %q, want %q", change.Removed, target.ID)
	}
	snap := e.Paths().Snapshot()
	if len(snap) != 1 || snap[0].ID != other.ID {
		t.Fatalf("remaining: got %+v, want only %s", snap, other.ID)
	}
	if len(snap[0].Points) != 2 {
		t.Errorf("untouched path changed: %v", snap[0].Points)
	}
}

func TestEditor_EraseOverlapHitsOnlyPathInRange(t *testing.T) {
	e := NewEditor(400, 300)
	a := drawPath(t, e, geom.Pt(50, 100), geom.Pt(250, 100))
	drawPath(t, e, geom.Pt(50, 110), geom.Pt(250, 110))

	// Brush radius 2.5: (150,111) is 1 from B and 11 from A.
	e.SetMode(ModeErase)
	e.BeginStroke(geom.Pt(150, 111))
	e.EndStroke()

	snap := e.Paths().Snapshot()
	if len(snap) != 1 || snap[0].ID != a.ID {
		t.Errorf("remaining: got %+v, want exactly {A}", snap)
	}
}

func TestEditor_EraseStopsAtTopmost(t *testing.T) {
	e := NewEditor(100, 100)
	bottom := drawPath(t, e, geom.Pt(10, 50), geom.Pt(90, 50))
	top := drawPath(t, e, geom.Pt(10, 51), geom.Pt(90, 51))

	e.SetMode(ModeErase)
	change := e.BeginStroke(geom.Pt(50, 50.5))

	if change.Removed != top.ID {
		t.Errorf("removed: got %q, want topmost %q", change.Removed, top.ID)
	}
	if e.Paths().Len() != 1 || e.Paths().At(0).ID != bottom.ID {
		t.Error("expected the bottom path to survive a single sample")
	}

	// The next sample in the same gesture takes the remaining path.
	change = e.ExtendStroke(geom.Pt(50, 50.5))
	if change.Removed != bottom.ID {
		t.Errorf("second removal: got %q, want %q", change.Removed, bottom.ID)
	}
	e.EndStroke()
}

func TestEditor_EraseRadiusIsStrict(t *testing.T) {
	e := NewEditor(100, 100)
	drawPath(t, e, geom.Pt(10, 50), geom.Pt(90, 50))

	// Exactly width/2 away is not a hit.
	e.SetMode(ModeErase)
	if c := e.BeginStroke(geom.Pt(50, 52.5)); c.Removed != "" {
		t.Errorf("hit at exactly the radius: %+v", c)
	}
	e.EndStroke()
	if e.Paths().Len() != 1 {
		t.Errorf("paths: got %d, want 1", e.Paths().Len())
	}
}

func TestEditor_EraseSinglePointPath(t *testing.T) {
	e := NewEditor(100, 100)
	e.BeginStroke(geom.Pt(40, 40))
	e.EndStroke()

	e.SetMode(ModeErase)
	e.BeginStroke(geom.Pt(41, 41))
	e.EndStroke()

	if e.Paths().Len() != 0 {
		t.Errorf("paths: got %d, want 0", e.Paths().Len())
	}
}

func TestEditor_EraseEmptySetIsNoop(t *testing.T) {
	e := NewEditor(100, 100)
	e.SetMode(ModeErase)

	if c := e.BeginStroke(geom.Pt(10, 10)); c.Removed != "" || c.Ignored {
		t.Errorf("unexpected change: %+v", c)
	}
	if e.EndStroke() != nil {
		t.Error("erase stroke produced a path")
	}
	if e.Paths().Len() != 0 {
		t.Error("erase added a path")
	}
}

func TestEditor_IndicatorNeverPersisted(t *testing.T) {
	e := NewEditor(100, 100)
	e.SetMode(ModeErase)
	e.BeginStroke(geom.Pt(10, 10))
	e.ExtendStroke(geom.Pt(20, 20))

	ind := e.Indicator()
	if ind == nil || len(ind.Points) != 2 {
		t.Fatalf("indicator: got %+v, want 2 points", ind)
	}
	e.EndStroke()

	if e.Indicator() != nil {
		t.Error("indicator survived end of stroke")
	}
	if e.Paths().Len() != 0 {
		t.Error("indicator was added to the path set")
	}
}

func TestEditor_OutOfBoundsIgnored(t *testing.T) {
	e := NewEditor(100, 80)

	tests := []struct {
		name string
		p    geom.Point
	}{
		{"left", geom.Pt(-1, 10)},
		{"above", geom.Pt(10, -0.5)},
		{"right", geom.Pt(100.5, 10)},
		{"below", geom.Pt(10, 81)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if c := e.BeginStroke(tt.p); !c.Ignored {
				t.Errorf("begin at %v not ignored", tt.p)
			}
			if e.EndStroke() != nil {
				t.Error("ignored begin started a stroke")
			}
		})
	}

	// Edges of the canvas are inside.
	e.BeginStroke(geom.Pt(0, 0))
	if c := e.ExtendStroke(geom.Pt(200, 200)); !c.Ignored {
		t.Error("extend outside canvas not ignored")
	}
	e.ExtendStroke(geom.Pt(100, 80))
	p := e.EndStroke()
	if p == nil || len(p.Points) != 2 {
		t.Errorf("path: got %+v, want 2 in-bounds points", p)
	}
}

func TestEditor_ExtendWithoutBegin(t *testing.T) {
	e := NewEditor(100, 100)
	if c := e.ExtendStroke(geom.Pt(5, 5)); !c.Ignored {
		t.Error("extend without begin not ignored")
	}
	if e.EndStroke() != nil {
		t.Error("end without begin returned a path")
	}
}

func TestEditor_StyleAppliesToSubsequentStrokes(t *testing.T) {
	e := NewEditor(100, 100)
	first := drawPath(t, e, geom.Pt(10, 10), geom.Pt(20, 20))

	if err := e.SetWidth(12); err != nil {
		t.Fatalf("SetWidth: %v", err)
	}
	if err := e.SetColor("#ff8800"); err != nil {
		t.Fatalf("SetColor: %v", err)
	}

	// Change style mid-stroke: the active stroke keeps what it began with.
	e.BeginStroke(geom.Pt(30, 30))
	_ = e.SetWidth(2)
	e.SetMode(ModeErase)
	e.ExtendStroke(geom.Pt(40, 40))
	second := e.EndStroke()

	if second == nil {
		t.Fatal("mode change mid-stroke turned the stroke into an erase")
	}
	if second.Width != 12 || second.Color != "#FF8800" {
		t.Errorf("second style: got %v %s, want 12 #FF8800", second.Width, second.Color)
	}
	got := e.Paths().At(0)
	if got.ID != first.ID || got.Width != DefaultWidth || got.Color != DefaultColor {
		t.Errorf("finalized path restyled: %+v", got)
	}
}

func TestEditor_SetColorValidation(t *testing.T) {
	e := NewEditor(10, 10)

	tests := []struct {
		in      string
		wantErr bool
		want    string
	}{
		{"#00ff00", false, "#00FF00"},
		{"#f80", false, "#FF8800"},
		{"00FF00", true, DefaultColor},
		{"#GGGGGG", true, DefaultColor},
		{"", true, DefaultColor},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e.color = DefaultColor
			err := e.SetColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("SetColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if e.Color() != tt.want {
				t.Errorf("colour: got %s, want %s", e.Color(), tt.want)
			}
		})
	}
}

func TestEditor_SetWidthValidation(t *testing.T) {
	e := NewEditor(10, 10)
	for _, w := range []float64{0, -3} {
		if err := e.SetWidth(w); err == nil {
			t.Errorf("SetWidth(%v) accepted", w)
		}
	}
	if e.Width() != DefaultWidth {
		t.Errorf("width: got %v, want %v", e.Width(), DefaultWidth)
	}
}

func TestEditor_SeedAssignsUniqueIDs(t *testing.T) {
	e := NewEditor(100, 100)
	e.Seed([]VectorPath{
		{ID: "path-1", Points: []geom.Point{geom.Pt(1, 1)}, Origin: OriginDerived},
		{Points: []geom.Point{geom.Pt(2, 2)}, Origin: OriginDerived},
	})

	p := drawPath(t, e, geom.Pt(5, 5), geom.Pt(6, 6))
	seen := map[string]bool{}
	for _, sp := range e.Paths().Snapshot() {
		if sp.ID == "" || seen[sp.ID] {
			t.Errorf("duplicate or empty id %q", sp.ID)
		}
		seen[sp.ID] = true
	}
	if !seen[p.ID] {
		t.Errorf("drawn path %s missing from set", p.ID)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("Erase"); err != nil || m != ModeErase {
		t.Errorf("ParseMode(Erase) = %v, %v", m, err)
	}
	if _, err := ParseMode("smudge"); err == nil {
		t.Error("ParseMode accepted unknown mode")
	}
	if ModeErase.String() != "erase" || ModeDraw.String() != "draw" {
		t.Error("Mode.String mismatch")
	}
}
