package stroke

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/edge-refine-mcp/internal/geom"
)

// Mode selects what a stroke does.
type Mode int

const (
	// ModeDraw turns strokes into new paths.
	ModeDraw Mode = iota

	// ModeErase removes paths touched by the stroke.
	ModeErase
)

func (m Mode) String() string {
	if m == ModeErase {
		return "erase"
	}
	return "draw"
}

// ParseMode converts "draw" or "erase" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "draw":
		return ModeDraw, nil
	case "erase":
		return ModeErase, nil
	}
	return ModeDraw, fmt.Errorf("unknown brush mode %q (use draw or erase)", s)
}

// Default brush settings.
const (
	DefaultWidth = 5.0
	DefaultColor = "#00FF00"
)

// IndicatorColor is the translucent red used to show an erase gesture.
var IndicatorColor = color.NRGBA{R: 255, A: 128}

// Change describes the effect of one pointer sample.
type Change struct {
	// Ignored is set when the sample was dropped, for example because it
	// fell outside the canvas or no stroke was active.
	Ignored bool `json:"ignored,omitempty"`

	// Removed is the id of the path erased by this sample.
	Removed string `json:"removed,omitempty"`
}

// Indicator is the transient trail shown while erasing. It is never part of
// the PathSet.
type Indicator struct {
	Points []geom.Point `json:"points"`
	Width  float64      `json:"width"`
}

// Editor applies draw and erase strokes to the PathSet of one image.
type Editor struct {
	width  float64
	height float64

	set    *PathSet
	nextID int

	mode  Mode
	brush float64
	color string

	// Stroke in progress. strokeMode and strokeWidth are captured at begin.
	inStroke    bool
	strokeMode  Mode
	strokeWidth float64
	active      *VectorPath
	indicator   []geom.Point
}

// NewEditor creates an editor for a canvas of the given size with the
// default brush.
func NewEditor(width, height int) *Editor {
	return &Editor{
		width:  float64(width),
		height: float64(height),
		set:    NewPathSet(),
		brush:  DefaultWidth,
		color:  DefaultColor,
	}
}

// Mode returns the current brush mode.
func (e *Editor) Mode() Mode { return e.mode }

// Width returns the current brush width.
func (e *Editor) Width() float64 { return e.brush }

// Color returns the current brush colour as #RRGGBB.
func (e *Editor) Color() string { return e.color }

// SetMode changes the mode for subsequent strokes.
func (e *Editor) SetMode(m Mode) {
	e.mode = m
}

// SetWidth changes the brush width for subsequent strokes. Widths must be
// positive.
func (e *Editor) SetWidth(w float64) error {
	if !(w > 0) {
		return fmt.Errorf("brush width must be positive, got %v", w)
	}
	e.brush = w
	return nil
}

// SetColor changes the stroke colour for subsequent strokes. The colour must
// be #RRGGBB or #RGB; on error the previous colour is kept.
func (e *Editor) SetColor(hex string) error {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	e.color = strings.ToUpper(c.Hex())
	return nil
}

// Seed replaces the whole PathSet with copies of paths and abandons any
// stroke in progress. Paths without an id are given one.
func (e *Editor) Seed(paths []VectorPath) {
	e.cancelStroke()
	e.set = NewPathSet()
	for i := range paths {
		p := paths[i].Clone()
		if p.ID == "" {
			p.ID = e.newID()
		}
		e.set.Add(p)
	}
}

// Paths returns the live PathSet.
func (e *Editor) Paths() *PathSet {
	return e.set
}

// Active returns a copy of the path being drawn, or nil.
func (e *Editor) Active() *VectorPath {
	if e.active == nil {
		return nil
	}
	return e.active.Clone()
}

// Indicator returns the current erase trail, or nil when not erasing.
func (e *Editor) Indicator() *Indicator {
	if !e.inStroke || e.strokeMode != ModeErase {
		return nil
	}
	return &Indicator{
		Points: append([]geom.Point(nil), e.indicator...),
		Width:  e.strokeWidth,
	}
}

// BeginStroke starts a stroke at p. A stroke already in progress is ended
// first.
func (e *Editor) BeginStroke(p geom.Point) Change {
	if !e.inCanvas(p) {
		return Change{Ignored: true}
	}
	if e.inStroke {
		e.EndStroke()
	}

	e.inStroke = true
	e.strokeMode = e.mode
	e.strokeWidth = e.brush

	if e.strokeMode == ModeErase {
		e.indicator = []geom.Point{p}
		return e.eraseAt(p)
	}

	e.active = &VectorPath{
		Points: []geom.Point{p},
		Width:  e.brush,
		Color:  e.color,
		Origin: OriginDrawn,
	}
	return Change{}
}

// ExtendStroke adds p to the stroke in progress.
func (e *Editor) ExtendStroke(p geom.Point) Change {
	if !e.inStroke || !e.inCanvas(p) {
		return Change{Ignored: true}
	}

	if e.strokeMode == ModeErase {
		e.indicator = append(e.indicator, p)
		return e.eraseAt(p)
	}

	e.active.Points = append(e.active.Points, p)
	return Change{}
}

// EndStroke finishes the stroke in progress. In draw mode the new path is
// added to the set and a copy is returned; otherwise it returns nil.
func (e *Editor) EndStroke() *VectorPath {
	if !e.inStroke {
		return nil
	}

	var done *VectorPath
	if e.strokeMode == ModeDraw && e.active != nil {
		e.active.ID = e.newID()
		e.set.Add(e.active)
		done = e.active.Clone()
	}
	e.cancelStroke()
	return done
}

// eraseAt removes the topmost path hit by p.
func (e *Editor) eraseAt(p geom.Point) Change {
	i := e.set.TopmostHit(p, e.strokeWidth/2)
	if i < 0 {
		return Change{}
	}
	id := e.set.At(i).ID
	e.set.removeAt(i)
	return Change{Removed: id}
}

func (e *Editor) cancelStroke() {
	e.inStroke = false
	e.active = nil
	e.indicator = nil
}

func (e *Editor) inCanvas(p geom.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= e.width && p.Y <= e.height
}

// newID returns the next unused path id.
func (e *Editor) newID() string {
	for {
		e.nextID++
		id := fmt.Sprintf("path-%d", e.nextID)
		if !e.set.has(id) {
			return id
		}
	}
}
