package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/ironsheep/edge-refine-mcp/internal/contour"
	"github.com/ironsheep/edge-refine-mcp/internal/edge"
	"github.com/ironsheep/edge-refine-mcp/internal/geom"
	"github.com/ironsheep/edge-refine-mcp/internal/raster"
	"github.com/ironsheep/edge-refine-mcp/internal/render"
	"github.com/ironsheep/edge-refine-mcp/internal/smooth"
	"github.com/ironsheep/edge-refine-mcp/internal/stroke"
)

// SeedPathID is the id of the path seeded from the primary contour.
const SeedPathID = "contour"

// ErrUnknownPath is returned when an operation names a path that is not in
// the session's PathSet.
var ErrUnknownPath = errors.New("session: unknown path")

// LabelMasker finds regions whose edges should be ignored, such as burned-in
// text. ocr.LabelDetector implements it.
type LabelMasker interface {
	Mask(ctx context.Context, buf *raster.PixelBuffer) ([]image.Rectangle, error)
}

// Options are the per-session defaults.
type Options struct {
	Params edge.Params

	BrushWidth float64
	BrushColor string

	// SeedWidth and SeedColor style the path seeded from the contour.
	SeedWidth float64
	SeedColor string

	Window     int
	Iterations int

	// RetainOnRerun keeps drawn paths when refinement is reseeded.
	RetainOnRerun bool

	// BackgroundOpacity is the radiograph opacity in overlays.
	BackgroundOpacity float64

	// Masker, when set, supplies exclusion rectangles for every extraction.
	Masker LabelMasker
}

// DefaultOptions returns the built-in session defaults.
func DefaultOptions() Options {
	return Options{
		Params:            edge.DefaultParams(),
		BrushWidth:        stroke.DefaultWidth,
		BrushColor:        stroke.DefaultColor,
		SeedWidth:         3,
		SeedColor:         "#00FF00",
		Window:            smooth.DefaultWindow,
		Iterations:        smooth.DefaultIterations,
		BackgroundOpacity: render.DefaultBackgroundOpacity,
	}
}

// Session is the refinement state of one image. It is driven by a single
// caller; extraction results arrive through the shared Runner and Store.
type Session struct {
	id       string
	buf      *raster.PixelBuffer
	engine   edge.Engine
	runner   *Runner
	store    *contour.Store
	editor   *stroke.Editor
	smoother *smooth.Smoother
	opts     Options
	logger   *slog.Logger
}

func newSession(id string, buf *raster.PixelBuffer, engine edge.Engine, runner *Runner,
	store *contour.Store, opts Options, logger *slog.Logger) (*Session, error) {
	ed := stroke.NewEditor(buf.Width(), buf.Height())
	if err := ed.SetWidth(opts.BrushWidth); err != nil {
		return nil, err
	}
	if err := ed.SetColor(opts.BrushColor); err != nil {
		return nil, err
	}
	return &Session{
		id:       id,
		buf:      buf,
		engine:   engine,
		runner:   runner,
		store:    store,
		editor:   ed,
		smoother: &smooth.Smoother{Window: opts.Window, Iterations: opts.Iterations},
		opts:     opts,
		logger:   logger.With("image", id),
	}, nil
}

// ID returns the image identifier.
func (s *Session) ID() string { return s.id }

// Buffer returns the radiograph being refined.
func (s *Session) Buffer() *raster.PixelBuffer { return s.buf }

// Editor returns the stroke editor.
func (s *Session) Editor() *stroke.Editor { return s.editor }

// Smoother returns the smoothing settings.
func (s *Session) Smoother() *smooth.Smoother { return s.smoother }

// Params returns the default extraction parameters of the session.
func (s *Session) Params() edge.Params { return s.opts.Params }

// Extract runs the pipeline and waits for the outcome.
func (s *Session) Extract(ctx context.Context, p edge.Params) (*edge.Result, error) {
	t, err := s.ExtractAsync(ctx, p)
	if err != nil {
		return nil, err
	}
	return t.Wait(ctx)
}

// ExtractAsync queues an extraction and returns its ticket. Label masking,
// when configured, runs first; a masking failure is logged and extraction
// proceeds without exclusions.
func (s *Session) ExtractAsync(ctx context.Context, p edge.Params) (*Ticket, error) {
	if err := s.engine.Ready(); err != nil {
		return nil, err
	}
	if s.opts.Masker != nil {
		rects, err := s.opts.Masker.Mask(ctx, s.buf)
		if err != nil {
			s.logger.Warn("label masking failed", "error", err)
		} else {
			p.Exclude = append(append([]image.Rectangle(nil), p.Exclude...), rects...)
		}
	}
	return s.runner.Submit(s.id, s.buf, p), nil
}

// Detection returns the stored detection of the image.
func (s *Session) Detection() (*edge.Result, uint64, bool) {
	return s.store.Detection(s.id)
}

// BeginRefinement seeds the editor from the stored primary contour, or the
// placeholder ring when there is none. Earlier paths are discarded unless
// RetainOnRerun is set, in which case drawn paths stay above the new seed.
func (s *Session) BeginRefinement() contour.Seed {
	seed := s.store.Seed(s.id)
	paths := []stroke.VectorPath{{
		ID:     SeedPathID,
		Points: seed.Points,
		Width:  s.opts.SeedWidth,
		Color:  s.opts.SeedColor,
		Origin: stroke.OriginDerived,
	}}
	if s.opts.RetainOnRerun {
		paths = append(paths, s.editor.Paths().Filter(stroke.OriginDrawn)...)
	}
	s.editor.Seed(paths)
	s.logger.Debug("refinement seeded", "placeholder", seed.Placeholder, "points", len(seed.Points), "paths", len(paths))
	return seed
}

// Import replaces the PathSet with paths, for example from an earlier
// handoff.
func (s *Session) Import(paths []stroke.VectorPath) {
	s.editor.Seed(paths)
}

// BeginStroke forwards a pointer-down sample to the editor.
func (s *Session) BeginStroke(p geom.Point) stroke.Change { return s.editor.BeginStroke(p) }

// ExtendStroke forwards a pointer-move sample to the editor.
func (s *Session) ExtendStroke(p geom.Point) stroke.Change { return s.editor.ExtendStroke(p) }

// EndStroke forwards a pointer-up to the editor.
func (s *Session) EndStroke() *stroke.VectorPath { return s.editor.EndStroke() }

// Smooth applies the moving average to the path with the given id, or to
// every path when id is empty.
func (s *Session) Smooth(id string) error {
	return s.apply(id, s.smoother.SmoothPath, s.smoother.SmoothSet)
}

// CornerCut applies corner cutting to the path with the given id, or to
// every path when id is empty.
func (s *Session) CornerCut(id string) error {
	return s.apply(id, s.smoother.CutPath, s.smoother.CutSet)
}

func (s *Session) apply(id string, one func(*stroke.VectorPath), all func(*stroke.PathSet)) error {
	set := s.editor.Paths()
	if id == "" {
		all(set)
		return nil
	}
	for i := 0; i < set.Len(); i++ {
		if p := set.At(i); p.ID == id {
			one(p)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownPath, id)
}

// Overlay renders the radiograph with the current paths, the stroke in
// progress and the erase indicator.
func (s *Session) Overlay() (image.Image, error) {
	return render.Overlay(s.buf, render.Scene{
		Paths:     s.editor.Paths().Snapshot(),
		Active:    s.editor.Active(),
		Indicator: s.editor.Indicator(),
	}, s.opts.BackgroundOpacity)
}

// Preview renders the stored detection.
func (s *Session) Preview() (image.Image, error) {
	res, _, ok := s.store.Detection(s.id)
	if !ok {
		return nil, fmt.Errorf("no detection stored for %s", s.id)
	}
	return render.DetectionPreview(res)
}

// Complete stores the final PathSet for the annotation tools and returns it
// as a handoff.
func (s *Session) Complete() *render.Handoff {
	paths := s.editor.Paths().Snapshot()
	s.store.PutRefined(s.id, paths)
	s.logger.Info("refinement complete", "paths", len(paths))
	return render.NewHandoff(s.id, s.buf.Width(), s.buf.Height(), paths)
}
