package edge

import (
	"context"
	"log/slog"

	"github.com/ironsheep/edge-refine-mcp/internal/raster"
)

// Engine runs the extraction pipeline.
type Engine interface {
	// Name identifies the engine in logs and tool output.
	Name() string

	// Ready returns nil when the engine can run, or an error wrapping
	// ErrNotReady describing what is missing.
	Ready() error

	// Extract traces the contours of buf. The buffer is never modified. On
	// error no partial result is returned.
	Extract(ctx context.Context, buf *raster.PixelBuffer, p Params) (*Result, error)
}

// Extractor is the pure-Go Engine.
type Extractor struct {
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for per-run debug output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExtractor returns a ready pure-Go engine.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements Engine.
func (e *Extractor) Name() string { return "go" }

// Ready implements Engine. The pure-Go engine is always ready.
func (e *Extractor) Ready() error { return nil }

// Extract implements Engine.
//
// The context is checked between stages; a cancelled run returns the
// context error.
func (e *Extractor) Extract(ctx context.Context, buf *raster.PixelBuffer, p Params) (*Result, error) {
	gray, err := Grayscale(buf)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dilated := Dilate(gray, p.DilationSize)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	edges := DetectEdges(dilated, p.LowThreshold, p.HighThreshold)
	for _, r := range p.Exclude {
		edges.clear(r)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	closed := Close(edges, p.ClosingIterations)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contours := TraceExternal(closed)
	res := &Result{
		Width:    buf.Width(),
		Height:   buf.Height(),
		Contours: contours,
		Primary:  SelectPrimary(contours),
		Edges:    closed,
	}

	e.logger.Debug("edge extraction complete",
		"engine", e.Name(),
		"width", res.Width,
		"height", res.Height,
		"edge_pixels", closed.Count(),
		"contours", len(contours),
		"primary", res.Primary)

	return res, nil
}
