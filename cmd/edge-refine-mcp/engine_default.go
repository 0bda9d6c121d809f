//go:build !gocv

package main

import (
	"fmt"
	"log/slog"

	"github.com/ironsheep/edge-refine-mcp/internal/edge"
)

// newEngine returns the extraction engine named in the configuration.
// Builds without the gocv tag only carry the pure-Go engine.
func newEngine(name string, logger *slog.Logger) (edge.Engine, error) {
	switch name {
	case "", "go":
		return edge.NewExtractor(edge.WithLogger(logger)), nil
	case "opencv":
		return nil, fmt.Errorf("engine %q requires a build with -tags gocv", name)
	}
	return nil, fmt.Errorf("unknown engine %q", name)
}
