//go:build gocv

package main

import (
	"fmt"
	"log/slog"

	"github.com/ironsheep/edge-refine-mcp/internal/edge"
)

// newEngine returns the extraction engine named in the configuration.
func newEngine(name string, logger *slog.Logger) (edge.Engine, error) {
	switch name {
	case "", "go":
		return edge.NewExtractor(edge.WithLogger(logger)), nil
	case "opencv":
		return edge.NewCVEngine(logger), nil
	}
	return nil, fmt.Errorf("unknown engine %q", name)
}
