// Package config loads the server configuration.
//
// Configuration comes from a JSON file layered over Default, then from
// environment variables. A missing file is not an error.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/edge-refine-mcp/internal/edge"
	"github.com/ironsheep/edge-refine-mcp/internal/smooth"
	"github.com/ironsheep/edge-refine-mcp/internal/stroke"
)

// EnvLogLevel overrides Log.Level when set.
const EnvLogLevel = "EDGE_REFINE_LOG_LEVEL"

// Config holds the application configuration
type Config struct {
	Extraction ExtractionConfig `json:"extraction"`
	Brush      BrushConfig      `json:"brush"`
	Smoothing  SmoothingConfig  `json:"smoothing"`
	Refinement RefinementConfig `json:"refinement"`
	Labels     LabelsConfig     `json:"labels"`
	Render     RenderConfig     `json:"render"`
	Log        LogConfig        `json:"log"`
}

// ExtractionConfig holds the default detection parameters
type ExtractionConfig struct {
	LowThreshold      float64 `json:"low_threshold"`
	HighThreshold     float64 `json:"high_threshold"`
	DilationSize      int     `json:"dilation_size"`
	ClosingIterations int     `json:"closing_iterations"`

	// Engine selects "go" or "opencv". The OpenCV engine is only available
	// in builds with the gocv tag.
	Engine string `json:"engine"`
}

// BrushConfig holds the initial brush and the style of seeded contours
type BrushConfig struct {
	Width     float64 `json:"width"`
	Color     string  `json:"color"`
	SeedWidth float64 `json:"seed_width"`
	SeedColor string  `json:"seed_color"`
}

// SmoothingConfig holds the initial smoothing settings
type SmoothingConfig struct {
	Window     int `json:"window"`
	Iterations int `json:"iterations"`
}

// RefinementConfig controls what happens to edits when detection re-runs
type RefinementConfig struct {
	// RetainOnRerun keeps operator-drawn paths when a new detection reseeds
	// the session. Derived paths are always replaced.
	RetainOnRerun bool `json:"retain_on_rerun"`
}

// LabelsConfig controls masking of burned-in text before tracing
type LabelsConfig struct {
	Enabled       bool    `json:"enabled"`
	Language      string  `json:"language"`
	MinConfidence float64 `json:"min_confidence"`
	Padding       int     `json:"padding"`
}

// RenderConfig holds overlay rendering settings
type RenderConfig struct {
	BackgroundOpacity float64 `json:"background_opacity"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `json:"level"`
}

// Default returns a configuration with default values
func Default() *Config {
	p := edge.DefaultParams()
	return &Config{
		Extraction: ExtractionConfig{
			LowThreshold:      p.LowThreshold,
			HighThreshold:     p.HighThreshold,
			DilationSize:      p.DilationSize,
			ClosingIterations: p.ClosingIterations,
			Engine:            "go",
		},
		Brush: BrushConfig{
			Width:     stroke.DefaultWidth,
			Color:     stroke.DefaultColor,
			SeedWidth: 3,
			SeedColor: "#00FF00",
		},
		Smoothing: SmoothingConfig{
			Window:     smooth.DefaultWindow,
			Iterations: smooth.DefaultIterations,
		},
		Labels: LabelsConfig{
			Enabled:       false,
			Language:      "eng",
			MinConfidence: 60,
			Padding:       4,
		},
		Render: RenderConfig{
			BackgroundOpacity: 0.7,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Fields missing from the
// file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Load reads filename (or GetConfigPath when empty), applies environment
// overrides and validates the result. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if filename == "" {
		filename = GetConfigPath()
	}

	config, err := LoadFromFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		config = Default()
	} else if err != nil {
		return nil, err
	}

	config.ApplyEnv()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return config, nil
}

// ApplyEnv applies environment variable overrides.
func (c *Config) ApplyEnv() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !c.Params().InRange() {
		return fmt.Errorf("extraction parameters out of range: low [%d,%d], high [%d,%d], dilation [%d,%d], closing [%d,%d]",
			edge.MinLowThreshold, edge.MaxLowThreshold,
			edge.MinHighThreshold, edge.MaxHighThreshold,
			edge.MinDilationSize, edge.MaxDilationSize,
			edge.MinClosingIters, edge.MaxClosingIters)
	}

	switch c.Extraction.Engine {
	case "go", "opencv":
	default:
		return fmt.Errorf("extraction.engine must be go or opencv, got %q", c.Extraction.Engine)
	}

	if c.Brush.Width <= 0 || c.Brush.SeedWidth <= 0 {
		return fmt.Errorf("brush widths must be positive")
	}
	for _, hex := range []string{c.Brush.Color, c.Brush.SeedColor} {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("brush colour %q is not #RRGGBB", hex)
		}
	}

	if c.Smoothing.Window < smooth.MinWindow || c.Smoothing.Window > smooth.MaxWindow {
		return fmt.Errorf("smoothing.window must be between %d and %d", smooth.MinWindow, smooth.MaxWindow)
	}
	if c.Smoothing.Iterations < 1 {
		return fmt.Errorf("smoothing.iterations must be positive")
	}

	if c.Labels.MinConfidence < 0 || c.Labels.MinConfidence > 100 {
		return fmt.Errorf("labels.min_confidence must be between 0 and 100")
	}
	if c.Labels.Padding < 0 {
		return fmt.Errorf("labels.padding cannot be negative")
	}

	if c.Render.BackgroundOpacity < 0 || c.Render.BackgroundOpacity > 1 {
		return fmt.Errorf("render.background_opacity must be between 0 and 1")
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}

	return nil
}

// Params returns the configured extraction parameters.
func (c *Config) Params() edge.Params {
	return edge.Params{
		LowThreshold:      c.Extraction.LowThreshold,
		HighThreshold:     c.Extraction.HighThreshold,
		DilationSize:      c.Extraction.DilationSize,
		ClosingIterations: c.Extraction.ClosingIterations,
	}
}

// ParseLevel converts debug, info, warn or error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(dir, "edge-refine-mcp", "config.json")
}
