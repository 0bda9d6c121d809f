package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ironsheep/edge-refine-mcp/internal/config"
	"github.com/ironsheep/edge-refine-mcp/internal/edge"
	"github.com/ironsheep/edge-refine-mcp/internal/ocr"
	"github.com/ironsheep/edge-refine-mcp/internal/raster"
	"github.com/ironsheep/edge-refine-mcp/internal/session"
)

// Version is reported in the initialize response.
var Version = "0.1.0"

// Server handles MCP protocol communication
type Server struct {
	cfg      *config.Config
	cache    *raster.ImageCache
	sessions *session.Manager
	labels   *ocr.LabelDetector
	logger   *slog.Logger

	// tickets holds the latest asynchronous extraction per image.
	tickets map[string]*session.Ticket
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MCPNotification represents an outgoing notification (no ID)
type MCPNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// New creates a server running extractions on engine. A nil cfg uses
// config.Default and a nil logger uses slog.Default.
func New(cfg *config.Config, engine edge.Engine, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := session.Options{
		Params:            cfg.Params(),
		BrushWidth:        cfg.Brush.Width,
		BrushColor:        cfg.Brush.Color,
		SeedWidth:         cfg.Brush.SeedWidth,
		SeedColor:         cfg.Brush.SeedColor,
		Window:            cfg.Smoothing.Window,
		Iterations:        cfg.Smoothing.Iterations,
		RetainOnRerun:     cfg.Refinement.RetainOnRerun,
		BackgroundOpacity: cfg.Render.BackgroundOpacity,
	}

	labels := &ocr.LabelDetector{
		Language:      cfg.Labels.Language,
		MinConfidence: cfg.Labels.MinConfidence,
		Padding:       cfg.Labels.Padding,
	}
	if cfg.Labels.Enabled {
		if err := ocr.Available(); err != nil {
			logger.Warn("label masking disabled", "error", err)
		} else {
			opts.Masker = labels
		}
	}

	return &Server{
		cfg:      cfg,
		cache:    raster.NewImageCache(),
		sessions: session.NewManager(engine, opts, logger),
		labels:   labels,
		logger:   logger,
		tickets:  make(map[string]*session.Ticket),
	}
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to
// w until r is exhausted. Background extractions are stopped on return.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	defer s.sessions.Shutdown()

	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests such as imported SVG documents
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 16*1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Error("failed to parse request", "error", err)
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.logger.Error("failed to encode response", "error", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.logger.Debug("request", "method", req.Method, "id", req.ID)

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "edge-refine-mcp",
				"version": Version,
			},
		},
	}
}
