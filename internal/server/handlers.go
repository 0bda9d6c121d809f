package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/ironsheep/edge-refine-mcp/internal/edge"
	"github.com/ironsheep/edge-refine-mcp/internal/geom"
	"github.com/ironsheep/edge-refine-mcp/internal/ocr"
	"github.com/ironsheep/edge-refine-mcp/internal/raster"
	"github.com/ironsheep/edge-refine-mcp/internal/render"
	"github.com/ironsheep/edge-refine-mcp/internal/session"
	"github.com/ironsheep/edge-refine-mcp/internal/smooth"
	"github.com/ironsheep/edge-refine-mcp/internal/stroke"
)

var (
	errUnknownTool = errors.New("unknown tool")
	errInvalidArgs = errors.New("invalid arguments")
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "stroke_begin").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Unknown tools return -32601, malformed arguments -32602 and tool
// execution errors -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	switch {
	case errors.Is(err, errUnknownTool):
		return s.errorResponse(req.ID, -32601, "Tool not found", err.Error())
	case errors.Is(err, errInvalidArgs):
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	case err != nil:
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Looks up the session of the image
//  3. Applies default values for optional parameters
//  4. Calls into the session, store or renderer
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image and session lifecycle
	case "image_load":
		return s.handleImageLoad(args)
	case "session_close":
		return s.handleSessionClose(args)

	// Extraction
	case "contour_extract":
		return s.handleContourExtract(args)
	case "contour_extract_async":
		return s.handleContourExtractAsync(args)
	case "contour_get":
		return s.handleContourGet(args)
	case "contour_preview":
		return s.handleContourPreview(args)
	case "contour_vectorize":
		return s.handleContourVectorize(args)
	case "labels_detect":
		return s.handleLabelsDetect(args)

	// Refinement
	case "refine_begin":
		return s.handleRefineBegin(args)
	case "brush_set":
		return s.handleBrushSet(args)
	case "stroke_begin":
		return s.handleStrokeBegin(args)
	case "stroke_extend":
		return s.handleStrokeExtend(args)
	case "stroke_end":
		return s.handleStrokeEnd(args)
	case "paths_list":
		return s.handlePathsList(args)
	case "paths_smooth":
		return s.handlePathsSmooth(args)
	case "paths_corner_cut":
		return s.handlePathsCornerCut(args)
	case "paths_import_svg":
		return s.handlePathsImportSVG(args)
	case "refine_overlay":
		return s.handleRefineOverlay(args)
	case "refine_complete":
		return s.handleRefineComplete(args)

	default:
		return nil, fmt.Errorf("%w: %s", errUnknownTool, name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as an
// empty object.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(bytes.TrimSpace(args)) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return nil
}

type imageArgs struct {
	ImageID string `json:"image_id"`
}

// sessionFor decodes args into v, which must embed imageArgs, and returns
// the session it names.
func (s *Server) sessionFor(args json.RawMessage, v interface{ id() string }) (*session.Session, error) {
	if err := decodeArgs(args, v); err != nil {
		return nil, err
	}
	if v.id() == "" {
		return nil, fmt.Errorf("%w: image_id is required", errInvalidArgs)
	}
	return s.sessions.Get(v.id())
}

func (a *imageArgs) id() string { return a.ImageID }

// imageResult is a rendered image returned inline.
type imageResult struct {
	ImageID     string `json:"image_id"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func encodeImage(id string, img image.Image, format string) (*imageResult, error) {
	f, err := render.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	data, err := render.EncodeBase64(img, f)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &imageResult{
		ImageID:     id,
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: data,
		MimeType:    f.MimeType(),
	}, nil
}

// === Image and Session Handlers ===

type imageLoadArgs struct {
	Path    string `json:"path"`
	ImageID string `json:"image_id"`
}

type imageLoadResult struct {
	ImageID string `json:"image_id"`
	raster.ImageInfo
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArgs)
	}

	info, err := raster.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	buf, err := s.cache.LoadBuffer(a.Path)
	if err != nil {
		return nil, err
	}

	id := a.ImageID
	if id == "" {
		id = a.Path
	}
	if _, err := s.sessions.Open(id, buf); err != nil {
		return nil, err
	}
	delete(s.tickets, id)

	return &imageLoadResult{ImageID: id, ImageInfo: *info}, nil
}

func (s *Server) handleSessionClose(args json.RawMessage) (interface{}, error) {
	var a imageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.sessions.Close(a.ImageID); err != nil {
		return nil, err
	}
	delete(s.tickets, a.ImageID)
	return map[string]interface{}{"image_id": a.ImageID, "closed": true}, nil
}

// === Extraction Handlers ===

type rectArg struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

type extractArgs struct {
	imageArgs
	LowThreshold      *float64  `json:"low_threshold"`
	HighThreshold     *float64  `json:"high_threshold"`
	DilationSize      *int      `json:"dilation_size"`
	ClosingIterations *int      `json:"closing_iterations"`
	Exclude           []rectArg `json:"exclude"`
}

// params overlays the supplied values on base and checks the documented
// ranges.
func (a *extractArgs) params(base edge.Params) (edge.Params, error) {
	p := base
	if a.LowThreshold != nil {
		p.LowThreshold = *a.LowThreshold
	}
	if a.HighThreshold != nil {
		p.HighThreshold = *a.HighThreshold
	}
	if a.DilationSize != nil {
		p.DilationSize = *a.DilationSize
	}
	if a.ClosingIterations != nil {
		p.ClosingIterations = *a.ClosingIterations
	}
	if !p.InRange() {
		return p, fmt.Errorf("%w: extraction parameters out of range: low %g high %g dilation %d closing %d",
			errInvalidArgs, p.LowThreshold, p.HighThreshold, p.DilationSize, p.ClosingIterations)
	}
	p.Exclude = nil
	for _, r := range a.Exclude {
		p.Exclude = append(p.Exclude, image.Rect(r.X1, r.Y1, r.X2, r.Y2))
	}
	return p, nil
}

type contourInfo struct {
	Points int     `json:"points"`
	Area   float64 `json:"area"`
}

type detectionResult struct {
	ImageID       string        `json:"image_id"`
	Seq           uint64        `json:"seq"`
	Engine        string        `json:"engine"`
	Width         int           `json:"width"`
	Height        int           `json:"height"`
	EdgePixels    int           `json:"edge_pixels"`
	ContourCount  int           `json:"contour_count"`
	Contours      []contourInfo `json:"contours"`
	Primary       int           `json:"primary"`
	PrimaryArea   float64       `json:"primary_area,omitempty"`
	PrimaryPoints []edge.Point  `json:"primary_points,omitempty"`
}

func (s *Server) describeDetection(id string, seq uint64, res *edge.Result, includePoints bool) *detectionResult {
	out := &detectionResult{
		ImageID:      id,
		Seq:          seq,
		Engine:       s.sessions.Engine().Name(),
		Width:        res.Width,
		Height:       res.Height,
		ContourCount: len(res.Contours),
		Contours:     make([]contourInfo, len(res.Contours)),
		Primary:      res.Primary,
	}
	if res.Edges != nil {
		out.EdgePixels = res.Edges.Count()
	}
	for i, c := range res.Contours {
		out.Contours[i] = contourInfo{Points: len(c.Points), Area: c.Area}
	}
	if c, ok := res.PrimaryContour(); ok {
		out.PrimaryArea = c.Area
		if includePoints {
			out.PrimaryPoints = c.Points
		}
	}
	return out
}

func (s *Server) handleContourExtract(args json.RawMessage) (interface{}, error) {
	var a extractArgs
	sess, err := s.sessionFor(args, &a)
	if err != nil {
		return nil, err
	}
	p, err := a.params(sess.Params())
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	t, err := sess.ExtractAsync(ctx, p)
	if err != nil {
		return nil, err
	}
	s.tickets[a.ImageID] = t
	res, err := t.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return s.describeDetection(a.ImageID, t.Seq, res, false), nil
}

func (s *Server) handleContourExtractAsync(args json.RawMessage) (interface{}, error) {
	var a extractArgs
	sess, err := s.sessionFor(args, &a)
	if err != nil {
		return nil, err
	}
	p, err := a.params(sess.Params())
	if err != nil {
		return nil, err
	}

	t, err := sess.ExtractAsync(context.Background(), p)
	if err != nil {
		return nil, err
	}
	s.tickets[a.ImageID] = t
	return map[string]interface{}{"image_id": a.ImageID, "seq": t.Seq}, nil
}

type contourGetArgs struct {
	imageArgs
	IncludePoints bool `json:"include_points"`
}

type contourStatus struct {
	ImageID string `json:"image_id"`

	// Status is "pending" while the newest extraction runs, "ready" when a
	// detection is stored and "none" otherwise.
	Status    string           `json:"status"`
	Latest    uint64           `json:"latest_seq"`
	LastError string           `json:"last_error,omitempty"`
	Detection *detectionResult `json:"detection,omitempty"`
}

func (s *Server) handleContourGet(args json.RawMessage) (interface{}, error) {
	var a contourGetArgs
	if _, err := s.sessionFor(args, &a); err != nil {
		return nil, err
	}

	out := &contourStatus{ImageID: a.ImageID, Status: "none"}
	if res, seq, ok := s.sessions.Store().Detection(a.ImageID); ok {
		out.Status = "ready"
		out.Detection = s.describeDetection(a.ImageID, seq, res, a.IncludePoints)
	}
	if t := s.tickets[a.ImageID]; t != nil {
		out.Latest = t.Seq
		select {
		case <-t.Done():
			if _, err := t.Wait(context.Background()); err != nil && !errors.Is(err, session.ErrStale) {
				out.LastError = err.Error()
			}
		default:
			out.Status = "pending"
		}
	}
	return out, nil
}

type formatArgs struct {
	imageArgs
	Format      string `json:"format"`
	GridSpacing int    `json:"grid_spacing"`
	GridLabels  bool   `json:"grid_labels"`
	GridColor   string `json:"grid_color"`
}

// render encodes img, with the requested coordinate grid on top.
func (a *formatArgs) render(img image.Image) (*imageResult, error) {
	if a.GridSpacing < 0 {
		return nil, fmt.Errorf("%w: grid_spacing cannot be negative", errInvalidArgs)
	}
	if a.GridSpacing > 0 {
		grid := render.Grid{Spacing: a.GridSpacing, Labels: a.GridLabels, Color: a.GridColor}
		var err error
		if img, err = grid.Draw(img); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
		}
	}
	return encodeImage(a.ImageID, img, a.Format)
}

func (s *Server) handleContourPreview(args json.RawMessage) (interface{}, error) {
	var a formatArgs
	sess, err := s.sessionFor(args, &a)
	if err != nil {
		return nil, err
	}
	img, err := sess.Preview()
	if err != nil {
		return nil, err
	}
	return a.render(img)
}

func (s *Server) handleContourVectorize(args json.RawMessage) (interface{}, error) {
	var a imageArgs
	if _, err := s.sessionFor(args, &a); err != nil {
		return nil, err
	}
	res, seq, ok := s.sessions.Store().Detection(a.ImageID)
	if !ok || res.Edges == nil {
		return nil, fmt.Errorf("no edge map stored for %s", a.ImageID)
	}

	var buf bytes.Buffer
	if err := render.VectorizeEdges(&buf, res.Edges); err != nil {
		return nil, err
	}
	return map[string]interface{}{"image_id": a.ImageID, "seq": seq, "svg": buf.String()}, nil
}

type labelsDetectArgs struct {
	imageArgs
	MinConfidence *float64 `json:"min_confidence"`
}

func (s *Server) handleLabelsDetect(args json.RawMessage) (interface{}, error) {
	var a labelsDetectArgs
	sess, err := s.sessionFor(args, &a)
	if err != nil {
		return nil, err
	}

	d := *s.labels
	if a.MinConfidence != nil {
		d.MinConfidence = *a.MinConfidence
	}
	labels, err := d.Detect(context.Background(), sess.Buffer())
	if err != nil {
		return nil, err
	}
	if labels == nil {
		labels = []ocr.Label{}
	}
	return map[string]interface{}{"image_id": a.ImageID, "count": len(labels), "labels": labels}, nil
}

// === Refinement Handlers ===

type refineBeginResult struct {
	ImageID     string `json:"image_id"`
	Placeholder bool   `json:"placeholder"`
	Seq         uint64 `json:"seq"`
	Points      int    `json:"points"`
	PathCount   int    `json:"path_count"`
}

func (s *Server) handleRefineBegin(args json.RawMessage) (interface{}, error) {
	var a imageArgs
	sess, err := s.sessionFor(args, &a)
	if err != nil {
		return nil, err
	}
	seed := sess.BeginRefinement()
	return &refineBeginResult{
		ImageID:     a.ImageID,
		Placeholder: seed.Placeholder,
		Seq:         seed.Seq,
		Points:      len(seed.Points),
		PathCount:   sess.Editor().Paths().Len(),
	}, nil
}

type brushSetArgs struct {
	imageArgs
	Mode       *string  `json:"mode"`
	Width      *float64 `json:"width"`
	Color      *string  `json:"color"`
	Window     *int     `json:"window"`
	Iterations *int     `json:"iterations"`
}

type brushState struct {
	Mode       string  `json:"mode"`
	Width      float64 `json:"width"`
	Color      string  `json:"color"`
	Window     int     `json:"window"`
	Iterations int     `json:"iterations"`
}

func brushOf(sess *session.Session) *brushState {
	ed, sm := sess.Editor(), sess.Smoother()
	return &brushState{
		Mode:       ed.Mode().String(),
		Width:      ed.Width(),
		Color:      ed.Color(),
		Window:     sm.Window,
		Iterations: sm.Iterations,
	}
}

// handleBrushSet validates every supplied setting before applying any.
func (s *Server) handleBrushSet(args json.RawMessage) (interface{}, error) {
	var a brushSetArgs
	sess, err := s.sessionFor(args, &a)
	if err != nil {
		return nil, err
	}

	mode := sess.Editor().Mode()
	if a.Mode != nil {
		if mode, err = stroke.ParseMode(*a.Mode); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
		}
	}
	if a.Width != nil && *a.Width <= 0 {
		return nil, fmt.Errorf("%w: width must be positive", errInvalidArgs)
	}
	if a.Window != nil && (*a.Window < smooth.MinWindow || *a.Window > smooth.MaxWindow) {
		return nil, fmt.Errorf("%w: window must be between %d and %d", errInvalidArgs, smooth.MinWindow, smooth.MaxWindow)
	}
	if a.Iterations != nil && *a.Iterations < 1 {
		return nil, fmt.Errorf("%w: iterations must be at least 1", errInvalidArgs)
	}
	if a.Color != nil {
		if err := sess.Editor().SetColor(*a.Color); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidArgs, err)
		}
	}

	sess.Editor().SetMode(mode)
	if a.Width != nil {
		_ = sess.Editor().SetWidth(*a.Width)
	}
	if a.Window != nil {
		sess.Smoother().Window = *a.Window
	}
	if a.Iterations != nil {
		sess.Smoother().Iterations = *a.Iterations
	}
	return brushOf(sess), nil
}

type pointArg struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type strokeArgs struct {
	imageArgs
	X      *float64   `json:"x"`
	Y      *float64   `json:"y"`
	Points []pointArg `json:"points"`
}

// samples returns the single sample followed by the batch.
func (a *strokeArgs) samples() []geom.Point {
	var out []geom.Point
	if a.X != nil && a.Y != nil {
		out = append(out, geom.Pt(*a.X, *a.Y))
	}
	for _, p := range a.Points {
		out = append(out, geom.Pt(p.X, p.Y))
	}
	return out
}

type strokeResult struct {
	ImageID   string   `json:"image_id"`
	Mode      string   `json:"mode"`
	Accepted  int      `json:"accepted"`
	Ignored   int      `json:"ignored"`
	Removed   []string `json:"removed,omitempty"`
	PathCount int      `json:"path_count"`
}

func (r *strokeResult) add(c stroke.Change) {
	if c.Ignored {
		r.Ignored++
	} else {
		r.Accepted++
	}
	if c.Removed != "" {
		r.Removed = append(r.Removed, c.Removed)
	}
}

func (s *Server) handleStrokeBegin(args json.RawMessage) (interface{}, error) {
	var a strokeArgs
	sess, err := s.sessionFor(args, &a)
	if err != nil {
		return nil, err
	}
	if a.X == nil || a.Y == nil {
		return nil, fmt.Errorf("%w: x and y are required", errInvalidArgs)
	}

	out := &strokeResult{ImageID: a.ImageID, Mode: sess.Editor().Mode().String()}
	out.add(sess.BeginStroke(geom.Pt(*a.X, *a.Y)))
	out.PathCount = sess.Editor().Paths().Len()
	return out, nil
}

func (s *Server) handleStrokeExtend(args json.RawMessage) (interface{}, error) {
	var a strokeArgs
	sess, err := s.sessionFor(args, &a)
	if err != nil {
		return nil, err
	}
	pts := a.samples()
	if len(pts) == 0 {
		return nil, fmt.Errorf("%w: x and y or points are required", errInvalidArgs)
	}

	out := &strokeResult{ImageID: a.ImageID, Mode: sess.Editor().Mode().String()}
	for _, p := range pts {
		out.add(sess.ExtendStroke(p))
	}
	out.PathCount = sess.Editor().Paths().Len()
	return out, nil
}

func (s *Server) handleStrokeEnd(args json.RawMessage) (interface{}, error) {
	var a imageArgs
	sess, err := s.sessionFor(args, &a)
	if err != nil {
		return nil, err
	}
	p := sess.EndStroke()
	return map[string]interface{}{
		"image_id":   a.ImageID,
		"path":       p,
		"path_count": sess.Editor().Paths().Len(),
	}, nil
}

type pathsListArgs struct {
	imageArgs
	IncludePoints bool `json:"include_points"`
}

type pathsListResult struct {
	ImageID string              `json:"image_id"`
	Summary render.Summary      `json:"summary"`
	Paths   []stroke.VectorPath `json:"paths,omitempty"`
}

func (s *Server) handlePathsList(args json.RawMessage) (interface{}, error) {
	var a pathsListArgs
	sess, err := s.sessionFor(args, &a)
	if err != nil {
		return nil, err
	}
	paths := sess.Editor().Paths().Snapshot()
	out := &pathsListResult{ImageID: a.ImageID, Summary: render.Summarize(paths)}
	if a.IncludePoints {
		out.Paths = paths
	}
	return out, nil
}

type pathsSmoothArgs struct {
	imageArgs
	PathID string `json:"path_id"`
	Window *int   `json:"window"`
}

func (s *Server) handlePathsSmooth(args json.RawMessage) (interface{}, error) {
	var a pathsSmoothArgs
	sess, err := s.sessionFor(args, &a)
	if err != nil {
		return nil, err
	}

	sm := sess.Smoother()
	if a.Window != nil {
		if *a.Window < smooth.MinWindow || *a.Window > smooth.MaxWindow {
			return nil, fmt.Errorf("%w: window must be between %d and %d", errInvalidArgs, smooth.MinWindow, smooth.MaxWindow)
		}
		defer func(w int) { sm.Window = w }(sm.Window)
		sm.Window = *a.Window
	}
	if err := sess.Smooth(a.PathID); err != nil {
		return nil, err
	}
	return render.Summarize(sess.Editor().Paths().Snapshot()), nil
}

type pathsCornerCutArgs struct {
	imageArgs
	PathID     string `json:"path_id"`
	Iterations *int   `json:"iterations"`
}

func (s *Server) handlePathsCornerCut(args json.RawMessage) (interface{}, error) {
	var a pathsCornerCutArgs
	sess, err := s.sessionFor(args, &a)
	if err != nil {
		return nil, err
	}

	sm := sess.Smoother()
	if a.Iterations != nil {
		if *a.Iterations < 1 {
			return nil, fmt.Errorf("%w: iterations must be at least 1", errInvalidArgs)
		}
		defer func(k int) { sm.Iterations = k }(sm.Iterations)
		sm.Iterations = *a.Iterations
	}
	if err := sess.CornerCut(a.PathID); err != nil {
		return nil, err
	}
	return render.Summarize(sess.Editor().Paths().Snapshot()), nil
}

type pathsImportArgs struct {
	imageArgs
	SVG  string `json:"svg"`
	Path string `json:"path"`
}

func (s *Server) handlePathsImportSVG(args json.RawMessage) (interface{}, error) {
	var a pathsImportArgs
	sess, err := s.sessionFor(args, &a)
	if err != nil {
		return nil, err
	}

	data := []byte(a.SVG)
	if len(data) == 0 {
		if a.Path == "" {
			return nil, fmt.Errorf("%w: svg or path is required", errInvalidArgs)
		}
		if data, err = os.ReadFile(a.Path); err != nil {
			return nil, fmt.Errorf("failed to read svg: %w", err)
		}
	}

	doc, err := render.ImportSVG(data)
	if err != nil {
		return nil, err
	}
	buf := sess.Buffer()
	if doc.Width != buf.Width() || doc.Height != buf.Height() {
		return nil, fmt.Errorf("svg canvas %dx%d does not match image %dx%d",
			doc.Width, doc.Height, buf.Width(), buf.Height())
	}
	sess.Import(doc.Paths)
	return render.Summarize(sess.Editor().Paths().Snapshot()), nil
}

func (s *Server) handleRefineOverlay(args json.RawMessage) (interface{}, error) {
	var a formatArgs
	sess, err := s.sessionFor(args, &a)
	if err != nil {
		return nil, err
	}
	img, err := sess.Overlay()
	if err != nil {
		return nil, err
	}
	return a.render(img)
}

type refineCompleteArgs struct {
	imageArgs
	IncludeSVG bool `json:"include_svg"`
}

type refineCompleteResult struct {
	*render.Handoff
	SVG string `json:"svg,omitempty"`
}

func (s *Server) handleRefineComplete(args json.RawMessage) (interface{}, error) {
	var a refineCompleteArgs
	sess, err := s.sessionFor(args, &a)
	if err != nil {
		return nil, err
	}

	h := sess.Complete()
	out := &refineCompleteResult{Handoff: h}
	if a.IncludeSVG {
		var buf bytes.Buffer
		if err := render.ExportSVG(&buf, h.Width, h.Height, h.Paths); err != nil {
			return nil, err
		}
		out.SVG = buf.String()
	}
	return out, nil
}
