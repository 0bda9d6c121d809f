package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var (
	imageIDProp = map[string]interface{}{
		"type":        "string",
		"description": "Identifier of the loaded image (defaults to its path)",
	}
	formatProp = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"png", "webp"},
		"description": "Output encoding. Default png",
		"default":     "png",
	}
	gridProps = map[string]interface{}{
		"grid_spacing": map[string]interface{}{
			"type":        "integer",
			"description": "Draw coordinate lines every N pixels to help pick stroke points. Default 0 (no grid)",
			"default":     0,
		},
		"grid_labels": map[string]interface{}{
			"type":        "boolean",
			"description": "Label grid intersections with their x,y coordinates. Default false",
			"default":     false,
		},
		"grid_color": map[string]interface{}{
			"type":        "string",
			"description": "Grid colour as #RRGGBB or #RRGGBBAA. Default #FF000080",
		},
	}
	coordProp = map[string]interface{}{
		"type":        "number",
		"description": "Canvas coordinate in pixels",
	}
	extractionProps = map[string]interface{}{
		"image_id": imageIDProp,
		"low_threshold": map[string]interface{}{
			"type":        "number",
			"description": "Weak edge gradient threshold (10-200). Default from config (50)",
		},
		"high_threshold": map[string]interface{}{
			"type":        "number",
			"description": "Strong edge gradient threshold (100-300). Default from config (165)",
		},
		"dilation_size": map[string]interface{}{
			"type":        "integer",
			"description": "Side of the square pre-dilation element (1-5). Default from config (2)",
		},
		"closing_iterations": map[string]interface{}{
			"type":        "integer",
			"description": "Closing passes that bridge gaps in the edge map (1-5). Default from config (2)",
		},
		"exclude": map[string]interface{}{
			"type":        "array",
			"description": "Rectangles whose edges are ignored, e.g. burned-in markers",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x1": map[string]interface{}{"type": "integer"},
					"y1": map[string]interface{}{"type": "integer"},
					"x2": map[string]interface{}{"type": "integer"},
					"y2": map[string]interface{}{"type": "integer"},
				},
				"required": []string{"x1", "y1", "x2", "y2"},
			},
		},
	}
)

// renderSchema returns the arguments of tools that return an image.
func renderSchema() map[string]interface{} {
	props := map[string]interface{}{
		"image_id": imageIDProp,
		"format":   formatProp,
	}
	for k, v := range gridProps {
		props[k] = v
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"image_id"},
	}
}

func imageOnlySchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"image_id": imageIDProp,
		},
		"required": []string{"image_id"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image and session lifecycle
		{
			Name:        "image_load",
			Description: "Load a radiograph and open a refinement session for it. Reloading an id discards its previous detection and paths.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"image_id": imageIDProp,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "session_close",
			Description: "Close the session of an image and drop everything stored for it.",
			InputSchema: imageOnlySchema(),
		},

		// Extraction
		{
			Name:        "contour_extract",
			Description: "Run edge extraction and wait for the result. Returns every external contour and the index of the primary (largest) one.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": extractionProps,
				"required":   []string{"image_id"},
			},
		},
		{
			Name:        "contour_extract_async",
			Description: "Queue edge extraction and return its sequence number at once. Only the newest request per image is ever stored; poll with contour_get.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": extractionProps,
				"required":   []string{"image_id"},
			},
		},
		{
			Name:        "contour_get",
			Description: "Report the stored detection of an image and whether a newer extraction is still running.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_id": imageIDProp,
					"include_points": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the vertices of the primary contour. Default false",
						"default":     false,
					},
				},
				"required": []string{"image_id"},
			},
		},
		{
			Name:        "contour_preview",
			Description: "Render the stored detection: edge map in white, contours in white, primary contour in green.",
			InputSchema: renderSchema(),
		},
		{
			Name:        "contour_vectorize",
			Description: "Trace the stored edge map into bezier outlines and return them as an SVG document.",
			InputSchema: imageOnlySchema(),
		},
		{
			Name:        "labels_detect",
			Description: "Find burned-in text blocks (side markers, rulers, patient text) with Tesseract. The rectangles can be passed as exclude to contour_extract.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_id": imageIDProp,
					"min_confidence": map[string]interface{}{
						"type":        "number",
						"description": "Minimum block confidence (0-100). Default from config (60)",
					},
				},
				"required": []string{"image_id"},
			},
		},

		// Refinement
		{
			Name:        "refine_begin",
			Description: "Seed the path set from the primary contour, or a placeholder ring when there is none.",
			InputSchema: imageOnlySchema(),
		},
		{
			Name:        "brush_set",
			Description: "Change the brush mode, width or colour and the smoothing settings. Applies to later strokes only.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_id": imageIDProp,
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"draw", "erase"},
						"description": "Brush mode",
					},
					"width": map[string]interface{}{
						"type":        "number",
						"description": "Brush width in pixels (> 0)",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Stroke colour as #RRGGBB",
					},
					"window": map[string]interface{}{
						"type":        "integer",
						"description": "Moving-average window (1-10)",
					},
					"iterations": map[string]interface{}{
						"type":        "integer",
						"description": "Corner-cutting passes (>= 1)",
					},
				},
				"required": []string{"image_id"},
			},
		},
		{
			Name:        "stroke_begin",
			Description: "Pointer down. Starts a draw stroke, or erases the topmost path under the brush.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_id": imageIDProp,
					"x":        coordProp,
					"y":        coordProp,
				},
				"required": []string{"image_id", "x", "y"},
			},
		},
		{
			Name:        "stroke_extend",
			Description: "Pointer move. Accepts one sample (x, y) or a batch in points; samples outside the canvas are ignored.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_id": imageIDProp,
					"x":        coordProp,
					"y":        coordProp,
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x": coordProp,
								"y": coordProp,
							},
							"required": []string{"x", "y"},
						},
					},
				},
				"required": []string{"image_id"},
			},
		},
		{
			Name:        "stroke_end",
			Description: "Pointer up. Finalizes a draw stroke into the path set.",
			InputSchema: imageOnlySchema(),
		},
		{
			Name:        "paths_list",
			Description: "List the paths of the session with point counts, lengths and bounds.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_id": imageIDProp,
					"include_points": map[string]interface{}{
						"type":        "boolean",
						"description": "Include path vertices. Default false",
						"default":     false,
					},
				},
				"required": []string{"image_id"},
			},
		},
		{
			Name:        "paths_smooth",
			Description: "Apply a moving average to one path, or to every path when path_id is omitted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_id": imageIDProp,
					"path_id": map[string]interface{}{
						"type":        "string",
						"description": "Path to smooth. Default all paths",
					},
					"window": map[string]interface{}{
						"type":        "integer",
						"description": "Window size for this call (1-10). Default the session setting",
					},
				},
				"required": []string{"image_id"},
			},
		},
		{
			Name:        "paths_corner_cut",
			Description: "Apply corner-cutting subdivision to one path, or to every path when path_id is omitted. Each pass doubles the point count.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_id": imageIDProp,
					"path_id": map[string]interface{}{
						"type":        "string",
						"description": "Path to refine. Default all paths",
					},
					"iterations": map[string]interface{}{
						"type":        "integer",
						"description": "Passes for this call (>= 1). Default the session setting",
					},
				},
				"required": []string{"image_id"},
			},
		},
		{
			Name:        "paths_import_svg",
			Description: "Replace the path set with the paths of an SVG handoff written by refine_complete.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_id": imageIDProp,
					"svg": map[string]interface{}{
						"type":        "string",
						"description": "SVG document text",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to an SVG file, used when svg is empty",
					},
				},
				"required": []string{"image_id"},
			},
		},
		{
			Name:        "refine_overlay",
			Description: "Render the radiograph dimmed with all paths, the stroke in progress and the erase indicator.",
			InputSchema: renderSchema(),
		},
		{
			Name:        "refine_complete",
			Description: "Store the final path set and return the handoff for the annotation tools.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_id": imageIDProp,
					"include_svg": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the paths as an SVG document. Default false",
						"default":     false,
					},
				},
				"required": []string{"image_id"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
