// Package server implements the MCP (Model Context Protocol) server for
// radiograph contour extraction and refinement.
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image and session lifecycle:
//   - image_load: Load a radiograph and open its session
//   - session_close: Drop a session and its stored data
//
// Extraction:
//   - contour_extract: Run extraction and wait for the result
//   - contour_extract_async: Queue extraction, newest request wins
//   - contour_get: Stored detection and pending status
//   - contour_preview: Render the stored detection
//   - contour_vectorize: Trace the edge map to SVG
//   - labels_detect: Find burned-in text blocks with Tesseract
//
// Refinement:
//   - refine_begin: Seed the paths from the primary contour
//   - brush_set: Brush mode, width, colour and smoothing settings
//   - stroke_begin, stroke_extend, stroke_end: Pointer samples
//   - paths_list: Path summaries
//   - paths_smooth, paths_corner_cut: Curve smoothing
//   - paths_import_svg: Restore paths from an SVG handoff
//   - refine_overlay: Render the paths over the dimmed radiograph
//   - refine_complete: Store the final paths and return the handoff
//
// Every tool except image_load takes the image_id that image_load
// returned. Sessions live until they are closed, reloaded or the server
// exits.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses:
//   - -32601: unknown method or tool
//   - -32602: malformed or out-of-range arguments
//   - -32000: tool execution failure, with the Go error string as data
//
// # Usage
//
//	srv := server.New(cfg, edge.NewExtractor(), logger)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
