package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"image_load",
		"session_close",
		"contour_extract",
		"contour_extract_async",
		"contour_get",
		"contour_preview",
		"contour_vectorize",
		"labels_detect",
		"refine_begin",
		"brush_set",
		"stroke_begin",
		"stroke_extend",
		"stroke_end",
		"paths_list",
		"paths_smooth",
		"paths_corner_cut",
		"paths_import_svg",
		"refine_overlay",
		"refine_complete",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Tool %s defined twice", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("Tool count: got %d, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}

			if schemaType := tool.InputSchema["type"]; schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			// Every required parameter must be declared
			required, _ := tool.InputSchema["required"].([]string)
			for _, name := range required {
				if _, ok := props[name]; !ok {
					t.Errorf("required parameter %s has no property", name)
				}
			}
		})
	}
}

func TestToolDefinitions_RequiredImageID(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "image_load" {
			continue
		}
		t.Run(tool.Name, func(t *testing.T) {
			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("required should be a string slice")
			}
			found := false
			for _, r := range required {
				if r == "image_id" {
					found = true
				}
			}
			if !found {
				t.Error("image_id should be required")
			}
		})
	}
}

func TestToolDefinitions_ImageLoadRequiresPath(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name != "image_load" {
			continue
		}
		required := tool.InputSchema["required"].([]string)
		if len(required) != 1 || required[0] != "path" {
			t.Errorf("image_load required: got %v, want [path]", required)
		}
		return
	}
	t.Fatal("image_load not defined")
}

func TestToolDefinitions_ExtractionRanges(t *testing.T) {
	for _, name := range []string{"contour_extract", "contour_extract_async"} {
		t.Run(name, func(t *testing.T) {
			var tool *Tool
			for _, tl := range GetToolDefinitions() {
				if tl.Name == name {
					tl := tl
					tool = &tl
				}
			}
			if tool == nil {
				t.Fatalf("%s not defined", name)
			}
			props := tool.InputSchema["properties"].(map[string]interface{})
			for _, p := range []string{"low_threshold", "high_threshold", "dilation_size", "closing_iterations", "exclude"} {
				if _, ok := props[p]; !ok {
					t.Errorf("missing property %s", p)
				}
			}
		})
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	tests := map[string]map[string]interface{}{
		"contour_get":     {"include_points": false},
		"contour_preview": {"format": "png"},
		"paths_list":      {"include_points": false},
		"refine_overlay":  {"format": "png"},
		"refine_complete": {"include_svg": false},
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for toolName, defaults := range tests {
		tool, ok := toolMap[toolName]
		if !ok {
			t.Errorf("Tool %s not found", toolName)
			continue
		}
		props := tool.InputSchema["properties"].(map[string]interface{})
		for paramName, expected := range defaults {
			prop, ok := props[paramName].(map[string]interface{})
			if !ok {
				t.Errorf("%s.%s: property not found", toolName, paramName)
				continue
			}
			if got := prop["default"]; got != expected {
				t.Errorf("%s.%s: default got %v, want %v", toolName, paramName, got, expected)
			}
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(t)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}

	expected := GetToolDefinitions()
	if len(toolsList) != len(expected) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(expected))
	}
}
