package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// lineEnum lists the placeable reference lines, as accepted by stamp_set_line.
var lineEnum = []string{"headerBottom", "footerTop", "textLine", "baseline", "topLine", "leftStart", "rightStart"}

// toolEnum lists the placement tools, as accepted by stamp_place. Letter
// lines are placed with a tool but cleared per-index, so the set is one
// wider than lineEnum.
var toolEnum = []string{"headerBottom", "footerTop", "textLine", "baseline", "topLine", "leftStart", "rightStart", "letterLine"}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Session
		{
			Name:        "stamp_load",
			Description: "Load a stamp photograph and start a fresh editing session. Any previous target color, background removal, and reference lines are discarded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the stamp image file (PNG, JPEG, or GIF)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "stamp_info",
			Description: "Get the current session state: loaded image, picked target color, whether the background has been removed, reference line progress, and OCR availability.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Target Color
		{
			Name:        "stamp_pick_color",
			Description: "Sample the color at a pixel of the active image and record it as the background-removal target.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "stamp_set_target",
			Description: "Set the background-removal target color directly from a hex value instead of picking a pixel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"hex": map[string]interface{}{
						"type":        "string",
						"description": "Target color as hex, e.g. #EDE7DA",
					},
				},
				"required": []string{"hex"},
			},
		},
		{
			Name:        "stamp_magnify",
			Description: "Return a pixel-exact zoom of the region around a point, plus the color at the center. Use this to pick the background color precisely.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Center X coordinate",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Center Y coordinate",
					},
					"radius": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels around the center to include (default 8)",
						"default":     8,
					},
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Integer zoom factor, 1-32 (default 8)",
						"default":     8,
					},
				},
				"required": []string{"x", "y"},
			},
		},

		// Background Removal
		{
			Name:        "stamp_remove_background",
			Description: "Run color-to-alpha against the picked target color on the active image. Pixels matching the target become transparent; ink is preserved. Can be run repeatedly with different targets.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "stamp_revert",
			Description: "Discard all background removal and return to the original image. The target color and reference lines are kept.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Reference Lines
		{
			Name:        "stamp_set_line",
			Description: "Set or clear one reference line by name. Omit the value (or pass null) to clear the line.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"line": map[string]interface{}{
						"type":        "string",
						"enum":        lineEnum,
						"description": "Which reference line to set",
					},
					"value": map[string]interface{}{
						"type":        "integer",
						"description": "Coordinate in pixels (Y for horizontal lines, X for leftStart/rightStart). Omit to clear.",
					},
				},
				"required": []string{"line"},
			},
		},
		{
			Name:        "stamp_place",
			Description: "Place a reference line from a click position. The active tool decides which coordinate the click contributes: horizontal lines take the Y, vertical lines the X.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"tool": map[string]interface{}{
						"type":        "string",
						"enum":        toolEnum,
						"description": "Placement tool to apply",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Click X in image coordinates",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Click Y in image coordinates",
					},
				},
				"required": []string{"tool", "x", "y"},
			},
		},
		{
			Name:        "stamp_add_letter_line",
			Description: "Add a vertical letter guide at the given X. Duplicates within one pixel of an existing guide are rejected.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate of the letter guide",
					},
				},
				"required": []string{"x"},
			},
		},
		{
			Name:        "stamp_remove_letter_line",
			Description: "Remove one letter guide by its index in the sorted list.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "Zero-based index into the sorted letter guides",
					},
				},
				"required": []string{"index"},
			},
		},
		{
			Name:        "stamp_lines",
			Description: "Get the full reference-line state: placed values, resolved baseline/topLine fallbacks, computed font size, what is still missing for export, and ordering warnings.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "stamp_preview",
			Description: "Render the active image with the reference lines drawn on top. Placed lines are solid, derived fallbacks dashed, letter guides green.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"show_derived": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw dashed baseline/topLine fallbacks when not explicitly placed (default true)",
						"default":     true,
					},
					"show_letter_lines": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw letter guides (default true)",
						"default":     true,
					},
				},
			},
		},
		{
			Name:        "stamp_suggest_lines",
			Description: "Analyze the ink distribution of the active image and suggest reference line positions. Advisory only; nothing is placed.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Naming
		{
			Name:        "stamp_suggest_name",
			Description: "OCR the active image and suggest a stamp name from the recognized text. Requires a tesseract-enabled build; otherwise reports the engine as unavailable.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"language": map[string]interface{}{
						"type":        "string",
						"description": "OCR language hint (default 'eng')",
						"default":     "eng",
					},
				},
			},
		},

		// Export
		{
			Name:        "stamp_export",
			Description: "Assemble the stamp record (name, reference lines, font size, embedded PNG) and optionally write it to a file. Fails with the full list of missing preconditions if the session is not ready.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Stamp name to embed in the record",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Optional output path for the stamp file. If omitted, the record is only returned.",
					},
				},
				"required": []string{"name"},
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
