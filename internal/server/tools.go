package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// settingsProperties returns the optional overrides every color tool accepts.
func settingsProperties() map[string]interface{} {
	return map[string]interface{}{
		"steps": map[string]interface{}{
			"type":        "integer",
			"description": "Number of brightness bands or colors to sample (2-256). Defaults to the server setting.",
			"minimum":     2,
			"maximum":     256,
		},
		"hue_normal": map[string]interface{}{
			"type":        "boolean",
			"description": "true: hue-weighted band sampling and hue-weighted sort; false: uniform sampling and plain value/hue/saturation sort",
		},
		"wrap_hue": map[string]interface{}{
			"type":        "boolean",
			"description": "Treat the hue histogram as circular when smoothing (red wraps around)",
		},
		"block_size": map[string]interface{}{
			"type":        "integer",
			"description": "Edge length in pixels of each color block (default: 400)",
		},
	}
}

func withProperties(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Read an image header and return its dimensions, format and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Color Grid
		{
			Name:        "color_grid_generate",
			Description: "Process one or more images (or directories of images) and write a color grid PNG plus a JSON color info file per image to the output directory. Optionally also writes a pixel-sorted mosaic. Returns a report of written files and per-file failures.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(settingsProperties(), map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Image files or directories to process",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory for generated files (created if missing)",
					},
					"save_sorted": map[string]interface{}{
						"type":        "boolean",
						"description": "Also write a pixel-sorted mosaic per image",
					},
				}),
				"required": []string{"paths"},
			},
		},
		{
			Name:        "color_grid_sample",
			Description: "Sample the representative colors of an image without writing files. Returns the color info document and, on request, the grid as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(settingsProperties(), map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the grid image as base64 PNG (default: false)",
					},
				}),
				"required": []string{"path"},
			},
		},

		// Pixel Sort
		{
			Name:        "image_pixel_sort",
			Description: "Reorder every pixel of an image by brightness, then smoothed hue weight when hue_normal is true or raw hue when false, then saturation, and write the mosaic to the output directory.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(settingsProperties(), map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory for the sorted image (created if missing)",
					},
				}),
				"required": []string{"path"},
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
