package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/colorgrid/internal/config"
	"github.com/ironsheep/colorgrid/internal/imaging"
	"github.com/ironsheep/colorgrid/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "color_grid_generate").
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
// Invalid arguments or configuration return -32602; other tool failures
// return -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		if isArgumentError(err) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
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

func isArgumentError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.Is(err, config.ErrInvalidConfiguration) ||
		errors.Is(err, config.ErrNoInput) ||
		errors.Is(err, config.ErrNoOutputDir) ||
		errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr)
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Overlays them on the server's default configuration
//  3. Calls the pipeline or imaging function
//  4. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "color_grid_generate":
		return s.handleColorGridGenerate(ctx, args)
	case "color_grid_sample":
		return s.handleColorGridSample(args)
	case "image_pixel_sort":
		return s.handleImagePixelSort(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
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

// settingsArgs are the optional overrides shared by the color tools. Nil
// fields keep the server default.
type settingsArgs struct {
	Steps      *int  `json:"steps"`
	HueNormal  *bool `json:"hue_normal"`
	SaveSorted *bool `json:"save_sorted"`
	WrapHue    *bool `json:"wrap_hue"`
	BlockSize  *int  `json:"block_size"`
}

func (a settingsArgs) apply(cfg config.Config) config.Config {
	if a.Steps != nil {
		cfg.Steps = *a.Steps
	}
	if a.HueNormal != nil {
		cfg.HueNormal = *a.HueNormal
	}
	if a.SaveSorted != nil {
		cfg.SaveSorted = *a.SaveSorted
	}
	if a.WrapHue != nil {
		cfg.WrapHue = *a.WrapHue
	}
	if a.BlockSize != nil {
		cfg.BlockSize = *a.BlockSize
	}
	return cfg
}

// === Basic Image Information ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(a.Path)
}

// === Color Grid ===

type colorGridGenerateArgs struct {
	settingsArgs
	Paths     []string `json:"paths"`
	OutputDir string   `json:"output_dir"`
}

func (s *Server) handleColorGridGenerate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a colorGridGenerateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	cfg := a.apply(s.defaults)
	cfg.Inputs = a.Paths
	if a.OutputDir != "" {
		cfg.OutputDir = a.OutputDir
	}

	report, err := pipeline.NewRunner(cfg, s.base).Run(ctx)
	if err != nil && report == nil {
		return nil, err
	}
	return report, nil
}

type colorGridSampleArgs struct {
	settingsArgs
	Path         string `json:"path"`
	IncludeImage bool   `json:"include_image"`
}

// colorGridSampleResult is the response of color_grid_sample.
type colorGridSampleResult struct {
	Mode   string                `json:"mode"`
	Width  int                   `json:"width"`
	Height int                   `json:"height"`
	Info   json.RawMessage       `json:"info"`
	Grid   *imaging.EncodedImage `json:"grid,omitempty"`
}

func (s *Server) handleColorGridSample(args json.RawMessage) (interface{}, error) {
	var a colorGridSampleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	cfg := a.apply(s.defaults)
	if err := cfg.ValidateSettings(); err != nil {
		return nil, err
	}

	p, err := imaging.Load(a.Path)
	if err != nil {
		return nil, err
	}

	analysis, err := pipeline.Analyze(p, cfg, false)
	if err != nil {
		return nil, err
	}

	result := &colorGridSampleResult{
		Mode:   analysis.Mode.String(),
		Width:  p.Width,
		Height: p.Height,
		Info:   json.RawMessage(analysis.Info),
	}
	if a.IncludeImage {
		result.Grid, err = imaging.EncodeBase64PNG(analysis.Grid)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

type imagePixelSortArgs struct {
	settingsArgs
	Path      string `json:"path"`
	OutputDir string `json:"output_dir"`
}

func (s *Server) handleImagePixelSort(args json.RawMessage) (interface{}, error) {
	var a imagePixelSortArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	cfg := a.apply(s.defaults)
	if a.OutputDir != "" {
		cfg.OutputDir = a.OutputDir
	}
	if cfg.OutputDir == "" {
		return nil, config.ErrNoOutputDir
	}

	out, err := pipeline.SortFile(a.Path, cfg.OutputDir, cfg)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"input":       a.Path,
		"sorted_path": out,
		"mode":        cfg.SortMode().String(),
	}, nil
}
