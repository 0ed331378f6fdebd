package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/zwift-ocr/internal/extractor"
	"github.com/ironsheep/zwift-ocr/internal/regions"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "telemetry_extract").
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
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case ToolExtract:
		return s.handleExtract(args)
	case ToolPose:
		return s.handlePose(args)
	case ToolRegions:
		return s.handleRegions(args)
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
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type pathArgs struct {
	Path string `json:"path"`
}

func parsePathArgs(args json.RawMessage) (string, error) {
	var p pathArgs
	if err := json.Unmarshal(args, &p); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if p.Path == "" {
		return "", errors.New("path is required")
	}
	return p.Path, nil
}

func (s *Server) handleExtract(args json.RawMessage) (interface{}, error) {
	path, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	return s.extractor.Extract(path)
}

func (s *Server) handlePose(args json.RawMessage) (interface{}, error) {
	path, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	return extractor.AnalyzePose(path, s.opts)
}

// RegionsResult is the telemetry_regions response.
type RegionsResult struct {
	Resolution   string         `json:"resolution"`
	Source       regions.Source `json:"source"`
	ConfigPath   string         `json:"config_path,omitempty"`
	ZwiftVersion string         `json:"zwift_version,omitempty"`
	Regions      regions.Set    `json:"regions"`
}

func (s *Server) handleRegions(args json.RawMessage) (interface{}, error) {
	var p struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Path   string `json:"path"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if p.Path != "" {
		img, err := s.opts.Images.Load(p.Path)
		if err != nil {
			return nil, err
		}
		p.Width, p.Height = img.Bounds().Dx(), img.Bounds().Dy()
	}
	if p.Width <= 0 || p.Height <= 0 {
		return nil, errors.New("width and height (or path) are required")
	}

	return ResolveRegions(s.opts.Regions, p.Width, p.Height), nil
}

// ResolveRegions describes the region set used for a resolution.
func ResolveRegions(provider *regions.Provider, width, height int) RegionsResult {
	resolved := provider.Resolve(width, height)
	out := RegionsResult{
		Resolution: regions.ResolutionKey(width, height),
		Source:     resolved.Source,
		Regions:    resolved.Regions,
	}
	if resolved.Config != nil {
		out.ConfigPath = resolved.Config.Path
		out.ZwiftVersion = resolved.Config.ZwiftVersion
	}
	return out
}
