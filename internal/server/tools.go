package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Tool names.
const (
	ToolExtract = "telemetry_extract"
	ToolPose    = "telemetry_pose"
	ToolRegions = "telemetry_regions"
)

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the screenshot file",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        ToolExtract,
			Description: "Read HUD telemetry (speed, distance, altitude, race time, power, cadence, heart rate, gradient, distance to finish, leaderboard, rider pose) from a Zwift screenshot. Fields that cannot be read are omitted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        ToolPose,
			Description: "Classify the rider's body position (tucked, upright, seated_climb, standing_climb, unknown) from the avatar in a screenshot and report the silhouette features behind the decision.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        ToolRegions,
			Description: "Show the HUD field rectangles used for a resolution and whether they come from a configuration file or the built-in defaults. Give either width and height, or the path of a screenshot.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Screen width in pixels",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Screen height in pixels",
					},
					"path": pathProperty(),
				},
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
