package server

import (
	"strings"

	"github.com/ironsheep/kaleido-mcp/internal/store"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// nameProperty is the schema of the name argument shared by every tool.
func nameProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Upload
		{
			Name: "image_upload",
			Description: "Store a photo so it can be turned into a kaleidoscope. Accepted formats: " +
				strings.Join(store.Extensions(), ", ") + ".",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": nameProperty("File name to store the image under, including its extension (no directories)"),
					"data_base64": map[string]interface{}{
						"type":        "string",
						"description": "Image file contents, base64-encoded",
					},
				},
				"required": []string{"name", "data_base64"},
			},
		},
		{
			Name:        "image_load",
			Description: "Get the dimensions, format and file size of an uploaded image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": nameProperty("Name of the uploaded image"),
				},
				"required": []string{"name"},
			},
		},

		// Kaleidoscope
		{
			Name: "kaleidoscope_create",
			Description: "Turn an uploaded image into a kaleidoscope and save it to the output directory. " +
				"The image is cropped to a centered square of side s, mirrored across its diagonal, " +
				"tiled into four mirrored quadrants and extended with mirrored side strips, giving a 4s x 2s result.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": nameProperty("Name of the uploaded image"),
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "kaleidoscope_preview",
			Description: "Render the kaleidoscope for an uploaded image without saving it and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": nameProperty("Name of the uploaded image"),
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 0.5 to halve the size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "kaleidoscope_result",
			Description: "Get the path, dimensions and file size of a saved kaleidoscope.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": nameProperty("Name of the uploaded image the kaleidoscope was created from"),
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
