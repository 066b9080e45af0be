package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "kaleidoscope_create").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errMissingName is returned by handlers whose required name argument is empty.
var errMissingName = errors.New("missing required argument: name")

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
		s.log.Info("tool failed", zap.String("tool", params.Name), zap.Error(err))
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
	case "image_upload":
		return s.handleImageUpload(args)
	case "image_load":
		return s.handleImageLoad(args)
	case "kaleidoscope_create":
		return s.handleKaleidoscopeCreate(args)
	case "kaleidoscope_preview":
		return s.handleKaleidoscopePreview(args)
	case "kaleidoscope_result":
		return s.handleKaleidoscopeResult(args)
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
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// nameArgs is shared by every tool that addresses a stored image.
type nameArgs struct {
	Name string `json:"name"`
}

func decodeNameArgs(args json.RawMessage, a interface{ name() string }) error {
	if err := json.Unmarshal(args, a); err != nil {
		return err
	}
	if a.name() == "" {
		return errMissingName
	}
	return nil
}

func (a *nameArgs) name() string { return a.Name }

// uploadResult confirms a stored upload.
type uploadResult struct {
	Name  string `json:"name"`
	Bytes int    `json:"bytes"`
}

type imageUploadArgs struct {
	Name       string `json:"name"`
	DataBase64 string `json:"data_base64"`
}

func (a *imageUploadArgs) name() string { return a.Name }

func (s *Server) handleImageUpload(args json.RawMessage) (interface{}, error) {
	var a imageUploadArgs
	if err := decodeNameArgs(args, &a); err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(a.DataBase64))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image data: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("missing required argument: data_base64")
	}

	if err := s.store.Put(a.Name, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return &uploadResult{Name: a.Name, Bytes: len(data)}, nil
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a nameArgs
	if err := decodeNameArgs(args, &a); err != nil {
		return nil, err
	}
	return s.store.Info(a.Name)
}

func (s *Server) handleKaleidoscopeCreate(args json.RawMessage) (interface{}, error) {
	var a nameArgs
	if err := decodeNameArgs(args, &a); err != nil {
		return nil, err
	}
	return s.studio.Create(a.Name)
}

type kaleidoscopePreviewArgs struct {
	Name  string  `json:"name"`
	Scale float64 `json:"scale"`
}

func (a *kaleidoscopePreviewArgs) name() string { return a.Name }

func (s *Server) handleKaleidoscopePreview(args json.RawMessage) (interface{}, error) {
	var a kaleidoscopePreviewArgs
	if err := decodeNameArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	return s.studio.Preview(a.Name, a.Scale)
}

func (s *Server) handleKaleidoscopeResult(args json.RawMessage) (interface{}, error) {
	var a nameArgs
	if err := decodeNameArgs(args, &a); err != nil {
		return nil, err
	}
	return s.store.OutputInfo(a.Name)
}
