// Package server implements the MCP (Model Context Protocol) server for the
// kaleidoscope tools.
//
// # Protocol
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
//   - image_upload: Store a base64-encoded photo under a file name
//   - image_load: Metadata of an uploaded photo
//   - kaleidoscope_create: Render and save the kaleidoscope for an upload
//   - kaleidoscope_preview: Render without saving, returned as base64 PNG
//   - kaleidoscope_result: Metadata of a saved kaleidoscope
//
// Images are addressed by file name only; the directories come from the
// configuration the store was built with.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
