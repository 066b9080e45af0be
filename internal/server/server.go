package server

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/ironsheep/kaleido-mcp/internal/config"
	"github.com/ironsheep/kaleido-mcp/internal/store"
	"github.com/ironsheep/kaleido-mcp/internal/studio"
)

// ServerName and ServerVersion are reported during the initialize handshake.
const (
	ServerName    = "kaleido-mcp"
	ServerVersion = "0.1.0"
)

// Server handles MCP protocol communication
type Server struct {
	store        *store.Store
	studio       *studio.Studio
	log          *zap.Logger
	maxLineBytes int
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance. Request lines are sized to carry an
// upload of maxUploadBytes; zero selects the default limit. A nil logger
// disables logging.
func New(st *store.Store, sd *studio.Studio, maxUploadBytes int64, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		store:        st,
		studio:       sd,
		log:          log,
		maxLineBytes: maxLineFor(maxUploadBytes),
	}
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads newline-delimited requests from r and writes responses to w
// until r is exhausted. A line longer than the server's limit is drained and
// answered with an error; it does not stop the loop.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	reader := bufio.NewReaderSize(r, 64*1024)
	encoder := json.NewEncoder(w)

	for {
		line, tooLong, err := readLine(reader, s.maxLineBytes)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}

		if tooLong {
			s.log.Warn("request too large", zap.Int("limit_bytes", s.maxLineBytes))
			s.writeResponse(encoder, s.errorResponse(requestID(line), -32000, "Request too large",
				fmt.Sprintf("%v (request over %d bytes)", store.ErrTooLarge, s.maxLineBytes)))
			continue
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn("failed to parse request", zap.Error(err))
			continue
		}

		if resp := s.handleRequest(&req); resp != nil {
			s.writeResponse(encoder, resp)
		}
	}
}

func (s *Server) writeResponse(encoder *json.Encoder, resp *MCPResponse) {
	if err := encoder.Encode(resp); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}

// envelopeBytes is the room allowed around an upload's base64 payload for
// the rest of the request.
const envelopeBytes = 64 * 1024

// overflowHeadBytes of an oversized line are kept to recover its id.
const overflowHeadBytes = 4 * 1024

// maxLineFor returns the longest request line that can carry an upload of
// maxUploadBytes. Slightly larger uploads still fit, so the store reports
// them with ErrTooLarge.
func maxLineFor(maxUploadBytes int64) int {
	if maxUploadBytes <= 0 {
		maxUploadBytes = config.DefaultMaxUploadBytes
	}
	return base64.StdEncoding.EncodedLen(int(maxUploadBytes)) + envelopeBytes
}

// readLine returns the next line without its terminator. When the line is
// longer than limit the rest of it is discarded, tooLong is set and only its
// first overflowHeadBytes are returned.
func readLine(r *bufio.Reader, limit int) ([]byte, bool, error) {
	var line []byte
	tooLong := false
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong || len(line) < overflowHeadBytes {
			line = append(line, chunk...)
		}
		if !tooLong && len(bytes.TrimRight(line, "\r\n")) > limit {
			tooLong = true
		}
		if tooLong && len(line) > overflowHeadBytes {
			line = append([]byte(nil), line[:overflowHeadBytes]...)
		}

		switch {
		case err == nil:
			return bytes.TrimRight(line, "\r\n"), tooLong, nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && len(line) > 0:
			return bytes.TrimRight(line, "\r\n"), tooLong, nil
		default:
			return nil, false, err
		}
	}
}

// requestID recovers the id of a request from the leading bytes of its line.
// It returns nil when the id is not among the top-level members that precede
// the truncation.
func requestID(head []byte) interface{} {
	dec := json.NewDecoder(bytes.NewReader(head))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil
		}
		if key == "id" {
			var id interface{}
			if err := dec.Decode(&id); err != nil {
				return nil
			}
			return id
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil
		}
	}
	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.log.Debug("request", zap.String("method", req.Method), zap.Any("id", req.ID))

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    ServerName,
				"version": ServerVersion,
			},
		},
	}
}
