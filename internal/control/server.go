package control

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/brightpage/docscan/internal/capture"
)

// Server handles JSON-RPC communication for one capture controller.
type Server struct {
	ctrl    *capture.Controller
	version string
	logger  zerolog.Logger
}

// Request represents an incoming JSON-RPC request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents an outgoing JSON-RPC response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents a JSON-RPC error.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a control server over the given capture controller.
func New(ctrl *capture.Controller, version string, logger zerolog.Logger) *Server {
	return &Server{ctrl: ctrl, version: version, logger: logger}
}

// Run reads requests from stdin and writes responses to stdout until stdin
// closes. Stdout carries responses only; everything else goes to the logger.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(os.Stdin)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(os.Stdout)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn().Err(err).Msg("failed to parse request")
			continue
		}

		resp := s.handleRequest(&req)
		if err := encoder.Encode(resp); err != nil {
			s.logger.Error().Err(err).Msg("failed to encode response")
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers.
func (s *Server) handleRequest(req *Request) *Response {
	s.logger.Debug().Str("method", req.Method).Msg("request received")

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "session/start":
		return s.handleSessionStart(req)
	case "detection/latest":
		return s.handleDetectionLatest(req)
	case "page/capture":
		return s.handlePageCapture(req)
	case "page/remove":
		return s.handlePageRemove(req)
	case "session/pages":
		return s.handleSessionPages(req)
	case "session/finalize":
		return s.handleSessionFinalize(req)
	case "session/cancel":
		return s.handleSessionCancel(req)
	case "ping":
		return s.result(req.ID, map[string]interface{}{})
	default:
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &Error{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// result wraps a successful payload in a JSON-RPC response.
func (s *Server) result(id interface{}, result interface{}) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Result: result}
}

// invalidParams reports a malformed or incomplete params object.
func (s *Server) invalidParams(id interface{}, err error) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &Error{
			Code:    -32602,
			Message: "Invalid params",
			Data:    err.Error(),
		},
	}
}

// operationError reports a failed operation. The message carries the
// underlying error text so clients can match sentinel errors.
func (s *Server) operationError(id interface{}, err error) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &Error{
			Code:    -32000,
			Message: err.Error(),
		},
	}
}
