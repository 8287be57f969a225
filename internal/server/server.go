package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ironsheep/ocr-text-mcp/internal/capture"
	"github.com/ironsheep/ocr-text-mcp/internal/config"
	"github.com/ironsheep/ocr-text-mcp/internal/imaging"
	"github.com/ironsheep/ocr-text-mcp/internal/ocr"
	"github.com/ironsheep/ocr-text-mcp/internal/textproc"
)

// RecognizerFactory builds the recognizer for one capture from the OCR
// settings in effect, with any per-call language already applied.
type RecognizerFactory func(cfg config.OCRCfg) capture.Recognizer

// Server handles MCP protocol communication
type Server struct {
	cache         *imaging.ImageCache
	logger        *slog.Logger
	version       string
	schemas       map[string]*jsonschema.Schema
	newRecognizer RecognizerFactory

	mu       sync.RWMutex
	cfg      *config.Config
	pipeline *textproc.Pipeline
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

// Option configures a Server.
type Option func(*Server)

// WithConfig sets the initial configuration. Without it DefaultConfig is used.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) { s.cfg = cfg }
}

// WithLogger sets the logger. Logs must not go to stdout.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithVersion sets the version reported by initialize.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithRecognizerFactory replaces the Tesseract recognizer.
func WithRecognizerFactory(f RecognizerFactory) Option {
	return func(s *Server) { s.newRecognizer = f }
}

// New creates a new MCP server instance
func New(opts ...Option) (*Server, error) {
	s := &Server{
		cache:   imaging.NewImageCache(),
		logger:  slog.Default(),
		version: "dev",
		newRecognizer: func(cfg config.OCRCfg) capture.Recognizer {
			return ocr.NewTesseract(ocr.Config{
				Language:       cfg.Language,
				TessdataPrefix: cfg.TessdataPrefix,
			})
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg == nil {
		s.cfg = config.DefaultConfig()
	}

	schemas, err := compileToolSchemas(GetToolDefinitions())
	if err != nil {
		return nil, err
	}
	s.schemas = schemas

	if err := s.Reconfigure(s.cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Reconfigure swaps in a new configuration. Requests already running keep
// the pipeline they started with.
func (s *Server) Reconfigure(cfg *config.Config) error {
	p, err := cfg.Pipeline()
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	s.mu.Lock()
	s.cfg = cfg
	s.pipeline = p
	s.mu.Unlock()
	return nil
}

func (s *Server) current() (*config.Config, *textproc.Pipeline) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, s.pipeline
}

// Run serves MCP on stdin and stdout until stdin closes or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to w.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("failed to parse request", "error", err)
			continue
		}

		resp := s.handleRequest(ctx, &req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.logger.Error("failed to encode response", "method", req.Method, "error", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
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
				"name":    "ocr-text-mcp",
				"version": s.version,
			},
		},
	}
}
