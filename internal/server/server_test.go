package server

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ironsheep/ocr-text-mcp/internal/config"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	s, err := New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestNew(t *testing.T) {
	s := newTestServer(t)
	if s.cache == nil {
		t.Fatal("New() did not initialize cache")
	}
	if s.pipeline == nil {
		t.Fatal("New() did not build a pipeline")
	}
	if len(s.schemas) != len(GetToolDefinitions()) {
		t.Errorf("compiled %d schemas, want %d", len(s.schemas), len(GetToolDefinitions()))
	}
}

func TestNew_InvalidRules(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rules.Corrections = []config.CorrectionCfg{{Pattern: "(", Replacement: "x"}}

	if _, err := New(WithConfig(cfg)); err == nil {
		t.Error("expected error for an uncompilable rule")
	}
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			if err := json.Unmarshal([]byte(tt.json), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}
			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method: got %s, want %s", req.Method, tt.wantMethod)
			}
		})
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := newTestServer(t, WithVersion("1.2.3"))
	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})

	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	result := resp.Result.(map[string]interface{})
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}
	info := result["serverInfo"].(map[string]interface{})
	if info["name"] != "ocr-text-mcp" || info["version"] != "1.2.3" {
		t.Errorf("serverInfo: got %v", info)
	}
}

func TestHandleRequest_Notification(t *testing.T) {
	s := newTestServer(t)
	if resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"}); resp != nil {
		t.Errorf("notification should not produce a response, got %+v", resp)
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: "p", Method: "ping"})
	if resp == nil || resp.Error != nil || resp.ID != "p" {
		t.Errorf("unexpected ping response: %+v", resp)
	}
}

func TestHandleRequest_UnknownMethod(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: 7, Method: "resources/list"})
	if resp == nil || resp.Error == nil {
		t.Fatal("expected error response")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("code: got %d, want -32601", resp.Error.Code)
	}
}

func TestServe(t *testing.T) {
	s := newTestServer(t)

	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		``,
		`not json`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"ocr_format_final_text","arguments":{"text":"a.b"}}}`,
	}, "\n")

	var out bytes.Buffer
	if err := s.Serve(context.Background(), strings.NewReader(in), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	dec := json.NewDecoder(&out)
	var responses []MCPResponse
	for dec.More() {
		var resp MCPResponse
		if err := dec.Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		responses = append(responses, resp)
	}

	if len(responses) != 2 {
		t.Fatalf("got %d responses, want 2", len(responses))
	}
	if responses[1].ID != float64(2) {
		t.Errorf("second response ID: got %v", responses[1].ID)
	}
	if !strings.Contains(mustMarshalJSON(responses[1].Result), `a. b`) {
		t.Errorf("tool result missing formatted text: %v", responses[1].Result)
	}
}

func TestServe_CanceledContext(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	in := `{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n"
	if err := s.Serve(ctx, strings.NewReader(in), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("no responses expected after cancel, got %q", out.String())
	}
}

func TestReconfigure(t *testing.T) {
	s := newTestServer(t)

	cfg := config.DefaultConfig()
	cfg.Rules.Corrections = []config.CorrectionCfg{{Pattern: "Zeitunq", Replacement: "Zeitung", Literal: true}}
	if err := s.Reconfigure(cfg); err != nil {
		t.Fatalf("Reconfigure failed: %v", err)
	}

	_, p := s.current()
	if got := p.FixCommonErrors("Die Zeitunq"); got != "Die Zeitung" {
		t.Errorf("new rule not active: %q", got)
	}

	bad := config.DefaultConfig()
	bad.Rules.Corrections = []config.CorrectionCfg{{Pattern: "(", Replacement: "x"}}
	if err := s.Reconfigure(bad); err == nil {
		t.Fatal("expected error for bad rule")
	}
	_, p = s.current()
	if got := p.FixCommonErrors("Die Zeitunq"); got != "Die Zeitung" {
		t.Errorf("failed reconfigure should keep previous pipeline, got %q", got)
	}
}
