package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/ocr-text-mcp/internal/capture"
	"github.com/ironsheep/ocr-text-mcp/internal/imaging"
	"github.com/ironsheep/ocr-text-mcp/internal/ocr"
	"github.com/ironsheep/ocr-text-mcp/internal/textproc"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "ocr_process_text").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall validates and executes a tools/call request.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Unknown tools and schema violations return -32602; tool execution errors
// return -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	if err := s.validateArguments(params.Name, params.Arguments); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	switch name {
	// Pipeline stages
	case "ocr_join_broken_words":
		return s.handleStage(args, (*textproc.Pipeline).JoinBrokenWords)
	case "ocr_fix_common_errors":
		return s.handleStage(args, (*textproc.Pipeline).FixCommonErrors)
	case "ocr_insert_sentence_boundaries":
		return s.handleStage(args, (*textproc.Pipeline).InsertSentenceBoundaries)
	case "ocr_format_final_text":
		return s.handleStage(args, (*textproc.Pipeline).FormatFinalText)

	// Orchestration
	case "ocr_process_text":
		return s.handleProcessText(args)
	case "ocr_process_regions":
		return s.handleProcessRegions(args)
	case "ocr_capture_regions":
		return s.handleCaptureRegions(ctx, args)

	// Introspection
	case "ocr_rules":
		return s.handleRules()
	case "ocr_info":
		return s.handleInfo()
	case "image_load":
		return s.handleImageLoad(args)

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

// optionArgs are the optional ProcessingOptions flags. Nil means "use the
// configured default".
type optionArgs struct {
	RemoveHyphens           *bool `json:"remove_hyphens"`
	SmartParagraphDetection *bool `json:"smart_paragraph_detection"`
	MergeAdjacentRegions    *bool `json:"merge_adjacent_regions"`
}

func (o optionArgs) resolve(defaults textproc.ProcessingOptions) textproc.ProcessingOptions {
	opts := defaults
	if o.RemoveHyphens != nil {
		opts.RemoveHyphens = *o.RemoveHyphens
	}
	if o.SmartParagraphDetection != nil {
		opts.SmartParagraphDetection = *o.SmartParagraphDetection
	}
	if o.MergeAdjacentRegions != nil {
		opts.MergeAdjacentRegions = *o.MergeAdjacentRegions
	}
	return opts
}

type textResult struct {
	Text string `json:"text"`
}

// === Pipeline Stage Handlers ===

type textArgs struct {
	Text string `json:"text"`
}

func (s *Server) handleStage(args json.RawMessage, stage func(*textproc.Pipeline, string) string) (interface{}, error) {
	var a textArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, p := s.current()
	return textResult{Text: stage(p, a.Text)}, nil
}

// === Orchestration Handlers ===

type processTextArgs struct {
	Text string `json:"text"`
	optionArgs
}

type processTextResult struct {
	Text    string                     `json:"text"`
	Options textproc.ProcessingOptions `json:"options"`
}

func (s *Server) handleProcessText(args json.RawMessage) (interface{}, error) {
	var a processTextArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, p := s.current()
	opts := a.resolve(cfg.Processing)
	return processTextResult{Text: p.Process(a.Text, opts), Options: opts}, nil
}

type processRegionsArgs struct {
	Texts []string `json:"texts"`
	optionArgs
}

func (s *Server) handleProcessRegions(args json.RawMessage) (interface{}, error) {
	var a processRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, p := s.current()
	return capture.ProcessRegionTexts(p, a.Texts, a.resolve(cfg.Processing)), nil
}

type captureRegionsArgs struct {
	Path     string           `json:"path"`
	Regions  []capture.Region `json:"regions"`
	Language string           `json:"language"`
	optionArgs
}

func (s *Server) handleCaptureRegions(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a captureRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	cfg, p := s.current()
	ocrCfg := cfg.OCR
	if a.Language != "" {
		ocrCfg.Language = a.Language
	}

	c := capture.New(s.newRecognizer(ocrCfg), p,
		capture.WithLogger(s.logger),
		capture.WithMinConfidence(cfg.OCR.MinConfidence),
	)
	return c.Run(ctx, img, a.Regions, a.resolve(cfg.Processing))
}

// === Introspection Handlers ===

type ruleView struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
}

type rulesResult struct {
	Corrections             []ruleView                        `json:"corrections"`
	SentenceVerbs           []string                          `json:"sentence_verbs"`
	CompoundCaseCorrections []textproc.CompoundCaseCorrection `json:"compound_case_corrections"`
}

func (s *Server) handleRules() (interface{}, error) {
	_, p := s.current()
	rules := p.Rules()

	views := make([]ruleView, len(rules.Corrections))
	for i, r := range rules.Corrections {
		views[i] = ruleView{Pattern: r.Pattern.String(), Replacement: r.Replacement}
	}
	return rulesResult{
		Corrections:             views,
		SentenceVerbs:           rules.SentenceVerbs,
		CompoundCaseCorrections: textproc.CompoundCaseCorrections(),
	}, nil
}

func (s *Server) handleInfo() (interface{}, error) {
	cfg, _ := s.current()
	return ocr.NewTesseract(ocr.Config{
		Language:       cfg.OCR.Language,
		TessdataPrefix: cfg.OCR.TessdataPrefix,
	}).Info(), nil
}

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}
