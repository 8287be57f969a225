package server

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func textArg(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func textOnlySchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"text": textArg("Raw or partially cleaned OCR text"),
		},
		"required": []string{"text"},
	}
}

func emptySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// optionProperties are the ProcessingOptions flags shared by the processing
// tools. Omitted flags use the configured defaults.
func optionProperties() map[string]interface{} {
	return map[string]interface{}{
		"remove_hyphens": map[string]interface{}{
			"type":        "boolean",
			"description": "Accepted for compatibility; hyphenated line breaks are always joined",
		},
		"smart_paragraph_detection": map[string]interface{}{
			"type":        "boolean",
			"description": "Insert sentence boundaries between clause-final verbs and capitalized words",
		},
		"merge_adjacent_regions": map[string]interface{}{
			"type":        "boolean",
			"description": "Accepted for compatibility; has no effect on the text",
		},
	}
}

func withOptions(props map[string]interface{}) map[string]interface{} {
	for k, v := range optionProperties() {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Pipeline stages
		{
			Name:        "ocr_join_broken_words",
			Description: "Rejoin words hyphenated across line breaks, flatten the text to one line, collapse doubled punctuation and add a missing final period.",
			InputSchema: textOnlySchema(),
		},
		{
			Name:        "ocr_fix_common_errors",
			Description: "Apply the ordered table of known OCR misreadings (broken GmbH forms, split compounds, ligatures).",
			InputSchema: textOnlySchema(),
		},
		{
			Name:        "ocr_insert_sentence_boundaries",
			Description: "Insert a period between a clause-final German verb and a following capitalized word. Heuristic; can misfire on proper nouns.",
			InputSchema: textOnlySchema(),
		},
		{
			Name:        "ocr_format_final_text",
			Description: "Collapse whitespace, add a space after . ! ? before a letter, normalize spacing after commas and colons, and trim.",
			InputSchema: textOnlySchema(),
		},

		// Orchestration
		{
			Name:        "ocr_process_text",
			Description: "Run the orchestrator on merged text that was already joined and corrected per region: optional sentence boundaries, then final formatting.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withOptions(map[string]interface{}{
					"text": textArg("Merged region text"),
				}),
				"required": []string{"text"},
			},
		},
		{
			Name:        "ocr_process_regions",
			Description: "Clean each region's recognized text, join the regions with spaces in the given order, and run the orchestrator on the result.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withOptions(map[string]interface{}{
					"texts": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Recognized text per region, in sequence order",
					},
				}),
				"required": []string{"texts"},
			},
		},
		{
			Name:        "ocr_capture_regions",
			Description: "Recognize regions of an image with Tesseract in sequence order and return the cleaned, merged text with per-region details.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withOptions(map[string]interface{}{
					"path": textArg("Absolute path to the image file"),
					"regions": map[string]interface{}{
						"type":        "array",
						"description": "Regions to recognize; processed by ascending sequence",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"sequence": map[string]interface{}{"type": "integer"},
								"x1":       map[string]interface{}{"type": "integer", "minimum": 0, "description": "Left edge (inclusive)"},
								"y1":       map[string]interface{}{"type": "integer", "minimum": 0, "description": "Top edge (inclusive)"},
								"x2":       map[string]interface{}{"type": "integer", "minimum": 1, "description": "Right edge (exclusive)"},
								"y2":       map[string]interface{}{"type": "integer", "minimum": 1, "description": "Bottom edge (exclusive)"},
							},
							"required": []string{"sequence", "x1", "y1", "x2", "y2"},
						},
					},
					"language": textArg("Tesseract language code. Defaults to the configured language"),
				}),
				"required": []string{"path", "regions"},
			},
		},

		// Introspection
		{
			Name:        "ocr_rules",
			Description: "List the active correction rules, the sentence-boundary verbs and the compound-case table.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "ocr_info",
			Description: "Report whether Tesseract and the configured language data are available.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and whether its background is dark.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": textArg("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
	}
}

// compileToolSchemas compiles every tool's input schema for argument
// validation.
func compileToolSchemas(tools []Tool) (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	for _, tool := range tools {
		b, err := json.Marshal(tool.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("marshal schema for %s: %w", tool.Name, err)
		}
		if err := compiler.AddResource(tool.Name+".json", bytes.NewReader(b)); err != nil {
			return nil, fmt.Errorf("add schema for %s: %w", tool.Name, err)
		}
	}

	schemas := make(map[string]*jsonschema.Schema, len(tools))
	for _, tool := range tools {
		schema, err := compiler.Compile(tool.Name + ".json")
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", tool.Name, err)
		}
		schemas[tool.Name] = schema
	}
	return schemas, nil
}

// validateArguments checks raw tool arguments against the tool's schema.
// Missing arguments are validated as an empty object. A name with no schema
// is not a tool.
func (s *Server) validateArguments(name string, args json.RawMessage) error {
	schema, ok := s.schemas[name]
	if !ok {
		return fmt.Errorf("unknown tool: %s", name)
	}
	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage(`{}`)
	}

	var v any
	if err := json.Unmarshal(args, &v); err != nil {
		return fmt.Errorf("unmarshal arguments: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("arguments do not match schema: %w", err)
	}
	return nil
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
