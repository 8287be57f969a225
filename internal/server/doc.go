// Package server implements the MCP (Model Context Protocol) server for OCR
// text cleanup.
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line on stdin
// and one response per line on stdout. Logs go to stderr.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Pipeline stages, one string in and one string out:
//   - ocr_join_broken_words
//   - ocr_fix_common_errors
//   - ocr_insert_sentence_boundaries
//   - ocr_format_final_text
//
// Orchestration:
//   - ocr_process_text: boundary detection (optional) and formatting on merged text
//   - ocr_process_regions: per-region cleanup, merge, then ocr_process_text
//   - ocr_capture_regions: crop and recognize regions of an image, then the above
//
// Introspection:
//   - ocr_rules, ocr_info, image_load
//
// # Errors
//
// Arguments are validated against each tool's input schema before the tool
// runs. A mismatch is reported as -32602 (invalid params); a failing tool as
// -32000 with the Go error string in data.
//
// # Configuration
//
// Reconfigure swaps the configuration and the rule pipeline at runtime; the
// serve command wires it to config file changes.
package server
