package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "scan_qr_code_from_file").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Bad arguments return a JSON-RPC error response with code -32000. A scan
// that runs but cannot read its input is not a protocol error: the result
// carries success=false and the reason.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Debug("tool failed", "tool", params.Name, "error", err)
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
	switch name {
	// Images
	case "scan_qr_code_from_file":
		return s.handleScanFile(args)
	case "scan_qr_code_from_base64":
		return s.handleScanBase64(args)

	// Documents
	case "scan_pdf_from_file":
		return s.handleScanPDFFile(ctx, args)
	case "scan_pdf_from_base64":
		return s.handleScanPDFBase64(ctx, args)

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

// decodeArgs unmarshals args into dst. A missing arguments object is
// treated as empty so the required-field checks report it.
func decodeArgs(args json.RawMessage, dst interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	return json.Unmarshal(args, dst)
}

func requireArg(name, value string) error {
	if value == "" {
		return errors.New(name + " is required")
	}
	return nil
}

// === Image Handlers ===

type scanFileArgs struct {
	ImagePath string `json:"image_path"`
}

func (s *Server) handleScanFile(args json.RawMessage) (interface{}, error) {
	var a scanFileArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requireArg("image_path", a.ImagePath); err != nil {
		return nil, err
	}
	return s.analyzer.ScanFile(a.ImagePath), nil
}

type scanBase64Args struct {
	ImageBase64 string `json:"image_base64"`
}

func (s *Server) handleScanBase64(args json.RawMessage) (interface{}, error) {
	var a scanBase64Args
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requireArg("image_base64", a.ImageBase64); err != nil {
		return nil, err
	}
	return s.analyzer.ScanBase64(a.ImageBase64), nil
}

// === Document Handlers ===

type scanPDFFileArgs struct {
	PDFPath string `json:"pdf_path"`
}

func (s *Server) handleScanPDFFile(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a scanPDFFileArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requireArg("pdf_path", a.PDFPath); err != nil {
		return nil, err
	}
	return s.documents.ScanFile(ctx, a.PDFPath), nil
}

type scanPDFBase64Args struct {
	PDFBase64 string `json:"pdf_base64"`
}

func (s *Server) handleScanPDFBase64(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a scanPDFBase64Args
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requireArg("pdf_base64", a.PDFBase64); err != nil {
		return nil, err
	}
	return s.documents.ScanBase64(ctx, a.PDFBase64), nil
}
