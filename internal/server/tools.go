package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// stringArg builds a schema with one required string argument.
func stringArg(name, description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			name: map[string]interface{}{
				"type":        "string",
				"description": description,
			},
		},
		"required": []string{name},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Images
		{
			Name:        "scan_qr_code_from_file",
			Description: "Scan an image file for QR codes and return each decoded payload. Tries several preprocessing variants and decoders, so rotated, small or low-contrast codes are usually found.",
			InputSchema: stringArg("image_path", "Absolute path to the image file (PNG, JPEG, GIF, BMP, TIFF or WebP)"),
		},
		{
			Name:        "scan_qr_code_from_base64",
			Description: "Scan a base64-encoded image for QR codes. A data: URL prefix is accepted.",
			InputSchema: stringArg("image_base64", "Base64-encoded image data"),
		},

		// Documents
		{
			Name:        "scan_pdf_from_file",
			Description: "Scan every page of a PDF for QR codes. Pages are rendered one at a time; pages with no code are retried at a higher resolution a limited number of times.",
			InputSchema: stringArg("pdf_path", "Absolute path to the PDF file"),
		},
		{
			Name:        "scan_pdf_from_base64",
			Description: "Scan every page of a base64-encoded PDF for QR codes.",
			InputSchema: stringArg("pdf_base64", "Base64-encoded PDF data"),
		},
	}
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
