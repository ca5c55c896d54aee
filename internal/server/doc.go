// Package server implements the MCP (Model Context Protocol) server for QR
// code scanning.
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
// Images:
//   - scan_qr_code_from_file: Scan an image on disk
//   - scan_qr_code_from_base64: Scan a base64-encoded image
//
// Documents:
//   - scan_pdf_from_file: Scan every page of a PDF on disk
//   - scan_pdf_from_base64: Scan every page of a base64-encoded PDF
//
// Tool results are the JSON encoding of scanner.Result or
// scanner.DocumentResult.
//
// # Error Handling
//
// A missing or malformed argument is a JSON-RPC error (-32000, with the
// reason in data). An input that cannot be loaded is not: the scan result
// is returned with success=false and an error field, matching what the
// HTTP API reports for the same input.
//
// # Usage
//
//	srv := server.New(analyzer, documents, logger)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
