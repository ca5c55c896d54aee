// Package api exposes the scanner over HTTP.
//
// Every endpoint returns JSON. Malformed requests get a 400 with an
// {"error": "..."} body; inputs that parse as requests but cannot be read as
// images or documents get a 200 with success=false in the scan result, the
// same as the MCP tools.
//
// Each request is tagged with an X-Request-ID (the caller's, or a fresh
// UUID) that is echoed on the response and attached to every log line.
package api
