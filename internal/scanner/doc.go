// Package scanner finds and decodes QR codes in images and multi-page
// documents.
//
// # Single Images
//
// Analyzer runs an ordered fallback pipeline: preprocessing variants are
// swept through the fast primary engine first, then the slower secondary
// and tertiary engines are tried once each. The first pass that yields an
// accepted payload ends the scan.
//
// Every engine payload goes through ValidatePayload, which drops binary
// data, coordinate arrays and numeric noise, and payloads are deduplicated
// by exact content in first-seen order.
//
// # Documents
//
// DocumentScanner renders a document.Source page by page, analyzes each
// page with the same Analyzer, and retries blank-looking pages at a higher
// resolution while a per-document retry budget lasts.
//
// # Results
//
// Results are plain data ready for JSON encoding. Only a failure to load
// the input sets Success to false; finding nothing is a successful scan.
package scanner
