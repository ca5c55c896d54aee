package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ironsheep/qr-scan-mcp/internal/scanner"
)

// multipartMemory is the part of an upload kept in memory; the rest spills
// to temporary files.
const multipartMemory = 32 << 20

// StatusClientClosedRequest reports a request abandoned by the client
// before the response was ready (the nginx 499 convention).
const StatusClientClosedRequest = 499

// Handler serves the scan endpoints.
type Handler struct {
	analyzer  *scanner.Analyzer
	documents *scanner.DocumentScanner
	logger    *slog.Logger
	maxUpload int64

	// Version is reported by the index endpoint.
	Version string
}

// NewHandler creates a Handler. maxUpload bounds request bodies in bytes.
func NewHandler(analyzer *scanner.Analyzer, documents *scanner.DocumentScanner, maxUpload int64, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{
		analyzer:  analyzer,
		documents: documents,
		logger:    logger.With("component", "api"),
		maxUpload: maxUpload,
		Version:   "dev",
	}
}

// Index describes the service.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]interface{}{
		"service": "qr-scan-api",
		"version": h.Version,
		"endpoints": []string{
			"GET /health",
			"GET /scan/file?image_path=",
			"POST /scan/upload",
			"POST /scan/base64",
			"POST /scan/batch",
			"POST /scan/pdf",
			"POST /scan/pdf-base64",
		},
	}, http.StatusOK)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// ScanFile handles GET /scan/file?image_path=
func (h *Handler) ScanFile(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("image_path")
	if path == "" {
		respondError(w, "image_path is required", http.StatusBadRequest)
		return
	}
	respondJSON(w, h.analyzer.ScanFile(path), http.StatusOK)
}

// ScanUpload handles POST /scan/upload with a multipart "file" field.
func (h *Handler) ScanUpload(w http.ResponseWriter, r *http.Request) {
	data, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	respondJSON(w, h.analyzer.ScanBytes(data), http.StatusOK)
}

type base64Request struct {
	ImageBase64 string `json:"image_base64"`
}

// ScanBase64 handles POST /scan/base64.
func (h *Handler) ScanBase64(w http.ResponseWriter, r *http.Request) {
	var req base64Request
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.ImageBase64 == "" {
		respondError(w, "image_base64 is required", http.StatusBadRequest)
		return
	}
	respondJSON(w, h.analyzer.ScanBase64(req.ImageBase64), http.StatusOK)
}

// BatchImage is one entry of a batch request.
type BatchImage struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// BatchRequest is the body of POST /scan/batch.
type BatchRequest struct {
	Images []BatchImage `json:"images"`
}

// BatchItem pairs an image name with its scan result.
type BatchItem struct {
	Name   string         `json:"name"`
	Result scanner.Result `json:"result"`
}

// BatchResponse is the reply to POST /scan/batch.
type BatchResponse struct {
	TotalImages int         `json:"total_images"`
	Results     []BatchItem `json:"results"`
}

// ScanBatch handles POST /scan/batch. Images are scanned in order; one bad
// image does not fail the batch.
func (h *Handler) ScanBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if len(req.Images) == 0 {
		respondError(w, "images must not be empty", http.StatusBadRequest)
		return
	}

	resp := BatchResponse{
		TotalImages: len(req.Images),
		Results:     make([]BatchItem, 0, len(req.Images)),
	}
	for i, img := range req.Images {
		if err := r.Context().Err(); err != nil {
			h.log(r).Info("batch cancelled", "done", i, "total", len(req.Images))
			respondError(w, "Request cancelled", StatusClientClosedRequest)
			return
		}
		name := img.Name
		if name == "" {
			name = fmt.Sprintf("image_%d", i+1)
		}
		resp.Results = append(resp.Results, BatchItem{Name: name, Result: h.analyzer.ScanBase64(img.Data)})
	}
	respondJSON(w, resp, http.StatusOK)
}

// ScanPDF handles POST /scan/pdf with a multipart "file" field.
func (h *Handler) ScanPDF(w http.ResponseWriter, r *http.Request) {
	data, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	respondJSON(w, h.documents.ScanBytes(r.Context(), data), http.StatusOK)
}

type pdfBase64Request struct {
	PDFBase64 string `json:"pdf_base64"`
}

// ScanPDFBase64 handles POST /scan/pdf-base64.
func (h *Handler) ScanPDFBase64(w http.ResponseWriter, r *http.Request) {
	var req pdfBase64Request
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.PDFBase64 == "" {
		respondError(w, "pdf_base64 is required", http.StatusBadRequest)
		return
	}
	respondJSON(w, h.documents.ScanBase64(r.Context(), req.PDFBase64), http.StatusOK)
}

// readUpload reads the multipart "file" field. On failure it writes the
// error response and returns false.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.log(r).Debug("bad multipart form", "error", err)
		respondError(w, "Failed to parse form", statusFor(err))
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, "No file uploaded", http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, "Failed to read file", http.StatusInternalServerError)
		return nil, false
	}
	h.log(r).Debug("upload received", "filename", header.Filename, "bytes", len(data))
	return data, true
}

// decodeBody decodes a JSON request body into dst. On failure it writes the
// error response and returns false.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.log(r).Debug("bad request body", "error", err)
		respondError(w, "Invalid JSON body", statusFor(err))
		return false
	}
	return true
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, map[string]string{"error": message}, status)
}
