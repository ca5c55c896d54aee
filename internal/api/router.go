package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers the scan endpoints on a gorilla/mux router wrapped
// in the request ID and access log middleware.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(h.requestID, h.accessLog)

	r.HandleFunc("/", h.Index).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	s := r.PathPrefix("/scan").Subrouter()
	s.HandleFunc("/file", h.ScanFile).Methods(http.MethodGet)
	s.HandleFunc("/upload", h.ScanUpload).Methods(http.MethodPost)
	s.HandleFunc("/base64", h.ScanBase64).Methods(http.MethodPost)
	s.HandleFunc("/batch", h.ScanBatch).Methods(http.MethodPost)
	s.HandleFunc("/pdf", h.ScanPDF).Methods(http.MethodPost)
	s.HandleFunc("/pdf-base64", h.ScanPDFBase64).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
	return r
}
