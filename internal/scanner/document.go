package scanner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/ironsheep/qr-scan-mcp/internal/document"
	"github.com/ironsheep/qr-scan-mcp/internal/imaging"
)

// Document scanning defaults.
const (
	DefaultDPI         = 150
	DefaultRetryDPI    = 200
	DefaultRetryBudget = 3
	DefaultMaxPageSide = 1800
	DefaultGCInterval  = 5
)

// DocumentOptions configures a DocumentScanner.
type DocumentOptions struct {
	// DPI is the base render resolution.
	DPI float64

	// RetryDPI is used to re-render a page on which nothing was found.
	// Retries are disabled unless it exceeds DPI.
	RetryDPI float64

	// RetryBudget is the number of retries shared by all pages of one
	// document. Zero disables retries.
	RetryBudget int

	// MaxPageSide caps the long side of a rendered page before analysis.
	MaxPageSide int

	// GCInterval forces a garbage collection every GCInterval pages. Zero
	// disables it.
	GCInterval int

	// Logger receives per-page progress. Nil discards it.
	Logger *slog.Logger
}

// DefaultDocumentOptions returns the default render settings.
func DefaultDocumentOptions() DocumentOptions {
	return DocumentOptions{
		DPI:         DefaultDPI,
		RetryDPI:    DefaultRetryDPI,
		RetryBudget: DefaultRetryBudget,
		MaxPageSide: DefaultMaxPageSide,
		GCInterval:  DefaultGCInterval,
	}
}

// DocumentScanner scans multi-page documents one page at a time, so peak
// memory is bounded by a single rendered page.
type DocumentScanner struct {
	analyzer *Analyzer
	opts     DocumentOptions
	logger   *slog.Logger
}

// NewDocumentScanner creates a DocumentScanner that analyzes pages with a.
// A non-positive DPI falls back to DefaultDPI.
func NewDocumentScanner(a *Analyzer, opts DocumentOptions) *DocumentScanner {
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DocumentScanner{
		analyzer: a,
		opts:     opts,
		logger:   logger.With("component", "document"),
	}
}

// ScanFile opens the document at path and scans it.
func (d *DocumentScanner) ScanFile(ctx context.Context, path string) DocumentResult {
	src, err := document.Open(path)
	if err != nil {
		return failedDocument(err)
	}
	defer src.Close()
	return d.ScanDocument(ctx, src)
}

// ScanBytes opens an in-memory document and scans it.
func (d *DocumentScanner) ScanBytes(ctx context.Context, data []byte) DocumentResult {
	src, err := document.OpenBytes(data)
	if err != nil {
		return failedDocument(err)
	}
	defer src.Close()
	return d.ScanDocument(ctx, src)
}

// ScanBase64 decodes a base64 document (optionally a data: URL) and scans
// it.
func (d *DocumentScanner) ScanBase64(ctx context.Context, s string) DocumentResult {
	data, err := imaging.DecodeBase64Bytes(s)
	if err != nil {
		return failedDocument(fmt.Errorf("failed to decode document from base64: %w", err))
	}
	return d.ScanBytes(ctx, data)
}

// ScanDocument scans every page of src in order.
//
// A page on which nothing is found at the base resolution is re-rendered
// once at RetryDPI while the document's retry budget lasts. The budget is
// spent whether or not the retry finds anything. A page that fails to
// render is recorded with the failure and scanning moves on.
//
// The context is checked between pages; cancellation ends the scan with
// Success false.
func (d *DocumentScanner) ScanDocument(ctx context.Context, src document.Source) DocumentResult {
	total, err := src.PageCount()
	if err != nil {
		return failedDocument(fmt.Errorf("%w: %v", document.ErrPageCount, err))
	}

	res := DocumentResult{
		Success:    true,
		TotalPages: total,
		Pages:      make([]PageResult, 0, total),
	}
	budget := d.opts.RetryBudget
	canRetry := d.opts.RetryDPI > d.opts.DPI

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			d.logger.Info("document scan cancelled", "page", i+1, "total", total)
			out := failedDocument(err)
			out.TotalPages = total
			return out
		}

		page, rendered := d.scanPage(src, i, d.opts.DPI)
		if rendered && !page.QRFound && canRetry && budget > 0 {
			budget--
			retry, ok := d.scanPage(src, i, d.opts.RetryDPI)
			d.logger.Debug("page retried", "page", i+1, "dpi", d.opts.RetryDPI, "found", retry.QRFound, "budget", budget)
			if ok && retry.QRFound {
				page = retry
			}
		}

		res.Pages = append(res.Pages, page)
		if page.QRFound {
			res.PagesWithQR++
			res.QRCount += page.QRCount
		}
		if page.Scannable {
			res.PagesScannable++
		}

		if d.opts.GCInterval > 0 && (i+1)%d.opts.GCInterval == 0 {
			runtime.GC()
		}
	}

	res.Message = documentMessage(res)
	d.logger.Info("document scanned", "pages", total, "pages_with_qr", res.PagesWithQR, "qr_count", res.QRCount)
	return res
}

// scanPage renders and analyzes one page. It reports false if the page
// could not be rendered.
func (d *DocumentScanner) scanPage(src document.Source, index int, dpi float64) (PageResult, bool) {
	page := PageResult{PageNumber: index + 1, DPI: dpi}

	img, err := src.RenderPage(index, dpi)
	if err != nil {
		d.logger.Warn("page render failed", "page", index+1, "dpi", dpi, "error", err)
		page.Result = Result{
			Success: false,
			QRCodes: []QRCode{},
			Message: fmt.Sprintf("Failed to render page %d", index+1),
			Error:   err.Error(),
		}
		return page, false
	}

	r, err := imaging.NewRaster(img)
	if err != nil {
		page.Result = failedResult(fmt.Errorf("page %d: %w", index+1, err))
		return page, false
	}

	page.Result = d.analyzer.AnalyzeRaster(imaging.LimitSide(r.Gray(), d.opts.MaxPageSide))
	return page, true
}

func documentMessage(res DocumentResult) string {
	if res.QRCount == 0 {
		return fmt.Sprintf("Scanned %d page(s): no QR codes found", res.TotalPages)
	}
	return fmt.Sprintf("Scanned %d page(s): found %d QR code(s) on %d page(s)", res.TotalPages, res.QRCount, res.PagesWithQR)
}
