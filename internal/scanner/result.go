package scanner

import (
	"fmt"
	"unicode/utf8"
)

// Result messages.
const (
	msgFound    = "Successfully detected and scanned %d QR code(s)"
	msgNotFound = "No QR code detected in the image"
	msgFailed   = "Image could not be processed"
)

// QRCode is one accepted payload.
type QRCode struct {
	Index     int    `json:"index"`
	Content   string `json:"content"`
	Scannable bool   `json:"scannable"`
	Valid     bool   `json:"valid"`
	Length    int    `json:"length"`
}

// Result is the outcome of scanning one image.
//
// Success is false only when the image itself could not be loaded or
// decoded. Finding nothing is a successful scan with QRFound false.
type Result struct {
	Success   bool     `json:"success"`
	QRFound   bool     `json:"qr_found"`
	Scannable bool     `json:"scannable"`
	QRCount   int      `json:"qr_count"`
	QRCodes   []QRCode `json:"qr_codes"`
	Message   string   `json:"message"`
	Error     string   `json:"error,omitempty"`
}

// PageResult is the Result of one document page.
type PageResult struct {
	Result

	// PageNumber is 1-based.
	PageNumber int `json:"page_number"`

	// DPI is the render resolution that produced Result.
	DPI float64 `json:"dpi"`
}

// DocumentResult aggregates the page results of a document scan.
type DocumentResult struct {
	Success        bool         `json:"success"`
	TotalPages     int          `json:"total_pages"`
	PagesWithQR    int          `json:"pages_with_qr"`
	PagesScannable int          `json:"pages_scannable"`
	QRCount        int          `json:"qr_count"`
	Pages          []PageResult `json:"pages"`
	Message        string       `json:"message"`
	Error          string       `json:"error,omitempty"`
}

// newResult builds a successful Result from accepted contents.
func newResult(contents []string) Result {
	codes := make([]QRCode, 0, len(contents))
	for i, c := range contents {
		codes = append(codes, QRCode{
			Index:     i,
			Content:   c,
			Scannable: true,
			Valid:     true,
			Length:    utf8.RuneCountInString(c),
		})
	}

	res := Result{
		Success:   true,
		QRFound:   len(codes) > 0,
		Scannable: len(codes) > 0,
		QRCount:   len(codes),
		QRCodes:   codes,
		Message:   msgNotFound,
	}
	if res.QRFound {
		res.Message = fmt.Sprintf(msgFound, res.QRCount)
	}
	return res
}

// failedResult reports an input that could not be processed.
func failedResult(err error) Result {
	return Result{
		Success: false,
		QRCodes: []QRCode{},
		Message: msgFailed,
		Error:   err.Error(),
	}
}

// failedDocument reports a document that could not be scanned.
func failedDocument(err error) DocumentResult {
	return DocumentResult{
		Success: false,
		Pages:   []PageResult{},
		Message: "Document could not be processed",
		Error:   err.Error(),
	}
}
