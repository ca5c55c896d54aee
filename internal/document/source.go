package document

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gen2brain/go-fitz"
)

// ErrPageCount is returned when a document's page count cannot be read.
var ErrPageCount = errors.New("cannot determine page count")

// Source is a paged document that can render one page at a time.
//
// Implementations must not retain rendered pages; the scanner releases
// each one before asking for the next.
type Source interface {
	// PageCount returns the number of pages.
	PageCount() (int, error)

	// RenderPage rasterizes the page at the zero-based index at dpi.
	RenderPage(index int, dpi float64) (image.Image, error)

	// Close releases the document.
	Close() error
}

// FitzSource renders PDF (and other MuPDF-supported) documents.
type FitzSource struct {
	mu  sync.Mutex
	doc *fitz.Document
}

// Open opens the document at path.
func Open(path string) (*FitzSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document %s: %w", path, err)
	}
	return &FitzSource{doc: doc}, nil
}

// OpenBytes opens an in-memory document.
func OpenBytes(data []byte) (*FitzSource, error) {
	if len(data) == 0 {
		return nil, errors.New("failed to open document: empty input")
	}
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	return &FitzSource{doc: doc}, nil
}

func (s *FitzSource) PageCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.doc.NumPage()
	if n < 0 {
		return 0, ErrPageCount
	}
	return n, nil
}

func (s *FitzSource) RenderPage(index int, dpi float64) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, err := s.doc.ImageDPI(index, dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d at %g dpi: %w", index+1, dpi, err)
	}
	return img, nil
}

func (s *FitzSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Close()
}
