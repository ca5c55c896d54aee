// Package document opens paged documents and renders their pages to
// images for scanning.
//
// FitzSource is backed by MuPDF through go-fitz and handles PDF, XPS, EPUB
// and CBZ input. Pages are rendered on demand, one at a time, so memory use
// is bounded by a single page regardless of document length.
package document
