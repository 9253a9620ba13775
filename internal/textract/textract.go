// Package textract turns report files into plain text for the biomarker extractors.
//
// Every backend implements Extractor. A Router picks one per file kind and is
// assembled once at startup from the configuration capability flags.
//
// Backends:
//   - NativePDF: pure-Go PDF text layer reader (default for PDFs)
//   - PdfToText: poppler's pdftotext CLI
//   - Tesseract: tesseract CLI for images
//   - VisionOCR: Google Cloud Vision document text detection
//   - DocumentAIOCR: Google Document AI OCR processor
//   - CSVText: renders a CSV export as an aligned table
//   - Fallback: tries several extractors until one yields text
//
// Google backends read GOOGLE_CREDENTIALS (inline JSON) or
// GOOGLE_APPLICATION_CREDENTIALS (file path).
package textract

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// Extractor extracts text content from a file on disk.
type Extractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, path string) (string, error)

// ExtractText calls f.
func (f ExtractorFunc) ExtractText(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// Kind is the family of a supported report file.
type Kind string

// Supported file kinds
const (
	KindPDF   Kind = "pdf"
	KindImage Kind = "image"
	KindCSV   Kind = "csv"
)

var kindsByExt = map[string]Kind{
	".pdf":  KindPDF,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".png":  KindImage,
	".csv":  KindCSV,
}

// Ext returns the lower-cased extension of path, including the dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// KindOf maps a path to its file kind by extension.
func KindOf(path string) (Kind, bool) {
	kind, ok := kindsByExt[Ext(path)]
	return kind, ok
}

// Supported reports whether path has a supported extension.
func Supported(path string) bool {
	_, ok := KindOf(path)
	return ok
}

// Router holds one extractor per file kind.
type Router struct {
	PDF   Extractor
	Image Extractor
	CSV   Extractor

	closers []io.Closer
	// kind -> *DependencyError for backends that could not be constructed
	missing map[Kind]error
}

// Check returns the dependency error recorded for kind, or nil when its
// backend is available.
func (r *Router) Check(kind Kind) error {
	return r.missing[kind]
}

// Close releases any remote clients the router owns.
func (r *Router) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// For returns the extractor for kind, or nil when none is configured or its
// backend is missing.
func (r *Router) For(kind Kind) Extractor {
	switch kind {
	case KindPDF:
		return r.PDF
	case KindImage:
		return r.Image
	case KindCSV:
		return r.CSV
	}
	return nil
}

// ExtractText dispatches path to the extractor for its kind.
func (r *Router) ExtractText(ctx context.Context, path string) (string, error) {
	const op = "Router.ExtractText"

	kind, ok := KindOf(path)
	if !ok {
		return "", NewExtractError(op, ErrUnsupportedKind, Ext(path))
	}
	if err := r.Check(kind); err != nil {
		return "", err
	}
	ext := r.For(kind)
	if ext == nil {
		return "", NewExtractError(op, ErrUnsupportedKind, string(kind))
	}
	return ext.ExtractText(ctx, path)
}
