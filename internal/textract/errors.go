package textract

import (
	"errors"
	"fmt"
)

// Common text extraction errors
var (
	// ErrFileTooLarge is returned when a document exceeds the synchronous request limit
	// of the Google Cloud backends (20MB).
	ErrFileTooLarge = errors.New("file size exceeds the maximum limit (20MB)")

	// ErrInvalidPDF is returned when the provided data is not a valid PDF document.
	ErrInvalidPDF = errors.New("invalid or corrupted PDF document")

	// ErrOCRFailed is returned when a remote OCR backend fails to process the document.
	ErrOCRFailed = errors.New("OCR processing failed")

	// ErrMissingCredentials is returned when neither GOOGLE_APPLICATION_CREDENTIALS
	// nor GOOGLE_CREDENTIALS is configured for a Google backend.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrTooManyPages is returned when a PDF has more pages than Vision handles synchronously.
	ErrTooManyPages = errors.New("PDF has too many pages (maximum 5 pages for synchronous processing)")

	// ErrEmptyDocument marks a document with no readable text where a caller
	// needs text. Backends themselves return "" for such documents.
	ErrEmptyDocument = errors.New("document contains no readable text")

	// ErrMissingBinary is returned when an external tool is not on PATH.
	ErrMissingBinary = errors.New("required executable not found")

	// ErrUnsupportedKind is returned when a router has no extractor for a file kind.
	ErrUnsupportedKind = errors.New("unsupported file kind")
)

// ExtractError wraps errors with context about which extraction step failed.
type ExtractError struct {
	// Op is the operation that failed (e.g., "NativePDF.ExtractText").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ExtractError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("textract: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("textract: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ExtractError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewExtractError creates a new ExtractError with the specified operation and underlying error.
func NewExtractError(op string, err error, details string) *ExtractError {
	return &ExtractError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapExtractError wraps an error as an ExtractError if it isn't already one.
func WrapExtractError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var extractErr *ExtractError
	if errors.As(err, &extractErr) {
		return err
	}

	return NewExtractError(op, err, details)
}

// DependencyError reports a backend that could not be constructed at startup.
type DependencyError struct {
	Backend string
	Err     error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("Missing dependency: %s: %v", e.Backend, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}
