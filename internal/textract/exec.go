package textract

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/rotisserie/eris"
)

// PdfToText extracts text from PDFs using the pdftotext CLI tool.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText extractor. If binPath is empty, "pdftotext" is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// ExtractText runs pdftotext -layout on the given PDF and returns stdout.
func (p *PdfToText) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	return run(ctx, "pdftotext", p.binPath, "-layout", pdfPath, "-")
}

// Tesseract extracts text from images using the tesseract CLI tool.
type Tesseract struct {
	binPath string
}

// NewTesseract creates a Tesseract extractor. If binPath is empty, "tesseract" is used.
func NewTesseract(binPath string) *Tesseract {
	if binPath == "" {
		binPath = "tesseract"
	}
	return &Tesseract{binPath: binPath}
}

// ExtractText runs tesseract on the image and returns the recognised text.
func (t *Tesseract) ExtractText(ctx context.Context, imagePath string) (string, error) {
	return run(ctx, "tesseract", t.binPath, imagePath, "stdout")
}

// CheckBinary verifies that binPath resolves to an executable.
func CheckBinary(binPath string) error {
	if _, err := exec.LookPath(binPath); err != nil {
		return eris.Wrapf(ErrMissingBinary, "textract: %s", binPath)
	}
	return nil
}

func run(ctx context.Context, tool, binPath string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, binPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "textract: %s failed for %s: %s", tool, args[len(args)-2], stderr.String())
	}

	return stdout.String(), nil
}
