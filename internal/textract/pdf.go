package textract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"labtools/internal/logger"
)

// NativePDF reads the embedded text layer of a PDF without external tools.
// Scanned PDFs have no text layer and yield an empty string.
type NativePDF struct {
	log zerolog.Logger
}

// NewNativePDF creates a NativePDF extractor.
func NewNativePDF() *NativePDF {
	return &NativePDF{log: logger.WithComponent("pdf-native")}
}

// ExtractText concatenates the plain text of every page in order.
func (p *NativePDF) ExtractText(ctx context.Context, path string) (text string, err error) {
	const op = "NativePDF.ExtractText"

	// The pdf package panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = NewExtractError(op, ErrInvalidPDF, fmt.Sprintf("reader panic: %v", r))
		}
	}()

	file, err := os.Open(path)
	if err != nil {
		return "", WrapExtractError(op, eris.Wrapf(err, "textract: open %s", path), "")
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		return "", WrapExtractError(op, eris.Wrapf(err, "textract: stat %s", path), "")
	}

	reader, err := pdf.NewReader(file, info.Size())
	if err != nil {
		return "", NewExtractError(op, ErrInvalidPDF, err.Error())
	}

	var sb strings.Builder
	pageCount := reader.NumPage()
	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return "", WrapExtractError(op, err, "canceled between pages")
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			p.log.Warn().Err(err).Int("page", i).Str("path", path).Msg("Failed to extract text from page")
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	p.log.Debug().Str("path", path).Int("pages", pageCount).Int("chars", sb.Len()).Msg("PDF text layer read")
	return sb.String(), nil
}
