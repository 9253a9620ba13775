package textract

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
)

// CSVText renders a CSV export as a column-aligned text table so the
// extractors see "name value" pairs on one line.
type CSVText struct{}

// NewCSVText creates a CSVText extractor.
func NewCSVText() *CSVText {
	return &CSVText{}
}

// ExtractText reads every record and writes it as an aligned row.
func (c *CSVText) ExtractText(ctx context.Context, path string) (string, error) {
	const op = "CSVText.ExtractText"

	file, err := os.Open(path)
	if err != nil {
		return "", WrapExtractError(op, eris.Wrapf(err, "textract: open %s", path), "")
	}
	defer file.Close() //nolint:errcheck

	text, err := renderCSV(ctx, file)
	if err != nil {
		return "", WrapExtractError(op, err, path)
	}
	return text, nil
}

func renderCSV(ctx context.Context, r io.Reader) (string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", eris.Wrap(err, "textract: parse csv")
		}
		if _, err := io.WriteString(tw, strings.Join(record, "\t")+"\n"); err != nil {
			return "", eris.Wrap(err, "textract: render csv")
		}
	}

	if err := tw.Flush(); err != nil {
		return "", eris.Wrap(err, "textract: render csv")
	}
	return sb.String(), nil
}
