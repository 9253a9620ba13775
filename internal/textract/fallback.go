package textract

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"labtools/internal/logger"
)

// Fallback tries each extractor in order and returns the first non-blank text.
// A scanned PDF has no text layer, so a native reader followed by OCR covers both cases.
type Fallback struct {
	names      []string
	extractors []Extractor
	log        zerolog.Logger
}

// NewFallback creates an empty chain. Add extractors with Then.
func NewFallback() *Fallback {
	return &Fallback{log: logger.WithComponent("textract-fallback")}
}

// Then appends a named extractor to the chain.
func (f *Fallback) Then(name string, ext Extractor) *Fallback {
	f.names = append(f.names, name)
	f.extractors = append(f.extractors, ext)
	return f
}

// Len returns the number of extractors in the chain.
func (f *Fallback) Len() int {
	return len(f.extractors)
}

// ExtractText returns the first non-blank result. When nothing yields text,
// a blank success from any extractor still counts as success; otherwise the
// last error is returned.
func (f *Fallback) ExtractText(ctx context.Context, path string) (string, error) {
	const op = "Fallback.ExtractText"

	var lastErr error
	blank := false
	for i, ext := range f.extractors {
		text, err := ext.ExtractText(ctx, path)
		if err != nil {
			f.log.Debug().Err(err).Str("backend", f.names[i]).Str("path", path).Msg("Extractor failed, trying next")
			lastErr = err
			continue
		}
		if strings.TrimSpace(text) != "" {
			if i > 0 {
				f.log.Info().Str("backend", f.names[i]).Str("path", path).Msg("Fell back to secondary extractor")
			}
			return text, nil
		}
		blank = true
		f.log.Debug().Str("backend", f.names[i]).Str("path", path).Msg("Extractor returned no text, trying next")
	}

	if blank || lastErr == nil {
		return "", nil
	}
	return "", WrapExtractError(op, lastErr, path)
}
