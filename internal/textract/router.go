package textract

import (
	"context"
	"io"

	"labtools/internal/config"
	"labtools/internal/logger"
)

// builder caches constructed Google clients so PDF and image routes share one.
type builder struct {
	cfg     *config.Config
	vision  *VisionOCR
	docAI   *DocumentAIOCR
	closers []io.Closer
}

// NewRouter resolves the configured backends once. A backend that cannot be
// constructed only disables its own file kind: Check reports the
// *DependencyError for that kind and the other kinds keep working.
func NewRouter(ctx context.Context, cfg *config.Config) *Router {
	caps := cfg.Capabilities()
	b := &builder{cfg: cfg}
	r := &Router{
		CSV:     NewCSVText(),
		missing: make(map[Kind]error),
	}

	image, imageErr := b.ocr(ctx, caps.OCRProvider)
	if imageErr != nil {
		r.missing[KindImage] = imageErr
	} else {
		r.Image = image
	}

	pdf, err := b.pdf(ctx, caps.PDFProvider)
	switch {
	case err != nil:
		r.missing[KindPDF] = err
	case caps.PDFOCRFallback && hasTextLayerReader(caps.PDFProvider) && acceptsPDF(caps.OCRProvider):
		// Scanned PDFs carry no text layer, so the OCR backend is part of the PDF route
		if imageErr != nil {
			r.missing[KindPDF] = imageErr
		} else {
			r.PDF = NewFallback().Then(caps.PDFProvider, pdf).Then(caps.OCRProvider, image)
		}
	default:
		r.PDF = pdf
	}
	r.closers = b.closers

	log := logger.WithComponent("textract")
	for kind, err := range r.missing {
		log.Warn().Err(err).Str("kind", string(kind)).Msg("Text extraction backend unavailable")
	}
	log.Debug().
		Str("pdf", caps.PDFProvider).
		Str("ocr", caps.OCRProvider).
		Bool("pdf_ocr_fallback", caps.PDFOCRFallback).
		Msg("Text extraction backends resolved")

	return r
}

func hasTextLayerReader(provider string) bool {
	return provider == config.ProviderNative || provider == config.ProviderPdfToText
}

// Only the cloud OCR backends accept PDFs
func acceptsPDF(provider string) bool {
	return provider == config.ProviderVision || provider == config.ProviderDocumentAI
}

func (b *builder) ocr(ctx context.Context, provider string) (Extractor, error) {
	switch provider {
	case config.ProviderTesseract:
		if err := CheckBinary(b.cfg.TesseractPath); err != nil {
			return nil, &DependencyError{Backend: "tesseract", Err: err}
		}
		return NewTesseract(b.cfg.TesseractPath), nil
	case config.ProviderVision:
		return b.visionOCR(ctx)
	case config.ProviderDocumentAI:
		return b.documentAI(ctx)
	}
	return nil, &DependencyError{Backend: provider, Err: ErrUnsupportedKind}
}

func (b *builder) pdf(ctx context.Context, provider string) (Extractor, error) {
	switch provider {
	case config.ProviderNative:
		return NewNativePDF(), nil
	case config.ProviderPdfToText:
		if err := CheckBinary(b.cfg.PdfToTextPath); err != nil {
			return nil, &DependencyError{Backend: "pdftotext", Err: err}
		}
		return NewPdfToText(b.cfg.PdfToTextPath), nil
	case config.ProviderVision:
		return b.visionOCR(ctx)
	case config.ProviderDocumentAI:
		return b.documentAI(ctx)
	}
	return nil, &DependencyError{Backend: provider, Err: ErrUnsupportedKind}
}

func (b *builder) visionOCR(ctx context.Context) (Extractor, error) {
	if b.vision == nil {
		v, err := NewVisionOCR(ctx, b.cfg)
		if err != nil {
			return nil, &DependencyError{Backend: "vision", Err: err}
		}
		b.vision = v
		b.closers = append(b.closers, v)
	}
	return b.vision, nil
}

func (b *builder) documentAI(ctx context.Context) (Extractor, error) {
	if b.docAI == nil {
		d, err := NewDocumentAIOCR(ctx, b.cfg)
		if err != nil {
			return nil, &DependencyError{Backend: "documentai", Err: err}
		}
		b.docAI = d
		b.closers = append(b.closers, d)
	}
	return b.docAI, nil
}

