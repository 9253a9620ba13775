package textract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"labtools/internal/config"
	"labtools/internal/logger"
)

// Document AI errors
var (
	ErrProcessorNotFound = errors.New("Document AI processor not found")
	ErrPermissionDenied  = errors.New("insufficient permissions for Document AI")
	ErrQuotaExceeded     = errors.New("Document AI API quota exceeded")
)

// DocumentAIConfig locates the OCR processor.
type DocumentAIConfig struct {
	ProjectID   string
	Location    string
	ProcessorID string
	Timeout     time.Duration
}

// ProcessorName returns the fully qualified processor resource name.
func (c DocumentAIConfig) ProcessorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

// DocumentAIOCR extracts text with a Google Document AI OCR processor.
// It accepts both PDFs and images.
type DocumentAIOCR struct {
	client *documentai.DocumentProcessorClient
	config DocumentAIConfig
	log    zerolog.Logger
}

// NewDocumentAIOCR creates a processor client from the configuration.
// GOOGLE_CLOUD_PROJECT and DOCUMENT_AI_PROCESSOR_ID are required.
func NewDocumentAIOCR(ctx context.Context, cfg *config.Config) (*DocumentAIOCR, error) {
	const op = "NewDocumentAIOCR"

	dc := DocumentAIConfig{
		ProjectID:   cfg.GoogleCloudProject,
		Location:    cfg.GoogleCloudLocation,
		ProcessorID: cfg.DocumentAIProcessorID,
		Timeout:     60 * time.Second,
	}
	if dc.ProjectID == "" {
		return nil, NewExtractError(op, ErrProcessorNotFound, "GOOGLE_CLOUD_PROJECT is required")
	}
	if dc.ProcessorID == "" {
		return nil, NewExtractError(op, ErrProcessorNotFound, "DOCUMENT_AI_PROCESSOR_ID is required")
	}
	if dc.Location == "" {
		dc.Location = "us"
	}

	opts := googleClientOptions(cfg)
	// Non-US processors live behind a regional endpoint
	if dc.Location != "us" {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-documentai.googleapis.com:443", dc.Location)))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		if !cfg.HasGoogleCredentials() {
			return nil, WrapExtractError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapExtractError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", dc.Location))
	}

	return NewDocumentAIOCRWithClient(dc, client), nil
}

// NewDocumentAIOCRWithClient creates a DocumentAIOCR with an explicit config and client (for testing).
func NewDocumentAIOCRWithClient(dc DocumentAIConfig, client *documentai.DocumentProcessorClient) *DocumentAIOCR {
	if dc.Timeout <= 0 {
		dc.Timeout = 60 * time.Second
	}
	return &DocumentAIOCR{
		client: client,
		config: dc,
		log:    logger.WithComponent("document-ai"),
	}
}

// ExtractText sends the raw document to the processor and returns Document.Text.
func (d *DocumentAIOCR) ExtractText(ctx context.Context, path string) (string, error) {
	const op = "DocumentAIOCR.ExtractText"

	data, err := readLimited(path)
	if err != nil {
		return "", WrapExtractError(op, err, path)
	}

	mt := mimeType(path)
	if mt == "application/pdf" && !hasPDFHeader(data) {
		return "", NewExtractError(op, ErrInvalidPDF, "missing PDF header")
	}

	processCtx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	req := &documentaipb.ProcessRequest{
		Name: d.config.ProcessorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: mt,
			},
		},
	}

	resp, err := d.client.ProcessDocument(processCtx, req)
	if err != nil {
		return "", d.classify(op, err)
	}

	text := documentText(resp.GetDocument())
	if strings.TrimSpace(text) == "" {
		d.log.Debug().Str("path", path).Msg("Document AI found no text")
		return "", nil
	}

	d.log.Debug().Str("path", path).Int("chars", len(text)).Msg("Document AI OCR completed")
	return text, nil
}

func documentText(doc *documentaipb.Document) string {
	if doc == nil {
		return ""
	}
	return doc.GetText()
}

// classify maps gRPC status text onto the package sentinels.
func (d *DocumentAIOCR) classify(op string, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "PermissionDenied") || strings.Contains(errStr, "PERMISSION_DENIED"):
		return NewExtractError(op, ErrPermissionDenied, "check the service account roles")
	case strings.Contains(errStr, "ResourceExhausted") || strings.Contains(errStr, "QUOTA_EXCEEDED"):
		return NewExtractError(op, ErrQuotaExceeded, "")
	case strings.Contains(errStr, "NotFound") || strings.Contains(errStr, "NOT_FOUND"):
		return NewExtractError(op, ErrProcessorNotFound, d.config.ProcessorName())
	case strings.Contains(errStr, "InvalidArgument") || strings.Contains(errStr, "INVALID_ARGUMENT"):
		return NewExtractError(op, ErrInvalidPDF, "document format not supported or corrupted")
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return NewExtractError(op, err, "processing interrupted")
	default:
		return NewExtractError(op, ErrOCRFailed, fmt.Sprintf("Document AI error: %v", err))
	}
}

// Close closes the underlying Document AI client.
func (d *DocumentAIOCR) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}
