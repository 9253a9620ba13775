package textract

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/rs/zerolog"

	"labtools/internal/config"
	"labtools/internal/logger"
)

// MaxPagesSync is the maximum number of PDF pages Vision processes synchronously
const MaxPagesSync = 5

// VisionOCR extracts text from images and PDFs with Google Cloud Vision
// document text detection.
type VisionOCR struct {
	client *vision.ImageAnnotatorClient
	log    zerolog.Logger
}

// NewVisionOCR creates a Vision client from the configured credentials,
// falling back to application default credentials.
func NewVisionOCR(ctx context.Context, cfg *config.Config) (*VisionOCR, error) {
	const op = "NewVisionOCR"

	opts := googleClientOptions(cfg)
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		if len(opts) == 0 {
			return nil, WrapExtractError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapExtractError(op, err, "failed to create Vision client")
	}

	return NewVisionOCRWithClient(client), nil
}

// NewVisionOCRWithClient creates a VisionOCR with an explicit client (for testing).
func NewVisionOCRWithClient(client *vision.ImageAnnotatorClient) *VisionOCR {
	return &VisionOCR{
		client: client,
		log:    logger.WithComponent("vision-ocr"),
	}
}

// ExtractText sends the file inline to Vision and returns the detected text.
func (v *VisionOCR) ExtractText(ctx context.Context, path string) (string, error) {
	const op = "VisionOCR.ExtractText"
	startTime := time.Now()

	data, err := readLimited(path)
	if err != nil {
		return "", WrapExtractError(op, err, path)
	}

	var text string
	if Ext(path) == ".pdf" {
		text, err = v.annotateFile(ctx, data)
	} else {
		text, err = v.annotateImage(ctx, data)
	}
	if err != nil {
		return "", WrapExtractError(op, err, path)
	}

	v.log.Debug().
		Str("path", path).
		Int("chars", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Vision OCR completed")
	return text, nil
}

func (v *VisionOCR) annotateImage(ctx context.Context, data []byte) (string, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: data},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", NewExtractError("annotateImage", ErrOCRFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if len(resp.Responses) == 0 {
		return "", NewExtractError("annotateImage", ErrOCRFailed, "no response from Vision API")
	}
	return visionPagesText(resp.Responses)
}

func (v *VisionOCR) annotateFile(ctx context.Context, data []byte) (string, error) {
	if !hasPDFHeader(data) {
		return "", NewExtractError("annotateFile", ErrInvalidPDF, "missing PDF header")
	}

	req := &visionpb.BatchAnnotateFilesRequest{
		Requests: []*visionpb.AnnotateFileRequest{
			{
				InputConfig: &visionpb.InputConfig{
					Content:  data,
					MimeType: "application/pdf",
				},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateFiles(ctx, req)
	if err != nil {
		return "", NewExtractError("annotateFile", ErrOCRFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if len(resp.Responses) == 0 {
		return "", NewExtractError("annotateFile", ErrOCRFailed, "no response from Vision API")
	}

	fileResp := resp.Responses[0]
	if fileResp.Error != nil {
		return "", NewExtractError("annotateFile", ErrOCRFailed, fmt.Sprintf("Vision API error: %s", fileResp.Error.Message))
	}
	if len(fileResp.Responses) > MaxPagesSync {
		return "", NewExtractError("annotateFile", ErrTooManyPages, fmt.Sprintf("document has %d pages", len(fileResp.Responses)))
	}
	return visionPagesText(fileResp.Responses)
}

// visionPagesText joins the full text annotation of each page in order.
// Pages without text contribute nothing; a document with no text at all
// yields "" and no error.
func visionPagesText(pages []*visionpb.AnnotateImageResponse) (string, error) {
	var allText strings.Builder
	for pageIdx, page := range pages {
		if page.Error != nil {
			return "", NewExtractError("visionPagesText", ErrOCRFailed, fmt.Sprintf("page %d: %s", pageIdx+1, page.Error.Message))
		}
		if page.FullTextAnnotation == nil {
			continue
		}
		if allText.Len() > 0 {
			allText.WriteString("\n\n")
		}
		allText.WriteString(page.FullTextAnnotation.Text)
	}

	if strings.TrimSpace(allText.String()) == "" {
		return "", nil
	}
	return allText.String(), nil
}

// Close closes the underlying Vision client.
func (v *VisionOCR) Close() error {
	if v.client != nil {
		return v.client.Close()
	}
	return nil
}

func readLimited(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxFileSizeBytes {
		return nil, NewExtractError("readLimited", ErrFileTooLarge, fmt.Sprintf("file size: %d bytes", info.Size()))
	}
	return os.ReadFile(path)
}
