package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"labtools/internal/config"
	"labtools/internal/logger"
	"labtools/internal/textract"
)

var textCmd = &cobra.Command{
	Use:   "text [file]",
	Short: "Print the text extracted from a report",
	Long: `Run only the text extraction step and print what the biomarker extractors
would see. Useful for checking OCR quality.

The backend is chosen the same way as for analyze (PDF_PROVIDER, OCR_PROVIDER,
PDF_OCR_FALLBACK). Google backends need one of:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  # Print the text layer of a PDF
  labtools text report.pdf

  # Save OCR output of a scan to a file
  labtools text scan.png -o scan.txt

  # Output as JSON with metadata
  labtools text scan.png --json`,
	Args: cobra.ExactArgs(1),
	RunE: runText,
}

// TextOutput represents the JSON output structure when --json flag is used
type TextOutput struct {
	Text               string `json:"text"`
	Kind               string `json:"kind"`
	Characters         int    `json:"characters"`
	ProcessingDuration string `json:"processing_duration"`
	FileName           string `json:"file_name"`
	FileSize           int64  `json:"file_size"`
}

func init() {
	rootCmd.AddCommand(textCmd)

	textCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	textCmd.Flags().Bool("json", false, "Output as JSON")
	textCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runText(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("text")

	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	path := args[0]

	kind, ok := textract.KindOf(path)
	if !ok {
		return fmt.Errorf("unsupported file type: %s", textract.Ext(path))
	}

	fileInfo, err := validateReportFile(path, log)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	router := textract.NewRouter(ctx, cfg)
	defer router.Close() //nolint:errcheck

	startTime := time.Now()
	text, err := router.ExtractText(ctx, path)
	if err != nil {
		return handleTextError(err, log)
	}
	if strings.TrimSpace(text) == "" {
		return handleTextError(textract.NewExtractError("text", textract.ErrEmptyDocument, path), log)
	}
	duration := time.Since(startTime)

	log.Info().
		Str("kind", string(kind)).
		Dur("duration", duration).
		Int("text_length", len(text)).
		Msg("Text extraction completed")

	var outputData []byte
	if jsonOutput {
		outputData, err = json.MarshalIndent(TextOutput{
			Text:               text,
			Kind:               string(kind),
			Characters:         len([]rune(text)),
			ProcessingDuration: duration.String(),
			FileName:           filepath.Base(fileInfo.Name()),
			FileSize:           fileInfo.Size(),
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
	} else {
		outputData = []byte(text)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
			log.Error().Err(err).Str("output_file", outputPath).Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().Str("output_file", outputPath).Int("bytes", len(outputData)).Msg("Text written to file")
		return nil
	}

	if _, err := os.Stdout.Write(outputData); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !strings.HasSuffix(string(outputData), "\n") {
		fmt.Println()
	}
	return nil
}

// validateReportFile checks that path is a readable, non-empty regular file
func validateReportFile(path string, log zerolog.Logger) (os.FileInfo, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().Str("file", path).Msg("File not found")
			return nil, fmt.Errorf("file not found: %s", path)
		}
		if os.IsPermission(err) {
			log.Error().Str("file", path).Msg("Permission denied accessing file")
			return nil, fmt.Errorf("permission denied accessing file: %s", path)
		}
		return nil, fmt.Errorf("error accessing file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("path is not a regular file: %s", path)
	}
	if fileInfo.Size() == 0 {
		return nil, fmt.Errorf("file is empty: %s", path)
	}

	return fileInfo, nil
}

// handleTextError provides user-friendly error messages for extraction failures
func handleTextError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Text extraction failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("text extraction timed out. Try increasing --timeout")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("text extraction was canceled")
	case errors.Is(err, textract.ErrFileTooLarge):
		return fmt.Errorf("file is too large for the cloud OCR backends (maximum 20MB)")
	case errors.Is(err, textract.ErrTooManyPages):
		return fmt.Errorf("PDF has too many pages for Vision (maximum 5 pages). Try PDF_PROVIDER=documentai")
	case errors.Is(err, textract.ErrInvalidPDF):
		return fmt.Errorf("invalid or corrupted PDF file. Please check the file integrity")
	case errors.Is(err, textract.ErrEmptyDocument):
		return fmt.Errorf("no readable text found in the document")
	case errors.Is(err, textract.ErrPermissionDenied):
		return fmt.Errorf("permission denied. Please ensure the service account can use Document AI")
	case errors.Is(err, textract.ErrOCRFailed):
		return fmt.Errorf("OCR processing failed. This may be due to network issues, API quota limits, or service unavailability: %w", err)
	default:
		return fmt.Errorf("text extraction failed: %w", err)
	}
}
