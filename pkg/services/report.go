package services

import (
	"context"
	"time"

	"labtools/pkg/models"
)

// ReportService analyses medical report files
type ReportService interface {
	// Analyze reads one report and returns its result. It never returns nil
	// and never panics; failures come back as error results.
	Analyze(ctx context.Context, path string) *models.Result

	// AnalyzeWithDetails is Analyze plus diagnostics about how the result was produced
	AnalyzeWithDetails(ctx context.Context, path string) *Analysis
}

// Analysis carries a result together with run diagnostics
type Analysis struct {
	Result *models.Result `json:"result"`

	// Diagnostics
	RequestID  string        `json:"request_id"`
	Path       string        `json:"path"`
	Strategy   string        `json:"strategy,omitempty"`    // llm or pattern, empty on error
	TextLength int           `json:"text_length,omitempty"` // characters returned by the text extractor
	Abnormal   int           `json:"abnormal,omitempty"`    // values outside their normal range
	Duration   time.Duration `json:"duration"`
}
