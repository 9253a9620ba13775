// Package analyzer is the entry point that turns one report file into a result.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"labtools/internal/extract"
	"labtools/internal/logger"
	"labtools/internal/risk"
	"labtools/internal/textract"
	"labtools/pkg/models"
	"labtools/pkg/services"
)

// Terminal error messages
const (
	msgUnsupported    = "Unsupported file type: %s"
	msgExtractFailure = "Failed to extract text from file"
)

// Analyzer implements services.ReportService. It holds only immutable
// collaborators, so one instance can serve concurrent requests.
type Analyzer struct {
	router *textract.Router
	orch   *extract.Orchestrator
	scorer *risk.Scorer
	log    zerolog.Logger
}

var _ services.ReportService = (*Analyzer)(nil)

// New wires an Analyzer.
func New(router *textract.Router, orch *extract.Orchestrator, scorer *risk.Scorer, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		router: router,
		orch:   orch,
		scorer: scorer,
		log:    log,
	}
}

// Analyze returns the result for the report at path.
func (a *Analyzer) Analyze(ctx context.Context, path string) *models.Result {
	return a.AnalyzeWithDetails(ctx, path).Result
}

// AnalyzeWithDetails dispatches on the file extension, extracts text, then
// biomarkers, then scores them.
func (a *Analyzer) AnalyzeWithDetails(ctx context.Context, path string) (analysis *services.Analysis) {
	startTime := time.Now()
	analysis = &services.Analysis{
		RequestID: uuid.NewString(),
		Path:      path,
	}
	log := logger.WithRequestID(a.log, analysis.RequestID).With().Str("path", path).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Analysis panicked")
			analysis.Result = models.ErrorResult(msgExtractFailure)
			analysis.Strategy = ""
		}
		analysis.Duration = time.Since(startTime)
	}()

	kind, ok := textract.KindOf(path)
	if !ok {
		ext := textract.Ext(path)
		log.Info().Str("ext", ext).Msg("Unsupported file type")
		analysis.Result = models.ErrorResult(fmt.Sprintf(msgUnsupported, ext))
		return analysis
	}

	if err := a.router.Check(kind); err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Msg("Text extraction backend missing")
		analysis.Result = models.DependencyErrorResult(err.Error())
		return analysis
	}

	extractor := a.router.For(kind)
	if extractor == nil {
		log.Error().Str("kind", string(kind)).Msg("No text extractor configured")
		analysis.Result = models.ErrorResult(msgExtractFailure)
		return analysis
	}

	text, err := extractor.ExtractText(ctx, path)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Msg("Text extraction failed")
		analysis.Result = models.ErrorResult(msgExtractFailure)
		return analysis
	}
	analysis.TextLength = len(text)

	found, strategy := a.orch.ExtractWithStrategy(ctx, text)
	assessment := a.scorer.Assess(found)

	analysis.Strategy = string(strategy)
	analysis.Abnormal = a.scorer.AbnormalCount(found)
	analysis.Result = models.SuccessResult(found, assessment)

	log.Info().
		Str("kind", string(kind)).
		Str("strategy", analysis.Strategy).
		Int("biomarkers", len(found)).
		Int("abnormal", analysis.Abnormal).
		Str("risk", assessment.Risk).
		Int("score", assessment.Score).
		Dur("duration", time.Since(startTime)).
		Msg("Report analyzed")

	return analysis
}
