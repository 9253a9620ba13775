// Package extract turns report text into biomarker values.
//
// The Orchestrator prefers the LLM extractor and falls back to the
// deterministic pattern extractor whenever the model path is unavailable or
// fails. Exactly one strategy's output is used per call.
package extract

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"labtools/pkg/models"
)

// Strategy names the extractor that produced a result.
type Strategy string

const (
	StrategyLLM     Strategy = "llm"
	StrategyPattern Strategy = "pattern"
)

// Orchestrator selects between the LLM and pattern extractors.
type Orchestrator struct {
	pattern *PatternExtractor
	llm     *LLMExtractor
	log     zerolog.Logger
}

// NewOrchestrator wires the extractors. llmExtractor may be nil.
func NewOrchestrator(pattern *PatternExtractor, llmExtractor *LLMExtractor, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		pattern: pattern,
		llm:     llmExtractor,
		log:     log,
	}
}

// Extract returns the biomarkers found in text, never nil.
func (o *Orchestrator) Extract(ctx context.Context, text string) []models.Biomarker {
	found, _ := o.ExtractWithStrategy(ctx, text)
	return found
}

// ExtractWithStrategy is Extract that also reports which extractor was used.
func (o *Orchestrator) ExtractWithStrategy(ctx context.Context, text string) ([]models.Biomarker, Strategy) {
	if found, err := o.tryLLM(ctx, text); err == nil {
		if found == nil {
			found = []models.Biomarker{}
		}
		return found, StrategyLLM
	} else if o.llm.Available() {
		o.log.Warn().Err(err).Msg("LLM extraction failed, falling back to pattern extraction")
	}

	return o.pattern.Extract(text), StrategyPattern
}

func (o *Orchestrator) tryLLM(ctx context.Context, text string) (found []models.Biomarker, err error) {
	if !o.llm.Available() {
		return nil, ErrLLMUnavailable
	}

	defer func() {
		if r := recover(); r != nil {
			found = nil
			err = newExtractionError("orchestrate", ErrLLMFailed, fmt.Sprintf("panic: %v", r))
		}
	}()

	return o.llm.Extract(ctx, text)
}
