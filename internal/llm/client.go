// Package llm wraps the language model backends used to read biomarkers out of
// free text.
//
// Each backend returns a Response, a tagged variant over the payload shapes the
// SDKs produce. DecodeText turns any of them into the generated text.
package llm

import (
	"context"
	"errors"

	"labtools/internal/config"
)

var (
	// ErrNoCredential is returned when no API key is configured.
	ErrNoCredential = errors.New("llm: no API key configured (set GOOGLE_API_KEY or GENAI_API_KEY)")

	// ErrDisabled is returned when LLM_PROVIDER is none.
	ErrDisabled = errors.New("llm: provider disabled")

	// ErrUnrecognizedResponse is returned when a response carries no text in any known shape.
	ErrUnrecognizedResponse = errors.New("llm: unrecognized response shape")
)

// Client sends a single prompt to a model.
type Client interface {
	Generate(ctx context.Context, prompt string) (Response, error)

	// Model returns the model identifier requests are sent to.
	Model() string
}

// NewClient builds the configured backend.
func NewClient(ctx context.Context, cfg *config.Config) (Client, error) {
	if cfg.LLMProvider == config.LLMProviderNone {
		return nil, ErrDisabled
	}
	if cfg.LLMAPIKey == "" {
		return nil, ErrNoCredential
	}

	switch cfg.LLMProvider {
	case config.LLMProviderOpenAI:
		return NewOpenAIClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel), nil
	default:
		return NewGeminiClient(ctx, cfg.LLMAPIKey, cfg.LLMModel)
	}
}
