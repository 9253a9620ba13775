package llm

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"labtools/internal/logger"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash-lite"

// GeminiClient calls the Gemini API through the genai SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// NewGeminiClient creates a client for the Gemini Developer API.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	return newGeminiClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model)
}

func newGeminiClient(ctx context.Context, cc *genai.ClientConfig, model string) (*GeminiClient, error) {
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, eris.Wrap(err, "llm: create gemini client")
	}

	return &GeminiClient{
		client: client,
		model:  model,
		log:    logger.WithComponent("gemini"),
	}, nil
}

// Model returns the configured model name.
func (g *GeminiClient) Model() string {
	return g.model
}

// Generate sends prompt as a single user turn.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (Response, error) {
	g.log.Debug().Str("model", g.model).Int("prompt_length", len(prompt)).Msg("Sending GenerateContent request")

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return Response{}, eris.Wrap(err, "llm: gemini GenerateContent")
	}
	return GenAIResponse(result), nil
}
