package llm

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"labtools/internal/logger"
)

// OpenAIClient talks to any OpenAI-compatible endpoint, including Gemini's.
type OpenAIClient struct {
	client *openai.Client
	model  string
	log    zerolog.Logger
}

// NewOpenAIClient creates a client. An empty baseURL keeps the go-openai default.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return NewOpenAIClientWithDeps(openai.NewClientWithConfig(cfg), model)
}

// NewOpenAIClientWithDeps creates a client around an existing go-openai client (for testing).
func NewOpenAIClientWithDeps(client *openai.Client, model string) *OpenAIClient {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &OpenAIClient{
		client: client,
		model:  model,
		log:    logger.WithComponent("openai"),
	}
}

// Model returns the configured model name.
func (o *OpenAIClient) Model() string {
	return o.model
}

// Generate tries a chat completion first and the legacy completion endpoint
// once if that fails. This is a shape fallback, not a retry.
func (o *OpenAIClient) Generate(ctx context.Context, prompt string) (Response, error) {
	o.log.Debug().Str("model", o.model).Int("prompt_length", len(prompt)).Msg("Sending chat completion request")

	chat, chatErr := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if chatErr == nil {
		return ChatResponse(chat), nil
	}

	o.log.Debug().Err(chatErr).Msg("Chat completion failed, trying completion endpoint")

	completion, err := o.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:  o.model,
		Prompt: prompt,
	})
	if err != nil {
		return Response{}, eris.Wrapf(err, "llm: completion after chat failure (%v)", chatErr)
	}
	return CompletionResponse(completion), nil
}
