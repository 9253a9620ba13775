package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"labtools/internal/config"
)

func TestDecodeText(t *testing.T) {
	genaiReply := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: `[{"name":"TSH","value":2.5}]`}}}},
		},
	}

	cases := []struct {
		name    string
		resp    Response
		want    string
		wantErr bool
	}{
		{name: "text", resp: TextResponse("hello"), want: "hello"},
		{name: "blank text", resp: TextResponse("  "), wantErr: true},
		{name: "genai", resp: GenAIResponse(genaiReply), want: `[{"name":"TSH","value":2.5}]`},
		{name: "genai without candidates", resp: GenAIResponse(&genai.GenerateContentResponse{}), wantErr: true},
		{name: "genai nil", resp: GenAIResponse(nil), wantErr: true},
		{
			name: "chat",
			resp: ChatResponse(openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "chat text"}},
			}}),
			want: "chat text",
		},
		{name: "chat without choices", resp: ChatResponse(openai.ChatCompletionResponse{}), wantErr: true},
		{
			name: "completion",
			resp: CompletionResponse(openai.CompletionResponse{Choices: []openai.CompletionChoice{{Text: "completion text"}}}),
			want: "completion text",
		},
		{name: "zero value", resp: Response{}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeText(tc.resp)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnrecognizedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResponseKind(t *testing.T) {
	assert.Equal(t, KindText, TextResponse("x").Kind())
	assert.Equal(t, "chat", ChatResponse(openai.ChatCompletionResponse{}).Kind().String())
	assert.Equal(t, "completion", KindCompletion.String())
}

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIClient("test-key", srv.URL+"/v1", "test-model")
}

func TestOpenAIClient_Chat(t *testing.T) {
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "prompt", req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{ //nolint:errcheck
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "[]"}}},
		})
	})

	resp, err := client.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, KindChat, resp.Kind())

	text, err := DecodeText(resp)
	require.NoError(t, err)
	assert.Equal(t, "[]", text)
}

func TestOpenAIClient_FallsBackToCompletion(t *testing.T) {
	calls := map[string]int{}
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		calls[r.URL.Path]++
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/v1/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"message":"chat not supported","type":"invalid_request_error"}}`))
			return
		}
		json.NewEncoder(w).Encode(openai.CompletionResponse{ //nolint:errcheck
			Choices: []openai.CompletionChoice{{Text: `[{"name":"T3","value":3.1}]`}},
		})
	})

	resp, err := client.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, KindCompletion, resp.Kind())
	assert.Equal(t, map[string]int{"/v1/chat/completions": 1, "/v1/completions": 1}, calls)
}

func TestOpenAIClient_BothFail(t *testing.T) {
	client := newTestOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	})

	_, err := client.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completion after chat failure")
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(context.Background(), &config.Config{LLMProvider: config.LLMProviderNone, LLMAPIKey: "k"})
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = NewClient(context.Background(), &config.Config{LLMProvider: config.LLMProviderGemini})
	assert.ErrorIs(t, err, ErrNoCredential)

	c, err := NewClient(context.Background(), &config.Config{
		LLMProvider: config.LLMProviderOpenAI,
		LLMAPIKey:   "k",
		LLMBaseURL:  "http://localhost:1/v1",
		LLMModel:    "m",
	})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)
	assert.Equal(t, "m", c.Model())
}
