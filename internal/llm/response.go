package llm

import (
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// ResponseKind tags which payload a Response carries.
type ResponseKind int

const (
	KindText ResponseKind = iota
	KindGenAI
	KindChat
	KindCompletion
)

func (k ResponseKind) String() string {
	switch k {
	case KindGenAI:
		return "genai"
	case KindChat:
		return "chat"
	case KindCompletion:
		return "completion"
	}
	return "text"
}

// Response is the raw reply of a backend. Exactly one payload is set, per Kind.
type Response struct {
	kind       ResponseKind
	text       string
	genai      *genai.GenerateContentResponse
	chat       *openai.ChatCompletionResponse
	completion *openai.CompletionResponse
}

// TextResponse wraps plain generated text.
func TextResponse(text string) Response {
	return Response{kind: KindText, text: text}
}

// GenAIResponse wraps a Gemini SDK reply.
func GenAIResponse(r *genai.GenerateContentResponse) Response {
	return Response{kind: KindGenAI, genai: r}
}

// ChatResponse wraps an OpenAI-compatible chat completion.
func ChatResponse(r openai.ChatCompletionResponse) Response {
	return Response{kind: KindChat, chat: &r}
}

// CompletionResponse wraps an OpenAI-compatible legacy completion.
func CompletionResponse(r openai.CompletionResponse) Response {
	return Response{kind: KindCompletion, completion: &r}
}

// Kind returns the payload tag.
func (r Response) Kind() ResponseKind {
	return r.kind
}

// DecodeText extracts the generated text. A payload without any text, such as
// a reply with no candidates or choices, yields ErrUnrecognizedResponse.
func DecodeText(r Response) (string, error) {
	var text string
	switch r.kind {
	case KindGenAI:
		if r.genai == nil || len(r.genai.Candidates) == 0 {
			return "", ErrUnrecognizedResponse
		}
		text = r.genai.Text()
	case KindChat:
		if r.chat == nil || len(r.chat.Choices) == 0 {
			return "", ErrUnrecognizedResponse
		}
		text = r.chat.Choices[0].Message.Content
	case KindCompletion:
		if r.completion == nil || len(r.completion.Choices) == 0 {
			return "", ErrUnrecognizedResponse
		}
		text = r.completion.Choices[0].Text
	case KindText:
		text = r.text
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrUnrecognizedResponse
	}
	return text, nil
}
