package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"labtools/internal/llm"
	"labtools/internal/logger"
	"labtools/internal/registry"
	"labtools/pkg/models"
)

// jsonArrayPattern finds the first "[{ ... }]" span in a model reply,
// which is often wrapped in prose or a code fence.
var jsonArrayPattern = regexp.MustCompile(`(\[\s*\{[\s\S]*\}\s*\])`)

const promptTemplate = "Extract the following biomarker names and their numeric values " +
	"from the medical report text. Biomarkers: %s. \n" +
	"Return ONLY a JSON array of objects with keys: name, value, unit (optional). " +
	"If a biomarker is not present, omit it. Use numeric values only (no text).\n\n" +
	"Report text:\n"

// LLMOptions tune the LLM extractor.
type LLMOptions struct {
	// Limiter throttles model calls when set. A wait failure counts as an LLM failure.
	Limiter *rate.Limiter

	// Logger overrides the component logger.
	Logger *zerolog.Logger
}

// LLMExtractor asks a language model for biomarker values and normalises the reply.
type LLMExtractor struct {
	reg     *registry.Registry
	client  llm.Client
	limiter *rate.Limiter
	prompt  string
	log     zerolog.Logger
}

// NewLLMExtractor creates an extractor. A nil client makes it unavailable.
func NewLLMExtractor(reg *registry.Registry, client llm.Client, opts LLMOptions) *LLMExtractor {
	log := logger.WithComponent("llm-extractor")
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &LLMExtractor{
		reg:     reg,
		client:  client,
		limiter: opts.Limiter,
		prompt:  fmt.Sprintf(promptTemplate, strings.Join(reg.Keys(), ", ")),
		log:     log,
	}
}

// Available reports whether a model client is configured.
func (e *LLMExtractor) Available() bool {
	return e != nil && e.client != nil
}

// Prompt returns the full prompt sent for text.
func (e *LLMExtractor) Prompt(text string) string {
	return e.prompt + text
}

// Extract returns the model's biomarkers. A successful empty list is a valid
// answer. Every failure, including a panic in the client, comes back as an
// *ExtractionError.
func (e *LLMExtractor) Extract(ctx context.Context, text string) (found []models.Biomarker, err error) {
	if !e.Available() {
		return nil, newExtractionError("extract", ErrLLMUnavailable, "no model client")
	}

	defer func() {
		if r := recover(); r != nil {
			found = nil
			err = newExtractionError("extract", ErrLLMFailed, fmt.Sprintf("panic: %v", r))
		}
	}()

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, newExtractionError("throttle", ErrLLMFailed, err.Error())
		}
	}

	resp, err := e.client.Generate(ctx, e.Prompt(text))
	if err != nil {
		return nil, newExtractionError("generate", ErrLLMFailed, err.Error())
	}

	content, err := llm.DecodeText(resp)
	if err != nil {
		return nil, newExtractionError("decode", ErrMalformedResponse, err.Error())
	}

	items, err := parseItems(content)
	if err != nil {
		return nil, newExtractionError("parse", ErrMalformedResponse, err.Error())
	}

	found = make([]models.Biomarker, 0, len(items))
	for _, item := range items {
		b, ok := e.normalize(item)
		if ok {
			found = append(found, b)
		}
	}

	e.log.Debug().
		Str("model", e.client.Model()).
		Str("response_kind", resp.Kind().String()).
		Int("items", len(items)).
		Int("biomarkers", len(found)).
		Msg("LLM extraction completed")

	return found, nil
}

// parseItems decodes the first JSON array span, or the whole reply when there
// is none. The chosen candidate must be exactly one JSON array; null and
// trailing text are rejected.
func parseItems(content string) ([]map[string]any, error) {
	candidate := content
	if m := jsonArrayPattern.FindStringSubmatch(content); m != nil {
		candidate = m[1]
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(candidate)))
	dec.UseNumber()

	var items []map[string]any
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, eris.New("reply is JSON null")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, eris.New("unexpected data after JSON array")
	}
	return items, nil
}

func (e *LLMExtractor) normalize(item map[string]any) (models.Biomarker, bool) {
	name := firstString(item, "name", "biomarker")
	if name == "" {
		e.log.Debug().Interface("item", item).Msg("Dropping item without name")
		return models.Biomarker{}, false
	}

	value, ok := coerceValue(item["value"])
	if !ok {
		e.log.Debug().Str("name", name).Interface("value", item["value"]).Msg("Dropping item with non-numeric value")
		return models.Biomarker{}, false
	}

	if key, ok := e.reg.LookupAlias(name); ok {
		name = key
	}

	b := models.Biomarker{Name: name, Value: value}
	if unit, ok := item["unit"].(string); ok {
		b.Unit = unit
	}
	return b, true
}

func firstString(item map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := item[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// coerceValue accepts JSON numbers and numeric strings with ',' decimals.
func coerceValue(v any) (float64, bool) {
	var raw string
	switch val := v.(type) {
	case json.Number:
		raw = val.String()
	case string:
		raw = strings.TrimSpace(strings.ReplaceAll(val, ",", "."))
	default:
		return 0, false
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
