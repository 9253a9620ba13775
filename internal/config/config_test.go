package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate moves into an empty directory and clears every variable Load reads.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	t.Setenv("HOME", dir)

	for _, key := range []string{
		"GOOGLE_API_KEY", "GENAI_API_KEY", "LLM_PROVIDER", "LLM_MODEL", "LLM_BASE_URL",
		"LLM_REQUESTS_PER_MINUTE", "PDF_PROVIDER", "OCR_PROVIDER", "PDF_OCR_FALLBACK",
		"PDFTOTEXT_PATH", "TESSERACT_PATH", "GOOGLE_CREDENTIALS", "GOOGLE_APPLICATION_CREDENTIALS",
		"GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_LOCATION", "DOCUMENT_AI_PROCESSOR_ID",
		"BATCH_WORKERS", "LOG_LEVEL", "LOG_FORMAT", "LOG_TIME_FORMAT", "LOG_OUTPUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.LLMAPIKey)
	assert.Equal(t, LLMProviderGemini, cfg.LLMProvider)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.LLMModel)
	assert.Equal(t, ProviderNative, cfg.PDFProvider)
	assert.Equal(t, ProviderAuto, cfg.OCRProvider)
	assert.True(t, cfg.PDFOCRFallback)
	assert.Equal(t, "pdftotext", cfg.PdfToTextPath)
	assert.Equal(t, "tesseract", cfg.TesseractPath)
	assert.Equal(t, "us", cfg.GoogleCloudLocation)
	assert.Equal(t, 4, cfg.BatchWorkers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "stderr", cfg.LogOutput)
}

func TestLoadCredentialAliases(t *testing.T) {
	cases := []struct {
		name    string
		google  string
		genai   string
		wantKey string
	}{
		{name: "google only", google: "g-key", wantKey: "g-key"},
		{name: "genai only", genai: "n-key", wantKey: "n-key"},
		{name: "both prefers google", google: "g-key", genai: "n-key", wantKey: "g-key"},
		{name: "neither", wantKey: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)
			t.Setenv("GOOGLE_API_KEY", tc.google)
			t.Setenv("GENAI_API_KEY", tc.genai)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tc.wantKey, cfg.LLMAPIKey)
			assert.Equal(t, tc.wantKey != "", cfg.Capabilities().LLMEnabled)
		})
	}
}

func TestLoadFromYAML(t *testing.T) {
	isolate(t)

	yaml := `
llm_provider: openai
llm_model: gpt-4o-mini
pdf_provider: pdftotext
ocr_provider: tesseract
batch_workers: 2
log_level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(".", "labtools.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, LLMProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLMModel)
	assert.Equal(t, ProviderPdfToText, cfg.PDFProvider)
	assert.Equal(t, ProviderTesseract, cfg.OCRProvider)
	assert.Equal(t, 2, cfg.BatchWorkers)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	isolate(t)
	t.Setenv("PDF_PROVIDER", "pdfplumber")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PDF_PROVIDER")
}

func TestCapabilities(t *testing.T) {
	cfg := &Config{LLMProvider: LLMProviderNone, LLMAPIKey: "key", OCRProvider: ProviderAuto}
	caps := cfg.Capabilities()
	assert.False(t, caps.LLMEnabled, "provider none disables the LLM path even with a key")
	assert.Equal(t, ProviderTesseract, caps.OCRProvider)

	cfg = &Config{LLMProvider: LLMProviderGemini, LLMAPIKey: "key", OCRProvider: ProviderAuto, GoogleCredentialsFile: "/tmp/sa.json"}
	caps = cfg.Capabilities()
	assert.True(t, caps.LLMEnabled)
	assert.True(t, caps.GoogleCredentials)
	assert.Equal(t, ProviderVision, caps.OCRProvider)
}
