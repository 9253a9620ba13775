package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"

	"labtools/internal/logger"
)

// LLM providers
const (
	LLMProviderGemini = "gemini"
	LLMProviderOpenAI = "openai"
	LLMProviderNone   = "none"
)

// Text extraction providers
const (
	ProviderAuto       = "auto"
	ProviderNative     = "native"
	ProviderPdfToText  = "pdftotext"
	ProviderTesseract  = "tesseract"
	ProviderVision     = "vision"
	ProviderDocumentAI = "documentai"
)

type Config struct {
	// LLM Configuration
	LLMAPIKey            string `mapstructure:"llm_api_key"`
	LLMProvider          string `mapstructure:"llm_provider"`
	LLMModel             string `mapstructure:"llm_model"`
	LLMBaseURL           string `mapstructure:"llm_base_url"`
	LLMRequestsPerMinute int    `mapstructure:"llm_requests_per_minute"`

	// Text Extraction Configuration
	PDFProvider    string `mapstructure:"pdf_provider"`
	OCRProvider    string `mapstructure:"ocr_provider"`
	PDFOCRFallback bool   `mapstructure:"pdf_ocr_fallback"`
	PdfToTextPath  string `mapstructure:"pdftotext_path"`
	TesseractPath  string `mapstructure:"tesseract_path"`

	// Google Cloud Configuration
	GoogleCredentialsJSON string `mapstructure:"google_credentials"`
	GoogleCredentialsFile string `mapstructure:"google_application_credentials"`
	GoogleCloudProject    string `mapstructure:"google_cloud_project"`
	GoogleCloudLocation   string `mapstructure:"google_cloud_location"`
	DocumentAIProcessorID string `mapstructure:"document_ai_processor_id"`

	// Batch Configuration
	BatchWorkers int `mapstructure:"batch_workers"`

	// Logging Configuration
	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
	LogTimeFormat string `mapstructure:"log_time_format"`
	LogOutput     string `mapstructure:"log_output"`
}

// Capabilities are the feature flags resolved once at startup from the configuration.
type Capabilities struct {
	LLMEnabled        bool
	GoogleCredentials bool
	PDFProvider       string
	OCRProvider       string
	PDFOCRFallback    bool
}

// Load reads configuration from an optional labtools.yaml and the environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("labtools")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.labtools")

	// The credential is accepted under either name, first non-empty wins
	bindings := map[string][]string{
		"llm_api_key":                    {"GOOGLE_API_KEY", "GENAI_API_KEY"},
		"llm_provider":                   {"LLM_PROVIDER"},
		"llm_model":                      {"LLM_MODEL"},
		"llm_base_url":                   {"LLM_BASE_URL"},
		"llm_requests_per_minute":        {"LLM_REQUESTS_PER_MINUTE"},
		"pdf_provider":                   {"PDF_PROVIDER"},
		"ocr_provider":                   {"OCR_PROVIDER"},
		"pdf_ocr_fallback":               {"PDF_OCR_FALLBACK"},
		"pdftotext_path":                 {"PDFTOTEXT_PATH"},
		"tesseract_path":                 {"TESSERACT_PATH"},
		"google_credentials":             {"GOOGLE_CREDENTIALS"},
		"google_application_credentials": {"GOOGLE_APPLICATION_CREDENTIALS"},
		"google_cloud_project":           {"GOOGLE_CLOUD_PROJECT"},
		"google_cloud_location":          {"GOOGLE_CLOUD_LOCATION"},
		"document_ai_processor_id":       {"DOCUMENT_AI_PROCESSOR_ID"},
		"batch_workers":                  {"BATCH_WORKERS"},
		"log_level":                      {"LOG_LEVEL"},
		"log_format":                     {"LOG_FORMAT"},
		"log_time_format":                {"LOG_TIME_FORMAT"},
		"log_output":                     {"LOG_OUTPUT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, eris.Wrapf(err, "config: bind %s", key)
		}
	}

	v.SetDefault("llm_provider", LLMProviderGemini)
	v.SetDefault("llm_model", "gemini-2.5-flash-lite")
	v.SetDefault("llm_base_url", "https://generativelanguage.googleapis.com/v1beta/openai/")
	v.SetDefault("llm_requests_per_minute", 0)
	v.SetDefault("pdf_provider", ProviderNative)
	v.SetDefault("ocr_provider", ProviderAuto)
	v.SetDefault("pdf_ocr_fallback", true)
	v.SetDefault("pdftotext_path", "pdftotext")
	v.SetDefault("tesseract_path", "tesseract")
	v.SetDefault("google_cloud_location", "us")
	v.SetDefault("batch_workers", 4)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("log_time_format", "2006-01-02T15:04:05Z07:00")
	v.SetDefault("log_output", "stderr")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, eris.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

func (c *Config) normalize() {
	c.LLMAPIKey = strings.TrimSpace(c.LLMAPIKey)
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))
	c.PDFProvider = strings.ToLower(strings.TrimSpace(c.PDFProvider))
	c.OCRProvider = strings.ToLower(strings.TrimSpace(c.OCRProvider))
}

func (c *Config) validate() error {
	switch c.LLMProvider {
	case LLMProviderGemini, LLMProviderOpenAI, LLMProviderNone:
	default:
		return eris.Errorf("LLM_PROVIDER %q is not one of gemini, openai, none", c.LLMProvider)
	}
	switch c.PDFProvider {
	case ProviderNative, ProviderPdfToText, ProviderVision, ProviderDocumentAI:
	default:
		return eris.Errorf("PDF_PROVIDER %q is not one of native, pdftotext, vision, documentai", c.PDFProvider)
	}
	switch c.OCRProvider {
	case ProviderAuto, ProviderTesseract, ProviderVision, ProviderDocumentAI:
	default:
		return eris.Errorf("OCR_PROVIDER %q is not one of auto, tesseract, vision, documentai", c.OCRProvider)
	}
	if c.LLMRequestsPerMinute < 0 {
		return eris.New("LLM_REQUESTS_PER_MINUTE must not be negative")
	}
	if c.BatchWorkers <= 0 {
		return eris.New("BATCH_WORKERS must be positive")
	}
	return nil
}

// HasGoogleCredentials reports whether Google Cloud credentials are configured.
func (c *Config) HasGoogleCredentials() bool {
	return c.GoogleCredentialsJSON != "" || c.GoogleCredentialsFile != ""
}

// Capabilities resolves which optional backends are active.
func (c *Config) Capabilities() Capabilities {
	caps := Capabilities{
		LLMEnabled:        c.LLMProvider != LLMProviderNone && c.LLMAPIKey != "",
		GoogleCredentials: c.HasGoogleCredentials(),
		PDFProvider:       c.PDFProvider,
		OCRProvider:       c.OCRProvider,
		PDFOCRFallback:    c.PDFOCRFallback,
	}
	if caps.OCRProvider == ProviderAuto {
		caps.OCRProvider = ProviderTesseract
		if caps.GoogleCredentials {
			caps.OCRProvider = ProviderVision
		}
	}
	return caps
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}
