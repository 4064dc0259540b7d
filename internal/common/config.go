package common

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for the enum-like settings.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	JSONScanFirst  = "first"
	JSONScanWidest = "widest"

	RendererFitz     = "fitz"
	RendererPdftoppm = "pdftoppm"

	PromptLanguageEN = "en"
	PromptLanguageJA = "ja"
)

// Config holds all application configuration
type Config struct {
	LLM    LLMConfig
	Retry  RetryConfig
	OCR    OCRConfig
	Render RenderConfig
	Log    LogConfig
}

// LLMConfig holds extraction-service configuration
type LLMConfig struct {
	Provider       string
	GeminiAPIKey   string
	GeminiModel    string
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIBaseURL  string
	Temperature    float32
	Timeout        time.Duration
	JSONScan       string
	PromptLanguage string
}

// RetryConfig bounds the capacity-exhaustion retry loop.
type RetryConfig struct {
	MaxAttempts int
	Wait        time.Duration
}

// OCRConfig holds orientation-detection configuration
type OCRConfig struct {
	Tesseract   string
	TessdataDir string
}

// RenderConfig holds document rendering configuration
type RenderConfig struct {
	Renderer      string
	DPI           int
	Pdftoppm      string
	HeicConverter string
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig loads .env files (missing files are ignored) and then reads
// configuration from environment variables.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, ConfigurationError("load .env", err)
	}

	return &Config{
		LLM: LLMConfig{
			Provider:       strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
			GeminiAPIKey:   getEnv("GOOGLE_API_KEY", os.Getenv("GEMINI_API_KEY")),
			GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature:    getEnvAsFloat32("LLM_TEMPERATURE", 0.0),
			Timeout:        getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
			JSONScan:       strings.ToLower(getEnv("LLM_JSON_SCAN", JSONScanFirst)),
			PromptLanguage: strings.ToLower(getEnv("PROMPT_LANGUAGE", PromptLanguageEN)),
		},
		Retry: RetryConfig{
			MaxAttempts: getEnvAsInt("RETRY_MAX_ATTEMPTS", 10),
			Wait:        getEnvAsDuration("RETRY_WAIT", 10*time.Second),
		},
		OCR: OCRConfig{
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
		},
		Render: RenderConfig{
			Renderer:      strings.ToLower(getEnv("RENDERER", RendererFitz)),
			DPI:           getEnvAsInt("RENDER_DPI", 200),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			HeicConverter: getEnv("HEIC_CONVERTER", "magick"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		},
	}, nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// APIKey returns the credential of the selected provider.
func (c *LLMConfig) APIKey() string {
	if c.Provider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// Validate checks the loaded configuration. A missing credential for the
// selected provider is reported here, before any page is processed.
func (c *Config) Validate() error {
	v := NewValidator().
		Field("LLM_PROVIDER", c.LLM.Provider, OneOf(ProviderGemini, ProviderOpenAI)).
		Field("LLM_JSON_SCAN", c.LLM.JSONScan, OneOf(JSONScanFirst, JSONScanWidest)).
		Field("PROMPT_LANGUAGE", c.LLM.PromptLanguage, OneOf(PromptLanguageEN, PromptLanguageJA)).
		Field("LLM_TEMPERATURE", c.LLM.Temperature, NonNegative).
		Field("LLM_TIMEOUT", c.LLM.Timeout, Positive).
		Field("RETRY_MAX_ATTEMPTS", c.Retry.MaxAttempts, Positive).
		Field("RETRY_WAIT", c.Retry.Wait, NonNegative).
		Field("RENDERER", c.Render.Renderer, OneOf(RendererFitz, RendererPdftoppm)).
		Field("RENDER_DPI", c.Render.DPI, Positive).
		Field("HEIC_CONVERTER", c.Render.HeicConverter, OneOf("heif-convert", "magick", "sips")).
		Field("LOG_FORMAT", c.Log.Format, OneOf("text", "json"))

	switch c.LLM.Provider {
	case ProviderGemini:
		v.Field("GOOGLE_API_KEY", c.LLM.GeminiAPIKey, Required)
	case ProviderOpenAI:
		v.Field("OPENAI_API_KEY", c.LLM.OpenAIAPIKey, Required)
	}
	return v.AsConfigError()
}
