// Package gemini adapts the Google Gen AI SDK to llm.Generator.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/joseph-ayodele/cardscan/internal/common"
)

// Config for the Gemini client.
type Config struct {
	APIKey      string
	Model       string        // e.g., "gemini-1.5-flash"
	Temperature float32       // 0..2
	Timeout     time.Duration // per request
}

// contentGenerator is the slice of *genai.Models the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	cfg    Config
	models contentGenerator
	logger *slog.Logger
}

// NewClient builds the service handle once per run.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, common.ConfigurationError("GOOGLE_API_KEY is required", common.ErrInvalidInput)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, common.ConfigurationError("create gemini client", err)
	}
	return newClient(cfg, gc.Models, logger), nil
}

func newClient(cfg Config, models contentGenerator, logger *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, models: models, logger: logger}
}

func (c *Client) Name() string { return "gemini:" + c.cfg.Model }

// Generate implements llm.Generator.
func (c *Client) Generate(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}
	genCfg := &genai.GenerateContentConfig{Temperature: genai.Ptr(c.cfg.Temperature)}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.cfg.Model, contents, genCfg)
	if err != nil {
		if IsCapacityExhausted(err) {
			return "", common.CapacityExhaustedError("gemini reported resource exhaustion", err)
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	c.logger.Debug("llm.gemini.response",
		"model", c.cfg.Model,
		"text_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	return text, nil
}

// IsCapacityExhausted reports whether err is the service's resource
// exhaustion signal. The service exposes no dedicated error type for this,
// so the check matches the message text and is the single place to update
// if that text changes.
func IsCapacityExhausted(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Resource has been exhausted") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
