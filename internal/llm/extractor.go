package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cardscan/internal/common"
)

// ExtractorConfig tunes how model output is turned into ContactFields.
type ExtractorConfig struct {
	ScanMode       ScanMode
	PromptLanguage string
}

// Extractor implements FieldExtractor on top of any Generator.
type Extractor struct {
	gen    Generator
	cfg    ExtractorConfig
	prompt string
	log    *slog.Logger
}

func NewExtractor(gen Generator, cfg ExtractorConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ScanMode == "" {
		cfg.ScanMode = ScanFirst
	}
	return &Extractor{gen: gen, cfg: cfg, prompt: BuildPrompt(cfg.PromptLanguage), log: logger}
}

// ExtractFields sends the prompt and page image to the generator and parses
// the reply into ContactFields. Capacity exhaustion is returned as-is so a
// RetryController can recognize it; every other failure is an ExtractionError.
func (e *Extractor) ExtractFields(ctx context.Context, req ExtractRequest) (ContactFields, []byte, error) {
	log := e.log.With(
		"run_id", common.RunIDFromContext(ctx),
		"req_id", uuid.New().String(),
	)
	start := time.Now()
	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = DetectMIME(req.Image)
	}

	log.Info("llm.extract.start",
		"provider", e.gen.Name(),
		"page", req.PageIndex,
		"image_bytes", len(req.Image),
		"mime", mimeType,
	)

	text, err := e.gen.Generate(ctx, e.prompt, req.Image, mimeType)
	if err != nil {
		log.Warn("llm.extract.generate_error",
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		if errors.Is(err, common.ErrCapacityExhausted) || ctx.Err() != nil {
			return ContactFields{}, nil, err
		}
		return ContactFields{}, nil, common.ExtractionError("generate content", err)
	}
	log.Debug("llm.extract.raw_response", "text", text)

	span, err := FindJSONObject(text, e.cfg.ScanMode)
	if err != nil {
		log.Error("llm.extract.no_json", "error", err, "text_len", len(text))
		return ContactFields{}, []byte(text), common.ExtractionError("locate JSON in response", err)
	}

	cleaned, _, err := NormalizeAndSanitizeJSON([]byte(span), log)
	if err != nil {
		return ContactFields{}, []byte(span), common.ExtractionError("sanitize response", err)
	}
	if err := ValidateContactJSON(cleaned); err != nil {
		log.Error("llm.extract.schema_validation_failed",
			"error", err, "content", string(cleaned),
		)
		return ContactFields{}, cleaned, common.ExtractionError("validate response", err)
	}

	var out ContactFields
	if err := json.Unmarshal(cleaned, &out); err != nil {
		return ContactFields{}, cleaned, common.ExtractionError("unmarshal fields", err)
	}
	out = out.WithDefaults()

	log.Info("llm.extract.ok",
		"page", req.PageIndex,
		"name", out.Name,
		"company", out.Company,
		"social_links", len(out.SocialLinks),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, cleaned, nil
}
