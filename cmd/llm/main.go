package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joseph-ayodele/cardscan/internal/common"
	"github.com/joseph-ayodele/cardscan/internal/llm"
	"github.com/joseph-ayodele/cardscan/internal/llm/provider"
)

// runllm sends the same card image to the configured service N times and
// logs each extraction, to check prompt stability across runs.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: runllm <card-image> [times]")
		os.Exit(2)
	}
	path := os.Args[1]
	times := 10
	if len(os.Args) >= 3 {
		if n, err := strconv.Atoi(os.Args[2]); err == nil && n > 0 {
			times = n
		}
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(2)
	}

	img, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read image", "path", path, "error", err)
		os.Exit(1)
	}

	gen, err := provider.New(context.Background(), cfg.LLM, logger)
	if err != nil {
		logger.Error("create client", "error", err)
		os.Exit(2)
	}
	extractor := llm.NewRetryController(
		llm.NewExtractor(gen, llm.ExtractorConfig{
			ScanMode:       llm.ParseScanMode(cfg.LLM.JSONScan),
			PromptLanguage: cfg.LLM.PromptLanguage,
		}, logger),
		logger,
		llm.WithMaxAttempts(cfg.Retry.MaxAttempts),
		llm.WithRetryWait(cfg.Retry.Wait),
	)

	// --- Loop N times on the SAME image
	base := filepath.Base(path)
	mime := llm.DetectMIME(img)
	for i := 1; i <= times; i++ {
		runCtx, cancelRun := context.WithTimeout(context.Background(), 2*time.Minute)
		start := time.Now()
		logger.Info("extract.run.start", "iter", i, "basename", base, "provider", gen.Name())

		fields, _, err := extractor.ExtractFields(runCtx, llm.ExtractRequest{Image: img, MIMEType: mime})
		cancelRun()

		if err != nil {
			logger.Error("extract.run.error", "iter", i, "err", err)
		} else {
			logger.Info("extract.run.ok",
				"iter", i,
				"name", fields.Name,
				"reading", fields.Reading,
				"company", fields.Company,
				"email", fields.Email,
				"links", len(fields.SocialLinks),
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
		}

		time.Sleep(750 * time.Millisecond)
	}

	logger.Info("done", "basename", base, "times", times)
}
