package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/cardscan/internal/command"
	"github.com/joseph-ayodele/cardscan/internal/common"
	"github.com/joseph-ayodele/cardscan/internal/ocr"
	"github.com/joseph-ayodele/cardscan/internal/output"
	"github.com/joseph-ayodele/cardscan/internal/render"
)

// runocr renders a document, rotates every page upright and keeps the
// results as card_{i}.png so orientation problems can be inspected by eye.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 || len(os.Args) > 3 {
		logger.Error("usage", "cmd", "runocr <document> [out-dir]")
		os.Exit(2)
	}
	src := os.Args[1]
	outDir := "pages"
	if len(os.Args) == 3 {
		outDir = os.Args[2]
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	runner := command.NewExecRunner()
	renderer := render.NewService(render.Config{
		Renderer:      cfg.Render.Renderer,
		DPI:           cfg.Render.DPI,
		Pdftoppm:      cfg.Render.Pdftoppm,
		HeicConverter: cfg.Render.HeicConverter,
	}, runner, logger)
	corrector := ocr.NewCorrector(ocr.NewTesseractDetector(ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		TessdataDir: cfg.OCR.TessdataDir,
	}, runner, logger), logger)

	start := time.Now()
	pages, err := renderer.Render(ctx, src)
	if err != nil {
		logger.Error("render failed", "path", src, "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		logger.Error("create out dir", "dir", outDir, "error", err)
		os.Exit(1)
	}

	for _, p := range pages {
		upright, angle, err := corrector.Correct(ctx, p)
		if err != nil {
			logger.Error("orientation failed", "page", p.Index, "error", err)
			os.Exit(1)
		}
		img, err := output.SaveTempImage(outDir, p.Index, upright.Image)
		if err != nil {
			logger.Error("save page", "page", p.Index, "error", err)
			os.Exit(1)
		}
		w, h := upright.Size()
		logger.Info("page OK", "page", p.Index, "angle", angle, "width", w, "height", h, "path", img.Path())
	}

	logger.Info("orientation run OK",
		"pages", len(pages),
		"out_dir", outDir,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
