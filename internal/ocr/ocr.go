// Package ocr detects and corrects page orientation with the tesseract OSD facility.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/joseph-ayodele/cardscan/internal/command"
)

type Config struct {
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	TessdataDir string
}

// Detector returns the free-form orientation report for an image.
type Detector interface {
	DetectOrientation(ctx context.Context, img image.Image) (string, error)
}

// TesseractDetector runs `tesseract <png> <base> --psm 0` and returns the OSD report.
type TesseractDetector struct {
	cfg    Config
	runner command.Runner
	logger *slog.Logger
}

func NewTesseractDetector(cfg Config, runner command.Runner, logger *slog.Logger) *TesseractDetector {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if runner == nil {
		runner = command.NewExecRunner()
	}
	return &TesseractDetector{cfg: cfg, runner: runner, logger: logger}
}

func (d *TesseractDetector) DetectOrientation(ctx context.Context, img image.Image) (string, error) {
	start := time.Now()
	tmpDir, err := os.MkdirTemp("", "cardscan-osd-*")
	if err != nil {
		return "", fmt.Errorf("osd temp dir: %w", err)
	}
	defer func(path string) {
		if err := os.RemoveAll(path); err != nil {
			d.logger.Warn("ocr.osd.cleanup_failed", "dir", path, "error", err)
		}
	}(tmpDir)

	in := filepath.Join(tmpDir, "page.png")
	if err := imaging.Save(img, in); err != nil {
		return "", fmt.Errorf("osd write input: %w", err)
	}
	base := filepath.Join(tmpDir, "osd")

	args := []string{in, base, "--psm", "0"}
	if d.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", d.cfg.TessdataDir)
	}
	stdout, stderr, err := d.runner.Run(ctx, d.cfg.Tesseract, d.logger, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract osd: %w: %s", err, command.Truncate(string(stderr), 512))
	}

	// tesseract writes the report to <base>.osd; some builds print it instead.
	report, err := os.ReadFile(base + ".osd")
	if errors.Is(err, fs.ErrNotExist) {
		report = stdout
	} else if err != nil {
		return "", fmt.Errorf("read osd report: %w", err)
	}
	d.logger.Debug("ocr.osd.ok", "bytes", len(report), "elapsed_ms", time.Since(start).Milliseconds())
	return string(report), nil
}
