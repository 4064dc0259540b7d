// Package render turns a source document into an ordered list of page images.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/cardscan/constants"
	"github.com/joseph-ayodele/cardscan/internal/command"
	"github.com/joseph-ayodele/cardscan/internal/common"
	"github.com/joseph-ayodele/cardscan/internal/entity"
)

type Config struct {
	Renderer      string // "fitz" (default) or "pdftoppm"
	DPI           int    // default 200
	Pdftoppm      string // binary name or absolute path; if empty -> "pdftoppm"
	HeicConverter string // "heif-convert" | "magick" | "sips"
}

// PDFRenderer renders every page of a PDF, in page order.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, path string) ([]entity.PageImage, error)
}

// Service picks a strategy based on file extension.
type Service struct {
	cfg    Config
	pdf    PDFRenderer
	runner command.Runner
	logger *slog.Logger
}

func NewService(cfg Config, runner command.Runner, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 200
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.HeicConverter == "" {
		cfg.HeicConverter = "magick"
	}
	if runner == nil {
		runner = command.NewExecRunner()
	}

	var pdf PDFRenderer
	switch cfg.Renderer {
	case common.RendererPdftoppm:
		pdf = NewPdftoppmRenderer(cfg.Pdftoppm, cfg.DPI, runner, logger)
	default:
		pdf = NewFitzRenderer(cfg.DPI, logger)
	}
	return &Service{cfg: cfg, pdf: pdf, runner: runner, logger: logger}
}

// Render returns one PageImage per source page. Every failure is a RenderError.
func (s *Service) Render(ctx context.Context, path string) ([]entity.PageImage, error) {
	start := time.Now()
	st, err := os.Stat(path)
	if err != nil {
		return nil, common.RenderError("open source document", err)
	}
	if st.IsDir() {
		return nil, common.RenderError("source is a directory", fmt.Errorf("%s", path))
	}

	ext := filepath.Ext(path)
	var pages []entity.PageImage
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		pages, err = s.pdf.RenderPDF(ctx, path)
	case constants.IMAGE:
		pages, err = renderImageFile(path)
	case constants.HEIC:
		pages, err = s.renderHEIC(ctx, path)
	default:
		err = fmt.Errorf("unsupported extension %q", constants.NormalizeExt(ext))
	}
	if err != nil {
		s.logger.Error("render.failed", "path", path, "error", err)
		return nil, common.RenderError("render "+filepath.Base(path), err)
	}
	if len(pages) == 0 {
		return nil, common.RenderError("document has no pages", fmt.Errorf("%s", path))
	}

	s.logger.Info("render.ok",
		"path", path,
		"pages", len(pages),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return pages, nil
}
