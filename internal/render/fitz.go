package render

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gen2brain/go-fitz"

	"github.com/joseph-ayodele/cardscan/internal/entity"
)

// FitzRenderer rasterizes PDFs in-process with MuPDF.
type FitzRenderer struct {
	dpi    int
	logger *slog.Logger
}

func NewFitzRenderer(dpi int, logger *slog.Logger) *FitzRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &FitzRenderer{dpi: dpi, logger: logger}
}

func (r *FitzRenderer) RenderPDF(ctx context.Context, path string) ([]entity.PageImage, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		if err := doc.Close(); err != nil {
			r.logger.Warn("render.fitz.close_failed", "path", path, "error", err)
		}
	}()

	n := doc.NumPage()
	pages := make([]entity.PageImage, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.ImageDPI(i, float64(r.dpi))
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", i+1, err)
		}
		pages = append(pages, entity.PageImage{Index: i, Image: img, Source: path})
	}
	return pages, nil
}
