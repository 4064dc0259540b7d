package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/joseph-ayodele/cardscan/internal/command"
	"github.com/joseph-ayodele/cardscan/internal/entity"
)

// PdftoppmRenderer shells out to poppler's pdftoppm.
type PdftoppmRenderer struct {
	bin    string
	dpi    int
	runner command.Runner
	logger *slog.Logger
}

func NewPdftoppmRenderer(bin string, dpi int, runner command.Runner, logger *slog.Logger) *PdftoppmRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &PdftoppmRenderer{bin: bin, dpi: dpi, runner: runner, logger: logger}
}

func (r *PdftoppmRenderer) RenderPDF(ctx context.Context, path string) ([]entity.PageImage, error) {
	tmpDir, err := os.MkdirTemp("", "cardscan-pp-*")
	if err != nil {
		return nil, err
	}
	defer func(dir string) {
		if err := os.RemoveAll(dir); err != nil {
			r.logger.Warn("render.pdftoppm.cleanup_failed", "dir", dir, "error", err)
		}
	}(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 200 -png <in.pdf> <tmp/page>
	_, errb, err := r.runner.Run(ctx, r.bin, r.logger, "-r", strconv.Itoa(r.dpi), "-png", path, prefix)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm: %w: %s", err, command.Truncate(string(errb), 512))
	}

	// page-1.png ... page-N.png, zero-padded to the width of N, so a
	// lexical sort is page order.
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no images")
	}

	pages := make([]entity.PageImage, 0, len(matches))
	for i, m := range matches {
		img, err := decodeFile(m)
		if err != nil {
			return nil, fmt.Errorf("decode page %d: %w", i+1, err)
		}
		pages = append(pages, entity.PageImage{Index: i, Image: img, Source: path})
	}
	return pages, nil
}
