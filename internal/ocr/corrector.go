package ocr

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/cardscan/internal/entity"
)

// Corrector rotates pages upright using a Detector's report.
type Corrector struct {
	detector Detector
	logger   *slog.Logger
}

func NewCorrector(detector Detector, logger *slog.Logger) *Corrector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Corrector{detector: detector, logger: logger}
}

// Correct returns the upright page and the angle that was applied. When the
// detector fails or reports no angle the page is returned unchanged.
func (c *Corrector) Correct(ctx context.Context, page entity.PageImage) (entity.PageImage, int, error) {
	if err := ctx.Err(); err != nil {
		return page, 0, err
	}
	report, err := c.detector.DetectOrientation(ctx, page.Image)
	if err != nil {
		if ctx.Err() != nil {
			return page, 0, ctx.Err()
		}
		c.logger.Warn("ocr.orientation.detect_failed", "page", page.Index, "error", err)
		return page, 0, nil
	}

	angle, ok := ParseOrientation(report)
	if !ok {
		c.logger.Warn("ocr.orientation.no_angle", "page", page.Index)
		return page, 0, nil
	}
	c.logger.Info("ocr.orientation.detected", "page", page.Index, "degrees", angle)
	if angle == 0 {
		return page, 0, nil
	}

	out := page
	out.Image = Rotate(page.Image, angle)
	return out, angle, nil
}
