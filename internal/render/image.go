package render

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/joseph-ayodele/cardscan/internal/entity"
)

// decodeFile loads an image, applying any EXIF orientation tag.
func decodeFile(path string) (image.Image, error) {
	return imaging.Open(path, imaging.AutoOrientation(true))
}

// renderImageFile treats a single photo or scan as a one-page document.
func renderImageFile(path string) ([]entity.PageImage, error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	return []entity.PageImage{{Index: 0, Image: img, Source: path}}, nil
}

// renderHEIC converts a HEIC/HEIF photo to PNG with the configured converter.
func (s *Service) renderHEIC(ctx context.Context, in string) ([]entity.PageImage, error) {
	tmpDir, err := os.MkdirTemp("", "cardscan-heic-*")
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()
	out := filepath.Join(tmpDir, "page.png")

	var errb []byte
	switch s.cfg.HeicConverter {
	case "heif-convert":
		_, errb, err = s.runner.Run(ctx, "heif-convert", s.logger, in, out)
	case "magick":
		_, errb, err = s.runner.Run(ctx, "magick", s.logger, in, out)
	case "sips":
		_, errb, err = s.runner.Run(ctx, "sips", s.logger, "-s", "format", "png", in, "--out", out)
	default:
		return nil, fmt.Errorf("HEIC not supported: set HEIC_CONVERTER to one of: heif-convert | magick | sips")
	}
	if err != nil {
		return nil, fmt.Errorf("%s convert failed: %w: %s", s.cfg.HeicConverter, err, string(errb))
	}
	if _, statErr := os.Stat(out); statErr != nil {
		return nil, fmt.Errorf("HEIC conversion produced no output: %w", statErr)
	}

	img, err := decodeFile(out)
	if err != nil {
		return nil, err
	}
	return []entity.PageImage{{Index: 0, Image: img, Source: in}}, nil
}
