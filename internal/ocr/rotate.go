package ocr

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Rotate turns img counter-clockwise by degrees, expanding the canvas so
// nothing is cropped. Right angles are exact pixel transposes; 0 (mod 360)
// returns img itself. img is never modified.
func Rotate(img image.Image, degrees int) image.Image {
	switch ((degrees % 360) + 360) % 360 {
	case 0:
		return img
	case 90:
		return imaging.Rotate90(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate270(img)
	default:
		return imaging.Rotate(img, float64(degrees), color.White)
	}
}
