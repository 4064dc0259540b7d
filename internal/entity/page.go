package entity

import "image"

// PageImage is one rendered page of the source document.
type PageImage struct {
	Index  int // 0-based, stable source order
	Image  image.Image
	Source string
}

// Size returns the pixel dimensions of the page.
func (p PageImage) Size() (width, height int) {
	if p.Image == nil {
		return 0, 0
	}
	b := p.Image.Bounds()
	return b.Dx(), b.Dy()
}
