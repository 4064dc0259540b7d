package output

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/joseph-ayodele/cardscan/constants"
	"github.com/joseph-ayodele/cardscan/internal/common"
)

// TempImage is a page image persisted for the lifetime of one page.
type TempImage struct {
	path    string
	removed bool
}

// SaveTempImage writes img as dir/card_{index}.png.
func SaveTempImage(dir string, index int, img image.Image) (*TempImage, error) {
	path := filepath.Join(dir, fmt.Sprintf(constants.TempImagePattern, index))
	if err := imaging.Save(img, path); err != nil {
		return nil, common.IOError("save page image", err)
	}
	return &TempImage{path: path}, nil
}

func (t *TempImage) Path() string { return t.path }

func (t *TempImage) Bytes() ([]byte, error) {
	b, err := os.ReadFile(t.path)
	if err != nil {
		return nil, common.IOError("read page image", err)
	}
	return b, nil
}

// Remove deletes the file; repeated calls and an already missing file are not errors.
func (t *TempImage) Remove() error {
	if t == nil || t.removed {
		return nil
	}
	t.removed = true
	if err := os.Remove(t.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return common.IOError("remove page image", err)
	}
	return nil
}
