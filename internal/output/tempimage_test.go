package output

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempImageLifecycle(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	tmp, err := SaveTempImage(dir, 3, img)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "card_3.png"), tmp.Path())

	b, err := tmp.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), b[:4])

	require.NoError(t, tmp.Remove())
	_, err = os.Stat(tmp.Path())
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, tmp.Remove())
}
