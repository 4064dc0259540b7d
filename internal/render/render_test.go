package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/cardscan/internal/common"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, imaging.Save(image.NewNRGBA(image.Rect(0, 0, w, h)), path))
}

// pageRunner fakes pdftoppm / HEIC converters by writing PNGs where the real tool would.
type pageRunner struct {
	pages int
	err   error
	calls []string
}

func (r *pageRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	r.calls = append(r.calls, name)
	if r.err != nil {
		return nil, []byte("syntax error"), r.err
	}
	switch name {
	case "pdftoppm":
		prefix := args[len(args)-1]
		for i := 1; i <= r.pages; i++ {
			if err := imaging.Save(image.NewNRGBA(image.Rect(0, 0, 10+i, 5)), fmt.Sprintf("%s-%02d.png", prefix, i)); err != nil {
				return nil, nil, err
			}
		}
	default:
		out := args[len(args)-1]
		if err := imaging.Save(image.NewNRGBA(image.Rect(0, 0, 8, 4)), out); err != nil {
			return nil, nil, err
		}
	}
	return nil, nil, nil
}

func TestRenderImageInputIsOnePage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.png")
	writePNG(t, path, 12, 7)

	pages, err := NewService(Config{}, &pageRunner{}, nil).Render(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 0, pages[0].Index)
	w, h := pages[0].Size()
	assert.Equal(t, 12, w)
	assert.Equal(t, 7, h)
}

func TestRenderPdftoppmKeepsPageOrder(t *testing.T) {
	pdf := filepath.Join(t.TempDir(), "cards.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0o600))
	runner := &pageRunner{pages: 12}

	pages, err := NewService(Config{Renderer: common.RendererPdftoppm}, runner, nil).Render(context.Background(), pdf)
	require.NoError(t, err)
	require.Len(t, pages, 12)
	for i, p := range pages {
		assert.Equal(t, i, p.Index)
		w, _ := p.Size()
		assert.Equal(t, 11+i, w, "page %d out of order", i)
	}
	assert.Equal(t, []string{"pdftoppm"}, runner.calls)
}

func TestRenderHEICUsesConverter(t *testing.T) {
	heic := filepath.Join(t.TempDir(), "card.HEIC")
	require.NoError(t, os.WriteFile(heic, []byte("heic"), 0o600))
	runner := &pageRunner{}

	pages, err := NewService(Config{HeicConverter: "sips"}, runner, nil).Render(context.Background(), heic)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, []string{"sips"}, runner.calls)
}

func TestRenderErrorsAreRenderErrors(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o600))
	pdf := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("x"), 0o600))

	svc := NewService(Config{Renderer: common.RendererPdftoppm}, &pageRunner{err: errors.New("exit status 1")}, nil)
	for _, path := range []string{filepath.Join(dir, "missing.pdf"), txt, pdf, dir} {
		_, err := svc.Render(context.Background(), path)
		assert.ErrorIs(t, err, common.ErrRender, path)
	}
}
