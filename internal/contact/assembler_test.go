package contact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/cardscan/internal/common"
	"github.com/joseph-ayodele/cardscan/internal/llm"
)

func TestAssembleSegmentsAndEmbedsPhoto(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "card_0.png")
	require.NoError(t, os.WriteFile(img, []byte("png-bytes"), 0o600))

	rec, err := NewAssembler(nil).Assemble(llm.ContactFields{
		Name:        "大西 諒",
		Reading:     "おおにしりょう",
		Email:       "ry0024@g.ecc.u-tokyo.ac.jpb",
		SocialLinks: []string{"https://a.example"},
	}, img)
	require.NoError(t, err)

	assert.Equal(t, "大西", rec.FamilyName)
	assert.Equal(t, "諒", rec.GivenName)
	assert.Equal(t, "おおに", rec.FamilyReading)
	assert.Equal(t, "しりょう", rec.GivenReading)
	assert.Equal(t, "ry0024@g.ecc.u-tokyo.ac.jpb", rec.Email)
	assert.Equal(t, []string{"https://a.example"}, rec.SocialLinks)
	assert.Equal(t, []byte("png-bytes"), rec.Photo)
}

func TestAssembleDefaultsAndMissingPhoto(t *testing.T) {
	rec, err := NewAssembler(nil).Assemble(llm.ContactFields{}, filepath.Join(t.TempDir(), "gone.png"))
	require.NoError(t, err)

	assert.NotNil(t, rec.SocialLinks)
	assert.Empty(t, rec.SocialLinks)
	assert.False(t, rec.HasPhoto())
	assert.Equal(t, "", rec.FamilyName)
	assert.Equal(t, "", rec.GivenName)
}

func TestAssembleUnreadablePhotoIsIOError(t *testing.T) {
	dir := t.TempDir()
	// a directory cannot be read as a file
	_, err := NewAssembler(nil).Assemble(llm.ContactFields{Name: "a b"}, dir)
	assert.ErrorIs(t, err, common.ErrIO)
}
