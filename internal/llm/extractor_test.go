package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/cardscan/internal/common"
)

type fakeGenerator struct {
	text   string
	err    error
	prompt string
	mime   string
	calls  int
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, _ []byte, mimeType string) (string, error) {
	f.calls++
	f.prompt = prompt
	f.mime = mimeType
	return f.text, f.err
}

func (f *fakeGenerator) Name() string { return "fake" }

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestExtractorParsesModelReply(t *testing.T) {
	gen := &fakeGenerator{text: "Here is the data:\n```json\n" + `{
  "name": "大西 諒",
  "reading": "おおにし りょう",
  "email": "ry0024@g.ecc.u-tokyo.ac.jpb",
  "company": "東京大学",
  "title": "教養学部(前期課程)",
  "postal_code": "〒153-8902",
  "address": "東京都目黒区駒場3-8-1",
  "phone": "03-5454-6014",
  "social_links": []
}` + "\n```"}
	ex := NewExtractor(gen, ExtractorConfig{}, nil)

	fields, raw, err := ex.ExtractFields(context.Background(), ExtractRequest{Image: pngMagic})
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.Equal(t, "大西 諒", fields.Name)
	assert.Equal(t, "おおにし りょう", fields.Reading)
	assert.Equal(t, "〒153-8902", fields.PostalCode)
	assert.NotNil(t, fields.SocialLinks)
	assert.Empty(t, fields.SocialLinks)
	assert.Equal(t, "image/png", gen.mime)
	assert.Contains(t, gen.prompt, "social_links")
}

func TestExtractorDefaultsMissingFields(t *testing.T) {
	gen := &fakeGenerator{text: `{"name": "Jane Doe"}`}
	ex := NewExtractor(gen, ExtractorConfig{ScanMode: ScanWidest}, nil)

	fields, _, err := ex.ExtractFields(context.Background(), ExtractRequest{Image: pngMagic, MIMEType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, ContactFields{Name: "Jane Doe", SocialLinks: []string{}}, fields)
}

func TestExtractorNoJSONIsExtractionError(t *testing.T) {
	gen := &fakeGenerator{text: "Sorry, I cannot read this card."}
	ex := NewExtractor(gen, ExtractorConfig{}, nil)

	_, raw, err := ex.ExtractFields(context.Background(), ExtractRequest{Image: pngMagic})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrExtraction)
	assert.Equal(t, "Sorry, I cannot read this card.", string(raw))
}

func TestExtractorInvalidTopLevelObjectIsExtractionError(t *testing.T) {
	gen := &fakeGenerator{text: `{"name": "大西 諒", "meta": {"conf": 1}, "email": "x@y" note}`}
	ex := NewExtractor(gen, ExtractorConfig{}, nil)

	fields, _, err := ex.ExtractFields(context.Background(), ExtractRequest{Image: pngMagic})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrExtraction)
	assert.Equal(t, ContactFields{}, fields)
}

func TestExtractorPassesCapacityErrorThrough(t *testing.T) {
	gen := &fakeGenerator{err: common.CapacityExhaustedError("Resource has been exhausted", nil)}
	ex := NewExtractor(gen, ExtractorConfig{}, nil)

	_, _, err := ex.ExtractFields(context.Background(), ExtractRequest{Image: pngMagic})
	assert.ErrorIs(t, err, common.ErrCapacityExhausted)
	assert.NotErrorIs(t, err, common.ErrExtraction)
}

func TestExtractorWrapsOtherServiceErrors(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("API key not valid")}
	ex := NewExtractor(gen, ExtractorConfig{}, nil)

	_, _, err := ex.ExtractFields(context.Background(), ExtractRequest{Image: pngMagic})
	assert.ErrorIs(t, err, common.ErrExtraction)
}

func TestBuildPromptLanguages(t *testing.T) {
	assert.Contains(t, BuildPrompt("en"), "If any item is not found, please use an empty string.")
	assert.Contains(t, BuildPrompt("ja"), "見つからない項目は空文字列としてください。")
	assert.Equal(t, BuildPrompt("en"), BuildPrompt("fr"))
}

func TestExtractorLogsCarryRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ex := NewExtractor(&fakeGenerator{text: `{"name": "Jane Doe"}`}, ExtractorConfig{}, logger)

	ctx := common.WithRunID(context.Background(), "run-42")
	_, _, err := ex.ExtractFields(ctx, ExtractRequest{Image: pngMagic})
	require.NoError(t, err)

	var reqID string
	msgs := 0
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		if !strings.HasPrefix(rec["msg"].(string), "llm.extract.") {
			continue
		}
		msgs++
		assert.Equal(t, "run-42", rec["run_id"], "record %s", line)
		id, _ := rec["req_id"].(string)
		assert.NotEmpty(t, id)
		if reqID == "" {
			reqID = id
		}
		assert.Equal(t, reqID, id)
	}
	assert.GreaterOrEqual(t, msgs, 2)
}
