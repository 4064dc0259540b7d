package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/cardscan/constants"
	"github.com/joseph-ayodele/cardscan/internal/common"
	"github.com/joseph-ayodele/cardscan/internal/contact"
	"github.com/joseph-ayodele/cardscan/internal/entity"
	"github.com/joseph-ayodele/cardscan/internal/llm"
	"github.com/joseph-ayodele/cardscan/internal/output"
	"github.com/joseph-ayodele/cardscan/internal/vcard"
)

type fakeRenderer struct {
	pages int
	err   error
}

func (f fakeRenderer) Render(_ context.Context, _ string) ([]entity.PageImage, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]entity.PageImage, f.pages)
	for i := range out {
		out[i] = entity.PageImage{Index: i, Image: image.NewRGBA(image.Rect(0, 0, 8, 4))}
	}
	return out, nil
}

type uprightOrienter struct{}

func (uprightOrienter) Correct(_ context.Context, page entity.PageImage) (entity.PageImage, int, error) {
	return page, 0, nil
}

// listingExtractor answers page i with names[i] and records which temp
// images existed while it ran.
type listingExtractor struct {
	dir    string
	names  []string
	failAt int
	err    error

	seen []string
}

func (x *listingExtractor) ExtractFields(ctx context.Context, req llm.ExtractRequest) (llm.ContactFields, []byte, error) {
	matches, _ := filepath.Glob(filepath.Join(x.dir, "card_*.png"))
	x.seen = append(x.seen, strings.Join(matches, ","))
	if common.PageIndexFromContext(ctx) != req.PageIndex {
		return llm.ContactFields{}, nil, errors.New("page index not propagated")
	}
	if x.err != nil && req.PageIndex == x.failAt {
		return llm.ContactFields{}, nil, x.err
	}
	f := llm.ContactFields{Name: x.names[req.PageIndex], Email: fmt.Sprintf("p%d@example.com", req.PageIndex)}
	return f.WithDefaults(), nil, nil
}

type recordingObserver struct {
	mu      sync.Mutex
	started int
	stages  []string
	written int
	err     error
}

func (o *recordingObserver) RunStarted(pages int) { o.started = pages }
func (o *recordingObserver) PageStage(i int, s constants.PageStage) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stages = append(o.stages, fmt.Sprintf("%d:%s", i, s))
}
func (o *recordingObserver) RunFinished(written int, err error) { o.written, o.err = written, err }

func newProcessor(r Renderer, x llm.FieldExtractor, obs Observer) *Processor {
	return NewProcessor(nil, r, uprightOrienter{}, x, contact.NewAssembler(nil), vcard.NewSerializer(), obs)
}

func TestProcessWritesOneBlockPerPageInOrder(t *testing.T) {
	dir := t.TempDir()
	x := &listingExtractor{dir: dir, names: []string{"大西 諒", "藤本 淳史", "鈴木 直樹"}}
	obs := &recordingObserver{}

	sum, err := newProcessor(fakeRenderer{pages: 3}, x, obs).Process(context.Background(), "cards.pdf", Options{
		OutputDir: dir,
		Policy:    output.PolicyAbort,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Pages)
	assert.Equal(t, 3, sum.Written)
	assert.NotEmpty(t, sum.RunID)
	assert.Equal(t, filepath.Join(dir, "contacts.vcf"), sum.OutputPath)

	contacts, err := vcard.ReadFile(sum.OutputPath)
	require.NoError(t, err)
	require.Len(t, contacts, 3)
	for i, c := range contacts {
		assert.Equal(t, x.names[i], c.Name)
		assert.Equal(t, fmt.Sprintf("p%d@example.com", i), c.Email)
		assert.True(t, c.HasPhoto)
	}

	// only the current page's image exists while it is being extracted
	for i, s := range x.seen {
		assert.Equal(t, filepath.Join(dir, fmt.Sprintf("card_%d.png", i)), s)
	}
	leftovers, _ := filepath.Glob(filepath.Join(dir, "card_*.png"))
	assert.Empty(t, leftovers)

	assert.Equal(t, 3, obs.started)
	assert.Equal(t, 3, obs.written)
	assert.NoError(t, obs.err)
	assert.Equal(t, []string{"0:RENDERED", "0:ORIENTED", "0:EXTRACTED", "0:WRITTEN"}, obs.stages[:4])
}

func TestProcessAbortsOnFailingPage(t *testing.T) {
	dir := t.TempDir()
	x := &listingExtractor{
		dir:    dir,
		names:  []string{"a b", "c d", "e f"},
		failAt: 1,
		err:    common.ExtractionError("no JSON object in response", nil),
	}
	obs := &recordingObserver{}

	sum, err := newProcessor(fakeRenderer{pages: 3}, x, obs).Process(context.Background(), "cards.pdf", Options{
		OutputDir: dir,
		Policy:    output.PolicyAbort,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtraction))
	assert.Contains(t, err.Error(), "page 1")
	assert.Equal(t, 1, sum.Written)
	assert.Len(t, x.seen, 2, "page 2 must not be attempted")

	contacts, rerr := vcard.ReadFile(filepath.Join(dir, "contacts.vcf"))
	require.NoError(t, rerr)
	require.Len(t, contacts, 1)
	assert.Equal(t, "a b", contacts[0].Name)

	leftovers, _ := filepath.Glob(filepath.Join(dir, "card_*.png"))
	assert.Empty(t, leftovers, "temp image removed on abort")
	assert.Contains(t, obs.stages, "1:FAILED")
	assert.Error(t, obs.err)
}

func TestProcessRenderFailureLeavesOutputUntouched(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	_, err := newProcessor(fakeRenderer{err: common.RenderError("open pdf", errors.New("boom"))}, &listingExtractor{}, nil).
		Process(context.Background(), "broken.pdf", Options{OutputDir: dir, Policy: output.PolicyOverwrite})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRender))

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestProcessRecoversFromCapacityExhaustion(t *testing.T) {
	dir := t.TempDir()
	inner := &listingExtractor{dir: dir, names: []string{"大西 諒"}}
	flaky := &flakyExtractor{next: inner, failures: 3}
	var waits []time.Duration
	retry := llm.NewRetryController(flaky, nil,
		llm.WithSleeper(func(_ context.Context, d time.Duration) error {
			waits = append(waits, d)
			return nil
		}),
	)

	sum, err := newProcessor(fakeRenderer{pages: 1}, retry, nil).Process(context.Background(), "card.pdf", Options{
		OutputDir: dir,
		Policy:    output.PolicyAbort,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Written)
	assert.Equal(t, 4, flaky.calls)
	assert.Len(t, waits, 3)
}

type flakyExtractor struct {
	next     llm.FieldExtractor
	failures int
	calls    int
}

func (f *flakyExtractor) ExtractFields(ctx context.Context, req llm.ExtractRequest) (llm.ContactFields, []byte, error) {
	f.calls++
	if f.calls <= f.failures {
		return llm.ContactFields{}, nil, common.CapacityExhaustedError("Resource has been exhausted", nil)
	}
	return f.next.ExtractFields(ctx, req)
}
