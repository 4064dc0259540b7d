package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/cardscan/internal/common"
)

// scriptedExtractor fails with the queued errors, then succeeds.
type scriptedExtractor struct {
	errs  []error
	calls int
}

func (s *scriptedExtractor) ExtractFields(context.Context, ExtractRequest) (ContactFields, []byte, error) {
	s.calls++
	if s.calls <= len(s.errs) {
		return ContactFields{}, nil, s.errs[s.calls-1]
	}
	return ContactFields{Name: "ok", SocialLinks: []string{}}, []byte(`{}`), nil
}

func capacityErrs(n int) []error {
	out := make([]error, n)
	for i := range out {
		out[i] = common.CapacityExhaustedError("Resource has been exhausted (e.g. check quota).", nil)
	}
	return out
}

type recordingSleeper struct {
	waits []time.Duration
}

func (r *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func TestRetryRecoversAfterTransientFailures(t *testing.T) {
	for _, k := range []int{0, 1, 5, 9} {
		inner := &scriptedExtractor{errs: capacityErrs(k)}
		sl := &recordingSleeper{}
		var observed []int
		rc := NewRetryController(inner, nil,
			WithSleeper(sl.sleep),
			WithWaitObserver(func(attempt, max int, wait time.Duration) {
				observed = append(observed, attempt)
				assert.Equal(t, 10, max)
				assert.Equal(t, 10*time.Second, wait)
			}),
		)

		fields, _, err := rc.ExtractFields(context.Background(), ExtractRequest{})
		require.NoError(t, err, "k=%d", k)
		assert.Equal(t, "ok", fields.Name)
		assert.Equal(t, k+1, inner.calls)
		assert.Len(t, sl.waits, k)
		assert.Len(t, observed, k)
	}
}

func TestRetryExhaustedAfterTenFailures(t *testing.T) {
	inner := &scriptedExtractor{errs: capacityErrs(20)}
	sl := &recordingSleeper{}
	rc := NewRetryController(inner, nil, WithSleeper(sl.sleep))

	_, _, err := rc.ExtractFields(context.Background(), ExtractRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRetryExhausted)
	assert.Equal(t, common.CodeRetryExhausted, common.ErrorCode(err))
	assert.Equal(t, 10, inner.calls)
	assert.Len(t, sl.waits, 9)
}

func TestRetryPropagatesOtherErrorsImmediately(t *testing.T) {
	boom := common.ExtractionError("no json", errors.New("boom"))
	inner := &scriptedExtractor{errs: []error{boom}}
	sl := &recordingSleeper{}
	rc := NewRetryController(inner, nil, WithSleeper(sl.sleep))

	_, _, err := rc.ExtractFields(context.Background(), ExtractRequest{})
	assert.ErrorIs(t, err, common.ErrExtraction)
	assert.Equal(t, 1, inner.calls)
	assert.Empty(t, sl.waits)
}

func TestRetryHonorsOptions(t *testing.T) {
	inner := &scriptedExtractor{errs: capacityErrs(5)}
	sl := &recordingSleeper{}
	rc := NewRetryController(inner, nil,
		WithSleeper(sl.sleep),
		WithMaxAttempts(3),
		WithRetryWait(time.Millisecond),
	)

	_, _, err := rc.ExtractFields(context.Background(), ExtractRequest{})
	assert.ErrorIs(t, err, common.ErrRetryExhausted)
	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, []time.Duration{time.Millisecond, time.Millisecond}, sl.waits)
}

func TestRetryStopsWhenContextCancelled(t *testing.T) {
	inner := &scriptedExtractor{errs: capacityErrs(3)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rc := NewRetryController(inner, nil, WithRetryWait(time.Hour))

	_, _, err := rc.ExtractFields(ctx, ExtractRequest{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, inner.calls)
}
