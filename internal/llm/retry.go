package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/cardscan/internal/common"
)

const (
	DefaultMaxAttempts = 10
	DefaultRetryWait   = 10 * time.Second
)

// retryState is the state of one RetryController call.
type retryState int

const (
	stateAttempting retryState = iota
	stateSuccess
	stateTransientFailure
	stateFatal
)

func (s retryState) String() string {
	switch s {
	case stateAttempting:
		return "attempting"
	case stateSuccess:
		return "success"
	case stateTransientFailure:
		return "transient_failure"
	default:
		return "fatal"
	}
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// WaitObserver is told about every wait before it starts.
type WaitObserver func(attempt, maxAttempts int, wait time.Duration)

// RetryController decorates a FieldExtractor with a bounded retry on
// capacity exhaustion. Any other error ends the call immediately.
type RetryController struct {
	next        FieldExtractor
	maxAttempts int
	wait        time.Duration
	sleep       Sleeper
	onWait      WaitObserver
	logger      *slog.Logger
}

type RetryOption func(*RetryController)

func WithMaxAttempts(n int) RetryOption {
	return func(r *RetryController) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

func WithRetryWait(d time.Duration) RetryOption {
	return func(r *RetryController) {
		if d >= 0 {
			r.wait = d
		}
	}
}

func WithSleeper(s Sleeper) RetryOption {
	return func(r *RetryController) {
		if s != nil {
			r.sleep = s
		}
	}
}

func WithWaitObserver(o WaitObserver) RetryOption {
	return func(r *RetryController) {
		r.onWait = o
	}
}

func NewRetryController(next FieldExtractor, logger *slog.Logger, opts ...RetryOption) *RetryController {
	if logger == nil {
		logger = slog.Default()
	}
	r := &RetryController{
		next:        next,
		maxAttempts: DefaultMaxAttempts,
		wait:        DefaultRetryWait,
		sleep:       SleepContext,
		logger:      logger,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ExtractFields implements FieldExtractor.
func (r *RetryController) ExtractFields(ctx context.Context, req ExtractRequest) (ContactFields, []byte, error) {
	var (
		state   = stateAttempting
		attempt = 1
		fields  ContactFields
		raw     []byte
		lastErr error
	)
	for {
		switch state {
		case stateAttempting:
			fields, raw, lastErr = r.next.ExtractFields(ctx, req)
			state = classify(lastErr)
			if state != stateSuccess {
				r.logger.Debug("llm.retry.transition",
					"page", req.PageIndex, "attempt", attempt, "state", state.String())
			}

		case stateTransientFailure:
			if attempt >= r.maxAttempts {
				r.logger.Error("llm.retry.exhausted",
					"page", req.PageIndex, "attempts", attempt, "error", lastErr)
				return ContactFields{}, raw, common.RetryExhaustedError(attempt, lastErr)
			}
			r.logger.Warn("llm.retry.capacity_exhausted",
				"page", req.PageIndex,
				"attempt", attempt,
				"max_attempts", r.maxAttempts,
				"wait_ms", r.wait.Milliseconds(),
			)
			if r.onWait != nil {
				r.onWait(attempt, r.maxAttempts, r.wait)
			}
			if err := r.sleep(ctx, r.wait); err != nil {
				return ContactFields{}, raw, err
			}
			attempt++
			state = stateAttempting

		case stateSuccess:
			if attempt > 1 {
				r.logger.Info("llm.retry.recovered", "page", req.PageIndex, "attempts", attempt)
			}
			return fields, raw, nil

		case stateFatal:
			return ContactFields{}, raw, lastErr
		}
	}
}

func classify(err error) retryState {
	switch {
	case err == nil:
		return stateSuccess
	case errors.Is(err, common.ErrCapacityExhausted):
		return stateTransientFailure
	default:
		return stateFatal
	}
}

// SleepContext waits for d unless ctx ends first.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
