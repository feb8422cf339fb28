package api

import (
	"context"
	"time"
)

// Context state keys written by Timeout decorators in tracking mode.
// When tracking is disabled these keys are never written at all.
const (
	// TimeoutHistoryKey holds a []any of TimeoutRecord values, one per
	// deadline hit, in occurrence order.
	TimeoutHistoryKey = "weft.timeouts"

	// TimeoutCountKey holds an int counter of deadline hits.
	TimeoutCountKey = "weft.timeout_count"
)

// TimeoutRecord is appended to Context state under TimeoutHistoryKey each
// time a tracking Timeout's deadline wins.
type TimeoutRecord struct {
	Primitive   string
	Limit       time.Duration
	HadFallback bool
}

// Timeout wraps one inner primitive and races it against a deadline. If the
// deadline wins and a fallback is configured, the fallback runs with the
// identical input and Context and its result is returned; otherwise a
// TimeoutError carrying the configured limit is returned.
//
// Cancellation of the losing task is best-effort: the inner primitive
// receives a derived context that is cancelled when the deadline wins, but
// an inner that ignores its context keeps running to completion in the
// background. Callers get the timeout result either way.
type Timeout struct {
	name     string
	inner    Primitive
	limit    time.Duration
	fallback Primitive
	track    bool
}

var _ Primitive = (*Timeout)(nil)

// NewTimeout decorates inner with a deadline.
func NewTimeout(inner Primitive, limit time.Duration) (*Timeout, error) {
	if inner == nil {
		return nil, newConfigurationError("timeout requires an inner primitive")
	}
	if limit <= 0 {
		return nil, newConfigurationError("timeout limit must be positive, got %s", limit)
	}
	return &Timeout{
		name:  "timeout(" + inner.Name() + ")",
		inner: inner,
		limit: limit,
	}, nil
}

// WithFallback configures a primitive to run when the deadline wins.
// Intended for construction-time chaining only.
func (t *Timeout) WithFallback(fallback Primitive) *Timeout {
	t.fallback = fallback
	return t
}

// WithTracking makes the decorator record every deadline hit into the
// execution context (TimeoutHistoryKey, TimeoutCountKey).
func (t *Timeout) WithTracking() *Timeout {
	t.track = true
	return t
}

func (t *Timeout) Name() string { return t.name }

func (t *Timeout) Execute(ctx context.Context, fc *Context, in any) (any, error) {
	innerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		out any
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := t.inner.Execute(innerCtx, fc, in)
		done <- result{out: out, err: err}
	}()

	timer := time.NewTimer(t.limit)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.out, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	// Deadline won. Cancel the inner task (best-effort) and recover.
	cancel()

	if t.track {
		fc.Append(TimeoutHistoryKey, TimeoutRecord{
			Primitive:   t.inner.Name(),
			Limit:       t.limit,
			HadFallback: t.fallback != nil,
		})
		fc.AddCounter(TimeoutCountKey, 1)
	}

	obs := ObserverFrom(ctx)
	terr := &TimeoutError{Primitive: t.inner.Name(), Limit: t.limit}

	if t.fallback != nil {
		obs.OnRecovery(ctx, fc, t.name, StateFailedRecoverable, terr)
		return t.fallback.Execute(ctx, fc, in)
	}

	obs.OnRecovery(ctx, fc, t.name, StateFailedTerminal, terr)
	return nil, terr
}
