package api

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryStrategy controls how a Retry decorator re-executes its inner
// primitive. MaxRetries counts additional attempts after the first, so the
// total number of attempts is MaxRetries+1. For example:
//
//	MaxRetries = 0 => no retries (just the initial call)
//	MaxRetries = 2 => initial call + up to 2 retries
//
// Base is the delay before the first retry. Multiplier grows the delay each
// attempt (default 2.0 if <= 0). Max caps the delay; if <= 0 there is no
// cap. Jitter, when set, randomizes each delay uniformly in [d/2, d].
type RetryStrategy struct {
	MaxRetries int
	Base       time.Duration
	Multiplier float64
	Max        time.Duration
	Jitter     bool
}

// Delay returns the sleep before retry attempt n (1-based: n=1 is the
// delay after the first failure). A non-positive Base means no sleep.
func (s RetryStrategy) Delay(attempt int) time.Duration {
	if s.Base <= 0 || attempt < 1 {
		return 0
	}

	mult := s.Multiplier
	if mult <= 0 {
		mult = 2.0
	}

	d := float64(s.Base) * math.Pow(mult, float64(attempt-1))
	if s.Max > 0 && d > float64(s.Max) {
		d = float64(s.Max)
	}

	out := time.Duration(d)
	if s.Jitter && out > 1 {
		half := out / 2
		out = half + time.Duration(rand.Int63n(int64(half)+1))
	}
	return out
}

// Retry wraps one inner primitive and re-executes it on failure, sleeping
// per the strategy between attempts. Attempts are strictly sequential; each
// backoff sleep blocks only the calling chain, not the whole process. On
// exhaustion, the last failure is returned unmodified, so error-type-based
// handling by callers keeps working.
type Retry struct {
	name     string
	inner    Primitive
	strategy RetryStrategy
}

var _ Primitive = (*Retry)(nil)

// NewRetry decorates inner with the given strategy.
// A negative MaxRetries is normalized to zero.
func NewRetry(inner Primitive, strategy RetryStrategy) (*Retry, error) {
	if inner == nil {
		return nil, newConfigurationError("retry requires an inner primitive")
	}
	if strategy.MaxRetries < 0 {
		strategy.MaxRetries = 0
	}
	return &Retry{
		name:     "retry(" + inner.Name() + ")",
		inner:    inner,
		strategy: strategy,
	}, nil
}

func (r *Retry) Name() string { return r.name }

func (r *Retry) Execute(ctx context.Context, fc *Context, in any) (any, error) {
	obs := ObserverFrom(ctx)
	attempts := r.strategy.MaxRetries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := r.inner.Execute(ctx, fc, in)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if attempt == attempts {
			obs.OnRecovery(ctx, fc, r.name, StateFailedTerminal, lastErr)
			// Exhausted: re-raise the last failure verbatim.
			return nil, lastErr
		}

		obs.OnRecovery(ctx, fc, r.name, StateFailedRecoverable, err)

		if delay := r.strategy.Delay(attempt); delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return nil, lastErr // unreachable
}
