package api

import (
	"context"
	"time"
)

// instrumented wraps a primitive with observer callbacks. Input/output
// behavior is identical to the inner primitive's.
type instrumented struct {
	inner Primitive
	obs   Observer
}

var _ Primitive = (*instrumented)(nil)

// Instrument returns a primitive with identical behavior to p that
// additionally reports execution start/end to obs and installs obs into the
// context so that recovery decorators inside p can report transitions.
//
// Instrumenting with a nil or no-op observer returns p unchanged.
func Instrument(p Primitive, obs Observer) Primitive {
	if p == nil {
		panic("weft: Instrument requires a non-nil primitive")
	}
	if obs == nil {
		return p
	}
	if _, noop := obs.(NoopObserver); noop {
		return p
	}
	return &instrumented{inner: p, obs: obs}
}

func (w *instrumented) Name() string { return w.inner.Name() }

func (w *instrumented) Execute(ctx context.Context, fc *Context, in any) (any, error) {
	ctx = ContextWithObserver(ctx, w.obs)

	w.obs.OnExecuteStart(ctx, fc, w.inner.Name())
	start := time.Now()

	out, err := w.inner.Execute(ctx, fc, in)

	w.obs.OnExecuteEnd(ctx, fc, w.inner.Name(), err, time.Since(start))
	return out, err
}
