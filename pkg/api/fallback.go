package api

import "context"

// Fallback wraps a primary and a fallback primitive. The primary runs
// first; on any failure the fallback runs with the identical input and
// Context. If the fallback also fails, the fallback's error (not the
// primary's) is what the caller observes.
type Fallback struct {
	name     string
	primary  Primitive
	fallback Primitive
}

var _ Primitive = (*Fallback)(nil)

// NewFallback builds a Fallback decorator.
func NewFallback(primary, fallback Primitive) (*Fallback, error) {
	if primary == nil {
		return nil, newConfigurationError("fallback requires a primary primitive")
	}
	if fallback == nil {
		return nil, newConfigurationError("fallback requires a fallback primitive")
	}
	return &Fallback{
		name:     "fallback(" + primary.Name() + "," + fallback.Name() + ")",
		primary:  primary,
		fallback: fallback,
	}, nil
}

func (f *Fallback) Name() string { return f.name }

func (f *Fallback) Execute(ctx context.Context, fc *Context, in any) (any, error) {
	out, err := f.primary.Execute(ctx, fc, in)
	if err == nil {
		return out, nil
	}

	obs := ObserverFrom(ctx)
	obs.OnRecovery(ctx, fc, f.name, StateFailedRecoverable, err)

	out, ferr := f.fallback.Execute(ctx, fc, in)
	if ferr != nil {
		obs.OnRecovery(ctx, fc, f.name, StateFailedTerminal, ferr)
		return nil, ferr
	}
	return out, nil
}
