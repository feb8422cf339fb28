package api

import (
	"context"
	"fmt"
)

// Primitive is the single capability every executable unit exposes.
// A primitive transforms an input value into an output value, reading and
// writing the shared execution *Context along the way, and fails by
// returning a non-nil error.
//
// Primitives are composed at graph-construction time (NewSequential,
// NewParallel, the recovery decorators) and then executed once per request.
// The composition structure fully determines control flow; there is no
// runtime dispatch outside of Execute.
type Primitive interface {
	// Name identifies the primitive for tracing, logging, and timeout
	// tracking. Composites derive a name from their parts unless one is
	// given explicitly.
	Name() string

	// Execute runs the primitive. ctx carries cancellation and deadlines;
	// fc is the shared execution context, passed by reference through the
	// entire call tree including concurrent branches.
	Execute(ctx context.Context, fc *Context, in any) (any, error)
}

// Func is the function form of a primitive.
type Func func(ctx context.Context, fc *Context, in any) (any, error)

// Lambda adapts a plain function into a Primitive.
type Lambda struct {
	name string
	fn   Func
}

var _ Primitive = (*Lambda)(nil)

// NewLambda wraps fn as a named Primitive.
// It panics on construction misuse (empty name, nil fn), matching the
// builder APIs: these are programming errors, not runtime conditions.
func NewLambda(name string, fn Func) *Lambda {
	if name == "" {
		panic("weft: lambda name must not be empty")
	}
	if fn == nil {
		panic(fmt.Sprintf("weft: lambda %q has nil function", name))
	}
	return &Lambda{name: name, fn: fn}
}

func (l *Lambda) Name() string { return l.name }

func (l *Lambda) Execute(ctx context.Context, fc *Context, in any) (any, error) {
	return l.fn(ctx, fc, in)
}

// State captures where a recovery decorator is in its lifecycle. Decorators
// report transitions through Observer.OnRecovery: a recoverable failure
// means a compensating action (retry, fallback execution, compensation
// call) is about to run; a terminal failure means recovery options are
// exhausted and the original error is being re-raised.
type State string

const (
	StateRunning           State = "RUNNING"
	StateSucceeded         State = "SUCCEEDED"
	StateFailedRecoverable State = "FAILED_RECOVERABLE"
	StateFailedTerminal    State = "FAILED_TERMINAL"
)
