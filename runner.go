package weft

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/weftlabs/weft/pkg/api"
)

// Runner executes primitive graphs with a ready-made execution context and
// observer wiring. It is a convenience for applications and tests; callers
// that manage their own Context can invoke Primitive.Execute directly.
//
// A Runner is safe for concurrent use; each Run gets its own Context.
type Runner struct {
	obs api.Observer
}

// Result holds the outcome of a single run.
type Result struct {
	// Output is the graph's final output value.
	Output any

	// Context is the execution context used for the run, with all
	// checkpoints and state written during execution.
	Context *Context

	// Elapsed is the wall-clock time from Context creation to return.
	Elapsed time.Duration
}

// NewRunner creates a Runner reporting to obs. A nil observer disables
// instrumentation.
func NewRunner(obs Observer) *Runner {
	if obs == nil {
		obs = api.NoopObserver{}
	}
	return &Runner{obs: obs}
}

// Run executes p with a fresh Context whose workflow, correlation, and
// trace identifiers are newly generated UUIDs. The Result carries the
// Context for inspection even when the run fails.
func (r *Runner) Run(ctx context.Context, p Primitive, input any) (*Result, error) {
	fc := api.NewContext(uuid.NewString())
	fc.CorrelationID = uuid.NewString()
	fc.TraceID = uuid.NewString()
	return r.RunWith(ctx, p, fc, input)
}

// RunWith executes p against an existing Context, continuing its state and
// checkpoint history.
func (r *Runner) RunWith(ctx context.Context, p Primitive, fc *Context, input any) (*Result, error) {
	if p == nil {
		return nil, &ConfigurationError{Reason: "run requires a primitive"}
	}
	if fc == nil {
		return nil, &ConfigurationError{Reason: "run requires a context"}
	}

	wrapped := api.Instrument(p, r.obs)

	fc.Checkpoint("run.start")
	out, err := wrapped.Execute(api.ContextWithObserver(ctx, r.obs), fc, input)
	fc.Checkpoint("run.end")

	res := &Result{
		Output:  out,
		Context: fc,
		Elapsed: fc.Elapsed(),
	}
	return res, err
}
