package weft

import (
	"fmt"
	"time"

	"github.com/weftlabs/weft/pkg/api"
)

// PipelineBuilder provides a fluent API for assembling primitive graphs:
//
//	pipeline, err := weft.New("EnrichOrder").
//	    Step("load", loadOrder).
//	    StepWithRetry("price", priceOrder, weft.Retry(3).WithConstantBackoff(100*time.Millisecond).Strategy()).
//	    Parallel("enrich", taxBranch, shippingBranch).
//	    Build()
//
//	runner := weft.NewRunner(weft.NewLoggingObserver(nil))
//	res, err := runner.Run(ctx, pipeline, order)
type PipelineBuilder struct {
	name   string
	stages []api.Primitive
}

// New creates a new pipeline builder with the given name.
func New(name string) *PipelineBuilder {
	return &PipelineBuilder{name: name}
}

// Name returns the pipeline name.
func (b *PipelineBuilder) Name() string {
	return b.name
}

// Step appends a basic stage wrapping fn.
func (b *PipelineBuilder) Step(name string, fn Func) *PipelineBuilder {
	if name == "" {
		panic("weft: step name must not be empty")
	}
	if fn == nil {
		panic(fmt.Sprintf("weft: step %q has nil function", name))
	}
	b.stages = append(b.stages, api.NewLambda(name, fn))
	return b
}

// Stage appends an already-built primitive (a decorator, a nested
// composition, or a custom implementation).
func (b *PipelineBuilder) Stage(p Primitive) *PipelineBuilder {
	if p == nil {
		panic("weft: stage must not be nil")
	}
	b.stages = append(b.stages, p)
	return b
}

// StepWithRetry appends a stage that retries fn per the given strategy.
func (b *PipelineBuilder) StepWithRetry(name string, fn Func, strategy RetryStrategy) *PipelineBuilder {
	b.Step(name, fn)
	last := len(b.stages) - 1
	r, err := api.NewRetry(b.stages[last], strategy)
	if err != nil {
		panic(err) // unreachable: Step already validated the inner
	}
	b.stages[last] = r
	return b
}

// StepWithTimeout appends a stage that races fn against a deadline.
func (b *PipelineBuilder) StepWithTimeout(name string, fn Func, limit time.Duration) *PipelineBuilder {
	b.Step(name, fn)
	last := len(b.stages) - 1
	t, err := api.NewTimeout(b.stages[last], limit)
	if err != nil {
		panic(err)
	}
	b.stages[last] = t
	return b
}

// Parallel appends a stage that runs the given primitives concurrently.
func (b *PipelineBuilder) Parallel(name string, branches ...Primitive) *PipelineBuilder {
	p, err := api.NewParallel(name, branches...)
	if err != nil {
		panic(err)
	}
	return b.Stage(p)
}

// Build assembles the accumulated stages into a single Sequential
// primitive. Building an empty pipeline returns a ConfigurationError.
func (b *PipelineBuilder) Build() (Primitive, error) {
	return api.NewSequential(b.name, b.stages...)
}

// MustBuild is like Build but panics on error.
// Useful for initialization in main().
func (b *PipelineBuilder) MustBuild() Primitive {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}
