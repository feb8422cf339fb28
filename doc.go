// Package weft provides a small, composable runtime for building resilient
// asynchronous pipelines in Go.
//
// Weft is designed for backend services that call flaky, slow, or expensive
// collaborators (remote APIs, model providers, databases) and want their
// failure handling declared once, at graph-construction time, instead of
// scattered through business logic. It runs fully in-process, has no
// operational dependencies, and integrates cleanly into existing codebases.
//
// # Core Concepts
//
// The weft programming model is intentionally small:
//
//  1. Primitive
//  2. Context
//  3. Composition (Then / All, PipelineBuilder)
//  4. Recovery decorators (Retry, Timeout, Fallback, Cache, Saga)
//  5. Runner
//
// # Primitive
//
// A Primitive is the fundamental executable unit:
//
//	Execute(ctx context.Context, fc *weft.Context, in any) (any, error)
//
// Leaves wrap user functions (NewLambda); everything else wraps other
// primitives. A caller builds the whole graph once, then calls Execute (or
// Runner.Run) once per request. Control flow is entirely determined by the
// composition structure.
//
// # Context
//
// A weft.Context travels by reference through the entire call tree. It
// carries identifiers (workflow, correlation, trace, span, session, actor),
// shared key/value state, tags, and append-only timestamped checkpoints.
// Mutations are visible to every holder, including concurrent Parallel
// branches; the shared collections are mutex-guarded, so concurrent writers
// interleave but never race. Identity fields are copy-on-write via the
// With* methods.
//
// # Composition
//
// Sequential feeds each stage's output into the next and aborts on the
// first failure. Parallel fans the identical input and Context out to all
// branches and collects results in declaration order. Nested composites of
// the same kind are flattened, so Then(Then(a, b), c) has three flat
// stages, not nested wrappers.
//
// # Recovery decorators
//
// Each decorator wraps one or two inner primitives and alters only
// failure/performance behavior:
//
//   - Retry re-executes per a RetryStrategy (exponential backoff, optional
//     jitter) and re-raises the last error verbatim on exhaustion.
//   - Timeout races the inner primitive against a deadline, optionally
//     running a fallback when the deadline wins.
//   - Fallback runs a secondary primitive on any primary failure.
//   - Cache serves unexpired results through a pluggable CacheStore
//     (bounded in-memory, SQLite, or Redis via the redis submodule).
//   - Saga runs a best-effort compensation on failure and always re-raises
//     the original error.
//
// # Runner
//
// Runner bundles Context creation (UUID identifiers), observer
// instrumentation, and checkpointing into a single call:
//
//	runner := weft.NewRunner(weft.NewLoggingObserver(nil))
//	res, err := runner.Run(ctx, pipeline, input)
//
// Observers (logging via log/slog, basic metrics, composites, or the
// OpenTelemetry wrapper in pkg/otelobs) attach to any primitive without
// changing its behavior.
//
// For runnable programs, see the examples directory.
package weft
