// Package api contains the core building blocks of the weft runtime: the
// Primitive contract, the shared execution Context, the sequential and
// parallel composition operators, and the recovery decorators (Retry,
// Timeout, Fallback, Cache, Saga).
//
// Most users interact with the higher-level weft package, which re-exports
// selected types and helpers from this package. The api package is intended
// for advanced use cases, custom integrations, or contributors extending the
// runtime itself.
//
// # The primitive contract
//
// Everything executable satisfies Primitive:
//
//	Execute(ctx context.Context, fc *Context, in any) (any, error)
//
// Leaf primitives wrap user code (NewLambda); composites and decorators
// wrap other primitives. A caller builds the whole graph at setup time and
// calls Execute once per request with a fresh or continued Context. Control
// flow (sequencing, fan-out, retries) is entirely determined by the
// composition structure.
//
// # Composition
//
// NewSequential feeds each stage's output into the next; the first failure
// aborts the chain. NewParallel fans the identical input and Context out to
// all branches concurrently and collects results in declaration order.
// Both flatten nested composites of their own kind, so combining graphs
// never produces towers of wrappers.
//
// # Recovery decorators
//
// The decorators alter only failure and performance behavior; the execute
// contract is preserved:
//
//   - Retry re-executes per a RetryStrategy and re-raises the last error
//     verbatim on exhaustion.
//   - Timeout races the inner primitive against a deadline, with an
//     optional fallback.
//   - Fallback runs a secondary on any primary failure.
//   - Cache returns unexpired cached values through a pluggable CacheStore.
//   - Saga runs a best-effort compensation and always re-raises the
//     original forward error.
//
// Sequential and Parallel never catch: decorators are the only components
// that absorb failures, each per its documented rule.
//
// # Observability
//
// Instrument wraps any primitive with Observer callbacks without changing
// its behavior. The observer travels in the context.Context, so decorators
// deep in a graph report recovery transitions to the same observer.
package api
