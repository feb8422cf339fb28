package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Observer receives callbacks from primitive execution for logging and
// metrics.
//
// Implementations should be fast and non-blocking; heavy work should be done
// asynchronously so as not to delay the pipeline.
type Observer interface {
	// OnExecuteStart is called before an instrumented primitive runs.
	OnExecuteStart(ctx context.Context, fc *Context, primitive string)

	// OnExecuteEnd is called after an instrumented primitive returns, for
	// both successes and failures (err != nil).
	OnExecuteEnd(ctx context.Context, fc *Context, primitive string, err error, duration time.Duration)

	// OnRecovery is called by recovery decorators when they transition
	// state: StateFailedRecoverable before a compensating action (retry,
	// fallback execution, compensation call), StateFailedTerminal when
	// recovery is exhausted and the error is re-raised.
	OnRecovery(ctx context.Context, fc *Context, primitive string, state State, err error)

	// OnCache is called by Cache decorators on every lookup.
	OnCache(ctx context.Context, fc *Context, primitive string, hit bool)
}

// observerKey carries the active Observer through context.Context so that
// decorators deep in a graph can report recovery transitions without
// explicit wiring.
type observerKey struct{}

// ContextWithObserver returns a context carrying obs.
func ContextWithObserver(ctx context.Context, obs Observer) context.Context {
	if obs == nil {
		return ctx
	}
	return context.WithValue(ctx, observerKey{}, obs)
}

// ObserverFrom returns the Observer carried by ctx, or NoopObserver.
func ObserverFrom(ctx context.Context) Observer {
	if obs, ok := ctx.Value(observerKey{}).(Observer); ok {
		return obs
	}
	return NoopObserver{}
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnExecuteStart(ctx context.Context, fc *Context, primitive string) {}
func (NoopObserver) OnExecuteEnd(ctx context.Context, fc *Context, primitive string, err error, d time.Duration) {
}
func (NoopObserver) OnRecovery(ctx context.Context, fc *Context, primitive string, state State, err error) {
}
func (NoopObserver) OnCache(ctx context.Context, fc *Context, primitive string, hit bool) {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnExecuteStart(ctx context.Context, fc *Context, primitive string) {
	for _, o := range c.observers {
		o.OnExecuteStart(ctx, fc, primitive)
	}
}

func (c *CompositeObserver) OnExecuteEnd(ctx context.Context, fc *Context, primitive string, err error, d time.Duration) {
	for _, o := range c.observers {
		o.OnExecuteEnd(ctx, fc, primitive, err, d)
	}
}

func (c *CompositeObserver) OnRecovery(ctx context.Context, fc *Context, primitive string, state State, err error) {
	for _, o := range c.observers {
		o.OnRecovery(ctx, fc, primitive, state, err)
	}
}

func (c *CompositeObserver) OnCache(ctx context.Context, fc *Context, primitive string, hit bool) {
	for _, o := range c.observers {
		o.OnCache(ctx, fc, primitive, hit)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs execution lifecycle
// events using the provided slog.Logger. If logger is nil, slog.Default()
// is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnExecuteStart(ctx context.Context, fc *Context, primitive string) {
	o.Logger.DebugContext(ctx, "primitive_start",
		slog.String("primitive", primitive),
		slog.String("workflow_id", fc.WorkflowID),
	)
}

func (o *LoggingObserver) OnExecuteEnd(ctx context.Context, fc *Context, primitive string, err error, d time.Duration) {
	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelError
	}
	o.Logger.Log(ctx, level, "primitive_end",
		slog.String("primitive", primitive),
		slog.String("workflow_id", fc.WorkflowID),
		slog.Duration("duration", d),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnRecovery(ctx context.Context, fc *Context, primitive string, state State, err error) {
	o.Logger.WarnContext(ctx, "primitive_recovery",
		slog.String("primitive", primitive),
		slog.String("workflow_id", fc.WorkflowID),
		slog.String("state", string(state)),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnCache(ctx context.Context, fc *Context, primitive string, hit bool) {
	o.Logger.DebugContext(ctx, "primitive_cache",
		slog.String("primitive", primitive),
		slog.String("workflow_id", fc.WorkflowID),
		slog.Bool("hit", hit),
	)
}

// BasicMetrics collects simple counters and aggregate execution durations.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	executions    atomic.Int64
	failures      atomic.Int64
	recoveries    atomic.Int64
	terminals     atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	totalDuration atomic.Int64 // nanoseconds
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	Executions int64
	Failures   int64

	// Recoveries counts StateFailedRecoverable transitions; Terminals
	// counts StateFailedTerminal transitions.
	Recoveries int64
	Terminals  int64

	CacheHits   int64
	CacheMisses int64

	AvgDuration time.Duration
}

func (m *BasicMetrics) OnExecuteEnd(ctx context.Context, fc *Context, primitive string, err error, d time.Duration) {
	m.executions.Add(1)
	if err != nil {
		m.failures.Add(1)
		return
	}
	// Only successful executions feed the average duration.
	m.totalDuration.Add(d.Nanoseconds())
}

func (m *BasicMetrics) OnRecovery(ctx context.Context, fc *Context, primitive string, state State, err error) {
	switch state {
	case StateFailedRecoverable:
		m.recoveries.Add(1)
	case StateFailedTerminal:
		m.terminals.Add(1)
	}
}

func (m *BasicMetrics) OnCache(ctx context.Context, fc *Context, primitive string, hit bool) {
	if hit {
		m.cacheHits.Add(1)
	} else {
		m.cacheMisses.Add(1)
	}
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	execs := m.executions.Load()
	failures := m.failures.Load()
	totalNs := m.totalDuration.Load()

	var avg time.Duration
	if ok := execs - failures; ok > 0 {
		avg = time.Duration(totalNs / ok)
	}

	return BasicMetricsSnapshot{
		Executions:  execs,
		Failures:    failures,
		Recoveries:  m.recoveries.Load(),
		Terminals:   m.terminals.Load(),
		CacheHits:   m.cacheHits.Load(),
		CacheMisses: m.cacheMisses.Load(),
		AvgDuration: avg,
	}
}
