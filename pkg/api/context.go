package api

import (
	"sort"
	"sync"
	"time"
)

// Checkpoint is a named, timestamped marker recorded into the execution
// context for later tracing.
type Checkpoint struct {
	Name string
	At   time.Time
}

// Context is the mutable carrier of identifiers, shared key/value state,
// tags, and checkpoints that is passed through every execution.
//
// Identity fields (WorkflowID, SpanID, ...) are copy-on-write: the With*
// methods return a new *Context with a single field replaced. The shared
// core (state, tags, metadata, checkpoints) is held by pointer, so every
// derived Context and every concurrent Parallel branch sees the same data.
// All reads and writes of the shared core are guarded by an internal mutex;
// concurrent branches may interleave writes but never race.
//
// A Context is created once per top-level request and discarded when the
// call returns; nothing is persisted.
type Context struct {
	WorkflowID    string
	CorrelationID string
	TraceID       string
	SpanID        string
	SessionID     string
	ActorID       string

	core *contextCore
}

type contextCore struct {
	mu          sync.RWMutex
	state       map[string]any
	tags        map[string]string
	metadata    map[string]any
	checkpoints []Checkpoint
	startedAt   time.Time
}

// NewContext creates a fresh Context for a new top-level execution.
// The start timestamp is taken now.
func NewContext(workflowID string) *Context {
	return &Context{
		WorkflowID: workflowID,
		core: &contextCore{
			state:     make(map[string]any),
			tags:      make(map[string]string),
			metadata:  make(map[string]any),
			startedAt: time.Now(),
		},
	}
}

// clone returns a shallow copy sharing the same core.
func (c *Context) clone() *Context {
	cp := *c
	return &cp
}

// WithCorrelationID returns a copy of c with CorrelationID replaced.
// State, tags, metadata, and checkpoints remain shared with c.
func (c *Context) WithCorrelationID(id string) *Context {
	cp := c.clone()
	cp.CorrelationID = id
	return cp
}

// WithTraceID returns a copy of c with TraceID replaced.
func (c *Context) WithTraceID(id string) *Context {
	cp := c.clone()
	cp.TraceID = id
	return cp
}

// WithSpanID returns a copy of c with SpanID replaced.
func (c *Context) WithSpanID(id string) *Context {
	cp := c.clone()
	cp.SpanID = id
	return cp
}

// WithSession returns a copy of c with SessionID and ActorID replaced.
func (c *Context) WithSession(sessionID, actorID string) *Context {
	cp := c.clone()
	cp.SessionID = sessionID
	cp.ActorID = actorID
	return cp
}

// StartedAt returns the time the execution started.
func (c *Context) StartedAt() time.Time {
	c.core.mu.RLock()
	defer c.core.mu.RUnlock()
	return c.core.startedAt
}

// Elapsed returns the time since the execution started.
func (c *Context) Elapsed() time.Duration {
	return time.Since(c.StartedAt())
}

// Checkpoint appends a timestamped marker. Checkpoints are append-only;
// there is no operation to remove them or rewind.
func (c *Context) Checkpoint(name string) {
	c.core.mu.Lock()
	defer c.core.mu.Unlock()
	c.core.checkpoints = append(c.core.checkpoints, Checkpoint{Name: name, At: time.Now()})
}

// Checkpoints returns a copy of the recorded checkpoints in append order.
func (c *Context) Checkpoints() []Checkpoint {
	c.core.mu.RLock()
	defer c.core.mu.RUnlock()
	out := make([]Checkpoint, len(c.core.checkpoints))
	copy(out, c.core.checkpoints)
	return out
}

// Set writes a shared state value. The write is visible to every holder of
// this Context, including concurrent Parallel branches.
func (c *Context) Set(key string, value any) {
	c.core.mu.Lock()
	defer c.core.mu.Unlock()
	c.core.state[key] = value
}

// Get reads a shared state value.
func (c *Context) Get(key string) (any, bool) {
	c.core.mu.RLock()
	defer c.core.mu.RUnlock()
	v, ok := c.core.state[key]
	return v, ok
}

// Keys returns the state keys in sorted order.
func (c *Context) Keys() []string {
	c.core.mu.RLock()
	defer c.core.mu.RUnlock()
	keys := make([]string, 0, len(c.core.state))
	for k := range c.core.state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Append appends value to the []any slice stored under key, creating the
// slice if absent. The read-modify-write happens under the context lock so
// concurrent appenders never lose entries.
func (c *Context) Append(key string, value any) {
	c.core.mu.Lock()
	defer c.core.mu.Unlock()
	prev, _ := c.core.state[key].([]any)
	c.core.state[key] = append(prev, value)
}

// AddCounter adds delta to the int counter stored under key and returns the
// new value. A missing or non-int value counts as zero.
func (c *Context) AddCounter(key string, delta int) int {
	c.core.mu.Lock()
	defer c.core.mu.Unlock()
	prev, _ := c.core.state[key].(int)
	next := prev + delta
	c.core.state[key] = next
	return next
}

// SetTag sets a string tag.
func (c *Context) SetTag(key, value string) {
	c.core.mu.Lock()
	defer c.core.mu.Unlock()
	c.core.tags[key] = value
}

// Tag reads a tag.
func (c *Context) Tag(key string) (string, bool) {
	c.core.mu.RLock()
	defer c.core.mu.RUnlock()
	v, ok := c.core.tags[key]
	return v, ok
}

// Tags returns a copy of all tags.
func (c *Context) Tags() map[string]string {
	c.core.mu.RLock()
	defer c.core.mu.RUnlock()
	out := make(map[string]string, len(c.core.tags))
	for k, v := range c.core.tags {
		out[k] = v
	}
	return out
}

// SetMeta sets a metadata value. Metadata is for carrier-level annotations
// rather than business state; exporters may read it but the core never does.
func (c *Context) SetMeta(key string, value any) {
	c.core.mu.Lock()
	defer c.core.mu.Unlock()
	c.core.metadata[key] = value
}

// Meta reads a metadata value.
func (c *Context) Meta(key string) (any, bool) {
	c.core.mu.RLock()
	defer c.core.mu.RUnlock()
	v, ok := c.core.metadata[key]
	return v, ok
}

// TraceAttributes flattens the non-empty identifiers and all tags into a
// single mapping for an external tracer. Tags are prefixed with "tag." so
// they can never collide with identifier keys.
func (c *Context) TraceAttributes() map[string]string {
	attrs := make(map[string]string)

	set := func(key, value string) {
		if value != "" {
			attrs[key] = value
		}
	}
	set("workflow.id", c.WorkflowID)
	set("correlation.id", c.CorrelationID)
	set("trace.id", c.TraceID)
	set("span.id", c.SpanID)
	set("session.id", c.SessionID)
	set("actor.id", c.ActorID)

	c.core.mu.RLock()
	defer c.core.mu.RUnlock()
	for k, v := range c.core.tags {
		attrs["tag."+k] = v
	}
	return attrs
}
