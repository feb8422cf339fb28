package api

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// mapStore is a minimal goroutine-safe CacheStore for tests.
type mapStore struct {
	mu      sync.Mutex
	entries map[string]Entry
	getErr  error
	putErr  error
}

func newMapStore() *mapStore {
	return &mapStore{entries: make(map[string]Entry)}
}

func (s *mapStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return Entry{}, false, s.getErr
	}
	e, ok := s.entries[key]
	return e, ok, nil
}

func (s *mapStore) Put(ctx context.Context, key string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.entries[key] = e
	return nil
}

func keyByInput(fc *Context, in any) (string, error) {
	return in.(string), nil
}

func TestCache_HitMissExpiry(t *testing.T) {
	inner := newCounting("expensive", func(ctx context.Context, fc *Context, in any) (any, error) {
		return "computed:" + in.(string), nil
	})

	now := time.Now()
	clock := func() time.Time { return now }

	c, err := NewCache(inner, keyByInput, 60*time.Second, newMapStore())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c = c.WithClock(clock)

	fc := NewContext("wf")

	// First call: miss, inner runs.
	out, err := c.Execute(context.Background(), fc, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.(string) != "computed:k" {
		t.Fatalf("unexpected output: %v", out)
	}
	if got := inner.calls.Load(); got != 1 {
		t.Fatalf("expected 1 inner call after miss, got %d", got)
	}

	// Second call before TTL: hit, inner call count unchanged.
	now = now.Add(59 * time.Second)
	out, err = c.Execute(context.Background(), fc, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.(string) != "computed:k" {
		t.Fatalf("unexpected cached output: %v", out)
	}
	if got := inner.calls.Load(); got != 1 {
		t.Fatalf("expected hit to skip inner, got %d calls", got)
	}

	// After TTL elapses: miss again, inner runs again.
	now = now.Add(2 * time.Second)
	if _, err := c.Execute(context.Background(), fc, "k"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := inner.calls.Load(); got != 2 {
		t.Fatalf("expected expiry to re-run inner, got %d calls", got)
	}
}

func TestCache_DistinctKeysDistinctEntries(t *testing.T) {
	inner := newCounting("expensive", func(ctx context.Context, fc *Context, in any) (any, error) {
		return in, nil
	})

	c, err := NewCache(inner, keyByInput, time.Minute, newMapStore())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fc := NewContext("wf")
	_, _ = c.Execute(context.Background(), fc, "a")
	_, _ = c.Execute(context.Background(), fc, "b")
	_, _ = c.Execute(context.Background(), fc, "a")

	if got := inner.calls.Load(); got != 2 {
		t.Fatalf("expected one inner call per distinct key, got %d", got)
	}
}

func TestCache_InnerErrorNotCached(t *testing.T) {
	sentinel := errors.New("transient")
	inner := newCounting("flaky", nil)
	inner.fn = func(ctx context.Context, fc *Context, in any) (any, error) {
		if inner.calls.Load() == 1 {
			return nil, sentinel
		}
		return "ok", nil
	}

	c, err := NewCache(inner, keyByInput, time.Minute, newMapStore())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fc := NewContext("wf")
	if _, err := c.Execute(context.Background(), fc, "k"); !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}

	out, err := c.Execute(context.Background(), fc, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.(string) != "ok" {
		t.Fatalf("expected fresh value after failed call, got %v", out)
	}
	if got := inner.calls.Load(); got != 2 {
		t.Fatalf("expected 2 inner calls, got %d", got)
	}
}

func TestCache_StoreGetErrorCountsAsMiss(t *testing.T) {
	inner := newCounting("expensive", func(ctx context.Context, fc *Context, in any) (any, error) {
		return "fresh", nil
	})

	store := newMapStore()
	store.getErr = errors.New("backend down")

	c, err := NewCache(inner, keyByInput, time.Minute, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := c.Execute(context.Background(), NewContext("wf"), "k")
	if err != nil {
		t.Fatalf("store failure must not fail the pipeline: %v", err)
	}
	if out.(string) != "fresh" {
		t.Fatalf("expected fresh value, got %v", out)
	}
	if got := inner.calls.Load(); got != 1 {
		t.Fatalf("expected inner call on store failure, got %d", got)
	}
}

func TestCache_StorePutErrorIsNonFatal(t *testing.T) {
	inner := newCounting("expensive", func(ctx context.Context, fc *Context, in any) (any, error) {
		return "fresh", nil
	})

	store := newMapStore()
	store.putErr = errors.New("backend down")

	c, err := NewCache(inner, keyByInput, time.Minute, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := c.Execute(context.Background(), NewContext("wf"), "k")
	if err != nil {
		t.Fatalf("put failure must not fail the pipeline: %v", err)
	}
	if out.(string) != "fresh" {
		t.Fatalf("expected fresh value, got %v", out)
	}
}

func TestCache_KeyFuncErrorPropagates(t *testing.T) {
	sentinel := errors.New("bad key")
	inner := newCounting("expensive", nil)

	c, err := NewCache(inner, func(fc *Context, in any) (string, error) {
		return "", sentinel
	}, time.Minute, newMapStore())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.Execute(context.Background(), NewContext("wf"), "k"); !errors.Is(err, sentinel) {
		t.Fatalf("expected key error, got %v", err)
	}
	if got := inner.calls.Load(); got != 0 {
		t.Fatalf("inner must not run on key failure, got %d calls", got)
	}
}

func TestCache_ConstructionValidation(t *testing.T) {
	inner := newCounting("x", nil)
	store := newMapStore()

	if _, err := NewCache(nil, keyByInput, time.Minute, store); !IsConfiguration(err) {
		t.Fatalf("expected ConfigurationError for nil inner, got %v", err)
	}
	if _, err := NewCache(inner, nil, time.Minute, store); !IsConfiguration(err) {
		t.Fatalf("expected ConfigurationError for nil key func, got %v", err)
	}
	if _, err := NewCache(inner, keyByInput, 0, store); !IsConfiguration(err) {
		t.Fatalf("expected ConfigurationError for zero ttl, got %v", err)
	}
	if _, err := NewCache(inner, keyByInput, time.Minute, nil); !IsConfiguration(err) {
		t.Fatalf("expected ConfigurationError for nil store, got %v", err)
	}
}
