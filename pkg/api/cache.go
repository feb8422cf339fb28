package api

import (
	"context"
	"log/slog"
	"time"
)

// KeyFunc derives a cache key from the input value and the execution
// context. It is supplied by the caller at graph-construction time.
type KeyFunc func(fc *Context, in any) (string, error)

// Entry is a cached value with an absolute expiry time. An entry is honored
// only while now < ExpiresAt; stores are not required to evict stale
// entries on their own.
type Entry struct {
	Value     any
	ExpiresAt time.Time
}

// CacheStore is the storage contract behind a Cache decorator. Stores must
// be safe for concurrent use. A Get miss is (Entry{}, false, nil); errors
// are reserved for backend failures.
type CacheStore interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, e Entry) error
}

// Cache wraps one inner primitive with read-through caching. On a hit with
// an unexpired entry, the cached value is returned without invoking the
// inner primitive. On a miss or an expired entry, the inner primitive runs
// and its output is stored with expiry now+ttl.
//
// Store failures never fail the pipeline: a Get error counts as a miss and
// a Put error is logged and dropped.
type Cache struct {
	name   string
	inner  Primitive
	keyFn  KeyFunc
	ttl    time.Duration
	store  CacheStore
	logger *slog.Logger
	now    func() time.Time
}

var _ Primitive = (*Cache)(nil)

// NewCache decorates inner with caching backed by store.
func NewCache(inner Primitive, keyFn KeyFunc, ttl time.Duration, store CacheStore) (*Cache, error) {
	if inner == nil {
		return nil, newConfigurationError("cache requires an inner primitive")
	}
	if keyFn == nil {
		return nil, newConfigurationError("cache requires a key function")
	}
	if ttl <= 0 {
		return nil, newConfigurationError("cache ttl must be positive, got %s", ttl)
	}
	if store == nil {
		return nil, newConfigurationError("cache requires a store")
	}
	return &Cache{
		name:   "cache(" + inner.Name() + ")",
		inner:  inner,
		keyFn:  keyFn,
		ttl:    ttl,
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}, nil
}

// WithLogger replaces the logger used for store failures.
// Intended for construction-time chaining only.
func (c *Cache) WithLogger(logger *slog.Logger) *Cache {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithClock replaces the time source. Used by tests to exercise expiry
// without sleeping.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	if now != nil {
		c.now = now
	}
	return c
}

func (c *Cache) Name() string { return c.name }

func (c *Cache) Execute(ctx context.Context, fc *Context, in any) (any, error) {
	key, err := c.keyFn(fc, in)
	if err != nil {
		return nil, err
	}

	obs := ObserverFrom(ctx)

	entry, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "cache store get failed",
			slog.String("primitive", c.name),
			slog.String("key", key),
			slog.Any("error", err),
		)
		ok = false
	}
	if ok && c.now().Before(entry.ExpiresAt) {
		obs.OnCache(ctx, fc, c.name, true)
		return entry.Value, nil
	}

	obs.OnCache(ctx, fc, c.name, false)

	out, err := c.inner.Execute(ctx, fc, in)
	if err != nil {
		return nil, err
	}

	put := Entry{Value: out, ExpiresAt: c.now().Add(c.ttl)}
	if err := c.store.Put(ctx, key, put); err != nil {
		c.logger.WarnContext(ctx, "cache store put failed",
			slog.String("primitive", c.name),
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
	return out, nil
}
