package weft

import (
	"database/sql"
	"time"

	"github.com/weftlabs/weft/internal/cachestore"
	"github.com/weftlabs/weft/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Primitive            = api.Primitive
	Func                 = api.Func
	Lambda               = api.Lambda
	Context              = api.Context
	Checkpoint           = api.Checkpoint
	Sequential           = api.Sequential
	Parallel             = api.Parallel
	RetryStrategy        = api.RetryStrategy
	Timeout              = api.Timeout
	TimeoutRecord        = api.TimeoutRecord
	Fallback             = api.Fallback
	Cache                = api.Cache
	CacheEntry           = api.Entry
	CacheStore           = api.CacheStore
	KeyFunc              = api.KeyFunc
	Saga                 = api.Saga
	State                = api.State
	ConfigurationError   = api.ConfigurationError
	TimeoutError         = api.TimeoutError
	Observer             = api.Observer
	NoopObserver         = api.NoopObserver
	CompositeObserver    = api.CompositeObserver
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
)

// Re-export constructors, operators, and helpers.

var (
	NewContext = api.NewContext
	NewLambda  = api.NewLambda

	NewSequential = api.NewSequential
	NewParallel   = api.NewParallel
	Then          = api.Then
	All           = api.All

	NewRetry    = api.NewRetry
	NewTimeout  = api.NewTimeout
	NewFallback = api.NewFallback
	NewCache    = api.NewCache
	NewSaga     = api.NewSaga

	Instrument           = api.Instrument
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver

	IsTimeout       = api.IsTimeout
	IsConfiguration = api.IsConfiguration
)

// Re-export recovery state values for convenience.

const (
	StateRunning           = api.StateRunning
	StateSucceeded         = api.StateSucceeded
	StateFailedRecoverable = api.StateFailedRecoverable
	StateFailedTerminal    = api.StateFailedTerminal
)

// DefaultCacheCapacity bounds the memory cache store created by Cached.
// Pass an explicit store to NewCache for different sizing.
const DefaultCacheCapacity = 1024

// Cache store constructors
// These wrap the internal/cachestore package so external callers never need
// to import internal packages.

// NewMemoryCacheStore returns an in-memory, LRU-bounded CacheStore.
// capacity <= 0 means unbounded.
func NewMemoryCacheStore(capacity int) CacheStore {
	return cachestore.NewMemoryStore(capacity)
}

// NewSQLiteCacheStore returns a CacheStore that persists entries in a
// SQLite database. The caller imports the driver (e.g. "modernc.org/sqlite")
// and owns the *sql.DB.
func NewSQLiteCacheStore(db *sql.DB) (CacheStore, error) {
	return cachestore.NewSQLiteStore(db)
}

// Cached decorates inner with caching backed by a fresh memory store of
// DefaultCacheCapacity. Use NewCache directly to share a store across
// decorators or to persist entries.
func Cached(inner Primitive, keyFn KeyFunc, ttl time.Duration) (*Cache, error) {
	return api.NewCache(inner, keyFn, ttl, cachestore.NewMemoryStore(DefaultCacheCapacity))
}
