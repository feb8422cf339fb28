// Package redis provides a Redis-backed cache store for weft pipelines.
package redis

import (
	"github.com/redis/go-redis/v9"

	"github.com/weftlabs/weft/pkg/api"

	rcache "github.com/weftlabs/weft/redis/internal/cachestore"
)

// NewCacheStore returns a CacheStore that persists entries in Redis under
// the given key prefix (default "weft:" if empty). Entries expire
// server-side at their configured TTL.
func NewCacheStore(client *redis.Client, prefix string) api.CacheStore {
	return rcache.NewRedisStore(client, prefix)
}
