package cachestore

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	corec "github.com/weftlabs/weft/internal/cachestore"
	"github.com/weftlabs/weft/pkg/api"
)

// RedisStore is a CacheStore backed by Redis. It uses a simple key
// structure:
//
//	<prefix>cache:<key> => gob-encoded redisEntryPayload
//
// Each entry is written with a Redis TTL derived from its expiry, so stale
// entries disappear from the server without any sweeper. The expiry is also
// stored in the payload: the Cache decorator's own clock stays the source of
// truth for hit/miss decisions.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ api.CacheStore = (*RedisStore)(nil)

type redisEntryPayload struct {
	Value       []byte
	ExpiresAtNS int64
}

// NewRedisStore creates a RedisStore.
// prefix is optional but recommended (e.g. "weft:").
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "weft:"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisStore) key(k string) string {
	return r.prefix + "cache:" + k
}

func (r *RedisStore) Get(ctx context.Context, key string) (api.Entry, bool, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return api.Entry{}, false, nil
	}
	if err != nil {
		return api.Entry{}, false, err
	}

	var payload redisEntryPayload
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&payload); err != nil {
		return api.Entry{}, false, err
	}

	value, err := corec.DecodeValue(payload.Value)
	if err != nil {
		return api.Entry{}, false, err
	}
	return api.Entry{
		Value:     value,
		ExpiresAt: time.Unix(0, payload.ExpiresAtNS),
	}, true, nil
}

func (r *RedisStore) Put(ctx context.Context, key string, e api.Entry) error {
	blob, err := corec.EncodeValue(e.Value)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(redisEntryPayload{
		Value:       blob,
		ExpiresAtNS: e.ExpiresAt.UnixNano(),
	}); err != nil {
		return err
	}

	ttl := time.Until(e.ExpiresAt)
	if ttl <= 0 {
		// Already expired; nothing worth persisting.
		return nil
	}
	return r.client.Set(ctx, r.key(key), buf.Bytes(), ttl).Err()
}
