package cachestore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/weftlabs/weft/pkg/api"
)

func entry(v any) api.Entry {
	return api.Entry{Value: v, ExpiresAt: time.Now().Add(time.Minute)}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Put(ctx, "k", entry("v1")))

	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v1", got.Value)
}

func TestMemoryStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	require.NoError(t, s.Put(ctx, "k", entry("v1")))
	require.NoError(t, s.Put(ctx, "k", entry("v2")))
	require.Equal(t, 1, s.Len())

	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v2", got.Value)
}

func TestMemoryStoreEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(3)

	for i := 1; i <= 3; i++ {
		require.NoError(t, s.Put(ctx, fmt.Sprintf("k%d", i), entry(i)))
	}

	// Touch k1 so k2 becomes the eviction candidate.
	_, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.Put(ctx, "k4", entry(4)))
	require.Equal(t, 3, s.Len())

	_, ok, err = s.Get(ctx, "k2")
	require.NoError(t, err)
	require.False(t, ok, "k2 should have been evicted")

	for _, key := range []string{"k1", "k3", "k4"} {
		_, ok, err := s.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok, "%s should have survived", key)
	}
}

func TestMemoryStoreUnboundedNeverEvicts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	for i := 0; i < 100; i++ {
		require.NoError(t, s.Put(ctx, fmt.Sprintf("k%d", i), entry(i)))
	}
	require.Equal(t, 100, s.Len())
}
