package cachestore

import (
	"container/list"
	"context"
	"sync"

	"github.com/weftlabs/weft/pkg/api"
)

// MemoryStore is a goroutine-safe in-memory CacheStore with an optional
// capacity bound. When the bound is exceeded, the least-recently-used entry
// is evicted on Put. Expired entries are not evicted proactively; they stay
// in memory until overwritten, evicted by capacity pressure, or rejected by
// the Cache decorator's expiry check on read.
type MemoryStore struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
}

type memoryEntry struct {
	key   string
	entry api.Entry
}

var _ api.CacheStore = (*MemoryStore)(nil)

// NewMemoryStore creates a MemoryStore. capacity <= 0 means unbounded.
func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (api.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[key]
	if !ok {
		return api.Entry{}, false, nil
	}
	s.order.MoveToFront(elem)
	return elem.Value.(*memoryEntry).entry, true, nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, e api.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[key]; ok {
		elem.Value.(*memoryEntry).entry = e
		s.order.MoveToFront(elem)
		return nil
	}

	s.entries[key] = s.order.PushFront(&memoryEntry{key: key, entry: e})

	if s.capacity > 0 && s.order.Len() > s.capacity {
		oldest := s.order.Back()
		if oldest != nil {
			s.order.Remove(oldest)
			delete(s.entries, oldest.Value.(*memoryEntry).key)
		}
	}
	return nil
}

// Len returns the number of stored entries, including expired ones.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}
