package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore implements Store in process. Counters are not shared between replicas.
type MemoryStore struct {
	mu    sync.Mutex
	items *gocache.Cache
}

// NewMemoryStore constructs an in-memory store that sweeps expired entries every cleanupInterval.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	return &MemoryStore{items: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (s *MemoryStore) IncrementWithTTL(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if window <= 0 {
		window = defaultWindow
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.items.Add(key, int64(1), window); err == nil {
		return 1, window, nil
	}

	count, err := s.items.IncrementInt64(key, 1)
	if err != nil {
		// expired between Add and Increment or holds a non-counter value
		s.items.Set(key, int64(1), window)
		return 1, window, nil
	}

	_, expiresAt, _ := s.items.GetWithExpiration(key)
	ttl := window
	if !expiresAt.IsZero() {
		ttl = time.Until(expiresAt)
	}
	return count, ttl, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	s.items.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := s.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	data, ok := value.([]byte)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.items.Delete(key)
	}
	return nil
}
