package staging

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryBackend keeps staged values in process memory.
type MemoryBackend struct {
	// serializes writers so DeleteIf can compare and delete in one step
	mu    sync.Mutex
	cache *cache.Cache
}

func NewMemoryBackend() *MemoryBackend {
	// Purge expired items every 5 minutes
	return &MemoryBackend{cache: cache.New(DefaultTTL+backstop, 5*time.Minute)}
}

func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if x, found := m.cache.Get(key); found {
		data, ok := x.([]byte)
		return data, ok, nil
	}
	return nil, false, nil
}

func (m *MemoryBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Set(key, value, ttl)
	return nil
}

func (m *MemoryBackend) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Delete(key)
	return nil
}

func (m *MemoryBackend) DeleteIf(ctx context.Context, key string, match func(value []byte) bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	x, found := m.cache.Get(key)
	if !found {
		return false, nil
	}
	if data, ok := x.([]byte); !ok || !match(data) {
		return false, nil
	}
	m.cache.Delete(key)
	return true, nil
}
