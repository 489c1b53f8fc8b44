package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type MemoryCache struct {
	store *gocache.Cache
}

func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(defaultTTL, 2*defaultTTL)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.store.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	return b, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.store.Set(key, value, ttl)
	return nil
}

func (m *MemoryCache) Clear(context.Context) error {
	m.store.Flush()
	return nil
}

func (m *MemoryCache) Close() error { return nil }
