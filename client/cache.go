package client

import (
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Cache memoizes lookups that rarely change, such as webfinger results.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	cache *cache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{cache: cache.New(ttl, ttl+5*time.Minute)}
}

func (m *MemoryCache) Get(key string) (string, bool) {
	x, found := m.cache.Get(key)
	if !found {
		return "", false
	}
	s, ok := x.(string)
	return s, ok
}

func (m *MemoryCache) Set(key, value string) {
	m.cache.Set(key, value, cache.DefaultExpiration)
}

// Memcache shares lookups between nodes through memcached. Cache failures
// are logged and otherwise treated as misses.
type Memcache struct {
	mc     *memcache.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewMemcache(mc *memcache.Client, ttl time.Duration, logger *zap.Logger) *Memcache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Memcache{mc: mc, ttl: ttl, logger: logger}
}

func (m *Memcache) Get(key string) (string, bool) {
	item, err := m.mc.Get(key)
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			m.logger.Debug("memcache get failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return string(item.Value), true
}

func (m *Memcache) Set(key, value string) {
	err := m.mc.Set(&memcache.Item{
		Key:        key,
		Value:      []byte(value),
		Expiration: int32(m.ttl / time.Second),
	})
	if err != nil {
		m.logger.Debug("memcache set failed", zap.String("key", key), zap.Error(err))
	}
}
