// Package memory provides an in-memory cache repository used for
// development and tests, where no Redis instance is available
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/platemuse/v1/internal/ports/outbound"
)

// CacheItem represents a cached item
type CacheItem struct {
	Value     []byte
	ExpiresAt time.Time
}

// CacheRepository implements in-memory cache repository
type CacheRepository struct {
	data  map[string]CacheItem
	mutex sync.RWMutex
}

// NewCacheRepository creates a new in-memory cache repository
func NewCacheRepository() outbound.CacheRepository {
	repo := &CacheRepository{
		data: make(map[string]CacheItem),
	}

	// Start cleanup goroutine
	go repo.cleanup()

	return repo
}

// Get retrieves a value from cache. A missing or expired key returns nil, nil
// to match the Redis repository's miss semantics.
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mutex.RLock()
	item, exists := r.data[key]
	r.mutex.RUnlock()

	if !exists {
		return nil, nil
	}

	if time.Now().After(item.ExpiresAt) {
		r.mutex.Lock()
		delete(r.data, key)
		r.mutex.Unlock()
		return nil, nil
	}

	return item.Value, nil
}

// Set stores a value in cache with TTL
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	expiresAt := time.Now().Add(ttl)
	if ttl == 0 {
		expiresAt = time.Now().Add(24 * time.Hour) // Default to 24 hours
	}

	r.data[key] = CacheItem{
		Value:     value,
		ExpiresAt: expiresAt,
	}

	return nil
}

// Delete removes a key from cache
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.data, key)
	return nil
}

// Exists checks if a key exists in cache
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	item, exists := r.data[key]
	if !exists {
		return false, nil
	}

	return time.Now().Before(item.ExpiresAt), nil
}

// cleanup periodically evicts expired items
func (r *CacheRepository) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		r.mutex.Lock()
		for key, item := range r.data {
			if now.After(item.ExpiresAt) {
				delete(r.data, key)
			}
		}
		r.mutex.Unlock()
	}
}
