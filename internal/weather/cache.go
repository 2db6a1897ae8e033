package weather

import (
	"context"
	"sync"
	"time"
)

// Cache keeps the most recent snapshot so readers do not hit the provider on every request.
type Cache struct {
	mu       sync.RWMutex
	snapshot Snapshot
	storedAt time.Time
	maxAge   time.Duration
	now      func() time.Time
}

// NewCache creates a Cache whose entries expire after maxAge (0 = never).
func NewCache(maxAge time.Duration) *Cache {
	return &Cache{maxAge: maxAge, now: time.Now}
}

// Put replaces the cached snapshot.
func (c *Cache) Put(s Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = s
	c.storedAt = c.now()
}

// Get returns the cached snapshot if one is present and fresh.
func (c *Cache) Get() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.storedAt.IsZero() {
		return Snapshot{}, false
	}
	if c.maxAge > 0 && c.now().Sub(c.storedAt) > c.maxAge {
		return Snapshot{}, false
	}
	return c.snapshot, true
}

// CachedService serves snapshots from a Cache and refreshes it from a Service on a miss.
// Offline fallbacks are returned but not cached.
type CachedService struct {
	service *Service
	cache   *Cache
}

func NewCachedService(service *Service, cache *Cache) *CachedService {
	return &CachedService{service: service, cache: cache}
}

// Current returns a fresh cached snapshot or fetches a live one.
func (c *CachedService) Current(ctx context.Context) Snapshot {
	if s, ok := c.cache.Get(); ok {
		return s
	}
	return c.Refresh(ctx)
}

// Refresh fetches a live snapshot and caches it unless it is the offline fallback.
func (c *CachedService) Refresh(ctx context.Context) Snapshot {
	s := c.service.Current(ctx)
	if !s.Offline {
		c.cache.Put(s)
	}
	return s
}
