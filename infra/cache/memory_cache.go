package cache

import (
	"context"
	"time"

	"github.com/amirasaad/fxconvert/pkg/cache"
	"github.com/amirasaad/fxconvert/pkg/domain"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the number of pairs kept when no size is configured.
const DefaultSize = 100

// MemoryCache is a size bounded in-process rate cache. Entries expire after
// the ttl they were stored with; when full, the least recently used pair is
// evicted to admit a new one. Safe for concurrent use.
type MemoryCache struct {
	entries *lru.Cache[string, cacheEntry]
	now     func() time.Time
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) {
		c.now = now
	}
}

// NewMemoryCache creates an in-memory cache holding at most size pairs.
func NewMemoryCache(size int, opts ...MemoryOption) (*MemoryCache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	c := &MemoryCache{entries: entries, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get retrieves a rate and marks it as recently used.
func (c *MemoryCache) Get(_ context.Context, key string) (*domain.ExchangeRate, error) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, nil
	}
	if !c.now().Before(entry.expiresAt) {
		c.entries.Remove(key)
		return nil, nil
	}
	return entry.rate, nil
}

// Set stores a rate with ttl, evicting the least recently used pair if full.
func (c *MemoryCache) Set(_ context.Context, key string, rate *domain.ExchangeRate, ttl time.Duration) error {
	c.entries.Add(key, cacheEntry{
		rate:      rate,
		expiresAt: c.now().Add(ttl),
	})
	return nil
}

// Delete removes a rate from cache
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.entries.Remove(key)
	return nil
}

// Len returns the number of stored pairs, expired ones included until they
// are looked up or evicted.
func (c *MemoryCache) Len(_ context.Context) (int, error) {
	return c.entries.Len(), nil
}

// Contains reports whether key is stored without touching its recency.
func (c *MemoryCache) Contains(key string) bool {
	return c.entries.Contains(key)
}

type cacheEntry struct {
	rate      *domain.ExchangeRate
	expiresAt time.Time
}

var _ cache.ExchangeRateCache = (*MemoryCache)(nil)
