package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/fxconvert/pkg/cache"
	"github.com/amirasaad/fxconvert/pkg/currency"
	"github.com/amirasaad/fxconvert/pkg/domain"
	"github.com/amirasaad/fxconvert/pkg/metrics"
	"github.com/amirasaad/fxconvert/pkg/provider"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long a fetched rate is served from cache.
const DefaultCacheTTL = 30 * time.Minute

// CachedExchangeRate serves rates from a cache and falls back to the next
// provider on a miss. Concurrent misses for one pair share a single fetch.
// Failed fetches leave the cache untouched.
type CachedExchangeRate struct {
	next    provider.ExchangeRate
	cache   cache.ExchangeRateCache
	ttl     time.Duration
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewCachedExchangeRate creates a new CachedExchangeRate. m may be nil.
func NewCachedExchangeRate(
	next provider.ExchangeRate,
	cache cache.ExchangeRateCache,
	ttl time.Duration,
	m *metrics.Metrics,
	logger *slog.Logger,
) *CachedExchangeRate {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedExchangeRate{
		next:    next,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
		logger:  logger,
	}
}

// GetRate returns the cached rate for the pair, fetching it when absent or expired.
func (c *CachedExchangeRate) GetRate(
	ctx context.Context,
	from, to currency.Code,
) (*domain.ExchangeRate, error) {
	key := cache.Key(from, to)

	if rate, err := c.cache.Get(ctx, key); err == nil && rate != nil {
		c.logger.Debug("Cache hit for GetRate", "key", key)
		c.metrics.ObserveCacheLookup(metrics.CacheHit)
		return rate, nil
	} else if err != nil {
		c.logger.Error("Error getting from cache", "key", key, "error", err)
	}
	c.metrics.ObserveCacheLookup(metrics.CacheMiss)
	c.logger.Debug("Cache miss for GetRate, fetching from next provider", "key", key)

	// the shared fetch outlives any single caller; the HTTP timeout bounds it
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		rate, err := c.next.GetRate(fetchCtx, from, to)
		if err != nil {
			return nil, err
		}
		if err := c.cache.Set(fetchCtx, key, rate, c.ttl); err != nil {
			c.logger.Error("Error setting cache for GetRate", "key", key, "error", err)
		}
		return rate, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", domain.ErrRateRequest, ctx.Err())
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		c.logger.Debug("Shared in-flight fetch", "key", key)
	}
	return res.Val.(*domain.ExchangeRate), nil
}

// Name returns the provider's name.
func (c *CachedExchangeRate) Name() string {
	return fmt.Sprintf("Cached(%s)", c.next.Name())
}

// TTL returns how long fetched rates are served from cache.
func (c *CachedExchangeRate) TTL() time.Duration {
	return c.ttl
}

var _ provider.ExchangeRate = (*CachedExchangeRate)(nil)
