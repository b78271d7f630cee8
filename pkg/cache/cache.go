package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/amirasaad/fxconvert/pkg/currency"
	"github.com/amirasaad/fxconvert/pkg/domain"
)

// ExchangeRateCache stores fetched rates for a bounded time.
// Get returns (nil, nil) on a miss or when the entry has expired.
type ExchangeRateCache interface {
	Get(ctx context.Context, key string) (*domain.ExchangeRate, error)
	Set(ctx context.Context, key string, rate *domain.ExchangeRate, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Len(ctx context.Context) (int, error)
}

// Key returns the cache key for a currency pair.
func Key(from, to currency.Code) string {
	return fmt.Sprintf("%s:%s", from, to)
}
