package initializer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	infra_cache "github.com/amirasaad/fxconvert/infra/cache"
	infra_provider "github.com/amirasaad/fxconvert/infra/provider"
	"github.com/amirasaad/fxconvert/pkg/app"
	"github.com/amirasaad/fxconvert/pkg/cache"
	"github.com/amirasaad/fxconvert/pkg/config"
	"github.com/amirasaad/fxconvert/pkg/history"
	"github.com/amirasaad/fxconvert/pkg/metrics"
	"github.com/amirasaad/fxconvert/pkg/provider"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const redisPingTimeout = 5 * time.Second

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	return InitializeDependenciesWithLogger(cfg, setupLogger(cfg.Log))
}

// InitializeDependenciesWithLogger is InitializeDependencies with a caller
// supplied logger.
func InitializeDependenciesWithLogger(cfg *config.App, logger *slog.Logger) (*app.Deps, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	upstream := infra_provider.NewExchangeRateAPIProvider(
		cfg.ExchangeRateAPIProviders.ExchangeRateApi,
		logger,
		m,
	)

	deps, err := NewDeps(cfg, upstream, m, logger)
	if err != nil {
		return nil, err
	}
	deps.Gatherer = reg
	return deps, nil
}

// NewDeps wires the rate cache, cached provider and session history store
// around upstream. m may be nil.
func NewDeps(
	cfg *config.App,
	upstream provider.ExchangeRate,
	m *metrics.Metrics,
	logger *slog.Logger,
) (*app.Deps, error) {
	deps := &app.Deps{
		Metrics: m,
		Logger:  logger,
	}

	rateCache, closer, err := newRateCache(cfg.ExchangeRateCache, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize exchange rate cache: %w", err)
	}
	if closer != nil {
		deps.Closers = append(deps.Closers, closer)
	}
	deps.RateCache = rateCache

	deps.RateProvider = infra_provider.NewCachedExchangeRate(
		upstream,
		rateCache,
		cfg.ExchangeRateCache.TTL,
		m,
		logger,
	)

	deps.Histories = history.NewStore(
		cfg.Session.MaxSessions,
		cfg.History.Limit,
		cfg.Session.Expiration,
		history.WithSizeObserver(m.SetSessions),
	)

	logger.Info("Dependencies initialized",
		"provider", deps.RateProvider.Name(),
		"cache_ttl", cfg.ExchangeRateCache.TTL,
		"history_limit", deps.Histories.Limit(),
	)
	return deps, nil
}

// newRateCache returns a Redis cache when a URL is configured and an in
// memory LRU cache otherwise.
func newRateCache(
	cfg *config.ExchangeRateCache,
	logger *slog.Logger,
) (cache.ExchangeRateCache, func() error, error) {
	if cfg.Url == "" {
		logger.Info("Using in-memory exchange rate cache", "size", cfg.Size)
		c, err := infra_cache.NewMemoryCache(cfg.Size)
		return c, nil, err
	}

	redisCache, err := infra_cache.NewRedisCache(cfg.Url, cfg.Prefix, cfg.Size, logger)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		_ = redisCache.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.Info("Using Redis exchange rate cache", "prefix", cfg.Prefix, "size", cfg.Size)
	return redisCache, redisCache.Close, nil
}
