package app

import (
	"errors"
	"log/slog"

	"github.com/amirasaad/fxconvert/pkg/cache"
	"github.com/amirasaad/fxconvert/pkg/config"
	"github.com/amirasaad/fxconvert/pkg/history"
	"github.com/amirasaad/fxconvert/pkg/metrics"
	"github.com/amirasaad/fxconvert/pkg/provider"
	"github.com/amirasaad/fxconvert/pkg/service/exchange"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps contains the dependencies shared by the HTTP server and the CLI.
type Deps struct {
	// RateProvider is the cached provider used for every lookup.
	RateProvider provider.ExchangeRate
	RateCache    cache.ExchangeRateCache
	Histories    *history.Store
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer
	Logger       *slog.Logger
	// Closers release external resources such as the Redis client.
	Closers []func() error
}

type App struct {
	Deps            *Deps
	Config          *config.App
	ExchangeService *exchange.Service
}

func New(deps *Deps, cfg *config.App) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.NewRegistry()
	}
	return &App{
		Deps:            deps,
		Config:          cfg,
		ExchangeService: exchange.New(deps.RateProvider, deps.Metrics, deps.Logger),
	}
}

// Close runs the registered closers and joins their errors.
func (a *App) Close() error {
	var errs []error
	for _, closeFn := range a.Deps.Closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
