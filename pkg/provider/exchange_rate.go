package provider

import (
	"context"

	"github.com/amirasaad/fxconvert/pkg/currency"
	"github.com/amirasaad/fxconvert/pkg/domain"
)

// ExchangeRate defines the interface for exchange rate sources.
type ExchangeRate interface {
	// GetRate returns the rate to convert one unit of from into to.
	// Any failure wraps domain.ErrRateUnavailable.
	GetRate(ctx context.Context, from, to currency.Code) (*domain.ExchangeRate, error)

	// Name returns the provider's name for logging and identification.
	Name() string
}
