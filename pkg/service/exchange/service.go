// Package exchange runs one conversion request cycle: same currency check,
// rate lookup, conversion, popular rate comparisons and history bookkeeping.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/amirasaad/fxconvert/pkg/currency"
	"github.com/amirasaad/fxconvert/pkg/domain"
	"github.com/amirasaad/fxconvert/pkg/history"
	"github.com/amirasaad/fxconvert/pkg/metrics"
	"github.com/amirasaad/fxconvert/pkg/money"
	"github.com/amirasaad/fxconvert/pkg/provider"
)

// ErrInvalidAmount is returned for a zero or negative amount. It is a
// conversion failure and is checked before any rate is fetched.
var ErrInvalidAmount = fmt.Errorf("%w: amount must be positive", domain.ErrConversionInvalid)

// Request is a single conversion asked for by a user.
type Request struct {
	Base   currency.Code
	Target currency.Code
	Amount float64
}

// PopularRate is a comparison rate shown next to a conversion.
type PopularRate struct {
	Currency currency.Code `json:"currency"`
	Rate     float64       `json:"rate"`
}

// Result is the outcome of a successful conversion.
type Result struct {
	Base      currency.Code
	Target    currency.Code
	Amount    float64
	Rate      *domain.ExchangeRate
	Converted float64
	Popular   []PopularRate
	Record    domain.ConversionRecord
	Timestamp time.Time
}

// Service converts amounts using a rate provider.
type Service struct {
	rates   provider.ExchangeRate
	popular []currency.Code
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPopular overrides the currencies used for comparisons.
func WithPopular(codes []currency.Code) Option {
	return func(s *Service) {
		s.popular = codes
	}
}

// WithClock replaces time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a conversion service. m may be nil.
func New(rates provider.ExchangeRate, m *metrics.Metrics, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		rates:   rates,
		popular: currency.Popular(),
		now:     time.Now,
		metrics: m,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetExchangeRate returns the rate from base to target. Equal currencies fail
// with domain.ErrSameCurrency without any lookup.
func (s *Service) GetExchangeRate(
	ctx context.Context,
	base, target currency.Code,
) (*domain.ExchangeRate, error) {
	if base == target {
		return nil, domain.ErrSameCurrency
	}
	rate, err := s.rates.GetRate(ctx, base, target)
	if err != nil {
		if !errors.Is(err, domain.ErrRateUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrRateUnavailable, err)
		}
		return nil, err
	}
	return rate, nil
}

// Convert runs a full conversion and records it in log on success. Nothing
// is recorded when any step fails.
func (s *Service) Convert(ctx context.Context, log *history.Log, req Request) (*Result, error) {
	logger := s.logger.With("base", req.Base, "target", req.Target, "amount", req.Amount)

	if req.Base == req.Target {
		s.metrics.ObserveConversion(metrics.ConversionSameCurrency)
		return nil, domain.ErrSameCurrency
	}
	if !math.IsNaN(req.Amount) && req.Amount <= 0 {
		s.metrics.ObserveConversion(metrics.ConversionInvalid)
		return nil, ErrInvalidAmount
	}

	rate, err := s.GetExchangeRate(ctx, req.Base, req.Target)
	if err != nil {
		logger.Warn("Exchange rate unavailable", "error", err)
		s.metrics.ObserveConversion(metrics.ConversionRateUnavailable)
		return nil, err
	}

	converted, err := money.ConvertRate(req.Amount, rate)
	if err != nil {
		logger.Warn("Conversion failed", "rate", rate.Rate, "error", err)
		s.metrics.ObserveConversion(metrics.ConversionInvalid)
		return nil, err
	}

	now := s.now()
	result := &Result{
		Base:      req.Base,
		Target:    req.Target,
		Amount:    req.Amount,
		Rate:      rate,
		Converted: converted,
		Popular:   s.PopularRates(ctx, req.Base),
		Record:    domain.NewConversionRecord(now, req.Amount, req.Base, converted, req.Target, rate.Rate),
		Timestamp: now,
	}
	if log != nil {
		log.Record(result.Record)
	}
	s.metrics.ObserveConversion(metrics.ConversionSuccess)
	logger.Info("Conversion completed", "rate", rate.Rate, "converted", converted)
	return result, nil
}

// PopularRates looks up the comparison currencies one at a time, skipping
// the base currency. A failed lookup is left out and does not stop the rest.
// The target of the current conversion is looked up again if it is in the
// list; the rate cache makes the repeat cheap.
func (s *Service) PopularRates(ctx context.Context, base currency.Code) []PopularRate {
	out := make([]PopularRate, 0, len(s.popular))
	for _, code := range s.popular {
		if code == base {
			continue
		}
		rate, err := s.GetExchangeRate(ctx, base, code)
		if err != nil {
			s.logger.Debug("Skipping popular rate", "base", base, "currency", code, "error", err)
			continue
		}
		out = append(out, PopularRate{Currency: code, Rate: rate.Rate})
	}
	return out
}

// History returns the session's conversions, newest first.
func (s *Service) History(log *history.Log) []domain.ConversionRecord {
	if log == nil {
		return nil
	}
	return log.List()
}
