package provider

import (
	"context"
	"sync"
	"time"

	"github.com/amirasaad/fxconvert/pkg/cache"
	"github.com/amirasaad/fxconvert/pkg/currency"
	"github.com/amirasaad/fxconvert/pkg/domain"
)

// SourceStub identifies rates served by StubExchangeRate.
const SourceStub = "stub"

// StubExchangeRate serves rates from a fixed table. Pairs without an entry
// fail with domain.ErrRateNotFound.
type StubExchangeRate struct {
	mu    sync.Mutex
	rates map[string]float64
	errs  map[string]error
	calls int

	GetRateFunc func(ctx context.Context, from, to currency.Code) (*domain.ExchangeRate, error)
}

// NewStubExchangeRate returns a stub keyed by "FROM:TO".
func NewStubExchangeRate(rates map[string]float64) *StubExchangeRate {
	s := &StubExchangeRate{
		rates: make(map[string]float64, len(rates)),
		errs:  make(map[string]error),
	}
	for k, v := range rates {
		s.rates[k] = v
	}
	return s
}

// SetRate sets the rate for a pair.
func (s *StubExchangeRate) SetRate(from, to currency.Code, rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[cache.Key(from, to)] = rate
}

// Fail makes lookups of the pair return err until cleared with a nil err.
func (s *StubExchangeRate) Fail(from, to currency.Code, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.errs, cache.Key(from, to))
		return
	}
	s.errs[cache.Key(from, to)] = err
}

// Calls returns the number of GetRate calls.
func (s *StubExchangeRate) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// GetRate returns the configured rate, or calls GetRateFunc when set.
func (s *StubExchangeRate) GetRate(
	ctx context.Context,
	from, to currency.Code,
) (*domain.ExchangeRate, error) {
	s.mu.Lock()
	s.calls++
	fn := s.GetRateFunc
	key := cache.Key(from, to)
	err, failing := s.errs[key]
	rate, ok := s.rates[key]
	s.mu.Unlock()

	if fn != nil {
		return fn(ctx, from, to)
	}
	if failing {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrRateNotFound
	}
	return &domain.ExchangeRate{
		From:      from,
		To:        to,
		Rate:      rate,
		FetchedAt: time.Now(),
		Source:    SourceStub,
	}, nil
}

// Name returns the provider name.
func (s *StubExchangeRate) Name() string {
	return SourceStub
}
