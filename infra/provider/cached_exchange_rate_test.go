package provider

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	infra_cache "github.com/amirasaad/fxconvert/infra/cache"
	"github.com/amirasaad/fxconvert/pkg/currency"
	"github.com/amirasaad/fxconvert/pkg/domain"
	"github.com/amirasaad/fxconvert/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockExchangeRateProvider is a mock implementation for testing
type MockExchangeRateProvider struct {
	mock.Mock
}

func (m *MockExchangeRateProvider) GetRate(
	ctx context.Context,
	from, to currency.Code,
) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateProvider) Name() string {
	return "mock-provider"
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newCached(
	t *testing.T,
	next *MockExchangeRateProvider,
	clock *testClock,
) (*CachedExchangeRate, *infra_cache.MemoryCache, *metrics.Metrics) {
	t.Helper()
	memCache, err := infra_cache.NewMemoryCache(100, infra_cache.WithClock(clock.Now))
	require.NoError(t, err)
	m := metrics.New(prometheus.NewRegistry())
	return NewCachedExchangeRate(next, memCache, 30*time.Minute, m, discardLogger()), memCache, m
}

func usdEur(rate float64) *domain.ExchangeRate {
	return &domain.ExchangeRate{From: "USD", To: "EUR", Rate: rate, Source: "mock-provider"}
}

func TestCachedExchangeRate_HitWithinTTL(t *testing.T) {
	next := new(MockExchangeRateProvider)
	next.On("GetRate", mock.Anything, currency.Code("USD"), currency.Code("EUR")).
		Return(usdEur(0.9123), nil).Once()
	clock := &testClock{now: time.Now()}
	cached, _, m := newCached(t, next, clock)
	ctx := context.Background()

	first, err := cached.GetRate(ctx, "USD", "EUR")
	require.NoError(t, err)
	clock.Advance(29 * time.Minute)
	second, err := cached.GetRate(ctx, "USD", "EUR")
	require.NoError(t, err)

	assert.InDelta(t, first.Rate, second.Rate, 0)
	next.AssertNumberOfCalls(t, "GetRate", 1)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CacheLookups.WithLabelValues(metrics.CacheMiss)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CacheLookups.WithLabelValues(metrics.CacheHit)), 0)
}

func TestCachedExchangeRate_RefetchAfterTTL(t *testing.T) {
	next := new(MockExchangeRateProvider)
	next.On("GetRate", mock.Anything, currency.Code("USD"), currency.Code("EUR")).
		Return(usdEur(0.90), nil).Once()
	next.On("GetRate", mock.Anything, currency.Code("USD"), currency.Code("EUR")).
		Return(usdEur(0.95), nil).Once()
	clock := &testClock{now: time.Now()}
	cached, _, _ := newCached(t, next, clock)
	ctx := context.Background()

	first, err := cached.GetRate(ctx, "USD", "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 0.90, first.Rate, 0)

	clock.Advance(30 * time.Minute)
	second, err := cached.GetRate(ctx, "USD", "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 0.95, second.Rate, 0)

	next.AssertNumberOfCalls(t, "GetRate", 2)
}

func TestCachedExchangeRate_KeyedByPair(t *testing.T) {
	next := new(MockExchangeRateProvider)
	next.On("GetRate", mock.Anything, currency.Code("USD"), currency.Code("EUR")).
		Return(usdEur(0.9), nil).Once()
	next.On("GetRate", mock.Anything, currency.Code("USD"), currency.Code("GBP")).
		Return(&domain.ExchangeRate{From: "USD", To: "GBP", Rate: 0.79}, nil).Once()
	cached, memCache, _ := newCached(t, next, &testClock{now: time.Now()})
	ctx := context.Background()

	_, err := cached.GetRate(ctx, "USD", "EUR")
	require.NoError(t, err)
	gbp, err := cached.GetRate(ctx, "USD", "GBP")
	require.NoError(t, err)
	assert.InDelta(t, 0.79, gbp.Rate, 0)

	n, err := memCache.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	next.AssertExpectations(t)
}

func TestCachedExchangeRate_FailureNotCached(t *testing.T) {
	next := new(MockExchangeRateProvider)
	next.On("GetRate", mock.Anything, currency.Code("USD"), currency.Code("EUR")).
		Return(nil, domain.ErrRateRequest).Once()
	next.On("GetRate", mock.Anything, currency.Code("USD"), currency.Code("EUR")).
		Return(usdEur(0.91), nil).Once()
	cached, memCache, _ := newCached(t, next, &testClock{now: time.Now()})
	ctx := context.Background()

	rate, err := cached.GetRate(ctx, "USD", "EUR")
	require.ErrorIs(t, err, domain.ErrRateUnavailable)
	assert.Nil(t, rate)
	assert.False(t, memCache.Contains("USD:EUR"))

	// the next request retries the fetch
	rate, err = cached.GetRate(ctx, "USD", "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 0.91, rate.Rate, 0)
	next.AssertNumberOfCalls(t, "GetRate", 2)
}

func TestCachedExchangeRate_FailureKeepsStaleEntryUntouched(t *testing.T) {
	next := new(MockExchangeRateProvider)
	next.On("GetRate", mock.Anything, currency.Code("USD"), currency.Code("EUR")).
		Return(usdEur(0.9), nil).Once()
	next.On("GetRate", mock.Anything, currency.Code("USD"), currency.Code("GBP")).
		Return(nil, domain.ErrRateStatus).Once()
	cached, memCache, _ := newCached(t, next, &testClock{now: time.Now()})
	ctx := context.Background()

	_, err := cached.GetRate(ctx, "USD", "EUR")
	require.NoError(t, err)
	_, err = cached.GetRate(ctx, "USD", "GBP")
	require.Error(t, err)

	assert.True(t, memCache.Contains("USD:EUR"))
	assert.False(t, memCache.Contains("USD:GBP"))
}

// slowProvider counts calls and takes a while to answer.
type slowProvider struct {
	calls atomic.Int32
	delay time.Duration
}

func (p *slowProvider) GetRate(_ context.Context, from, to currency.Code) (*domain.ExchangeRate, error) {
	p.calls.Add(1)
	time.Sleep(p.delay)
	return &domain.ExchangeRate{From: from, To: to, Rate: 1.1}, nil
}

func (p *slowProvider) Name() string { return "slow" }

func TestCachedExchangeRate_ConcurrentMissesShareFetch(t *testing.T) {
	next := &slowProvider{delay: 100 * time.Millisecond}
	memCache, err := infra_cache.NewMemoryCache(100)
	require.NoError(t, err)
	cached := NewCachedExchangeRate(next, memCache, time.Minute, nil, discardLogger())

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rate, err := cached.GetRate(context.Background(), "USD", "EUR")
			if err == nil && rate.Rate != 1.1 {
				err = errors.New("unexpected rate")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, next.calls.Load())
}

// patientProvider answers after delay unless its context is cancelled first.
type patientProvider struct {
	calls atomic.Int32
	delay time.Duration
}

func (p *patientProvider) GetRate(ctx context.Context, from, to currency.Code) (*domain.ExchangeRate, error) {
	p.calls.Add(1)
	select {
	case <-time.After(p.delay):
		return &domain.ExchangeRate{From: from, To: to, Rate: 1.1}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *patientProvider) Name() string { return "patient" }

func TestCachedExchangeRate_CancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	next := &patientProvider{delay: 200 * time.Millisecond}
	memCache, err := infra_cache.NewMemoryCache(100)
	require.NoError(t, err)
	cached := NewCachedExchangeRate(next, memCache, time.Minute, nil, discardLogger())

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := cached.GetRate(firstCtx, "USD", "EUR")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return next.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	secondDone := make(chan struct{})
	var (
		rate      *domain.ExchangeRate
		secondErr error
	)
	go func() {
		defer close(secondDone)
		rate, secondErr = cached.GetRate(context.Background(), "USD", "EUR")
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	err = <-firstErr
	require.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, domain.ErrRateUnavailable)

	<-secondDone
	require.NoError(t, secondErr)
	assert.Equal(t, 1.1, rate.Rate)
	assert.EqualValues(t, 1, next.calls.Load())

	stored, err := memCache.Get(context.Background(), "USD:EUR")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 1.1, stored.Rate)
}

func TestCachedExchangeRate_Name(t *testing.T) {
	cached := NewCachedExchangeRate(new(MockExchangeRateProvider), nil, 0, nil, discardLogger())
	assert.Equal(t, "Cached(mock-provider)", cached.Name())
	assert.Equal(t, DefaultCacheTTL, cached.TTL())
}
