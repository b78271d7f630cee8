// Package metrics holds the Prometheus collectors for rate lookups and
// conversions. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fxconvert"

// Cache lookup results.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Fetch outcomes.
const (
	FetchSuccess   = "success"
	FetchRequest   = "request_error"
	FetchStatus    = "bad_status"
	FetchMalformed = "malformed"
	FetchNotFound  = "not_found"
)

// Conversion outcomes.
const (
	ConversionSuccess         = "success"
	ConversionSameCurrency    = "same_currency"
	ConversionRateUnavailable = "rate_unavailable"
	ConversionInvalid         = "invalid"
)

// Metrics groups the collectors used by the rate fetcher and the conversion service.
type Metrics struct {
	CacheLookups  *prometheus.CounterVec
	RateFetches   *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	Conversions   *prometheus.CounterVec
	Sessions      prometheus.Gauge
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_cache_lookups_total",
				Help:      "Exchange rate cache lookups by result",
			},
			[]string{"result"},
		),
		RateFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_fetches_total",
				Help:      "Outbound exchange rate requests by outcome",
			},
			[]string{"base", "outcome"},
		),
		FetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rate_fetch_duration_seconds",
				Help:      "Latency of outbound exchange rate requests",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		Conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Conversion requests by outcome",
			},
			[]string{"outcome"},
		),
		Sessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "history_sessions",
				Help:      "Sessions currently holding a conversion history",
			},
		),
	}
}

// ObserveCacheLookup counts a cache hit or miss.
func (m *Metrics) ObserveCacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveFetch counts an outbound request and records its latency.
func (m *Metrics) ObserveFetch(base, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.RateFetches.WithLabelValues(base, outcome).Inc()
	m.FetchDuration.Observe(took.Seconds())
}

// ObserveConversion counts a conversion request.
func (m *Metrics) ObserveConversion(outcome string) {
	if m == nil {
		return
	}
	m.Conversions.WithLabelValues(outcome).Inc()
}

// SetSessions reports the number of tracked history sessions.
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.Sessions.Set(float64(n))
}
