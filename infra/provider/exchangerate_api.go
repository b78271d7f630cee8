package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/amirasaad/fxconvert/pkg/config"
	"github.com/amirasaad/fxconvert/pkg/currency"
	"github.com/amirasaad/fxconvert/pkg/domain"
	"github.com/amirasaad/fxconvert/pkg/metrics"
	"github.com/amirasaad/fxconvert/pkg/provider"
)

// SourceExchangeRateAPI identifies rates fetched from exchangerate-api.com.
const SourceExchangeRateAPI = "exchangerate-api"

// ExchangeRateAPIProvider implements provider.ExchangeRate for the public
// exchangerate-api.com v4 endpoint. It issues exactly one request per call
// and never retries.
type ExchangeRateAPIProvider struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// ExchangeRateAPIResponse is the v4 response body.
// Example: { "base": "USD", "date": "2024-03-01", "time_last_updated": 1709251201, "rates": { "EUR": 0.9123, ... } }
type ExchangeRateAPIResponse struct {
	Base            string             `json:"base"`
	Date            string             `json:"date"`
	TimeLastUpdated int64              `json:"time_last_updated"`
	Rates           map[string]float64 `json:"rates"`
}

// NewExchangeRateAPIProvider creates a provider from config. m may be nil.
func NewExchangeRateAPIProvider(
	cfg *config.ExchangeRateApi,
	logger *slog.Logger,
	m *metrics.Metrics,
) *ExchangeRateAPIProvider {
	return &ExchangeRateAPIProvider{
		baseURL: strings.TrimRight(cfg.ApiUrl, "/"),
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// GetRate fetches the rate for a currency pair.
func (p *ExchangeRateAPIProvider) GetRate(
	ctx context.Context,
	from, to currency.Code,
) (*domain.ExchangeRate, error) {
	started := p.now()
	rate, err := p.fetch(ctx, from, to)
	p.metrics.ObserveFetch(from.String(), fetchOutcome(err), p.now().Sub(started))
	if err != nil {
		p.logger.Warn("Failed to fetch exchange rate",
			"provider", p.Name(),
			"from", from,
			"to", to,
			"error", err,
		)
		return nil, err
	}
	p.logger.Debug("Exchange rate fetched", "from", from, "to", to, "rate", rate.Rate)
	return rate, nil
}

func (p *ExchangeRateAPIProvider) fetch(
	ctx context.Context,
	from, to currency.Code,
) (*domain.ExchangeRate, error) {
	url := fmt.Sprintf("%s/%s", p.baseURL, from)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRateRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRateRequest, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %d %s", domain.ErrRateStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var apiResp ExchangeRateAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRateMalformed, err)
	}
	if apiResp.Rates == nil {
		return nil, fmt.Errorf("%w: no rates field", domain.ErrRateMalformed)
	}

	value, ok := apiResp.Rates[to.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRateNotFound, to)
	}

	rate := &domain.ExchangeRate{
		From:      from,
		To:        to,
		Rate:      value,
		FetchedAt: p.now(),
		Source:    SourceExchangeRateAPI,
	}
	if !rate.Valid() {
		return nil, fmt.Errorf("%w: invalid rate %v for %s", domain.ErrRateMalformed, value, to)
	}
	return rate, nil
}

// Name returns the provider's name
func (p *ExchangeRateAPIProvider) Name() string {
	return SourceExchangeRateAPI
}

func fetchOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.FetchSuccess
	case errors.Is(err, domain.ErrRateStatus):
		return metrics.FetchStatus
	case errors.Is(err, domain.ErrRateMalformed):
		return metrics.FetchMalformed
	case errors.Is(err, domain.ErrRateNotFound):
		return metrics.FetchNotFound
	default:
		return metrics.FetchRequest
	}
}

var _ provider.ExchangeRate = (*ExchangeRateAPIProvider)(nil)
