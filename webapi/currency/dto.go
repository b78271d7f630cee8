package currency

import (
	"time"

	"github.com/amirasaad/fxconvert/pkg/currency"
	"github.com/amirasaad/fxconvert/pkg/domain"
)

// CurrenciesResponse lists the selectable currencies and the form defaults.
type CurrenciesResponse struct {
	Currencies    []currency.Meta `json:"currencies"`
	Popular       []currency.Code `json:"popular"`
	DefaultBase   currency.Code   `json:"default_base"`
	DefaultTarget currency.Code   `json:"default_target"`
	DefaultAmount float64         `json:"default_amount"`
	MinAmount     float64         `json:"min_amount"`
}

// RateResponse is a single exchange rate.
type RateResponse struct {
	Base      currency.Code `json:"base"`
	Target    currency.Code `json:"target"`
	Rate      float64       `json:"rate"`
	Display   string        `json:"display"`
	FetchedAt time.Time     `json:"fetched_at"`
	Source    string        `json:"source"`
}

// ToRateResponse converts a domain rate to its response DTO.
func ToRateResponse(rate *domain.ExchangeRate) *RateResponse {
	if rate == nil {
		return nil
	}
	return &RateResponse{
		Base:      rate.From,
		Target:    rate.To,
		Rate:      rate.Rate,
		Display:   rate.Display(),
		FetchedAt: rate.FetchedAt,
		Source:    rate.Source,
	}
}

func newCurrenciesResponse() *CurrenciesResponse {
	return &CurrenciesResponse{
		Currencies:    currency.Supported(),
		Popular:       currency.Popular(),
		DefaultBase:   currency.DefaultBase,
		DefaultTarget: currency.DefaultTarget,
		DefaultAmount: currency.DefaultAmount,
		MinAmount:     currency.MinAmount,
	}
}
