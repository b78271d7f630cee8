package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/amirasaad/fxconvert/pkg/currency"
)

// ExchangeRate is a multiplier valid for the pair it was fetched for at FetchedAt.
type ExchangeRate struct {
	From      currency.Code `json:"from"`
	To        currency.Code `json:"to"`
	Rate      float64       `json:"rate"`
	FetchedAt time.Time     `json:"fetched_at"`
	Source    string        `json:"source"`
}

// Valid reports whether the rate is a positive finite number.
func (r *ExchangeRate) Valid() bool {
	return r != nil && r.Rate > 0 && !math.IsNaN(r.Rate) && !math.IsInf(r.Rate, 0)
}

// Expired reports whether the rate is older than ttl at now.
func (r *ExchangeRate) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.FetchedAt) >= ttl
}

// Display formats the rate with four decimals, as shown next to a conversion.
func (r *ExchangeRate) Display() string {
	return fmt.Sprintf("%.4f", r.Rate)
}
