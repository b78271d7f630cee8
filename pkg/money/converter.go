// Package money converts amounts with an exchange rate and formats the result
// for display.
//
// A converted amount is the float64 product of amount and rate, correctly
// rounded to two places; exact binary ties go to the even digit. Every
// currency uses two places.
package money

import (
	"fmt"
	"math"
	"strconv"

	"github.com/amirasaad/fxconvert/pkg/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Places is the number of decimals every converted amount is rounded to.
const Places = 2

// Convert returns amount * rate rounded to two decimals.
// It fails with domain.ErrConversionInvalid when either input is NaN or infinite.
func Convert(amount, rate float64) (float64, error) {
	if !finite(amount) {
		return 0, fmt.Errorf("%w: amount %v is not a finite number", domain.ErrConversionInvalid, amount)
	}
	if !finite(rate) {
		return 0, fmt.Errorf("%w: rate %v is not a finite number", domain.ErrConversionInvalid, rate)
	}
	product := amount * rate
	if !finite(product) {
		return 0, fmt.Errorf("%w: %v * %v overflows", domain.ErrConversionInvalid, amount, rate)
	}
	return round(product, Places), nil
}

// ConvertRate is Convert for a fetched rate; a nil rate is a conversion failure.
func ConvertRate(amount float64, rate *domain.ExchangeRate) (float64, error) {
	if rate == nil {
		return 0, fmt.Errorf("%w: no rate", domain.ErrConversionInvalid)
	}
	return Convert(amount, rate.Rate)
}

// ParseAmount reads a plain decimal amount such as "1000" or "12.50".
// NaN, infinities and hex floats are rejected.
func ParseAmount(raw string) (float64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q is not a number", domain.ErrConversionInvalid, raw)
	}
	v, _ := d.Float64()
	if !finite(v) {
		return 0, fmt.Errorf("%w: amount %q is out of range", domain.ErrConversionInvalid, raw)
	}
	return v, nil
}

var grouped = message.NewPrinter(language.English)

// FormatGrouped renders v with the given number of decimals and comma
// thousands separators, e.g. 1234567.891 with 2 places is "1,234,567.89".
func FormatGrouped(v float64, places int) string {
	return grouped.Sprintf("%.*f", places, round(v, places))
}

// round returns v correctly rounded to places decimals.
func round(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
