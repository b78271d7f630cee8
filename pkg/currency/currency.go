package currency

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// DefaultBase is the currency preselected as the conversion source.
	DefaultBase Code = "USD"
	// DefaultTarget is the currency preselected as the conversion target.
	DefaultTarget Code = "EUR"
	// DefaultAmount is the amount preselected for a conversion.
	DefaultAmount = 100.0
	// MinAmount is the smallest amount accepted for a conversion.
	MinAmount = 0.01
)

// Code is an ISO 4217 style currency code such as "USD".
type Code string

// String returns the code as a plain string.
func (c Code) String() string {
	return string(c)
}

// Meta holds display metadata for a supported currency.
type Meta struct {
	Code   Code   `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

var codeFormat = regexp.MustCompile(`^[A-Z]{3}$`)

// supported lists the allowed currencies in display order.
var supported = []Meta{
	{Code: "USD", Name: "US Dollar", Symbol: "$"},
	{Code: "EUR", Name: "Euro", Symbol: "€"},
	{Code: "GBP", Name: "British Pound", Symbol: "£"},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥"},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$"},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$"},
	{Code: "CHF", Name: "Swiss Franc", Symbol: "CHF"},
	{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥"},
	{Code: "INR", Name: "Indian Rupee", Symbol: "₹"},
	{Code: "BRL", Name: "Brazilian Real", Symbol: "R$"},
	{Code: "RUB", Name: "Russian Ruble", Symbol: "₽"},
	{Code: "KRW", Name: "South Korean Won", Symbol: "₩"},
	{Code: "MXN", Name: "Mexican Peso", Symbol: "Mex$"},
	{Code: "IDR", Name: "Indonesian Rupiah", Symbol: "Rp"},
	{Code: "TRY", Name: "Turkish Lira", Symbol: "₺"},
	{Code: "SAR", Name: "Saudi Riyal", Symbol: "﷼"},
	{Code: "AED", Name: "UAE Dirham", Symbol: "د.إ"},
	{Code: "THB", Name: "Thai Baht", Symbol: "฿"},
	{Code: "VND", Name: "Vietnamese Dong", Symbol: "₫"},
	{Code: "EGP", Name: "Egyptian Pound", Symbol: "E£"},
	{Code: "IRR", Name: "Iranian Rial", Symbol: "﷼"},
}

// popular are the currencies shown as quick comparisons after a conversion.
var popular = []Code{"EUR", "GBP", "JPY", "CAD"}

var index = func() map[Code]Meta {
	m := make(map[Code]Meta, len(supported))
	for _, meta := range supported {
		m[meta.Code] = meta
	}
	return m
}()

// Supported returns the allowed currencies in display order.
func Supported() []Meta {
	out := make([]Meta, len(supported))
	copy(out, supported)
	return out
}

// Codes returns the allowed currency codes in display order.
func Codes() []Code {
	out := make([]Code, 0, len(supported))
	for _, meta := range supported {
		out = append(out, meta.Code)
	}
	return out
}

// Popular returns the currencies used for the popular rates panel.
func Popular() []Code {
	out := make([]Code, len(popular))
	copy(out, popular)
	return out
}

// IsSupported reports whether code is on the allow-list.
func IsSupported(code Code) bool {
	_, ok := index[code]
	return ok
}

// Get returns metadata for a supported code.
func Get(code Code) (Meta, bool) {
	meta, ok := index[code]
	return meta, ok
}

// Parse normalizes s and checks it against the allow-list.
func Parse(s string) (Code, error) {
	code := Code(strings.ToUpper(strings.TrimSpace(s)))
	if !codeFormat.MatchString(string(code)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, s)
	}
	meta, ok := index[code]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, code)
	}
	// the table's own string, never the caller's buffer
	return meta.Code, nil
}
