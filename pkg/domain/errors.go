package domain

import (
	"errors"
	"fmt"
)

// Conversion errors. Callers that only care whether a step failed check the
// top level kinds (ErrSameCurrency, ErrRateUnavailable, ErrConversionInvalid);
// the rate failure details wrap ErrRateUnavailable.
var (
	// ErrSameCurrency is returned when base and target are the same currency.
	ErrSameCurrency = errors.New("base and target currencies cannot be the same")
	// ErrRateUnavailable is returned when an exchange rate could not be fetched.
	ErrRateUnavailable = errors.New("exchange rate unavailable")
	// ErrConversionInvalid is returned when the amount or rate is not a finite number.
	ErrConversionInvalid = errors.New("conversion failed")

	// ErrRateRequest covers transport failures, including timeouts.
	ErrRateRequest = fmt.Errorf("%w: request failed", ErrRateUnavailable)
	// ErrRateStatus is returned for a non-2xx response.
	ErrRateStatus = fmt.Errorf("%w: unexpected status", ErrRateUnavailable)
	// ErrRateMalformed is returned when the body is not the expected JSON.
	ErrRateMalformed = fmt.Errorf("%w: malformed response", ErrRateUnavailable)
	// ErrRateNotFound is returned when the target is missing from the rates map.
	ErrRateNotFound = fmt.Errorf("%w: currency not in response", ErrRateUnavailable)
)

// UserMessage returns the message shown to users for a conversion failure.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrSameCurrency):
		return "Base and target currencies cannot be the same"
	case errors.Is(err, ErrRateUnavailable):
		return "Failed to fetch exchange rate"
	case errors.Is(err, ErrConversionInvalid):
		return "Conversion failed"
	default:
		return "Internal Server Error"
	}
}
