package currency

import "errors"

var (
	// ErrInvalidCode is returned when a code is not three uppercase letters.
	ErrInvalidCode = errors.New("invalid currency code")
	// ErrUnsupported is returned when a well formed code is not on the allow-list.
	ErrUnsupported = errors.New("unsupported currency")
)
