package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/amirasaad/fxconvert/pkg/currency"
	"github.com/google/uuid"
)

// ConversionRecord is one entry of a session's conversion history.
type ConversionRecord struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Rate      float64   `json:"rate"`
}

// NewConversionRecord builds a record for a successful conversion. The
// timestamp is truncated to the second.
func NewConversionRecord(
	at time.Time,
	amount float64,
	base currency.Code,
	converted float64,
	target currency.Code,
	rate float64,
) ConversionRecord {
	return ConversionRecord{
		ID:        uuid.New(),
		Timestamp: at.Truncate(time.Second),
		From:      FormatAmount(amount) + " " + base.String(),
		To:        FormatAmount(converted) + " " + target.String(),
		Rate:      rate,
	}
}

// FormatAmount renders v with the shortest exact representation and at least
// one decimal, so 100 becomes "100.0" and 91.23 stays "91.23".
func FormatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
