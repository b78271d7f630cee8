package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConversionRecord(t *testing.T) {
	at := time.Date(2024, 3, 1, 14, 5, 9, 750_000_000, time.UTC)
	rec := NewConversionRecord(at, 100.0, "USD", 91.23, "EUR", 0.9123)

	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, time.Date(2024, 3, 1, 14, 5, 9, 0, time.UTC), rec.Timestamp)
	assert.Equal(t, "100.0 USD", rec.From)
	assert.Equal(t, "91.23 EUR", rec.To)
	assert.InDelta(t, 0.9123, rec.Rate, 1e-12)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{100, "100.0"},
		{12.5, "12.5"},
		{0.01, "0.01"},
		{91.23, "91.23"},
		{1234567.89, "1234567.89"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in))
	}
}

func TestExchangeRate(t *testing.T) {
	now := time.Now()
	rate := &ExchangeRate{From: "USD", To: "EUR", Rate: 0.9123, FetchedAt: now}

	assert.True(t, rate.Valid())
	assert.Equal(t, "0.9123", rate.Display())
	assert.False(t, rate.Expired(now.Add(29*time.Minute), 30*time.Minute))
	assert.True(t, rate.Expired(now.Add(30*time.Minute), 30*time.Minute))

	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		assert.False(t, (&ExchangeRate{Rate: bad}).Valid(), "rate %v", bad)
	}
	var missing *ExchangeRate
	assert.False(t, missing.Valid())
}

func TestRateErrorsCollapse(t *testing.T) {
	for _, err := range []error{ErrRateRequest, ErrRateStatus, ErrRateMalformed, ErrRateNotFound} {
		assert.ErrorIs(t, err, ErrRateUnavailable)
	}
	wrapped := errors.Join(errors.New("dial tcp: timeout"), ErrRateRequest)
	require.ErrorIs(t, wrapped, ErrRateUnavailable)
	assert.NotErrorIs(t, ErrRateStatus, ErrRateMalformed)
}
