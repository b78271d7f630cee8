package money_test

import (
	"math"
	"testing"

	"github.com/amirasaad/fxconvert/pkg/domain"
	"github.com/amirasaad/fxconvert/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		rate   float64
		want   float64
	}{
		{"usd to eur", 100.0, 0.9123, 91.23},
		{"rounds to cents", 10, 0.12345, 1.23},
		{"exact tie goes to even", 1, 0.125, 0.12},
		{"stored just above half", 1, 0.135, 0.14},
		{"0.165 is stored above half", 1, 0.165, 0.17},
		{"2.675 is stored below half", 1, 2.675, 2.67},
		{"1.015 is stored below half", 1, 1.015, 1.01},
		{"product rounds up", 3, 0.555, 1.67},
		{"large amount", 12345.5, 151.25, 1867256.88},
		{"large rate", 250, 42000.5, 10500125},
		{"small amount", 0.01, 1.1, 0.01},
		{"zero rate", 100, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.Convert(tt.amount, tt.rate)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvert_NonFinite(t *testing.T) {
	inputs := [][2]float64{
		{math.NaN(), 1},
		{1, math.NaN()},
		{math.Inf(1), 1},
		{1, math.Inf(-1)},
		{1e308, 10},
	}
	for _, in := range inputs {
		_, err := money.Convert(in[0], in[1])
		assert.ErrorIs(t, err, domain.ErrConversionInvalid, "amount=%v rate=%v", in[0], in[1])
	}
}

func TestConvertRate(t *testing.T) {
	got, err := money.ConvertRate(100, &domain.ExchangeRate{From: "USD", To: "EUR", Rate: 0.9123})
	require.NoError(t, err)
	assert.Equal(t, 91.23, got)

	_, err = money.ConvertRate(100, nil)
	assert.ErrorIs(t, err, domain.ErrConversionInvalid)
}

func TestFormatGrouped(t *testing.T) {
	assert.Equal(t, "100.00", money.FormatGrouped(100, 2))
	assert.Equal(t, "1,234,567.89", money.FormatGrouped(1234567.891, 2))
	assert.Equal(t, "0.9123", money.FormatGrouped(0.9123, 4))
	assert.Equal(t, "-1,000.500", money.FormatGrouped(-1000.5, 3))
	assert.Equal(t, "999", money.FormatGrouped(999, 0))
	assert.Equal(t, "2.67", money.FormatGrouped(2.675, 2))
}

func TestParseAmount(t *testing.T) {
	got, err := money.ParseAmount("1000")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, got)

	got, err = money.ParseAmount("12.50")
	require.NoError(t, err)
	assert.Equal(t, 12.5, got)

	for _, raw := range []string{"ten", "NaN", "Inf", "0x1p4", ""} {
		_, err := money.ParseAmount(raw)
		assert.ErrorIs(t, err, domain.ErrConversionInvalid, raw)
	}
}
