package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrSameCurrency, "Base and target currencies cannot be the same"},
		{fmt.Errorf("lookup: %w", ErrRateNotFound), "Failed to fetch exchange rate"},
		{ErrRateStatus, "Failed to fetch exchange rate"},
		{fmt.Errorf("%w: rate NaN", ErrConversionInvalid), "Conversion failed"},
		{errors.New("boom"), "Internal Server Error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UserMessage(tt.err), tt.err.Error())
	}
}
