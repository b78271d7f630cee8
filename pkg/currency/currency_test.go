package currency

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupported(t *testing.T) {
	list := Supported()
	require.Len(t, list, 21)
	assert.Equal(t, Code("USD"), list[0].Code)
	assert.Equal(t, Code("IRR"), list[len(list)-1].Code)

	// callers get a copy
	list[0].Code = "XXX"
	assert.Equal(t, Code("USD"), Supported()[0].Code)
}

func TestCodes(t *testing.T) {
	codes := Codes()
	require.Len(t, codes, 21)
	seen := make(map[Code]bool)
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
		assert.True(t, IsSupported(c))
	}
}

func TestPopular(t *testing.T) {
	assert.Equal(t, []Code{"EUR", "GBP", "JPY", "CAD"}, Popular())
	for _, c := range Popular() {
		assert.True(t, IsSupported(c))
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Code
		wantErr error
	}{
		{name: "valid", in: "USD", want: "USD"},
		{name: "lowercase is normalized", in: " eur ", want: "EUR"},
		{name: "too short", in: "US", wantErr: ErrInvalidCode},
		{name: "digits", in: "U5D", wantErr: ErrInvalidCode},
		{name: "not on allow-list", in: "KWD", wantErr: ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGet(t *testing.T) {
	meta, ok := Get("JPY")
	require.True(t, ok)
	assert.Equal(t, "Japanese Yen", meta.Name)

	_, ok = Get("XYZ")
	assert.False(t, ok)
}

func TestParse_DoesNotAliasInput(t *testing.T) {
	buf := []byte("USD")
	// views a reused request buffer the way fasthttp hands out params
	code, err := Parse(unsafe.String(&buf[0], len(buf)))
	require.NoError(t, err)

	copy(buf, "GBP")
	assert.Equal(t, Code("USD"), code)
}
