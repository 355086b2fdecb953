package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Strings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"plain decimal", "10.50", 10.50},
		{"currency symbol", "$10.50", 10.50},
		{"thousands separator", "$1,234.50", 1234.50},
		{"currency suffix", "1234.50 USD", 1234.50},
		{"integer string", "42", 42},
		{"negative", "-5.25", -5.25},
		{"zero", "0", 0},
		{"whitespace around", " 9.99 ", 9.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParse_Numbers(t *testing.T) {
	got, err := Parse(1234.50)
	require.NoError(t, err)
	assert.Equal(t, 1234.50, got)

	got, err = Parse(7)
	require.NoError(t, err)
	assert.Equal(t, 7.0, got)
}

// Parsing a formatted string yields the same amount as parsing its
// numeric equivalent.
func TestParse_Idempotent(t *testing.T) {
	fromString, err := Parse("$1,234.50")
	require.NoError(t, err)

	fromNumber, err := Parse(1234.50)
	require.NoError(t, err)

	assert.Equal(t, fromNumber, fromString)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"empty string", ""},
		{"symbols only", "$ ,"},
		{"letters only", "abc"},
		{"multiple dots", "1.2.3"},
		{"nil", nil},
		{"bool", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, 0.5, Coerce("0.5", 1.0))
	assert.Equal(t, 0.5, Coerce(0.5, 1.0))
	assert.Equal(t, 1.0, Coerce(nil, 1.0))
	assert.Equal(t, 1.0, Coerce("", 1.0))
	assert.Equal(t, 1.0, Coerce("n/a", 1.0))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "10.00", Format(10))
	assert.Equal(t, "0.13", Format(0.1275))
	assert.Equal(t, "0.18", Format(0.1785))
	assert.Equal(t, "0.00", Format(0))
	assert.Equal(t, "-2.55", Format(-2.55))
	assert.Equal(t, "1234.50", Format(1234.5))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.13, Round(0.1275))
	assert.Equal(t, 25.50, Round(25.4999999))
	assert.Equal(t, -0.13, Round(-0.1275))
}
