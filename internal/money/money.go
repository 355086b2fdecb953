// Package money normalizes the price representations the POS deals with.
// Prices arrive as plain numbers, bare decimal strings, or display strings
// with currency symbols and thousands separators ("$1,234.50"); everything
// funnels through Parse before arithmetic happens.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidFormat = errors.New("invalid money format")

// Parse converts a price value into a float64 amount.
// Numeric inputs are returned as-is. String inputs are stripped of every
// character that is not a digit, '.', or '-' before parsing, so formatted
// display strings round-trip to the same amount as their numeric form.
// Rounding is never applied here; that happens only at display boundaries.
func Parse(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return parseString(v)
	case nil:
		return 0, fmt.Errorf("%w: nil value", ErrInvalidFormat)
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidFormat, value)
	}
}

func parseString(s string) (float64, error) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	stripped := b.String()
	if stripped == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	f, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return f, nil
}

// Coerce parses a loosely typed configuration value, falling back to a
// default instead of failing. Used for rate settings that may be stored
// as strings, numbers, or not at all.
func Coerce(value any, fallback float64) float64 {
	if value == nil {
		return fallback
	}
	f, err := Parse(value)
	if err != nil {
		return fallback
	}
	return f
}

// Round rounds an amount to 2 decimal places.
func Round(f float64) float64 {
	return math.Round(f*100) / 100
}

// Format renders an amount with exactly 2 decimal places for display.
func Format(f float64) string {
	return strconv.FormatFloat(Round(f), 'f', 2, 64)
}
