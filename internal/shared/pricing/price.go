// Package pricing converts catalog display prices ("€280") into decimal amounts.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every display price in the catalog.
const CurrencySymbol = "€"

// ErrInvalidPrice is returned when a display price carries no numeric value.
var ErrInvalidPrice = errors.New("price has no numeric value")

var hundred = decimal.NewFromInt(100)

// ParseDisplayPrice strips every character that is not a digit, dot or comma
// and parses the remainder. "€280" and "280 EUR" both yield 280. A comma
// followed by one or two final digits is a decimal separator ("€280,50" is
// 280.50, "€1.280,50" is 1280.50); any other comma groups thousands.
func ParseDisplayPrice(display string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range display {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	digits := normalizeSeparators(b.String())
	if digits == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, display)
	}
	amount, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, display)
	}
	return amount, nil
}

func normalizeSeparators(digits string) string {
	comma, dot := strings.LastIndexByte(digits, ','), strings.LastIndexByte(digits, '.')
	if comma > dot {
		if tail := len(digits) - comma - 1; tail == 1 || tail == 2 {
			whole := strings.NewReplacer(",", "", ".", "").Replace(digits[:comma])
			return whole + "." + digits[comma+1:]
		}
	}
	return strings.ReplaceAll(digits, ",", "")
}

// MustParseDisplayPrice returns zero for prices that cannot be parsed.
func MustParseDisplayPrice(display string) decimal.Decimal {
	amount, err := ParseDisplayPrice(display)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// ApplyDiscount returns price × (1 − percent/100). The percentage is clamped to 0..100.
// Listing pages show this value; cart and checkout totals use the listed price.
func ApplyDiscount(price decimal.Decimal, percent int) decimal.Decimal {
	switch {
	case percent <= 0:
		return price
	case percent >= 100:
		return decimal.Zero
	}
	factor := hundred.Sub(decimal.NewFromInt(int64(percent))).Div(hundred)
	return price.Mul(factor)
}

// DiscountedDisplayPrice parses a display price and applies the discount.
func DiscountedDisplayPrice(display string, percent int) (decimal.Decimal, error) {
	amount, err := ParseDisplayPrice(display)
	if err != nil {
		return decimal.Zero, err
	}
	return ApplyDiscount(amount, percent), nil
}

// FormatEUR renders an amount as a display price: whole amounts drop the
// fraction ("€280"), others keep two places ("€238.50").
func FormatEUR(amount decimal.Decimal) string {
	if amount.Equal(amount.Truncate(0)) {
		return CurrencySymbol + amount.StringFixed(0)
	}
	return CurrencySymbol + amount.StringFixed(2)
}
