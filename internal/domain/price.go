package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxPriceDecimals is the number of fractional digits accepted on input.
const MaxPriceDecimals = 4

// ParsePrice parses a decimal price string such as "120" or "99.95".
// It rejects values with more than MaxPriceDecimals fractional digits.
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price %q is not a decimal number", s)
	}
	if !d.Equal(d.Truncate(MaxPriceDecimals)) {
		return decimal.Zero, fmt.Errorf("price must have at most %d decimal places", MaxPriceDecimals)
	}
	return d, nil
}

// MustPrice is ParsePrice for constants in tests and fixtures.
func MustPrice(s string) decimal.Decimal {
	d, err := ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return d
}
