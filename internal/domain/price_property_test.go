package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

func TestProperty_ParsePriceRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		units := rapid.Int64Range(-1_000_000_000, 1_000_000_000).Draw(t, "units")
		want := decimal.New(units, -MaxPriceDecimals)

		got, err := ParsePrice(want.String())
		if err != nil {
			t.Fatalf("ParsePrice(%s) returned error: %v", want, err)
		}
		if !got.Equal(want) {
			t.Fatalf("round-trip failed: %s → %s", want, got)
		}
	})
}
