package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Fill is one step of a matching pass: Quantity units of Symbol traded
// between a buy and a sell order at the sell order's price.
type Fill struct {
	ID          string
	Symbol      string
	Quantity    int64
	Price       decimal.Decimal
	BuyOrderID  string
	SellOrderID string
	ExecutedAt  time.Time
}

// Notional returns Price × Quantity.
func (f Fill) Notional() decimal.Decimal {
	return f.Price.Mul(decimal.NewFromInt(f.Quantity))
}

// String renders the fill as "Matched: <quantity> <symbol> @ <price>".
func (f Fill) String() string {
	return fmt.Sprintf("Matched: %d %s @ %s", f.Quantity, f.Symbol, f.Price.String())
}
