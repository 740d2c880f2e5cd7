package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Side indicates whether an order buys or sells.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Valid reports whether s is one of the two known sides.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// OrderStatus is derived from an order's remaining and original quantity.
type OrderStatus string

const (
	OrderStatusOpen            OrderStatus = "OPEN"
	OrderStatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	OrderStatusFilled          OrderStatus = "FILLED"
)

// Order is a resting instruction to buy or sell Quantity units of Symbol
// at Price or better. Quantity is decremented by matching passes and must
// only be read or written while holding the owning shard's lock.
type Order struct {
	ID               string
	Side             Side
	Symbol           string
	Quantity         int64
	OriginalQuantity int64
	Price            decimal.Decimal
	CreatedAt        time.Time
}

// Status reports the lifecycle state. An order whose quantity was never
// positive counts as filled: it has nothing left to trade.
func (o *Order) Status() OrderStatus {
	switch {
	case o.Quantity <= 0:
		return OrderStatusFilled
	case o.Quantity < o.OriginalQuantity:
		return OrderStatusPartiallyFilled
	default:
		return OrderStatusOpen
	}
}

// FilledQuantity returns how much of the order has traded.
func (o *Order) FilledQuantity() int64 {
	if o.OriginalQuantity <= 0 {
		return 0
	}
	return o.OriginalQuantity - o.Quantity
}

// Live reports whether the order can still take part in a match.
func (o *Order) Live() bool {
	return o.Quantity > 0
}

// String renders the order as "<side> <symbol> <quantity> @ <price>".
func (o *Order) String() string {
	return fmt.Sprintf("%s %s %d @ %s", o.Side, o.Symbol, o.Quantity, o.Price.String())
}

// AddedRecord is the textual record emitted when the order is accepted.
func (o *Order) AddedRecord() string {
	return "Order Added: " + o.String()
}
