package feed

import (
	"time"

	"github.com/efreitasn/auctionengine/internal/domain"
)

// Event types pushed to subscribers.
const (
	EventOrderAdded = "order_added"
	EventFill       = "fill"
	EventSubscribed = "subscribed"
)

// AllSymbols subscribes a client to every symbol.
const AllSymbols = "*"

// Event is one message on the feed. Record carries the engine's textual
// record for the event.
type Event struct {
	Type    string     `json:"type"`
	Symbol  string     `json:"symbol,omitempty"`
	Record  string     `json:"record,omitempty"`
	Order   *OrderData `json:"order,omitempty"`
	Fill    *FillData  `json:"fill,omitempty"`
	Symbols []string   `json:"symbols,omitempty"`
}

// OrderData is an order as it was accepted.
type OrderData struct {
	ID        string    `json:"id"`
	Side      string    `json:"side"`
	Symbol    string    `json:"symbol"`
	Quantity  int64     `json:"quantity"`
	Price     string    `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// FillData is a single match between a buy and a sell.
type FillData struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	Quantity    int64     `json:"quantity"`
	Price       string    `json:"price"`
	BuyOrderID  string    `json:"buy_order_id"`
	SellOrderID string    `json:"sell_order_id"`
	ExecutedAt  time.Time `json:"executed_at"`
}

// Request is what clients send to change their subscriptions.
type Request struct {
	Op      string   `json:"op"`
	Symbols []string `json:"symbols"`
}

func orderAddedEvent(o domain.Order) Event {
	return Event{
		Type:   EventOrderAdded,
		Symbol: o.Symbol,
		Record: o.AddedRecord(),
		Order: &OrderData{
			ID:        o.ID,
			Side:      string(o.Side),
			Symbol:    o.Symbol,
			Quantity:  o.Quantity,
			Price:     o.Price.String(),
			CreatedAt: o.CreatedAt,
		},
	}
}

func fillEvent(f domain.Fill) Event {
	return Event{
		Type:   EventFill,
		Symbol: f.Symbol,
		Record: f.String(),
		Fill: &FillData{
			ID:          f.ID,
			Symbol:      f.Symbol,
			Quantity:    f.Quantity,
			Price:       f.Price.String(),
			BuyOrderID:  f.BuyOrderID,
			SellOrderID: f.SellOrderID,
			ExecutedAt:  f.ExecutedAt,
		},
	}
}
