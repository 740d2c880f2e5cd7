package engine

import (
	"log/slog"

	"github.com/efreitasn/auctionengine/internal/domain"
)

// Observer receives the engine's side-channel events.
//
// Both methods are called with the owning shard locked, on the goroutine
// that submitted the order or ran the pass. For a given shard, events
// arrive in the order they happened: an order's OrderAdded precedes every
// Matched that references it, and fills arrive pass by pass. Implementations
// must not call back into the Engine and must not block.
type Observer interface {
	OrderAdded(order domain.Order)
	Matched(fill domain.Fill)
}

// LogObserver writes each event as a structured log line whose message is
// the event's textual record.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates a LogObserver writing to logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (l *LogObserver) OrderAdded(order domain.Order) {
	l.logger.Info(order.AddedRecord(),
		slog.String("event", "order_added"),
		slog.String("order_id", order.ID),
		slog.String("side", string(order.Side)),
		slog.String("symbol", order.Symbol),
		slog.Int64("quantity", order.Quantity),
		slog.String("price", order.Price.String()),
	)
}

func (l *LogObserver) Matched(fill domain.Fill) {
	l.logger.Info(fill.String(),
		slog.String("event", "matched"),
		slog.String("fill_id", fill.ID),
		slog.String("symbol", fill.Symbol),
		slog.Int64("quantity", fill.Quantity),
		slog.String("price", fill.Price.String()),
		slog.String("buy_order_id", fill.BuyOrderID),
		slog.String("sell_order_id", fill.SellOrderID),
	)
}
