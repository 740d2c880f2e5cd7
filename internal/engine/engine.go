package engine

import (
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/efreitasn/auctionengine/internal/domain"
)

// DefaultNumShards is the slot count used when none is configured.
const DefaultNumShards = 1024

// Engine routes orders to a fixed set of shards and runs arrival-order
// matching passes on them.
//
// Tickers map to shards by hash, so two distinct tickers can land in the
// same shard. When that happens they share one queue and one pass, and
// their orders may cross against each other. Fills from such a pass are
// attributed to the ticker the pass was run for.
type Engine struct {
	shards    []*Shard
	compact   bool
	observers []Observer
}

// New creates an Engine with numShards slots. If compact is true, orders
// that can no longer trade are removed from their shard after every pass;
// otherwise they stay in storage as inert entries.
func New(numShards int, compact bool, observers ...Observer) *Engine {
	if numShards <= 0 {
		numShards = DefaultNumShards
	}
	shards := make([]*Shard, numShards)
	for i := range shards {
		shards[i] = NewShard()
	}
	return &Engine{
		shards:    shards,
		compact:   compact,
		observers: observers,
	}
}

// NumShards returns the fixed number of slots.
func (e *Engine) NumShards() int {
	return len(e.shards)
}

// SymbolIndex maps a ticker to its slot. It is deterministic for a given
// shard count; distinct tickers may share a slot.
func (e *Engine) SymbolIndex(ticker string) int {
	return int(xxhash.Sum64String(ticker) % uint64(len(e.shards)))
}

func (e *Engine) shardFor(ticker string) *Shard {
	return e.shards[e.SymbolIndex(ticker)]
}

// Submit creates an order, appends it to the ticker's shard, reports it to
// observers and runs a matching pass for the ticker on the calling
// goroutine. It returns the order and the fills produced by that pass.
//
// No validation happens here. An order with a non-positive quantity is
// stored but never matched; prices are taken as given.
func (e *Engine) Submit(side domain.Side, ticker string, quantity int64, price decimal.Decimal) (*domain.Order, []domain.Fill) {
	order := &domain.Order{
		ID:               uuid.New().String(),
		Side:             side,
		Symbol:           ticker,
		Quantity:         quantity,
		OriginalQuantity: quantity,
		Price:            price,
		CreatedAt:        time.Now(),
	}

	shard := e.shardFor(ticker)
	shard.mu.Lock()
	shard.append(order)
	added := *order
	for _, obs := range e.observers {
		obs.OrderAdded(added)
	}
	shard.mu.Unlock()

	return order, e.Match(ticker)
}

// Match runs one matching pass over the ticker's shard. The shard lock is
// held for the whole pass, and observers see the pass's fills in the order
// they were produced before the next pass on the shard can start.
func (e *Engine) Match(ticker string) []domain.Fill {
	shard := e.shardFor(ticker)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	fills := matchPass(shard, ticker)
	if e.compact {
		shard.compact()
	}
	for _, f := range fills {
		for _, obs := range e.observers {
			obs.Matched(f)
		}
	}
	return fills
}

// matchPass walks the buy and sell sequences with forward-only cursors.
// The pass stops at the first head pair that does not cross, even if a
// later pair would. The trade price is always the sell order's price.
// Must be called with shard.mu held.
func matchPass(shard *Shard, ticker string) []domain.Fill {
	buys, sells := shard.partition()
	executedAt := time.Now()

	var fills []domain.Fill
	i, j := 0, 0
	for i < len(buys) && j < len(sells) {
		buy, sell := buys[i], sells[j]
		if buy.Price.LessThan(sell.Price) {
			break
		}

		filled := min(buy.Quantity, sell.Quantity)
		buy.Quantity -= filled
		sell.Quantity -= filled

		fills = append(fills, domain.Fill{
			ID:          uuid.New().String(),
			Symbol:      ticker,
			Quantity:    filled,
			Price:       sell.Price,
			BuyOrderID:  buy.ID,
			SellOrderID: sell.ID,
			ExecutedAt:  executedAt,
		})

		if buy.Quantity == 0 {
			i++
		}
		if sell.Quantity == 0 {
			j++
		}
	}
	return fills
}

// Snapshot returns a copy of the order's current state, read under the
// lock of the shard that owns it.
func (e *Engine) Snapshot(o *domain.Order) domain.Order {
	shard := e.shardFor(o.Symbol)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	return *o
}
