package engine

import (
	"github.com/google/btree"
	"github.com/shopspring/decimal"

	"github.com/efreitasn/auctionengine/internal/domain"
)

// PriceLevel aggregates the live orders resting at one price.
type PriceLevel struct {
	Price         decimal.Decimal
	TotalQuantity int64
	OrderCount    int
}

// Book is a point-in-time view of one ticker's live orders.
type Book struct {
	Symbol string
	// Buys and Sells are in arrival order, the order a pass walks them.
	Buys  []domain.Order
	Sells []domain.Order
	// Bids are sorted by price descending, Asks ascending.
	Bids []PriceLevel
	Asks []PriceLevel
}

// bidLess orders levels so Ascend yields the highest price first.
func bidLess(a, b PriceLevel) bool {
	return a.Price.GreaterThan(b.Price)
}

// askLess orders levels so Ascend yields the lowest price first.
func askLess(a, b PriceLevel) bool {
	return a.Price.LessThan(b.Price)
}

// Book copies the ticker's live orders under the shard lock and aggregates
// up to depth price levels per side. depth <= 0 means every level. Orders
// of other tickers sharing the shard are left out of the view.
func (e *Engine) Book(ticker string, depth int) Book {
	shard := e.shardFor(ticker)

	book := Book{Symbol: ticker}

	shard.mu.Lock()
	buys, sells := shard.partition()
	for _, o := range buys {
		if o.Symbol == ticker {
			book.Buys = append(book.Buys, *o)
		}
	}
	for _, o := range sells {
		if o.Symbol == ticker {
			book.Sells = append(book.Sells, *o)
		}
	}
	shard.mu.Unlock()

	book.Bids = aggregateLevels(book.Buys, bidLess, depth)
	book.Asks = aggregateLevels(book.Sells, askLess, depth)
	return book
}

// aggregateLevels folds orders into price levels using a B-tree keyed by
// price, then returns at most n levels in tree order.
func aggregateLevels(orders []domain.Order, less btree.LessFunc[PriceLevel], n int) []PriceLevel {
	const degree = 32
	tree := btree.NewG[PriceLevel](degree, less)

	for _, o := range orders {
		level, _ := tree.Get(PriceLevel{Price: o.Price})
		level.Price = o.Price
		level.TotalQuantity += o.Quantity
		level.OrderCount++
		tree.ReplaceOrInsert(level)
	}

	if n <= 0 || n > tree.Len() {
		n = tree.Len()
	}
	levels := make([]PriceLevel, 0, n)
	tree.Ascend(func(level PriceLevel) bool {
		if len(levels) >= n {
			return false
		}
		levels = append(levels, level)
		return true
	})
	return levels
}
