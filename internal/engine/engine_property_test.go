package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"

	"github.com/efreitasn/auctionengine/internal/domain"
)

type genOrder struct {
	side  domain.Side
	qty   int64
	price int64
}

func genOrders() *rapid.Generator[[]genOrder] {
	return rapid.SliceOfN(rapid.Custom(func(t *rapid.T) genOrder {
		side := domain.SideBuy
		if rapid.Bool().Draw(t, "sell") {
			side = domain.SideSell
		}
		return genOrder{
			side:  side,
			qty:   rapid.Int64Range(1, 100).Draw(t, "qty"),
			price: rapid.Int64Range(1, 20).Draw(t, "price"),
		}
	}), 1, 60)
}

// Live quantity plus reported fills equals submitted quantity on each side,
// and quantities never go negative.
func TestProperty_QuantityConservation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		compact := rapid.Bool().Draw(t, "compact")
		rec := &recorder{}
		e := New(rapid.IntRange(1, 64).Draw(t, "shards"), compact, rec)

		var orders []*domain.Order
		var submittedBuy, submittedSell int64
		for _, g := range genOrders().Draw(t, "orders") {
			o, _ := e.Submit(g.side, "TEST", g.qty, decimal.NewFromInt(g.price))
			orders = append(orders, o)
			if g.side == domain.SideBuy {
				submittedBuy += g.qty
			} else {
				submittedSell += g.qty
			}
		}

		var liveBuy, liveSell, filled int64
		for _, o := range orders {
			if o.Quantity < 0 {
				t.Fatalf("order %s quantity went negative: %d", o.ID, o.Quantity)
			}
			if o.Side == domain.SideBuy {
				liveBuy += o.Quantity
			} else {
				liveSell += o.Quantity
			}
		}
		for _, f := range rec.fills {
			if f.Quantity <= 0 {
				t.Fatalf("fill with non-positive quantity: %s", f)
			}
			filled += f.Quantity
		}

		if liveBuy+filled != submittedBuy {
			t.Fatalf("buy side: live %d + filled %d != submitted %d", liveBuy, filled, submittedBuy)
		}
		if liveSell+filled != submittedSell {
			t.Fatalf("sell side: live %d + filled %d != submitted %d", liveSell, filled, submittedSell)
		}
	})
}

// Every fill pairs a buy priced at or above the sell, at the sell's price.
// After each pass the head pair does not cross, and a repeated pass is a no-op.
func TestProperty_NoTradeWithoutCross(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := New(DefaultNumShards, rapid.Bool().Draw(t, "compact"))
		byID := make(map[string]*domain.Order)

		for _, g := range genOrders().Draw(t, "orders") {
			o, fills := e.Submit(g.side, "TEST", g.qty, decimal.NewFromInt(g.price))
			byID[o.ID] = o

			for _, f := range fills {
				buy, sell := byID[f.BuyOrderID], byID[f.SellOrderID]
				if buy == nil || sell == nil {
					t.Fatalf("fill references unknown orders: %+v", f)
				}
				if buy.Price.LessThan(sell.Price) {
					t.Fatalf("fill between buy @ %s and sell @ %s", buy.Price, sell.Price)
				}
				if !f.Price.Equal(sell.Price) {
					t.Fatalf("fill price %s != sell price %s", f.Price, sell.Price)
				}
			}

			buys, sells := e.shardFor("TEST").snapshot()
			if len(buys) > 0 && len(sells) > 0 && !buys[0].Price.LessThan(sells[0].Price) {
				t.Fatalf("heads cross after pass: buy %s >= sell %s", buys[0].Price, sells[0].Price)
			}

			if again := e.Match("TEST"); len(again) != 0 {
				t.Fatalf("repeated Match produced %d fills", len(again))
			}
		}
	})
}

// Compaction changes storage, never outcomes.
func TestProperty_CompactionDoesNotChangeFills(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		orders := genOrders().Draw(t, "orders")
		compacted := New(16, true)
		kept := New(16, false)

		for i, g := range orders {
			_, a := compacted.Submit(g.side, "TEST", g.qty, decimal.NewFromInt(g.price))
			_, b := kept.Submit(g.side, "TEST", g.qty, decimal.NewFromInt(g.price))
			if len(a) != len(b) {
				t.Fatalf("order %d: %d fills with compaction, %d without", i, len(a), len(b))
			}
			for k := range a {
				if a[k].Quantity != b[k].Quantity || !a[k].Price.Equal(b[k].Price) {
					t.Fatalf("order %d fill %d differs: %s vs %s", i, k, a[k], b[k])
				}
			}
		}

		if compacted.shardFor("TEST").size() > kept.shardFor("TEST").size() {
			t.Fatal("compacted shard holds more entries than the uncompacted one")
		}
	})
}
