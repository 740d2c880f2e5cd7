package engine

import (
	"sync"

	"github.com/efreitasn/auctionengine/internal/domain"
)

// Shard holds the pending orders for one engine slot in arrival order.
// Every ticker hashing to the slot shares the same Shard.
//
// mu guards orders and the Quantity of every order in it. The Engine holds
// it across an append and its OrderAdded notification, and across a whole
// matching pass and its Matched notifications.
type Shard struct {
	mu     sync.Mutex
	orders []*domain.Order
}

// NewShard creates an empty Shard.
func NewShard() *Shard {
	return &Shard{}
}

// append must be called with mu held.
func (s *Shard) append(o *domain.Order) {
	s.orders = append(s.orders, o)
}

// partition must be called with mu held.
func (s *Shard) partition() (buys, sells []*domain.Order) {
	for _, o := range s.orders {
		if !o.Live() {
			continue
		}
		if o.Side == domain.SideBuy {
			buys = append(buys, o)
		} else {
			sells = append(sells, o)
		}
	}
	return buys, sells
}

// compact must be called with mu held. It filters in place and clears the
// tail so dropped orders can be collected.
func (s *Shard) compact() {
	kept := s.orders[:0]
	for _, o := range s.orders {
		if o.Live() {
			kept = append(kept, o)
		}
	}
	for i := len(kept); i < len(s.orders); i++ {
		s.orders[i] = nil
	}
	s.orders = kept
}
