package store

import (
	"sync"

	"github.com/efreitasn/auctionengine/internal/domain"
)

// OrderStore is a thread-safe in-memory index of submitted orders,
// with a primary index by order ID and a secondary index by symbol.
//
// The store only holds references. An order's Quantity belongs to the
// engine shard that owns it; read it through engine.Engine.Snapshot.
type OrderStore struct {
	mu           sync.RWMutex
	orders       map[string]*domain.Order
	symbolOrders map[string][]*domain.Order // symbol → orders (append-only)
}

// NewOrderStore creates an empty OrderStore.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders:       make(map[string]*domain.Order),
		symbolOrders: make(map[string][]*domain.Order),
	}
}

// Create adds an order to the store and appends it to the
// symbol's secondary index.
func (s *OrderStore) Create(o *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[o.ID] = o
	s.symbolOrders[o.Symbol] = append(s.symbolOrders[o.Symbol], o)
}

// Get retrieves an order by ID. It returns
// domain.ErrOrderNotFound if the order does not exist.
func (s *OrderStore) Get(id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

// ListBySymbol returns orders for a symbol newest first. Pagination is
// 1-based. It returns the requested page and the total number of orders
// for the symbol.
func (s *OrderStore) ListBySymbol(symbol string, page, limit int) ([]*domain.Order, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.symbolOrders[symbol]
	total := len(all)

	start := (page - 1) * limit
	if start >= total {
		return []*domain.Order{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}

	// Walk the append-only slice backwards to get newest first.
	result := make([]*domain.Order, 0, end-start)
	for i := total - 1 - start; i >= total-end; i-- {
		result = append(result, all[i])
	}
	return result, total
}

// Count returns the number of stored orders.
func (s *OrderStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
