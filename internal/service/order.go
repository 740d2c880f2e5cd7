package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/auctionengine/internal/domain"
	"github.com/efreitasn/auctionengine/internal/engine"
	"github.com/efreitasn/auctionengine/internal/store"
)

// SubmitOrderRequest represents the input for order submission.
type SubmitOrderRequest struct {
	Side     domain.Side
	Symbol   string
	Quantity int64
	Price    decimal.Decimal
}

// SubmitResult is the accepted order as it stood after its matching pass,
// together with the fills that pass produced.
type SubmitResult struct {
	Order domain.Order
	Fills []domain.Fill
}

// OrderService validates submissions before they reach the engine and
// indexes accepted orders. Fills reach the tape through the engine's
// observers, so the FillStore read by StockService must be registered on
// the engine.
type OrderService struct {
	engine     *engine.Engine
	orderStore *store.OrderStore
	symbols    *domain.SymbolRegistry
}

// NewOrderService creates a new OrderService with the given dependencies.
func NewOrderService(
	eng *engine.Engine,
	orderStore *store.OrderStore,
	symbols *domain.SymbolRegistry,
) *OrderService {
	return &OrderService{
		engine:     eng,
		orderStore: orderStore,
		symbols:    symbols,
	}
}

// SubmitOrder validates the request, submits it to the engine and indexes
// the order. A rejected request leaves the engine untouched.
func (s *OrderService) SubmitOrder(req SubmitOrderRequest) (*SubmitResult, error) {
	if err := validateSubmit(req); err != nil {
		return nil, err
	}

	s.symbols.Register(req.Symbol)

	order, fills := s.engine.Submit(req.Side, req.Symbol, req.Quantity, req.Price)
	s.orderStore.Create(order)

	return &SubmitResult{
		Order: s.engine.Snapshot(order),
		Fills: fills,
	}, nil
}

func validateSubmit(req SubmitOrderRequest) error {
	if !req.Side.Valid() {
		return &domain.ValidationError{
			Message: fmt.Sprintf("Unknown side: %q. Must be one of: BUY, SELL", req.Side),
		}
	}
	if !domain.ValidSymbol(req.Symbol) {
		return &domain.ValidationError{
			Message: "symbol must match " + domain.SymbolPattern,
		}
	}
	if req.Quantity <= 0 {
		return &domain.ValidationError{
			Message: "quantity must be a positive integer",
		}
	}
	if req.Price.IsNegative() {
		return &domain.ValidationError{
			Message: "price must be greater than or equal to 0",
		}
	}
	return nil
}

// Match runs a matching pass for a known symbol.
func (s *OrderService) Match(symbol string) ([]domain.Fill, error) {
	if !s.symbols.Exists(symbol) {
		return nil, domain.ErrSymbolNotFound
	}
	return s.engine.Match(symbol), nil
}

// GetOrder returns the current state of an order.
func (s *OrderService) GetOrder(orderID string) (domain.Order, error) {
	order, err := s.orderStore.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	return s.engine.Snapshot(order), nil
}

// ListOrders returns a page of a symbol's orders, newest first, with their
// current quantities.
func (s *OrderService) ListOrders(symbol string, page, limit int) ([]domain.Order, int, error) {
	if !s.symbols.Exists(symbol) {
		return nil, 0, domain.ErrSymbolNotFound
	}

	// Validate pagination.
	if page < 1 {
		return nil, 0, &domain.ValidationError{
			Message: "page must be >= 1",
		}
	}
	if limit < 1 || limit > 100 {
		return nil, 0, &domain.ValidationError{
			Message: "limit must be between 1 and 100",
		}
	}

	refs, total := s.orderStore.ListBySymbol(symbol, page, limit)
	orders := make([]domain.Order, len(refs))
	for i, o := range refs {
		orders[i] = s.engine.Snapshot(o)
	}
	return orders, total, nil
}
