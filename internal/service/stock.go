package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/auctionengine/internal/domain"
	"github.com/efreitasn/auctionengine/internal/engine"
	"github.com/efreitasn/auctionengine/internal/store"
)

// PriceResponse represents the response for GET /stocks/{symbol}/price.
type PriceResponse struct {
	Symbol         string
	CurrentPrice   *decimal.Decimal // nil when no fills ever
	Window         string           // e.g. "5m"
	TradesInWindow int
	Volume         int64      // units traded since startup
	LastTradeAt    *time.Time // nil when no fills ever
}

// BookResponse represents the response for GET /stocks/{symbol}/book.
type BookResponse struct {
	Symbol string
	Buys   []domain.Order
	Sells  []domain.Order
	Bids   []engine.PriceLevel
	Asks   []engine.PriceLevel
	// Spread is best ask minus best bid. Arrival-order matching can leave
	// it negative when a non-crossing head blocks a crossing order behind it.
	Spread     *decimal.Decimal
	SnapshotAt time.Time
}

// StockService handles per-symbol price, book and trade queries.
type StockService struct {
	engine     *engine.Engine
	fillStore  *store.FillStore
	vwapWindow time.Duration
	symbols    *domain.SymbolRegistry
}

// NewStockService creates a new StockService with the given dependencies.
func NewStockService(
	eng *engine.Engine,
	fillStore *store.FillStore,
	vwapWindow time.Duration,
	symbols *domain.SymbolRegistry,
) *StockService {
	return &StockService{
		engine:     eng,
		fillStore:  fillStore,
		vwapWindow: vwapWindow,
		symbols:    symbols,
	}
}

// GetPrice returns the current reference price for a symbol, computed as
// VWAP over the configured time window. Falls back to the last fill's
// price if no fills exist in the window. Returns a nil price if no fills
// have ever occurred.
func (s *StockService) GetPrice(symbol string) (*PriceResponse, error) {
	if !s.symbols.Exists(symbol) {
		return nil, domain.ErrSymbolNotFound
	}

	fills := s.fillStore.GetBySymbol(symbol)
	windowStart := time.Now().Add(-s.vwapWindow)

	resp := &PriceResponse{
		Symbol: symbol,
		Window: formatDuration(s.vwapWindow),
		Volume: s.fillStore.Volume(symbol),
	}

	if len(fills) == 0 {
		return resp, nil
	}

	last := fills[len(fills)-1]
	resp.LastTradeAt = &last.ExecutedAt

	// Iterate backwards from the tail until executed_at falls outside the window.
	sumNotional := decimal.Zero
	var sumQty int64
	for i := len(fills) - 1; i >= 0; i-- {
		f := fills[i]
		if f.ExecutedAt.Before(windowStart) {
			break
		}
		sumNotional = sumNotional.Add(f.Notional())
		sumQty += f.Quantity
		resp.TradesInWindow++
	}

	if sumQty > 0 {
		vwap := sumNotional.DivRound(decimal.NewFromInt(sumQty), domain.MaxPriceDecimals)
		resp.CurrentPrice = &vwap
	} else {
		resp.CurrentPrice = &last.Price
	}

	return resp, nil
}

// GetBook returns the symbol's live orders in arrival order plus the top
// depth price levels per side.
func (s *StockService) GetBook(symbol string, depth int) (*BookResponse, error) {
	if !s.symbols.Exists(symbol) {
		return nil, domain.ErrSymbolNotFound
	}

	if depth < 1 || depth > 50 {
		return nil, &domain.ValidationError{
			Message: "depth must be between 1 and 50",
		}
	}

	book := s.engine.Book(symbol, depth)

	resp := &BookResponse{
		Symbol:     symbol,
		Buys:       book.Buys,
		Sells:      book.Sells,
		Bids:       book.Bids,
		Asks:       book.Asks,
		SnapshotAt: time.Now(),
	}

	if len(book.Bids) > 0 && len(book.Asks) > 0 {
		spread := book.Asks[0].Price.Sub(book.Bids[0].Price)
		resp.Spread = &spread
	}

	return resp, nil
}

// GetTrades returns the symbol's most recent fills, oldest first.
func (s *StockService) GetTrades(symbol string, limit int) ([]domain.Fill, error) {
	if !s.symbols.Exists(symbol) {
		return nil, domain.ErrSymbolNotFound
	}
	if limit < 1 || limit > 500 {
		return nil, &domain.ValidationError{
			Message: "limit must be between 1 and 500",
		}
	}
	return s.fillStore.Recent(symbol, limit), nil
}

// Symbols lists every symbol that has received an order.
func (s *StockService) Symbols() []string {
	return s.symbols.List()
}

// formatDuration converts a time.Duration to a human-readable string
// like "5m" for the window field.
func formatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	minutes := int(d.Minutes())
	if d == time.Duration(minutes)*time.Minute && minutes > 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return d.String()
}
