package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/auctionengine/internal/domain"
	"github.com/efreitasn/auctionengine/internal/engine"
	"github.com/efreitasn/auctionengine/internal/service"
)

// StockHandler handles HTTP requests for stock endpoints.
type StockHandler struct {
	stockSvc *service.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockSvc *service.StockService) *StockHandler {
	return &StockHandler{stockSvc: stockSvc}
}

// priceResponse is the JSON response for GET /stocks/{symbol}/price.
type priceResponse struct {
	Symbol       string  `json:"symbol"`
	CurrentPrice *string `json:"current_price"`
	Window       string  `json:"window"`
	TradesInWin  int     `json:"trades_in_window"`
	Volume       int64   `json:"volume"`
	LastTradeAt  *string `json:"last_trade_at"`
}

// bookLevelResponse is a single price level in the book response.
type bookLevelResponse struct {
	Price         string `json:"price"`
	TotalQuantity int64  `json:"total_quantity"`
	OrderCount    int    `json:"order_count"`
}

// bookResponse is the JSON response for GET /stocks/{symbol}/book. Buys
// and sells are the live orders in arrival order, the sequence a matching
// pass walks.
type bookResponse struct {
	Symbol     string              `json:"symbol"`
	Buys       []orderResponse     `json:"buys"`
	Sells      []orderResponse     `json:"sells"`
	Bids       []bookLevelResponse `json:"bids"`
	Asks       []bookLevelResponse `json:"asks"`
	Spread     *string             `json:"spread"`
	SnapshotAt string              `json:"snapshot_at"`
}

// tradesResponse is the JSON response for GET /stocks/{symbol}/trades.
type tradesResponse struct {
	Symbol string         `json:"symbol"`
	Fills  []fillResponse `json:"fills"`
}

// GetPrice handles GET /stocks/{symbol}/price.
func (h *StockHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	price, err := h.stockSvc.GetPrice(symbol)
	if err != nil {
		mapStockError(w, err)
		return
	}

	resp := priceResponse{
		Symbol:      price.Symbol,
		Window:      price.Window,
		TradesInWin: price.TradesInWindow,
		Volume:      price.Volume,
	}

	if price.CurrentPrice != nil {
		v := price.CurrentPrice.String()
		resp.CurrentPrice = &v
	}
	if price.LastTradeAt != nil {
		s := formatTime(*price.LastTradeAt)
		resp.LastTradeAt = &s
	}

	WriteJSON(w, http.StatusOK, resp)
}

// GetBook handles GET /stocks/{symbol}/book.
func (h *StockHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	// Parse depth query param (default 10, max 50).
	depth, ok := queryInt(w, r, "depth", 10)
	if !ok {
		return
	}

	book, err := h.stockSvc.GetBook(symbol, depth)
	if err != nil {
		mapStockError(w, err)
		return
	}

	resp := bookResponse{
		Symbol:     book.Symbol,
		Buys:       make([]orderResponse, len(book.Buys)),
		Sells:      make([]orderResponse, len(book.Sells)),
		Bids:       buildLevelResponses(book.Bids),
		Asks:       buildLevelResponses(book.Asks),
		SnapshotAt: formatTime(book.SnapshotAt),
	}
	for i, o := range book.Buys {
		resp.Buys[i] = buildOrderResponse(o)
	}
	for i, o := range book.Sells {
		resp.Sells[i] = buildOrderResponse(o)
	}

	if book.Spread != nil {
		v := book.Spread.String()
		resp.Spread = &v
	}

	WriteJSON(w, http.StatusOK, resp)
}

// GetTrades handles GET /stocks/{symbol}/trades.
func (h *StockHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	limit, ok := queryInt(w, r, "limit", 50)
	if !ok {
		return
	}

	fills, err := h.stockSvc.GetTrades(symbol, limit)
	if err != nil {
		mapStockError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, tradesResponse{
		Symbol: symbol,
		Fills:  buildFillResponses(fills),
	})
}

// ListSymbols handles GET /stocks.
func (h *StockHandler) ListSymbols(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string][]string{"symbols": h.stockSvc.Symbols()})
}

func buildLevelResponses(levels []engine.PriceLevel) []bookLevelResponse {
	result := make([]bookLevelResponse, len(levels))
	for i, l := range levels {
		result[i] = bookLevelResponse{
			Price:         l.Price.String(),
			TotalQuantity: l.TotalQuantity,
			OrderCount:    l.OrderCount,
		}
	}
	return result
}

// queryInt reads an integer query parameter, writing a 400 and returning
// false if it is present but malformed.
func queryInt(w http.ResponseWriter, r *http.Request, name string, defaultVal int) (int, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal, true
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", name+" must be a valid integer")
		return 0, false
	}
	return v, true
}

// mapStockError maps domain errors to HTTP responses for stock endpoints.
func mapStockError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrSymbolNotFound):
		WriteError(w, http.StatusNotFound, "symbol_not_found", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
