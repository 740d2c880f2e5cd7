package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/auctionengine/internal/domain"
	"github.com/efreitasn/auctionengine/internal/service"
)

const timeLayout = "2006-01-02T15:04:05Z"

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	orderSvc *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// submitOrderRequest is the JSON request body for POST /orders. Price may
// be sent as a JSON number or a decimal string.
type submitOrderRequest struct {
	Side     string       `json:"side"`
	Symbol   string       `json:"symbol"`
	Quantity int64        `json:"quantity"`
	Price    *json.Number `json:"price"`
}

// orderResponse is the JSON representation of an order's current state.
type orderResponse struct {
	OrderID           string `json:"order_id"`
	Side              string `json:"side"`
	Symbol            string `json:"symbol"`
	Price             string `json:"price"`
	Quantity          int64  `json:"quantity"`
	FilledQuantity    int64  `json:"filled_quantity"`
	RemainingQuantity int64  `json:"remaining_quantity"`
	Status            string `json:"status"`
	CreatedAt         string `json:"created_at"`
}

// fillResponse is a single fill.
type fillResponse struct {
	FillID      string `json:"fill_id"`
	Symbol      string `json:"symbol"`
	Price       string `json:"price"`
	Quantity    int64  `json:"quantity"`
	BuyOrderID  string `json:"buy_order_id"`
	SellOrderID string `json:"sell_order_id"`
	ExecutedAt  string `json:"executed_at"`
}

// submitOrderResponse is the JSON response for POST /orders.
type submitOrderResponse struct {
	Order orderResponse  `json:"order"`
	Fills []fillResponse `json:"fills"`
}

// listOrdersResponse is the JSON response for GET /stocks/{symbol}/orders.
type listOrdersResponse struct {
	Orders []orderResponse `json:"orders"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
	Total  int             `json:"total"`
}

// SubmitOrder handles POST /orders.
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := ParseJSON(w, r, &req); err != nil {
		if errors.Is(err, errBodyTooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large", err.Error())
			return
		}
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if req.Price == nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "price is required")
		return
	}
	price, err := domain.ParsePrice(req.Price.String())
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	res, err := h.orderSvc.SubmitOrder(service.SubmitOrderRequest{
		Side:     domain.Side(req.Side),
		Symbol:   req.Symbol,
		Quantity: req.Quantity,
		Price:    price,
	})
	if err != nil {
		mapOrderError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, submitOrderResponse{
		Order: buildOrderResponse(res.Order),
		Fills: buildFillResponses(res.Fills),
	})
}

// GetOrder handles GET /orders/{order_id}.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	order, err := h.orderSvc.GetOrder(orderID)
	if err != nil {
		mapOrderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}

// ListOrders handles GET /stocks/{symbol}/orders.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	page, ok := queryInt(w, r, "page", 1)
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", 20)
	if !ok {
		return
	}

	orders, total, err := h.orderSvc.ListOrders(symbol, page, limit)
	if err != nil {
		mapOrderError(w, err)
		return
	}

	resp := listOrdersResponse{
		Orders: make([]orderResponse, len(orders)),
		Page:   page,
		Limit:  limit,
		Total:  total,
	}
	for i, o := range orders {
		resp.Orders[i] = buildOrderResponse(o)
	}

	WriteJSON(w, http.StatusOK, resp)
}

// Match handles POST /stocks/{symbol}/match.
func (h *OrderHandler) Match(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	fills, err := h.orderSvc.Match(symbol)
	if err != nil {
		mapOrderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"fills": buildFillResponses(fills)})
}

func buildOrderResponse(o domain.Order) orderResponse {
	remaining := o.Quantity
	if remaining < 0 {
		remaining = 0
	}
	return orderResponse{
		OrderID:           o.ID,
		Side:              string(o.Side),
		Symbol:            o.Symbol,
		Price:             o.Price.String(),
		Quantity:          o.OriginalQuantity,
		FilledQuantity:    o.FilledQuantity(),
		RemainingQuantity: remaining,
		Status:            string(o.Status()),
		CreatedAt:         formatTime(o.CreatedAt),
	}
}

// buildFillResponses converts domain fills to response fills. The result
// is never nil so it encodes as an empty array.
func buildFillResponses(fills []domain.Fill) []fillResponse {
	result := make([]fillResponse, len(fills))
	for i, f := range fills {
		result[i] = fillResponse{
			FillID:      f.ID,
			Symbol:      f.Symbol,
			Price:       f.Price.String(),
			Quantity:    f.Quantity,
			BuyOrderID:  f.BuyOrderID,
			SellOrderID: f.SellOrderID,
			ExecutedAt:  formatTime(f.ExecutedAt),
		}
	}
	return result
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// mapOrderError maps domain errors to HTTP responses for order endpoints.
func mapOrderError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, domain.ErrSymbolNotFound):
		WriteError(w, http.StatusNotFound, "symbol_not_found", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
