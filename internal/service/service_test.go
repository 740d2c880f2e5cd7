package service

import (
	"time"

	"github.com/efreitasn/auctionengine/internal/domain"
	"github.com/efreitasn/auctionengine/internal/engine"
	"github.com/efreitasn/auctionengine/internal/store"
)

// testEnv bundles the services and their shared dependencies.
type testEnv struct {
	engine     *engine.Engine
	orderStore *store.OrderStore
	fillStore  *store.FillStore
	symbols    *domain.SymbolRegistry
	orderSvc   *OrderService
	stockSvc   *StockService
}

func newTestEnv(vwapWindow time.Duration) *testEnv {
	ostore := store.NewOrderStore()
	fs := store.NewFillStore()
	sr := domain.NewSymbolRegistry()
	eng := engine.New(engine.DefaultNumShards, true, fs)
	return &testEnv{
		engine:     eng,
		orderStore: ostore,
		fillStore:  fs,
		symbols:    sr,
		orderSvc:   NewOrderService(eng, ostore, sr),
		stockSvc:   NewStockService(eng, fs, vwapWindow, sr),
	}
}

func req(side domain.Side, symbol string, qty int64, price string) SubmitOrderRequest {
	return SubmitOrderRequest{
		Side:     side,
		Symbol:   symbol,
		Quantity: qty,
		Price:    domain.MustPrice(price),
	}
}
