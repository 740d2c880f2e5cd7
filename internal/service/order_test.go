package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/efreitasn/auctionengine/internal/domain"
)

func TestSubmitOrder_RestsWithoutCounterparty(t *testing.T) {
	env := newTestEnv(5 * time.Minute)

	res, err := env.orderSvc.SubmitOrder(req(domain.SideBuy, "AAPL", 50, "120"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Order.ID == "" {
		t.Error("expected an order id to be assigned")
	}
	if res.Order.Status() != domain.OrderStatusOpen || res.Order.Quantity != 50 {
		t.Errorf("order = %+v, want OPEN with 50 left", res.Order)
	}
	if len(res.Fills) != 0 {
		t.Errorf("expected no fills, got %d", len(res.Fills))
	}
	if !env.symbols.Exists("AAPL") {
		t.Error("symbol should be registered on submit")
	}
	if _, err := env.orderStore.Get(res.Order.ID); err != nil {
		t.Errorf("order not stored: %v", err)
	}
}

func TestSubmitOrder_CrossingRecordsFills(t *testing.T) {
	env := newTestEnv(5 * time.Minute)

	buy, _ := env.orderSvc.SubmitOrder(req(domain.SideBuy, "AAPL", 50, "120"))
	sell, err := env.orderSvc.SubmitOrder(req(domain.SideSell, "AAPL", 30, "100"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sell.Fills) != 1 || sell.Fills[0].Quantity != 30 {
		t.Fatalf("fills = %v, want one fill of 30", sell.Fills)
	}
	if sell.Order.Status() != domain.OrderStatusFilled {
		t.Errorf("sell status = %s, want FILLED", sell.Order.Status())
	}

	got, err := env.orderSvc.GetOrder(buy.Order.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got.Quantity != 20 || got.Status() != domain.OrderStatusPartiallyFilled {
		t.Errorf("buy = %d %s, want 20 PARTIALLY_FILLED", got.Quantity, got.Status())
	}

	if q := env.fillStore.Volume("AAPL"); q != 30 {
		t.Errorf("fill store volume = %d, want 30", q)
	}
}

func TestSubmitOrder_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  SubmitOrderRequest
	}{
		{"unknown side", req("HOLD", "AAPL", 1, "1")},
		{"lowercase side", req("buy", "AAPL", 1, "1")},
		{"empty symbol", req(domain.SideBuy, "", 1, "1")},
		{"lowercase symbol", req(domain.SideBuy, "aapl", 1, "1")},
		{"symbol too long", req(domain.SideBuy, "ABCDEFGHIJK", 1, "1")},
		{"zero quantity", req(domain.SideBuy, "AAPL", 0, "1")},
		{"negative quantity", req(domain.SideBuy, "AAPL", -3, "1")},
		{"negative price", req(domain.SideBuy, "AAPL", 1, "-0.01")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(5 * time.Minute)

			_, err := env.orderSvc.SubmitOrder(tt.req)
			if !errors.Is(err, domain.ErrInvalidOrder) {
				t.Fatalf("expected ErrInvalidOrder, got %v", err)
			}
			var ve *domain.ValidationError
			if !errors.As(err, &ve) || ve.Message == "" {
				t.Errorf("expected a ValidationError with a message, got %v", err)
			}
			if env.orderStore.Count() != 0 {
				t.Error("rejected order must not be stored")
			}
			if len(env.symbols.List()) != 0 {
				t.Error("rejected order must not register its symbol")
			}
		})
	}
}

func TestSubmitOrder_ConcurrentTapeIsChronological(t *testing.T) {
	env := newTestEnv(5 * time.Minute)

	const workers = 8
	const perWorker = 2000

	var wg sync.WaitGroup
	var mu sync.Mutex
	var returned int
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				side := domain.SideBuy
				if (w+i)%2 == 0 {
					side = domain.SideSell
				}
				res, err := env.orderSvc.SubmitOrder(req(side, "AAPL", 1, "100"))
				if err != nil {
					t.Errorf("submit: %v", err)
					return
				}
				mu.Lock()
				returned += len(res.Fills)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	tape := env.fillStore.GetBySymbol("AAPL")
	if len(tape) != returned {
		t.Fatalf("tape has %d fills, submissions returned %d", len(tape), returned)
	}
	if returned == 0 {
		t.Fatal("expected crossing submissions to produce fills")
	}
	for i := 1; i < len(tape); i++ {
		if tape[i].ExecutedAt.Before(tape[i-1].ExecutedAt) {
			t.Fatalf("tape[%d] executed at %v, before tape[%d] at %v",
				i, tape[i].ExecutedAt, i-1, tape[i-1].ExecutedAt)
		}
	}
	if got := env.fillStore.Volume("AAPL"); got != int64(returned) {
		t.Errorf("volume = %d, want %d", got, returned)
	}
}

func TestSubmitOrder_ZeroPriceAccepted(t *testing.T) {
	env := newTestEnv(5 * time.Minute)
	if _, err := env.orderSvc.SubmitOrder(req(domain.SideSell, "AAPL", 1, "0")); err != nil {
		t.Fatalf("zero price should be accepted, got %v", err)
	}
}

func TestMatch_UnknownSymbol(t *testing.T) {
	env := newTestEnv(5 * time.Minute)
	if _, err := env.orderSvc.Match("AAPL"); err != domain.ErrSymbolNotFound {
		t.Fatalf("expected ErrSymbolNotFound, got %v", err)
	}
}

func TestMatch_NoNewFills(t *testing.T) {
	env := newTestEnv(5 * time.Minute)
	env.orderSvc.SubmitOrder(req(domain.SideBuy, "AAPL", 10, "100"))
	env.orderSvc.SubmitOrder(req(domain.SideSell, "AAPL", 10, "100"))

	fills, err := env.orderSvc.Match("AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fills) != 0 {
		t.Errorf("expected no fills from a repeated pass, got %d", len(fills))
	}
	if got := len(env.fillStore.GetBySymbol("AAPL")); got != 1 {
		t.Errorf("fill store has %d fills, want 1", got)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	env := newTestEnv(5 * time.Minute)
	if _, err := env.orderSvc.GetOrder("nope"); err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestListOrders(t *testing.T) {
	env := newTestEnv(5 * time.Minute)
	first, _ := env.orderSvc.SubmitOrder(req(domain.SideBuy, "AAPL", 10, "100"))
	env.orderSvc.SubmitOrder(req(domain.SideSell, "AAPL", 4, "100"))

	orders, total, err := env.orderSvc.ListOrders("AAPL", 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("got %d orders (total %d), want 2", len(orders), total)
	}
	if orders[1].ID != first.Order.ID || orders[1].Quantity != 6 {
		t.Errorf("oldest order = %s with %d left, want %s with 6", orders[1].ID, orders[1].Quantity, first.Order.ID)
	}
}

func TestListOrders_Validation(t *testing.T) {
	env := newTestEnv(5 * time.Minute)

	if _, _, err := env.orderSvc.ListOrders("AAPL", 1, 10); err != domain.ErrSymbolNotFound {
		t.Errorf("expected ErrSymbolNotFound, got %v", err)
	}

	env.orderSvc.SubmitOrder(req(domain.SideBuy, "AAPL", 10, "100"))
	for _, tc := range []struct{ page, limit int }{{0, 10}, {1, 0}, {1, 101}} {
		if _, _, err := env.orderSvc.ListOrders("AAPL", tc.page, tc.limit); !errors.Is(err, domain.ErrInvalidOrder) {
			t.Errorf("page=%d limit=%d: expected validation error, got %v", tc.page, tc.limit, err)
		}
	}
}
