package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/efreitasn/auctionengine/internal/domain"
)

func newTestOrder(id, symbol string, createdAt time.Time) *domain.Order {
	return &domain.Order{
		ID:               id,
		Side:             domain.SideBuy,
		Symbol:           symbol,
		Quantity:         10,
		OriginalQuantity: 10,
		Price:            domain.MustPrice("150"),
		CreatedAt:        createdAt,
	}
}

func TestOrderStore_Create_and_Get(t *testing.T) {
	s := NewOrderStore()
	o := newTestOrder("order-1", "AAPL", time.Now())

	s.Create(o)

	got, err := s.Get("order-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != o {
		t.Fatal("expected the stored pointer back")
	}
	if s.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", s.Count())
	}
}

func TestOrderStore_Get_NotFound(t *testing.T) {
	s := NewOrderStore()

	_, err := s.Get("no-such-order")
	if err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderStore_ListBySymbol_NewestFirst(t *testing.T) {
	s := NewOrderStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		s.Create(newTestOrder(fmt.Sprintf("order-%d", i), "AAPL", base.Add(time.Duration(i)*time.Minute)))
	}
	s.Create(newTestOrder("other", "GOOG", base))

	orders, total := s.ListBySymbol("AAPL", 1, 10)
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(orders) != 5 {
		t.Fatalf("expected 5 orders, got %d", len(orders))
	}
	for i := 0; i < len(orders)-1; i++ {
		if !orders[i].CreatedAt.After(orders[i+1].CreatedAt) {
			t.Fatalf("orders not newest first at index %d", i)
		}
	}
}

func TestOrderStore_ListBySymbol_Pagination(t *testing.T) {
	s := NewOrderStore()
	for i := 0; i < 5; i++ {
		s.Create(newTestOrder(fmt.Sprintf("order-%d", i), "AAPL", time.Now()))
	}

	tests := []struct {
		page, limit int
		wantIDs     []string
	}{
		{1, 2, []string{"order-4", "order-3"}},
		{2, 2, []string{"order-2", "order-1"}},
		{3, 2, []string{"order-0"}},
		{4, 2, []string{}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page=%d,limit=%d", tt.page, tt.limit), func(t *testing.T) {
			orders, total := s.ListBySymbol("AAPL", tt.page, tt.limit)
			if total != 5 {
				t.Errorf("total = %d, want 5", total)
			}
			if len(orders) != len(tt.wantIDs) {
				t.Fatalf("got %d orders, want %d", len(orders), len(tt.wantIDs))
			}
			for i, o := range orders {
				if o.ID != tt.wantIDs[i] {
					t.Errorf("orders[%d] = %s, want %s", i, o.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestOrderStore_ListBySymbol_Unknown(t *testing.T) {
	s := NewOrderStore()
	orders, total := s.ListBySymbol("NONE", 1, 10)
	if total != 0 || len(orders) != 0 || orders == nil {
		t.Errorf("expected empty non-nil page, got %v (total %d)", orders, total)
	}
}

func TestOrderStore_ConcurrentAccess(t *testing.T) {
	s := NewOrderStore()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Create(newTestOrder(fmt.Sprintf("order-%d", i), "AAPL", time.Now()))
			s.ListBySymbol("AAPL", 1, 10)
		}(i)
	}
	wg.Wait()

	if _, total := s.ListBySymbol("AAPL", 1, 1); total != 100 {
		t.Errorf("total = %d, want 100", total)
	}
}
