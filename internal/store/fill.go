package store

import (
	"sync"

	"github.com/efreitasn/auctionengine/internal/domain"
)

// FillStore is a thread-safe in-memory tape of fills, keyed by symbol.
// Each symbol's tape is ordered by ExecutedAt.
//
// FillStore is an engine.Observer: registered on the engine, it records
// every fill while the pass that produced it still holds its shard.
type FillStore struct {
	mu     sync.RWMutex
	fills  map[string][]domain.Fill // symbol → fills (chronological)
	volume map[string]int64         // symbol → units traded
}

// NewFillStore creates an empty FillStore.
func NewFillStore() *FillStore {
	return &FillStore{
		fills:  make(map[string][]domain.Fill),
		volume: make(map[string]int64),
	}
}

// OrderAdded is a no-op; the tape only records fills.
func (s *FillStore) OrderAdded(domain.Order) {}

// Matched records a fill produced by a matching pass.
func (s *FillStore) Matched(fill domain.Fill) {
	s.Append(fill)
}

// Append adds fills to their symbols' tapes. A fill older than the tail is
// placed after the last fill executed no later than it, so the tape stays
// chronological and fills sharing a timestamp keep their arrival order.
func (s *FillStore) Append(fills ...domain.Fill) {
	if len(fills) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range fills {
		tape := append(s.fills[f.Symbol], f)
		i := len(tape) - 1
		for i > 0 && tape[i-1].ExecutedAt.After(f.ExecutedAt) {
			tape[i] = tape[i-1]
			i--
		}
		tape[i] = f
		s.fills[f.Symbol] = tape
		s.volume[f.Symbol] += f.Quantity
	}
}

// GetBySymbol returns all fills for a symbol in chronological order.
// Returns an empty slice if no fills exist for the symbol.
func (s *FillStore) GetBySymbol(symbol string) []domain.Fill {
	return s.Recent(symbol, 0)
}

// Recent returns the last n fills for a symbol, oldest first.
// n <= 0 returns every fill.
func (s *FillStore) Recent(symbol string, n int) []domain.Fill {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fills := s.fills[symbol]
	if n <= 0 || n > len(fills) {
		n = len(fills)
	}

	// Return a copy to avoid callers mutating the internal slice.
	result := make([]domain.Fill, n)
	copy(result, fills[len(fills)-n:])
	return result
}

// Volume returns the total quantity traded for a symbol.
func (s *FillStore) Volume(symbol string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volume[symbol]
}
