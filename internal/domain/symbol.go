package domain

import (
	"regexp"
	"sort"
	"sync"
)

// SymbolPattern is the form every ticker must take.
const SymbolPattern = `^[A-Z]{1,10}$`

var symbolRegex = regexp.MustCompile(SymbolPattern)

// ValidSymbol reports whether s is an acceptable ticker.
func ValidSymbol(s string) bool {
	return symbolRegex.MatchString(s)
}

// SymbolRegistry tracks tickers that have seen at least one order, in a
// thread-safe manner. Symbols are registered on submission.
type SymbolRegistry struct {
	mu      sync.RWMutex
	symbols map[string]bool
}

// NewSymbolRegistry creates an empty SymbolRegistry.
func NewSymbolRegistry() *SymbolRegistry {
	return &SymbolRegistry{
		symbols: make(map[string]bool),
	}
}

// Register adds a symbol to the registry. Safe for concurrent use.
func (r *SymbolRegistry) Register(symbol string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.symbols[symbol] = true
}

// Exists returns true if the symbol has been registered. Safe for concurrent use.
func (r *SymbolRegistry) Exists(symbol string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.symbols[symbol]
}

// List returns the registered symbols sorted alphabetically.
func (r *SymbolRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.symbols))
	for s := range r.symbols {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
