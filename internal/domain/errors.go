package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrInvalidOrder   = errors.New("invalid_order")
	ErrOrderNotFound  = errors.New("order_not_found")
	ErrSymbolNotFound = errors.New("symbol_not_found")
)

// ValidationError represents a request validation failure. It matches
// ErrInvalidOrder under errors.Is so callers can treat every rejected
// submission the same way.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidOrder
}
