// Package apperr holds the error taxonomy shared by the cart, catalog,
// inventory and order packages. Handlers map these onto HTTP statuses with
// errors.Is / errors.As; anything outside the taxonomy is treated as a
// storage failure.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthenticated   = errors.New("not authenticated")
	ErrForbidden         = errors.New("not authorized")
	ErrEmptyOrder        = errors.New("no order items")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("cannot change order status from its current status")
)

// InsufficientStockError names the product and how much is actually
// available, so the message can be surfaced verbatim to the caller.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("insufficient stock for %s. Available: %d", e.Name, e.Available)
	}
	return fmt.Sprintf("insufficient stock for product %s. Available: %d", e.ProductID, e.Available)
}

// ValidationError reports malformed input (quantity < 1, negative price,
// unknown enum value) detected before any storage access.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
