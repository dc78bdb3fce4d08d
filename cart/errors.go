package cart

import "errors"

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrUnknownVariant  = errors.New("unknown variant")
)

// InvalidProductError is returned when a cart mutation or price calculation is
// attempted against a nil or malformed product. The cart is never mutated when
// this error is returned.
type InvalidProductError struct {
	Reason string
}

func (e *InvalidProductError) Error() string {
	return "invalid product: " + e.Reason
}
