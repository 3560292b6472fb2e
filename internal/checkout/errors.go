package checkout

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrNoActiveFlow       = errors.New("no active checkout flow")
	ErrIllegalTransition  = errors.New("illegal transition of checkout step")
	ErrShippingIncomplete = errors.New("shipping details are incomplete")
	ErrMissingStoredData  = errors.New("stored shipping or payment data is missing")
)
