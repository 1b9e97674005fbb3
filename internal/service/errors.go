package service

import "errors"

// Domain errors surfaced to the HTTP layer. Absence of a record is not
// an error anywhere in this package; reads return nil instead.
var (
	// ErrEmptyCart is returned when checkout is attempted with no items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrValidation marks bad caller input, e.g. a missing delivery
	// address for courier delivery. Wrap it with field detail.
	ErrValidation = errors.New("validation failed")

	// ErrCheckoutBusy is returned when another checkout for the same
	// session holds the lock.
	ErrCheckoutBusy = errors.New("checkout already in progress")
)
