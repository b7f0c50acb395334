package repositories

import "errors"

// Repository errors
var (
	ErrCardNotFound        = errors.New("card not found")
	ErrCardNumberTaken     = errors.New("card number already exists")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrLockTimeout is returned when an exclusive row acquisition exceeds
	// the configured lock_timeout. Safe to retry with the same
	// idempotency key.
	ErrLockTimeout = errors.New("timed out waiting for card lock")
)
