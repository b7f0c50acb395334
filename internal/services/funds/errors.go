package funds

import "errors"

// Service errors. ErrLockTimeout and ErrPersistenceFailure are the only
// conditions safe to retry with the same idempotency key; everything else
// is permanent for the given request.
var (
	ErrCardNotFound       = errors.New("card not found")
	ErrAccessDenied       = errors.New("card belongs to another customer")
	ErrCardBlocked        = errors.New("card is blocked")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrSelfTransfer       = errors.New("source and target card must differ")
	ErrCurrencyMismatch   = errors.New("currency mismatch")
	ErrLockTimeout        = errors.New("timed out waiting for card lock")
	ErrPersistenceFailure = errors.New("failed to persist operation")
)
