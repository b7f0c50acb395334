package card

import "errors"

// Service errors
var (
	ErrCardNotFound    = errors.New("card not found")
	ErrCardNumberTaken = errors.New("card number already exists")
	ErrOwnerNotFound   = errors.New("card owner not found")
	ErrAccessDenied    = errors.New("card belongs to another customer")
	ErrAlreadyBlocked  = errors.New("card is already blocked")

	ErrTransactionNotFound = errors.New("transaction not found")
)
