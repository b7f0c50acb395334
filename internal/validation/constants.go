package validation

import "regexp"

const (
	// Card number lengths (PAN)
	MinCardNumberLength = 12
	MaxCardNumberLength = 19

	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// String lengths
	MaxNameLength = 100
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
