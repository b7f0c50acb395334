package card

import "time"

// CreateCardRequest issues a new card to an existing customer. New cards
// start ACTIVE with a zero balance.
type CreateCardRequest struct {
	Number     string    `json:"number"`
	OwnerEmail string    `json:"owner_email"`
	Currency   string    `json:"currency"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// UpdateCardRequest renumbers a card or moves its expiry.
type UpdateCardRequest struct {
	Number       string    `json:"number"`
	NewNumber    string    `json:"new_number"`
	NewExpiresAt time.Time `json:"new_expires_at"`
}
