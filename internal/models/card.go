package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Card statuses
const (
	CardStatusActive  = "ACTIVE"
	CardStatusBlocked = "BLOCKED"
)

// Card represents a balance-holding card issued to a customer.
// Balance and Status are mutated only by the funds service under
// an exclusive row lock.
type Card struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	Number     string          `gorm:"uniqueIndex;not null" json:"number"`
	CustomerID uint            `gorm:"index;not null" json:"customer_id"`
	Customer   *Customer       `gorm:"foreignKey:CustomerID" json:"-"`
	Balance    decimal.Decimal `gorm:"type:numeric(19,4);not null;default:0" json:"balance"`
	Currency   string          `gorm:"not null;default:'USD'" json:"currency"`
	Status     string          `gorm:"not null;default:'ACTIVE'" json:"status"`
	ExpiresAt  time.Time       `json:"expires_at"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// IsActive reports whether the card may participate in money movement.
func (c *Card) IsActive() bool {
	return c.Status == CardStatusActive
}

// OwnedBy reports whether the card belongs to the customer with the given email.
func (c *Card) OwnedBy(email string) bool {
	return c.Customer != nil && c.Customer.Email == email
}
