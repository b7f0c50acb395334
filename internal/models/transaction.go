package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypeTransfer = "TRANSFER"
	TransactionTypeDebit    = "DEBIT"
	TransactionTypeCredit   = "CREDIT"
)

// Transaction statuses
const (
	TransactionStatusSuccess = "SUCCESS"
	TransactionStatusFailed  = "FAILED"
)

// Transaction is an immutable record of one completed money movement.
// TargetCardID is set only for TRANSFER records. Records are appended
// exactly once per completed operation and never updated or deleted.
type Transaction struct {
	ID           string          `gorm:"primarykey" json:"id"`
	Type         string          `gorm:"not null" json:"type"`
	Status       string          `gorm:"not null" json:"status"`
	Amount       decimal.Decimal `gorm:"type:numeric(19,4);not null" json:"amount"`
	Currency     string          `gorm:"not null" json:"currency"`
	SourceCardID uint            `gorm:"index;not null" json:"source_card_id"`
	TargetCardID *uint           `gorm:"index" json:"target_card_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
