package funds

import "github.com/shopspring/decimal"

// TransferRequest moves Amount from one card to another owned pair.
type TransferRequest struct {
	FromCardNumber string          `json:"from_card_number"`
	ToCardNumber   string          `json:"to_card_number"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
}

// WithdrawRequest debits Amount from a card.
type WithdrawRequest struct {
	CardNumber string          `json:"card_number"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
}

// DepositRequest credits Amount to a card.
type DepositRequest struct {
	CardNumber string          `json:"card_number"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
}
