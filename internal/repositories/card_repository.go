package repositories

import "cardbank/internal/models"

// CardRepository is the storage contract for cards and their transaction log.
// GetByNumberForUpdate and the mutating methods are meaningful only inside
// ExecuteInTransaction: the row lock and the writes commit or roll back as
// one unit of work.
type CardRepository interface {
	Create(card *models.Card) error
	GetByID(id uint) (*models.Card, error)
	GetByNumber(number string) (*models.Card, error)

	// GetByNumberForUpdate acquires the card row exclusively (SELECT ...
	// FOR UPDATE). A concurrent exclusive acquisition of the same card
	// blocks until the enclosing transaction ends; acquisitions of
	// different cards never block each other. Returns ErrLockTimeout when
	// the wait exceeds the configured bound.
	GetByNumberForUpdate(number string) (*models.Card, error)

	Save(card *models.Card) error

	// UpdateDetails persists number, status and expiry only. Lifecycle
	// paths read without a row lock, so writing every column would stomp
	// a balance committed by a concurrent funds operation.
	UpdateDetails(card *models.Card) error

	Delete(id uint) error
	GetByCustomerID(customerID uint, status string, limit, offset int) ([]models.Card, int64, error)
	GetAllPaginated(limit, offset int) ([]models.Card, int64, error)

	CreateTransaction(rec *models.Transaction) error
	GetTransactionByID(id string) (*models.Transaction, error)
	GetTransactionsBySourceCard(cardID uint, limit, offset int) ([]models.Transaction, error)

	ExecuteInTransaction(fn func(CardRepository) error) error
}
