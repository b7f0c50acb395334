package repositories

import (
	"errors"
	"fmt"
	"time"

	"cardbank/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockNotAvailable is the postgres SQLSTATE raised when lock_timeout expires.
const lockNotAvailable = "55P03"

type cardRepository struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewCardRepository creates a card repository. lockTimeout bounds how long
// GetByNumberForUpdate waits for a contended row inside a unit of work.
func NewCardRepository(db *gorm.DB, lockTimeout time.Duration) CardRepository {
	return &cardRepository{
		db:          db,
		lockTimeout: lockTimeout,
	}
}

func (r *cardRepository) Create(card *models.Card) error {
	var existing models.Card
	err := r.db.Where("number = ?", card.Number).First(&existing).Error
	if err == nil {
		return ErrCardNumberTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check card number: %w", err)
	}

	if err := r.db.Create(card).Error; err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

func (r *cardRepository) GetByID(id uint) (*models.Card, error) {
	var card models.Card
	err := r.db.Preload("Customer").First(&card, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &card, nil
}

func (r *cardRepository) GetByNumber(number string) (*models.Card, error) {
	var card models.Card
	err := r.db.Preload("Customer").Where("number = ?", number).First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &card, nil
}

func (r *cardRepository) GetByNumberForUpdate(number string) (*models.Card, error) {
	var card models.Card
	err := r.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Customer").
		Where("number = ?", number).
		First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == lockNotAvailable {
			return nil, ErrLockTimeout
		}
		return nil, fmt.Errorf("failed to lock card: %w", err)
	}
	return &card, nil
}

func (r *cardRepository) Save(card *models.Card) error {
	if err := r.db.Save(card).Error; err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}
	return nil
}

func (r *cardRepository) UpdateDetails(card *models.Card) error {
	err := r.db.Model(&models.Card{}).
		Where("id = ?", card.ID).
		Updates(map[string]interface{}{
			"number":     card.Number,
			"status":     card.Status,
			"expires_at": card.ExpiresAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	return nil
}

func (r *cardRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Card{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete card: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (r *cardRepository) GetByCustomerID(customerID uint, status string, limit, offset int) ([]models.Card, int64, error) {
	var cards []models.Card
	var total int64

	query := r.db.Model(&models.Card{}).Where("customer_id = ?", customerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count cards: %w", err)
	}
	if err := query.Order("created_at ASC").Limit(limit).Offset(offset).Find(&cards).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, total, nil
}

func (r *cardRepository) GetAllPaginated(limit, offset int) ([]models.Card, int64, error) {
	var cards []models.Card
	var total int64

	if err := r.db.Model(&models.Card{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count cards: %w", err)
	}
	if err := r.db.Order("created_at ASC").Limit(limit).Offset(offset).Find(&cards).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, total, nil
}

func (r *cardRepository) CreateTransaction(rec *models.Transaction) error {
	if err := r.db.Create(rec).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *cardRepository) GetTransactionByID(id string) (*models.Transaction, error) {
	var rec models.Transaction
	err := r.db.Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &rec, nil
}

func (r *cardRepository) GetTransactionsBySourceCard(cardID uint, limit, offset int) ([]models.Transaction, error) {
	var records []models.Transaction
	err := r.db.
		Where("source_card_id = ?", cardID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get card transactions: %w", err)
	}
	return records, nil
}

// ExecuteInTransaction runs fn within one database transaction. A SET LOCAL
// lock_timeout bounds every row acquisition inside it, so a contended
// GetByNumberForUpdate fails with ErrLockTimeout instead of waiting
// indefinitely.
func (r *cardRepository) ExecuteInTransaction(fn func(CardRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if r.lockTimeout > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to set lock timeout: %w", err)
			}
		}
		return fn(&cardRepository{db: tx, lockTimeout: r.lockTimeout})
	})
}
