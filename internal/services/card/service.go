// Package card provides the card lifecycle surface: issuance, renumbering,
// block/activate, deletion and listing. Balances are never touched here;
// money movement belongs to the funds service.
package card

import (
	"context"
	"errors"
	"log"

	"cardbank/internal/models"
	"cardbank/internal/repositories"

	"github.com/shopspring/decimal"
)

// IdempotencyStore memoizes mutation results under the caller's token.
type IdempotencyStore interface {
	Complete(ctx context.Context, key string, result interface{}) error
}

type Service interface {
	// Admin surface
	CreateCard(ctx context.Context, req CreateCardRequest, idempotencyKey string) (*models.Card, error)
	UpdateCard(ctx context.Context, req UpdateCardRequest) (*models.Card, error)
	BlockCard(ctx context.Context, number, idempotencyKey string) error
	ActivateCard(ctx context.Context, number, idempotencyKey string) error
	DeleteCard(ctx context.Context, number, idempotencyKey string) error
	ListCards(ctx context.Context, limit, offset int) ([]models.Card, int64, error)

	// Customer surface
	CustomerCards(ctx context.Context, email, status string, limit, offset int) ([]models.Card, int64, error)
	CustomerCard(ctx context.Context, number, email string) (*models.Card, error)
	RequestBlock(ctx context.Context, number, email, idempotencyKey string) error
	CardTransactions(ctx context.Context, number, email string, limit, offset int) ([]models.Transaction, error)
	Transaction(ctx context.Context, id, email string) (*models.Transaction, error)
}

type service struct {
	repo      repositories.CardRepository
	customers repositories.CustomerRepository
	idem      IdempotencyStore
}

func NewService(repo repositories.CardRepository, customers repositories.CustomerRepository, idem IdempotencyStore) Service {
	if repo == nil {
		panic("card repository is required")
	}
	if customers == nil {
		panic("customer repository is required")
	}
	if idem == nil {
		panic("idempotency store is required")
	}
	return &service{
		repo:      repo,
		customers: customers,
		idem:      idem,
	}
}

func (s *service) CreateCard(ctx context.Context, req CreateCardRequest, idempotencyKey string) (*models.Card, error) {
	owner, err := s.customers.GetByEmail(req.OwnerEmail)
	if err != nil {
		if errors.Is(err, repositories.ErrCustomerNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}

	card := &models.Card{
		Number:     req.Number,
		CustomerID: owner.ID,
		Balance:    decimal.Zero,
		Currency:   req.Currency,
		Status:     models.CardStatusActive,
		ExpiresAt:  req.ExpiresAt,
	}
	if card.Currency == "" {
		card.Currency = "USD"
	}

	if err := s.repo.Create(card); err != nil {
		if errors.Is(err, repositories.ErrCardNumberTaken) {
			return nil, ErrCardNumberTaken
		}
		return nil, err
	}

	s.memoize(ctx, idempotencyKey, card)
	return card, nil
}

func (s *service) UpdateCard(ctx context.Context, req UpdateCardRequest) (*models.Card, error) {
	card, err := s.getCard(req.Number)
	if err != nil {
		return nil, err
	}

	if req.NewNumber != "" && req.NewNumber != card.Number {
		if _, err := s.repo.GetByNumber(req.NewNumber); err == nil {
			return nil, ErrCardNumberTaken
		} else if !errors.Is(err, repositories.ErrCardNotFound) {
			return nil, err
		}
		card.Number = req.NewNumber
	}
	if !req.NewExpiresAt.IsZero() {
		card.ExpiresAt = req.NewExpiresAt
	}

	if err := s.repo.UpdateDetails(card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *service) BlockCard(ctx context.Context, number, idempotencyKey string) error {
	card, err := s.getCard(number)
	if err != nil {
		return err
	}

	card.Status = models.CardStatusBlocked
	if err := s.repo.UpdateDetails(card); err != nil {
		return err
	}

	s.memoize(ctx, idempotencyKey, card)
	return nil
}

func (s *service) ActivateCard(ctx context.Context, number, idempotencyKey string) error {
	card, err := s.getCard(number)
	if err != nil {
		return err
	}

	card.Status = models.CardStatusActive
	if err := s.repo.UpdateDetails(card); err != nil {
		return err
	}

	s.memoize(ctx, idempotencyKey, card)
	return nil
}

func (s *service) DeleteCard(ctx context.Context, number, idempotencyKey string) error {
	card, err := s.getCard(number)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(card.ID); err != nil {
		return err
	}

	s.memoize(ctx, idempotencyKey, "card deleted")
	return nil
}

func (s *service) ListCards(ctx context.Context, limit, offset int) ([]models.Card, int64, error) {
	return s.repo.GetAllPaginated(limit, offset)
}

func (s *service) CustomerCards(ctx context.Context, email, status string, limit, offset int) ([]models.Card, int64, error) {
	owner, err := s.customers.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrCustomerNotFound) {
			return nil, 0, ErrOwnerNotFound
		}
		return nil, 0, err
	}
	return s.repo.GetByCustomerID(owner.ID, status, limit, offset)
}

func (s *service) CustomerCard(ctx context.Context, number, email string) (*models.Card, error) {
	card, err := s.getCard(number)
	if err != nil {
		return nil, err
	}
	if !card.OwnedBy(email) {
		return nil, ErrAccessDenied
	}
	return card, nil
}

// RequestBlock is the customer-initiated block: ownership-checked, and a
// second block of the same card is rejected.
func (s *service) RequestBlock(ctx context.Context, number, email, idempotencyKey string) error {
	card, err := s.getCard(number)
	if err != nil {
		return err
	}
	if !card.OwnedBy(email) {
		return ErrAccessDenied
	}
	if card.Status == models.CardStatusBlocked {
		return ErrAlreadyBlocked
	}

	card.Status = models.CardStatusBlocked
	if err := s.repo.UpdateDetails(card); err != nil {
		return err
	}

	s.memoize(ctx, idempotencyKey, "card blocked")
	return nil
}

func (s *service) CardTransactions(ctx context.Context, number, email string, limit, offset int) ([]models.Transaction, error) {
	card, err := s.getCard(number)
	if err != nil {
		return nil, err
	}
	if !card.OwnedBy(email) {
		return nil, ErrAccessDenied
	}
	return s.repo.GetTransactionsBySourceCard(card.ID, limit, offset)
}

// Transaction looks up a single record by id. Only the owner of the
// source card may read it.
func (s *service) Transaction(ctx context.Context, id, email string) (*models.Transaction, error) {
	rec, err := s.repo.GetTransactionByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	source, err := s.repo.GetByID(rec.SourceCardID)
	if err != nil {
		return nil, err
	}
	if !source.OwnedBy(email) {
		return nil, ErrAccessDenied
	}
	return rec, nil
}

func (s *service) getCard(number string) (*models.Card, error) {
	card, err := s.repo.GetByNumber(number)
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return card, nil
}

func (s *service) memoize(ctx context.Context, key string, result interface{}) {
	if key == "" {
		return
	}
	if err := s.idem.Complete(ctx, key, result); err != nil {
		log.Printf("Failed to store idempotency result for key %q: %v", key, err)
	}
}
