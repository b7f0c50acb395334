// Package funds implements the money-movement engine: transfer, withdraw
// and deposit over cards, with exclusive per-card locking and idempotent
// retries.
package funds

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cardbank/internal/models"
	"cardbank/internal/repositories"
	"cardbank/internal/services/idempotency"

	"github.com/google/uuid"
)

type service struct {
	repo repositories.CardRepository
	idem IdempotencyStore
}

// NewService creates a funds service.
func NewService(repo repositories.CardRepository, idem IdempotencyStore) Service {
	if repo == nil {
		panic("card repository is required")
	}
	if idem == nil {
		panic("idempotency store is required")
	}
	return &service{
		repo: repo,
		idem: idem,
	}
}

// Transfer moves req.Amount between two cards as one unit of work. Both
// rows are locked in ascending card-number order regardless of direction,
// so two opposite transfers over the same pair can never deadlock.
func (s *service) Transfer(ctx context.Context, req TransferRequest, email, idempotencyKey string) (*models.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if req.FromCardNumber == req.ToCardNumber {
		return nil, ErrSelfTransfer
	}

	if memo, done, err := s.beginIdempotent(ctx, idempotencyKey); err != nil {
		return nil, err
	} else if done {
		return memo, nil
	}

	var record *models.Transaction
	err := s.repo.ExecuteInTransaction(func(tx repositories.CardRepository) error {
		first, second := req.FromCardNumber, req.ToCardNumber
		if second < first {
			first, second = second, first
		}

		locked := make(map[string]*models.Card, 2)
		for _, number := range []string{first, second} {
			card, err := tx.GetByNumberForUpdate(number)
			if err != nil {
				return translateRepoError(err)
			}
			locked[number] = card
		}
		from, to := locked[req.FromCardNumber], locked[req.ToCardNumber]

		if !from.OwnedBy(email) {
			return ErrAccessDenied
		}
		if !from.IsActive() || !to.IsActive() {
			return ErrCardBlocked
		}
		if from.Currency != to.Currency {
			return ErrCurrencyMismatch
		}
		if req.Currency != "" && req.Currency != from.Currency {
			return ErrCurrencyMismatch
		}
		if from.Balance.LessThan(req.Amount) {
			return ErrInsufficientFunds
		}

		from.Balance = from.Balance.Sub(req.Amount)
		to.Balance = to.Balance.Add(req.Amount)

		if err := tx.Save(from); err != nil {
			return persistence(err)
		}
		if err := tx.Save(to); err != nil {
			return persistence(err)
		}

		targetID := to.ID
		record = &models.Transaction{
			ID:           uuid.NewString(),
			Type:         models.TransactionTypeTransfer,
			Status:       models.TransactionStatusSuccess,
			Amount:       req.Amount,
			Currency:     from.Currency,
			SourceCardID: from.ID,
			TargetCardID: &targetID,
		}
		if err := tx.CreateTransaction(record); err != nil {
			return persistence(err)
		}
		return nil
	})
	if err != nil {
		s.abort(ctx, idempotencyKey)
		return nil, err
	}

	s.finish(ctx, idempotencyKey, record)
	return record, nil
}

// Withdraw debits req.Amount from a card and appends a DEBIT record.
func (s *service) Withdraw(ctx context.Context, req WithdrawRequest, email, idempotencyKey string) (*models.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if memo, done, err := s.beginIdempotent(ctx, idempotencyKey); err != nil {
		return nil, err
	} else if done {
		return memo, nil
	}

	var record *models.Transaction
	err := s.repo.ExecuteInTransaction(func(tx repositories.CardRepository) error {
		card, err := tx.GetByNumberForUpdate(req.CardNumber)
		if err != nil {
			return translateRepoError(err)
		}

		if !card.OwnedBy(email) {
			return ErrAccessDenied
		}
		if !card.IsActive() {
			return ErrCardBlocked
		}
		if req.Currency != "" && req.Currency != card.Currency {
			return ErrCurrencyMismatch
		}
		if card.Balance.LessThan(req.Amount) {
			return ErrInsufficientFunds
		}

		card.Balance = card.Balance.Sub(req.Amount)
		if err := tx.Save(card); err != nil {
			return persistence(err)
		}

		record = &models.Transaction{
			ID:           uuid.NewString(),
			Type:         models.TransactionTypeDebit,
			Status:       models.TransactionStatusSuccess,
			Amount:       req.Amount,
			Currency:     card.Currency,
			SourceCardID: card.ID,
		}
		if err := tx.CreateTransaction(record); err != nil {
			return persistence(err)
		}
		return nil
	})
	if err != nil {
		s.abort(ctx, idempotencyKey)
		return nil, err
	}

	s.finish(ctx, idempotencyKey, record)
	return record, nil
}

// Deposit credits req.Amount to a card and appends a CREDIT record.
// Deposits never fail on balance but blocked cards still reject them.
func (s *service) Deposit(ctx context.Context, req DepositRequest, email, idempotencyKey string) (*models.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if memo, done, err := s.beginIdempotent(ctx, idempotencyKey); err != nil {
		return nil, err
	} else if done {
		return memo, nil
	}

	var record *models.Transaction
	err := s.repo.ExecuteInTransaction(func(tx repositories.CardRepository) error {
		card, err := tx.GetByNumberForUpdate(req.CardNumber)
		if err != nil {
			return translateRepoError(err)
		}

		if !card.OwnedBy(email) {
			return ErrAccessDenied
		}
		if !card.IsActive() {
			return ErrCardBlocked
		}
		if req.Currency != "" && req.Currency != card.Currency {
			return ErrCurrencyMismatch
		}

		card.Balance = card.Balance.Add(req.Amount)
		if err := tx.Save(card); err != nil {
			return persistence(err)
		}

		record = &models.Transaction{
			ID:           uuid.NewString(),
			Type:         models.TransactionTypeCredit,
			Status:       models.TransactionStatusSuccess,
			Amount:       req.Amount,
			Currency:     card.Currency,
			SourceCardID: card.ID,
		}
		if err := tx.CreateTransaction(record); err != nil {
			return persistence(err)
		}
		return nil
	})
	if err != nil {
		s.abort(ctx, idempotencyKey)
		return nil, err
	}

	s.finish(ctx, idempotencyKey, record)
	return record, nil
}

// beginIdempotent returns the memoized record when this key already
// completed, otherwise reserves the key for this attempt. A race that
// completes between the read and the reservation is resolved by re-reading.
func (s *service) beginIdempotent(ctx context.Context, key string) (*models.Transaction, bool, error) {
	var memo models.Transaction
	found, err := s.idem.Result(ctx, key, &memo)
	if err != nil {
		return nil, false, err
	}
	if found {
		return &memo, true, nil
	}

	if err := s.idem.Reserve(ctx, key); err != nil {
		if errors.Is(err, idempotency.ErrCompleted) {
			if found, rerr := s.idem.Result(ctx, key, &memo); rerr == nil && found {
				return &memo, true, nil
			}
		}
		return nil, false, err
	}
	return nil, false, nil
}

// finish memoizes the result. A cache write failure only costs the caller
// the replay shortcut, so it is logged rather than failing the operation.
func (s *service) finish(ctx context.Context, key string, record *models.Transaction) {
	if err := s.idem.Complete(ctx, key, record); err != nil {
		log.Printf("Failed to store idempotency result for key %q: %v", key, err)
	}
}

// abort drops the reservation so a retry with the same key can execute.
func (s *service) abort(ctx context.Context, key string) {
	if err := s.idem.Release(ctx, key); err != nil {
		log.Printf("Failed to release idempotency key %q: %v", key, err)
	}
}

func translateRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrCardNotFound):
		return ErrCardNotFound
	case errors.Is(err, repositories.ErrLockTimeout):
		return ErrLockTimeout
	default:
		return persistence(err)
	}
}

func persistence(err error) error {
	return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
}
