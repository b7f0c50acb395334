package funds

import (
	"context"

	"cardbank/internal/models"
)

// Service is the funds-movement orchestrator. Every operation takes the
// authenticated caller's email for the ownership check and an idempotency
// key for retry deduplication, and returns the appended transaction record.
type Service interface {
	Transfer(ctx context.Context, req TransferRequest, email, idempotencyKey string) (*models.Transaction, error)
	Withdraw(ctx context.Context, req WithdrawRequest, email, idempotencyKey string) (*models.Transaction, error)
	Deposit(ctx context.Context, req DepositRequest, email, idempotencyKey string) (*models.Transaction, error)
}

// IdempotencyStore is the result-memoization contract the orchestrator
// drives. Implemented by the idempotency service.
type IdempotencyStore interface {
	Result(ctx context.Context, key string, dest interface{}) (bool, error)
	Reserve(ctx context.Context, key string) error
	Complete(ctx context.Context, key string, result interface{}) error
	Release(ctx context.Context, key string) error
}
