// Package idempotency memoizes operation results under caller-supplied
// tokens so retried requests get the prior answer instead of re-executing.
// A reservation (insert-if-absent) placed before the business logic runs
// short-circuits concurrent duplicates; the per-card locks in the funds
// service remain the actual double-execution guard.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service errors
var (
	ErrInvalidKey = errors.New("idempotency key must not be blank")
	ErrInProgress = errors.New("operation with this idempotency key is in progress")

	// ErrCompleted signals that a completed result landed between the
	// caller's read and its reservation attempt.
	ErrCompleted = errors.New("operation with this idempotency key already completed")
)

// Entry states
const (
	statePending = "pending"
	stateDone    = "done"
)

const keyPrefix = "idempotency:"

// Cache is the subset of the cache service the idempotency layer needs.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	SetIfAbsent(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

// entry is the stored envelope: a pending reservation or a completed result.
type entry struct {
	State  string          `json:"state"`
	Result json.RawMessage `json:"result,omitempty"`
}

type Service struct {
	cache      Cache
	resultTTL  time.Duration
	reserveTTL time.Duration
}

// NewService creates an idempotency service. resultTTL bounds how long a
// memoized result stays readable; reserveTTL bounds how long an in-progress
// reservation blocks duplicates before it expires.
func NewService(cache Cache, resultTTL, reserveTTL time.Duration) *Service {
	if cache == nil {
		panic("cache is required")
	}
	return &Service{
		cache:      cache,
		resultTTL:  resultTTL,
		reserveTTL: reserveTTL,
	}
}

// Has reports whether any entry (pending or completed) exists for key.
func (s *Service) Has(ctx context.Context, key string) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return false, ErrInvalidKey
	}
	return s.cache.Exists(ctx, keyPrefix+key)
}

// Result decodes the memoized result for key into dest. Returns false when
// no completed result exists; a pending reservation does not count.
func (s *Service) Result(ctx context.Context, key string, dest interface{}) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return false, ErrInvalidKey
	}

	var e entry
	found, err := s.cache.Get(ctx, keyPrefix+key, &e)
	if err != nil {
		return false, fmt.Errorf("failed to read idempotency entry: %w", err)
	}
	if !found || e.State != stateDone {
		return false, nil
	}

	if err := json.Unmarshal(e.Result, dest); err != nil {
		return false, fmt.Errorf("failed to decode idempotency result: %w", err)
	}
	return true, nil
}

// Reserve atomically claims key before the business logic runs. It fails
// with ErrInProgress when a live reservation exists and with ErrCompleted
// when a finished result is already stored.
func (s *Service) Reserve(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}

	ok, err := s.cache.SetIfAbsent(ctx, keyPrefix+key, entry{State: statePending}, s.reserveTTL)
	if err != nil {
		return fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if ok {
		return nil
	}

	var e entry
	found, err := s.cache.Get(ctx, keyPrefix+key, &e)
	if err != nil {
		return fmt.Errorf("failed to read idempotency entry: %w", err)
	}
	if found && e.State == stateDone {
		return ErrCompleted
	}
	return ErrInProgress
}

// Complete overwrites the reservation with the operation's result. Called
// exactly once per key per logical operation.
func (s *Service) Complete(ctx context.Context, key string, result interface{}) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode idempotency result: %w", err)
	}
	return s.cache.SetWithTTL(ctx, keyPrefix+key, entry{State: stateDone, Result: data}, s.resultTTL)
}

// Release drops a reservation after a failed operation so the caller can
// retry with the same key.
func (s *Service) Release(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return s.cache.Delete(ctx, keyPrefix+key)
}
