// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces, not on a concrete database
// implementation; the actual implementation lives in infrastructure/storage/postgres.
package tx

import (
	"context"
	"time"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
)

// Manager defines the contract for transaction management.
// Implementations handle BEGIN, COMMIT, ROLLBACK, and nested transaction reuse.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// SerializableManager extends Manager with serializable transaction support.
// The three mutating inventory workflows run at this isolation level:
// every precondition is re-validated from values read inside the
// transaction, and the store rejects the commit if any read value changed.
type SerializableManager interface {
	Manager

	// Serializable executes fn in a SERIALIZABLE transaction.
	Serializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// RetryConfig bounds the conflict retry loop.
type RetryConfig struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetryConfig returns conservative defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{Attempts: 3, Backoff: 25 * time.Millisecond}
}

// WithRetry runs op, retrying from scratch on retryable failures
// (serialization conflicts, timeouts). The operation must perform all of
// its reads and writes inside one transaction so that a retry observes a
// fresh snapshot and no partial progress.
func WithRetry(ctx context.Context, cfg RetryConfig, op func(ctx context.Context) error) error {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	var err error
	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		if attempt > 0 && cfg.Backoff > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cfg.Backoff << (attempt - 1)):
			}
		}
		err = op(ctx)
		if err == nil || !apperror.IsRetryable(err) {
			return err
		}
	}
	return err
}
