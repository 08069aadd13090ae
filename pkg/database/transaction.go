package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// TxFunc là function type được execute trong transaction.
// ctx is the transaction's own context; use it instead of the caller's.
// It may run more than once when the transaction is retried, so it must not
// keep state across calls.
type TxFunc func(ctx context.Context, tx pgx.Tx) error

// Transactor runs a TxFunc inside one database transaction.
// Services depend on this interface so tests can swap in a fake.
type Transactor interface {
	WithTx(ctx context.Context, fn TxFunc) error
}

// TxManager is the pgxpool backed Transactor.
type TxManager struct {
	pool    *pgxpool.Pool
	timeout time.Duration
	retry   RetryPolicy
}

// NewTxManager creates a transaction manager.
// timeout bounds the whole transaction; zero means no extra bound.
func NewTxManager(pool *pgxpool.Pool, timeout time.Duration, retry RetryPolicy) *TxManager {
	return &TxManager{
		pool:    pool,
		timeout: timeout,
		retry:   retry,
	}
}

// WithTx begins a transaction, runs fn and commits.
//
//   - The transaction runs on a context detached from the caller's cancellation:
//     a client that disconnects mid-request never leaves a half-applied change and
//     never aborts a commit that is already on its way.
//   - Deadlocks and serialization failures are retried with backoff.
//   - Storage-level failures come back wrapped with ErrUnavailable; domain errors
//     returned by fn come back untouched.
func (m *TxManager) WithTx(ctx context.Context, fn TxFunc) error {
	txCtx := context.WithoutCancel(ctx)
	if m.timeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(txCtx, m.timeout)
		defer cancel()
	}

	err := Retry(txCtx, m.retry, func(attemptCtx context.Context) error {
		return WithTransaction(attemptCtx, m.pool, fn)
	})
	if err == nil {
		return nil
	}

	if IsInfrastructureError(err) && !errors.Is(err, ErrUnavailable) {
		log.Error().Err(err).Msg("[DATABASE] Transaction failed")
		return Unavailable(err)
	}

	return err
}

// WithTransaction wraps một function trong transaction.
// Auto rollback nếu có error hoặc panic, auto commit nếu success.
func WithTransaction(ctx context.Context, pool *pgxpool.Pool, fn TxFunc) (err error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// WithTransactionResult wraps function có return value trong transaction.
func WithTransactionResult[T any](ctx context.Context, t Transactor, fn func(context.Context, pgx.Tx) (T, error)) (T, error) {
	var result T

	err := t.WithTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		var fnErr error
		result, fnErr = fn(txCtx, tx)
		return fnErr
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}

// InSavepoint runs fn inside a savepoint of tx. A failing statement only rolls
// back to the savepoint, so the outer transaction stays usable.
func InSavepoint(ctx context.Context, tx pgx.Tx, fn TxFunc) error {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}

	if err := fn(ctx, sp); err != nil {
		if rbErr := sp.Rollback(ctx); rbErr != nil {
			return errors.Join(err, fmt.Errorf("failed to rollback savepoint: %w", rbErr))
		}
		return err
	}

	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", err)
	}

	return nil
}
