package database

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrUnavailable marks a storage or infrastructure failure. The operation had
// no visible effect and the caller may retry it.
var ErrUnavailable = errors.New("storage unavailable")

// PostgreSQL SQLSTATE codes we react to.
const (
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
	CodeLockNotAvailable     = "55P03"
	CodeQueryCanceled        = "57014"
	CodeUniqueViolation      = "23505"
	CodeForeignKeyViolation  = "23503"
	CodeCheckViolation       = "23514"
)

// Unavailable wraps err with ErrUnavailable.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// PgCode returns the SQLSTATE of err, or "" when err is not a server error.
func PgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsRetryableError reports deadlocks and serialization failures: the server
// aborted the transaction and the same work can simply be run again.
func IsRetryableError(err error) bool {
	switch PgCode(err) {
	case CodeSerializationFailure, CodeDeadlockDetected:
		return true
	}
	return false
}

// IsLockTimeoutError reports a lock_timeout or statement_timeout expiry.
func IsLockTimeoutError(err error) bool {
	switch PgCode(err) {
	case CodeLockNotAvailable, CodeQueryCanceled:
		return true
	}
	return false
}

// IsDataError reports errors caused by the row values themselves
// (SQLSTATE class 22 data exception, class 23 integrity violation).
func IsDataError(err error) bool {
	code := PgCode(err)
	if len(code) < 2 {
		return false
	}
	return code[:2] == "22" || code[:2] == "23"
}

// IsInfrastructureError reports whether err came from the storage layer rather
// than from domain logic: any server error, connection failure, network error,
// timeout or closed transaction.
func IsInfrastructureError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnavailable) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	if pgconn.Timeout(err) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, pgx.ErrTxClosed) ||
		errors.Is(err, pgx.ErrTxCommitRollback)
}
