package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func pgError(code string) error {
	return &pgconn.PgError{Code: code, Message: "test"}
}

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: attempts, BaseDelay: time.Millisecond}
}

func Test_Retry_Success_NoRetries(t *testing.T) {
	calls := 0

	err := Retry(context.Background(), fastPolicy(3), func(context.Context) error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func Test_Retry_RetriesDeadlockUntilSuccess(t *testing.T) {
	calls := 0

	err := Retry(context.Background(), fastPolicy(4), func(context.Context) error {
		calls++
		if calls < 3 {
			return pgError(CodeDeadlockDetected)
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func Test_Retry_GivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0

	err := Retry(context.Background(), fastPolicy(3), func(context.Context) error {
		calls++
		return pgError(CodeSerializationFailure)
	})

	assert.Error(t, err)
	assert.True(t, IsRetryableError(err))
	assert.Equal(t, 3, calls)
}

func Test_Retry_DoesNotRetryOtherErrors(t *testing.T) {
	calls := 0
	domainErr := errors.New("item is already checked out")

	err := Retry(context.Background(), fastPolicy(5), func(context.Context) error {
		calls++
		return domainErr
	})

	assert.ErrorIs(t, err, domainErr)
	assert.Equal(t, 1, calls)
}

func Test_Retry_StopsWhenContextIsDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := RetryPolicy{MaxAttempts: 5, BaseDelay: time.Hour}
	calls := 0

	err := Retry(ctx, policy, func(context.Context) error {
		calls++
		cancel()
		return pgError(CodeDeadlockDetected)
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func Test_RetryPolicy_NormalizesInvalidValues(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 0, BaseDelay: -time.Second, JitterFactor: 2}.normalized()

	assert.Equal(t, 1, p.MaxAttempts)
	assert.Equal(t, time.Duration(0), p.BaseDelay)
	assert.Equal(t, 0.0, p.JitterFactor)
}

func Test_RetryPolicy_DelayDoublesPerAttempt(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 4, BaseDelay: 10 * time.Millisecond}

	assert.Equal(t, time.Duration(0), p.delay(0))
	assert.Equal(t, 10*time.Millisecond, p.delay(1))
	assert.Equal(t, 20*time.Millisecond, p.delay(2))
	assert.Equal(t, 40*time.Millisecond, p.delay(3))
}
