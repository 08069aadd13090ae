package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"classlib-backend/internal/infrastructure/database"
	pkgdb "classlib-backend/pkg/database"
)

// EnvTestDatabaseURL names the database used by integration tests.
const EnvTestDatabaseURL = "CLASSLIB_TEST_DATABASE_URL"

// integrationLockKey serializes integration tests of different packages,
// which go test runs in parallel against the same database.
const integrationLockKey int64 = 0x636c6962_74657374

// NewPostgres connects to the integration database, applies the schema and
// empties every table. Skips the test when no database is configured.
func NewPostgres(t *testing.T) *database.PostgresDB {
	t.Helper()

	url := os.Getenv(EnvTestDatabaseURL)
	if url == "" {
		t.Skipf("%s not set", EnvTestDatabaseURL)
	}

	ctx := context.Background()

	db := database.NewPostgresDB(&database.DBConfig{
		URL:            url,
		MaxConns:       20,
		MaxRetries:     1,
		ConnectTimeout: 5 * time.Second,
		LockTimeout:    5 * time.Second,
		TxTimeout:      30 * time.Second,
		TxMaxAttempts:  5,
	})
	require.NoError(t, db.Connect(ctx))

	lockConn, err := db.Pool.Acquire(ctx)
	require.NoError(t, err)
	_, err = lockConn.Exec(ctx, "SELECT pg_advisory_lock($1)", integrationLockKey)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = lockConn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", integrationLockKey)
		lockConn.Release()
		_ = db.Close()
	})

	require.NoError(t, db.Migrate(ctx))
	Truncate(t, db.Pool)

	return db
}

// Truncate empties every table. TRUNCATE bypasses the history row triggers.
func Truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`TRUNCATE loan_history, items, borrowers, import_runs RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

// TxManager returns a transactor on the integration pool.
func TxManager(db *database.PostgresDB) pkgdb.Transactor {
	return db.TxManager()
}
