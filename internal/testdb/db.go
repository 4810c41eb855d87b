package testdb

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
)

// MigrateFunc brings the schema of db up to date.
type MigrateFunc func(ctx context.Context, db *sql.DB) error

var (
	migrateOnce sync.Once
	migrateErr  error
)

// Open connects to the test database and applies migrations once per test
// binary. The connection is closed when the test finishes. The test is
// skipped when no database is configured, unless running in CI.
func Open(t *testing.T, migrate MigrateFunc) *sql.DB {
	t.Helper()

	dbURL := DatabaseURL()
	if dbURL == "" {
		if isCI() {
			t.Fatal("DATABASE_URL must be set in CI")
		}
		t.Skip("DATABASE_URL not set - skipping integration test")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "open %s", maskURL(dbURL))
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "ping %s", maskURL(dbURL))

	if migrate != nil {
		migrateOnce.Do(func() {
			migrateErr = migrate(context.Background(), db)
		})
		require.NoError(t, migrateErr, "apply migrations")
	}

	return db
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(t.Context(), nil)
	require.NoError(t, err, "begin transaction")
	defer func() { _ = tx.Rollback() }()

	fn(t, tx)
}
