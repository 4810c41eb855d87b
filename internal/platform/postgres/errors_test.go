package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DavidHJones36/roguetwo-api/internal/domain"
	"github.com/DavidHJones36/roguetwo-api/internal/store"
)

// mockResult implements sql.Result for testing
type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) {
	return 0, nil
}

func (m mockResult) RowsAffected() (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.rowsAffected, nil
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectedError error
		expectedMsg   string
	}{
		{
			name:          "nil_error",
			err:           nil,
			expectedError: nil,
		},
		{
			name:          "sql_no_rows",
			err:           sql.ErrNoRows,
			expectedError: store.ErrNotFound,
		},
		{
			name: "unique_violation",
			err: &pgconn.PgError{
				Code:           uniqueViolationCode,
				ConstraintName: "profiles_pkey",
			},
			expectedError: store.ErrDuplicate,
			expectedMsg:   "entity already exists",
		},
		{
			name: "foreign_key_violation",
			err: &pgconn.PgError{
				Code:           foreignKeyViolationCode,
				ConstraintName: "profiles_private_subscription_level_id_fkey",
			},
			expectedError: store.ErrInvalidEntity,
			expectedMsg:   "foreign key violation",
		},
		{
			name: "check_constraint_violation",
			err: &pgconn.PgError{
				Code:           checkViolationCode,
				ConstraintName: "profiles_private_one_role",
			},
			expectedError: store.ErrInvalidEntity,
			expectedMsg:   "validation rule violation",
		},
		{
			name: "not_null_violation",
			err: &pgconn.PgError{
				Code:       notNullViolationCode,
				ColumnName: "approved",
			},
			expectedError: store.ErrInvalidEntity,
			expectedMsg:   "not null violation (approved)",
		},
		{
			name:        "generic_error",
			err:         errors.New("connection reset by peer"),
			expectedMsg: "connection reset by peer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MapError(tt.err)

			if tt.err == nil {
				assert.NoError(t, result)
				return
			}

			require.Error(t, result)
			if tt.expectedError != nil {
				assert.ErrorIs(t, result, tt.expectedError)
			}
			if tt.expectedMsg != "" {
				assert.Contains(t, result.Error(), tt.expectedMsg)
			}
		})
	}
}

func TestMapErrorNotFoundReachesDomain(t *testing.T) {
	err := MapError(fmt.Errorf("query: %w", sql.ErrNoRows))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolationCode})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
	assert.False(t, IsUniqueViolation(errors.New("duplicate")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Run("rows_affected", func(t *testing.T) {
		assert.NoError(t, CheckRowsAffected(mockResult{rowsAffected: 1}, store.ErrProfileNotFound))
	})

	t.Run("no_rows_uses_given_error", func(t *testing.T) {
		err := CheckRowsAffected(mockResult{rowsAffected: 0}, store.ErrProfileNotFound)
		assert.ErrorIs(t, err, store.ErrProfileNotFound)
	})

	t.Run("no_rows_defaults_to_not_found", func(t *testing.T) {
		err := CheckRowsAffected(mockResult{rowsAffected: 0}, nil)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("rows_affected_error", func(t *testing.T) {
		err := CheckRowsAffected(mockResult{err: errors.New("driver gone")}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get rows affected")
	})

	t.Run("nil_result", func(t *testing.T) {
		assert.Error(t, CheckRowsAffected(nil, nil))
	})
}

func TestNewStoresPanicOnNilDB(t *testing.T) {
	assert.Panics(t, func() { NewPostgresProfileStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresPrivateProfileStore(nil, nil) })
}

func TestMigrateRejectsUnknownCommand(t *testing.T) {
	err := Migrate(t.Context(), nil, "sideways", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration command")
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := migrationsFS.ReadDir(migrationsDir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "00001_create_subscription_levels.sql", entries[0].Name())
	assert.Equal(t, "00003_create_profiles_private.sql", entries[2].Name())
}
