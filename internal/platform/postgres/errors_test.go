package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		SchemaName:     "public",
		TableName:      "tasks",
		ColumnName:     "title",
		ConstraintName: "tasks_user_id_fkey",
	}
}

// mockResult implements sql.Result for testing
type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) { return 0, m.err }
func (m mockResult) RowsAffected() (int64, error) { return m.rowsAffected, m.err }

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("boom"), expected: false},
		{name: "unique violation", err: newPgError("23505"), expected: true},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", newPgError("23505")), expected: true},
		{name: "foreign key violation", err: newPgError("23503"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, postgres.IsUniqueViolation(tt.err))
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsForeignKeyViolation(newPgError("23503")))
	assert.True(t, postgres.IsForeignKeyViolation(fmt.Errorf("update: %w", newPgError("23503"))))
	assert.False(t, postgres.IsForeignKeyViolation(newPgError("23505")))
	assert.False(t, postgres.IsForeignKeyViolation(errors.New("23503")))
	assert.False(t, postgres.IsForeignKeyViolation(nil))
}

func TestMapError(t *testing.T) {
	t.Parallel()

	generic := errors.New("connection refused")

	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantNil bool
	}{
		{name: "nil", err: nil, wantNil: true},
		{name: "no rows", err: sql.ErrNoRows, wantIs: store.ErrNotFound},
		{name: "unique violation", err: newPgError("23505"), wantIs: store.ErrDuplicate},
		{name: "foreign key violation", err: newPgError("23503"), wantIs: store.ErrInvalidEntity},
		{name: "check violation", err: newPgError("23514"), wantIs: store.ErrInvalidEntity},
		{name: "not null violation", err: newPgError("23502"), wantIs: store.ErrInvalidEntity},
		{name: "unmapped pg error", err: newPgError("42P01"), wantIs: nil},
		{name: "generic error passes through", err: generic, wantIs: generic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := postgres.MapError(tt.err)
			if tt.wantNil {
				assert.NoError(t, got)
				return
			}
			assert.Error(t, got)
			if tt.wantIs != nil {
				assert.ErrorIs(t, got, tt.wantIs)
			}
		})
	}
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	t.Run("rows affected", func(t *testing.T) {
		assert.NoError(t, postgres.CheckRowsAffected(mockResult{rowsAffected: 1}, store.ErrTaskNotFound))
	})

	t.Run("no rows returns the given error", func(t *testing.T) {
		err := postgres.CheckRowsAffected(mockResult{}, store.ErrTaskNotFound)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("no rows without an error falls back to ErrNotFound", func(t *testing.T) {
		err := postgres.CheckRowsAffected(mockResult{}, nil)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("nil result", func(t *testing.T) {
		assert.Error(t, postgres.CheckRowsAffected(nil, store.ErrTaskNotFound))
	})

	t.Run("rows affected error", func(t *testing.T) {
		cause := errors.New("driver does not support RowsAffected")
		err := postgres.CheckRowsAffected(mockResult{err: cause}, store.ErrTaskNotFound)
		assert.ErrorIs(t, err, cause)
	})
}
