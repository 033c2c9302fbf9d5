package testdb

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plaintext password of users made by CreateTestUser.
const TestPassword = "password123"

// CreateTestUser inserts a user named name with a unique email inside tx.
func CreateTestUser(t *testing.T, tx *sql.Tx, name string) *domain.User {
	t.Helper()

	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "+" + uuid.NewString()[:8] + "@example.com"
	user, err := domain.NewUser(name, email, TestPassword)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	userStore := postgres.NewPostgresUserStore(tx, bcrypt.MinCost, nil)
	require.NoError(t, userStore.Create(ctx, user), "failed to create test user")
	return user
}

// CreateTestTask inserts a task owned by ownerID inside tx. mutate, when
// not nil, adjusts the task before it is stored.
func CreateTestTask(t *testing.T, tx *sql.Tx, ownerID uuid.UUID, title string, mutate func(*domain.Task)) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(ownerID, domain.TaskFields{Title: domain.Some(title)}, time.Now().UTC())
	require.NoError(t, err)
	if mutate != nil {
		mutate(task)
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	taskStore := postgres.NewPostgresTaskStore(tx, nil)
	require.NoError(t, taskStore.Create(ctx, task), "failed to create test task")
	return task
}
