//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/phrazzld/taskboard-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserStore_Integration(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDB(t)

	t.Run("create and fetch case-insensitively", func(t *testing.T) {
		t.Parallel()
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			ctx := context.Background()
			users := postgres.NewPostgresUserStore(tx, bcrypt.MinCost, nil)

			email := "Mixed.Case+" + uuid.NewString()[:8] + "@Example.com"
			user, err := domain.NewUser("Jane Smith", email, testdb.TestPassword)
			require.NoError(t, err)
			require.NoError(t, users.Create(ctx, user))
			assert.Empty(t, user.Password)
			assert.NotEmpty(t, user.HashedPassword)

			byEmail, err := users.GetByEmail(ctx, email)
			require.NoError(t, err)
			assert.Equal(t, user.ID, byEmail.ID)
			require.NoError(t, bcrypt.CompareHashAndPassword([]byte(byEmail.HashedPassword), []byte(testdb.TestPassword)))

			byID, err := users.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, "Jane Smith", byID.Name)

			_, err = users.GetByID(ctx, uuid.New())
			assert.ErrorIs(t, err, store.ErrUserNotFound)
		})
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			ctx := context.Background()
			users := postgres.NewPostgresUserStore(tx, bcrypt.MinCost, nil)

			existing := testdb.CreateTestUser(t, tx, "John Doe")
			dup, err := domain.NewUser("Other John", existing.Email, testdb.TestPassword)
			require.NoError(t, err)
			dup.Email = "  " + existing.Email + "  "

			assert.ErrorIs(t, users.Create(ctx, dup), store.ErrEmailExists)
		})
	})

	t.Run("list is ordered by name", func(t *testing.T) {
		t.Parallel()
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			users := postgres.NewPostgresUserStore(tx, bcrypt.MinCost, nil)

			zed := testdb.CreateTestUser(t, tx, "Zed Zimmer")
			abe := testdb.CreateTestUser(t, tx, "Abe Adams")

			list, err := users.List(context.Background())
			require.NoError(t, err)

			pos := map[uuid.UUID]int{}
			for i, u := range list {
				pos[u.ID] = i
			}
			require.Contains(t, pos, zed.ID)
			require.Contains(t, pos, abe.ID)
			assert.Less(t, pos[abe.ID], pos[zed.ID])
		})
	})
}

func TestTaskStore_Integration(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDB(t)

	t.Run("visibility is owner or assignee", func(t *testing.T) {
		t.Parallel()
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			ctx := context.Background()
			tasks := postgres.NewPostgresTaskStore(tx, nil)

			owner := testdb.CreateTestUser(t, tx, "Alice Owner")
			assignee := testdb.CreateTestUser(t, tx, "Bob Assignee")
			stranger := testdb.CreateTestUser(t, tx, "Carol Stranger")

			task := testdb.CreateTestTask(t, tx, owner.ID, "Shared work", func(task *domain.Task) {
				task.AssignedTo = &assignee.ID
			})

			found, err := tasks.FindForUser(ctx, task.ID, owner.ID)
			require.NoError(t, err)
			require.NotNil(t, found.Owner)
			assert.Equal(t, "Alice Owner", found.Owner.Name)
			require.NotNil(t, found.Assignee)
			assert.Equal(t, assignee.ID, found.Assignee.ID)

			_, err = tasks.FindForUser(ctx, task.ID, assignee.ID)
			require.NoError(t, err)

			_, err = tasks.FindForUser(ctx, task.ID, stranger.ID)
			assert.ErrorIs(t, err, store.ErrTaskNotFound)

			list, err := tasks.ListForUser(ctx, stranger.ID, domain.TaskFilter{})
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	})

	t.Run("filters and sorting", func(t *testing.T) {
		t.Parallel()
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			ctx := context.Background()
			tasks := postgres.NewPostgresTaskStore(tx, nil)
			owner := testdb.CreateTestUser(t, tx, "Sorter")

			testdb.CreateTestTask(t, tx, owner.ID, "Bravo", func(task *domain.Task) {
				task.Priority = domain.TaskPriorityHigh
			})
			testdb.CreateTestTask(t, tx, owner.ID, "Alpha", func(task *domain.Task) {
				task.Priority = domain.TaskPriorityHigh
				task.Status = domain.TaskStatusCompleted
			})
			testdb.CreateTestTask(t, tx, owner.ID, "Charlie", nil)

			byTitle, err := tasks.ListForUser(ctx, owner.ID, domain.TaskFilter{SortBy: "title", SortDirection: "asc"})
			require.NoError(t, err)
			require.Len(t, byTitle, 3)
			assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, titles(byTitle))

			high, err := tasks.ListForUser(ctx, owner.ID, domain.TaskFilter{
				Priority:      domain.TaskPriorityHigh,
				SortBy:        "title",
				SortDirection: "desc",
			})
			require.NoError(t, err)
			assert.Equal(t, []string{"Bravo", "Alpha"}, titles(high))

			pendingHigh, err := tasks.ListForUser(ctx, owner.ID, domain.TaskFilter{
				Status:   domain.TaskStatusPending,
				Priority: domain.TaskPriorityHigh,
			})
			require.NoError(t, err)
			assert.Equal(t, []string{"Bravo"}, titles(pendingHigh))
		})
	})

	t.Run("update keeps owner and delete removes", func(t *testing.T) {
		t.Parallel()
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			ctx := context.Background()
			tasks := postgres.NewPostgresTaskStore(tx, nil)
			owner := testdb.CreateTestUser(t, tx, "Updater")
			other := testdb.CreateTestUser(t, tx, "Intruder")

			task := testdb.CreateTestTask(t, tx, owner.ID, "Before", nil)
			task.Title = "After"
			task.Status = domain.TaskStatusInProgress
			task.UserID = other.ID
			require.NoError(t, tasks.Update(ctx, task))

			reloaded, err := tasks.FindForUser(ctx, task.ID, owner.ID)
			require.NoError(t, err)
			assert.Equal(t, "After", reloaded.Title)
			assert.Equal(t, domain.TaskStatusInProgress, reloaded.Status)
			assert.Equal(t, owner.ID, reloaded.UserID)

			require.NoError(t, tasks.Delete(ctx, task.ID))
			assert.ErrorIs(t, tasks.Delete(ctx, task.ID), store.ErrTaskNotFound)
		})
	})

	t.Run("counts and overdue", func(t *testing.T) {
		t.Parallel()
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			ctx := context.Background()
			tasks := postgres.NewPostgresTaskStore(tx, nil)
			owner := testdb.CreateTestUser(t, tx, "Counter")

			now := time.Now().UTC()
			past := domain.DateOf(now.AddDate(0, 0, -3))
			future := domain.DateOf(now.AddDate(0, 0, 3))

			overdue := testdb.CreateTestTask(t, tx, owner.ID, "Late", func(task *domain.Task) {
				task.DueDate = &past
			})
			testdb.CreateTestTask(t, tx, owner.ID, "Late but done", func(task *domain.Task) {
				task.DueDate = &past
				task.Status = domain.TaskStatusCompleted
			})
			testdb.CreateTestTask(t, tx, owner.ID, "On time", func(task *domain.Task) {
				task.DueDate = &future
			})

			total, err := tasks.CountForUser(ctx, owner.ID)
			require.NoError(t, err)
			assert.Equal(t, 3, total)

			byStatus, err := tasks.CountByStatus(ctx, owner.ID)
			require.NoError(t, err)
			assert.Equal(t, 2, byStatus[domain.TaskStatusPending])
			assert.Equal(t, 1, byStatus[domain.TaskStatusCompleted])

			late, err := tasks.OverdueForUser(ctx, owner.ID, now)
			require.NoError(t, err)
			require.Len(t, late, 1)
			assert.Equal(t, overdue.ID, late[0].ID)
		})
	})

	t.Run("unknown assignee", func(t *testing.T) {
		t.Parallel()
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			owner := testdb.CreateTestUser(t, tx, "Assigner")
			ghost := uuid.New()

			task, err := domain.NewTask(owner.ID, domain.TaskFields{
				Title:      domain.Some("Orphan"),
				AssignedTo: domain.Some(ghost),
			}, time.Now())
			require.NoError(t, err)

			err = postgres.NewPostgresTaskStore(tx, nil).Create(context.Background(), task)
			assert.ErrorIs(t, err, store.ErrInvalidEntity)
		})
	})
}

func titles(tasks []*domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}
