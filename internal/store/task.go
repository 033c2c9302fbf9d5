package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// A task is visible to a user when the user owns it or is its assignee.
// Every lookup scoped to a user returns ErrTaskNotFound for tasks that exist
// but are not visible, so callers cannot distinguish the two cases.
// Returned tasks carry resolved Owner and Assignee identities.
type TaskStore interface {
	// ListForUser returns the tasks visible to userID, filtered and ordered
	// by filter. A zero filter lists every visible task, newest first.
	// Returns ErrInvalidSort for an unsupported sort column or direction.
	ListForUser(ctx context.Context, userID uuid.UUID, filter domain.TaskFilter) ([]*domain.Task, error)

	// FindForUser retrieves a task by ID if it is visible to userID.
	// Returns ErrTaskNotFound otherwise.
	FindForUser(ctx context.Context, taskID, userID uuid.UUID) (*domain.Task, error)

	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	// Returns ErrInvalidEntity if the owner or assignee does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// Update overwrites the mutable fields of an existing task and bumps
	// UpdatedAt. The owner is never changed.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, taskID uuid.UUID) error

	// CountForUser returns the number of tasks visible to userID.
	CountForUser(ctx context.Context, userID uuid.UUID) (int, error)

	// CountByStatus returns the number of visible tasks per status. Only
	// statuses with at least one task appear in the result.
	CountByStatus(ctx context.Context, userID uuid.UUID) (map[domain.TaskStatus]int, error)

	// OverdueForUser returns the visible tasks whose due date is before now
	// and whose status is not completed, earliest due date first.
	OverdueForUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Task, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
