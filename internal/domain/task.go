package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents where a task is in its lifecycle.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskStatuses lists every valid status in lifecycle order.
var TaskStatuses = []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// TaskPriority represents how urgent a task is.
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Common validation errors for Task
var (
	ErrEmptyTaskID     = errors.New("task ID cannot be empty")
	ErrEmptyTaskOwner  = errors.New("task owner cannot be empty")
	ErrEmptyTaskTitle  = errors.New("task title cannot be empty")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
)

// UserSummary is the public identity of a user as embedded in tasks and events.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Task is a unit of work owned by the user who created it and optionally
// assigned to another user.
//
// UserID never changes after creation. Owner and Assignee are resolved
// identities filled in by the store when the task is loaded.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *Date        `json:"due_date"`
	UserID      uuid.UUID    `json:"user_id"`
	AssignedTo  *uuid.UUID   `json:"assigned_to"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Owner       *UserSummary `json:"user,omitempty"`
	Assignee    *UserSummary `json:"assigned_to_user,omitempty"`
}

// NewTask builds a task owned by ownerID. Defaults (pending, medium) are
// applied first and then overlaid with the supplied fields. The fields are
// expected to have passed ValidateTaskFields already.
func NewTask(ownerID uuid.UUID, fields TaskFields, now time.Time) (*Task, error) {
	task := &Task{
		ID:        uuid.New(),
		Status:    TaskStatusPending,
		Priority:  TaskPriorityMedium,
		UserID:    ownerID,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}

	if err := fields.ApplyTo(task); err != nil {
		return nil, err
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the invariants every stored task must satisfy.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.UserID == uuid.Nil {
		return ErrEmptyTaskOwner
	}
	if t.Title == "" {
		return ErrEmptyTaskTitle
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// IsOwnedBy reports whether userID created the task.
func (t *Task) IsOwnedBy(userID uuid.UUID) bool {
	return t.UserID == userID
}

// IsAssignedTo reports whether the task is currently assigned to userID.
func (t *Task) IsAssignedTo(userID uuid.UUID) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}

// IsOverdue reports whether the task's due date has passed without it being
// completed.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == TaskStatusCompleted {
		return false
	}
	return t.DueDate.Time().Before(now)
}
