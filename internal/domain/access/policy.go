// Package access decides what an acting user may do with a task.
//
// The checks are split by field group: any owner or assignee may see a task,
// only the owner or current assignee may change its status, and only the
// owner may edit its content, reassign it or delete it.
package access

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
)

// Actions named in permission errors.
const (
	ActionAccess       = "access"
	ActionModify       = "modify"
	ActionChangeStatus = "change_status"
)

// Messages carried by permission errors.
const (
	MsgNoPermission       = "You do not have permission to access this task"
	MsgOnlyAssigneeStatus = "Only the assigned user can change the task status"
)

// PermissionError reports that the actor may not perform Action on a task.
// It unwraps to domain.ErrPermission.
type PermissionError struct {
	Action  string
	TaskID  uuid.UUID
	ActorID uuid.UUID
	Message string
}

// Error implements the error interface.
func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s: %s", domain.ErrPermission.Error(), e.Message)
}

// Unwrap returns domain.ErrPermission.
func (e *PermissionError) Unwrap() error {
	return domain.ErrPermission
}

// Policy defines the task authorization checks.
type Policy interface {
	// VerifyOwnership fails unless actor created the task.
	VerifyOwnership(task *domain.Task, actor uuid.UUID) error

	// VerifyAccess fails unless actor owns the task or is its assignee.
	VerifyAccess(task *domain.Task, actor uuid.UUID) error

	// VerifyStatusChange fails unless actor owns the task or is its assignee.
	VerifyStatusChange(task *domain.Task, actor uuid.UUID) error

	// VerifyUpdate runs the checks required before applying fields to task:
	// access first, then status permission when status is supplied, then
	// ownership when any owner-only field is supplied.
	VerifyUpdate(task *domain.Task, actor uuid.UUID, fields domain.TaskFields) error
}

type defaultPolicy struct{}

// NewPolicy returns the standard task access policy.
func NewPolicy() Policy {
	return defaultPolicy{}
}

func (defaultPolicy) VerifyOwnership(task *domain.Task, actor uuid.UUID) error {
	if !task.IsOwnedBy(actor) {
		return denied(task, actor, ActionModify, MsgNoPermission)
	}
	return nil
}

func (defaultPolicy) VerifyAccess(task *domain.Task, actor uuid.UUID) error {
	if !task.IsOwnedBy(actor) && !task.IsAssignedTo(actor) {
		return denied(task, actor, ActionAccess, MsgNoPermission)
	}
	return nil
}

func (defaultPolicy) VerifyStatusChange(task *domain.Task, actor uuid.UUID) error {
	if task.IsOwnedBy(actor) || task.IsAssignedTo(actor) {
		return nil
	}
	return denied(task, actor, ActionChangeStatus, MsgOnlyAssigneeStatus)
}

func (p defaultPolicy) VerifyUpdate(task *domain.Task, actor uuid.UUID, fields domain.TaskFields) error {
	if err := p.VerifyAccess(task, actor); err != nil {
		return err
	}
	if fields.Status.Present {
		if err := p.VerifyStatusChange(task, actor); err != nil {
			return err
		}
	}
	if fields.Touches(domain.OwnerOnlyTaskFields...) {
		if err := p.VerifyOwnership(task, actor); err != nil {
			return err
		}
	}
	return nil
}

func denied(task *domain.Task, actor uuid.UUID, action, message string) error {
	return &PermissionError{
		Action:  action,
		TaskID:  task.ID,
		ActorID: actor,
		Message: message,
	}
}
