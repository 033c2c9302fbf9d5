package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/domain/access"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// TaskNotifier broadcasts task activity. Implementations must not block and
// must not fail the caller.
type TaskNotifier interface {
	NotifyTaskCreated(ctx context.Context, task *domain.Task, creator domain.UserSummary)
}

// TaskService provides task operations on behalf of an acting user.
//
// A task is visible to the actor when the actor owns it or is its assignee;
// invisible tasks are reported as ErrTaskNotFound, never as permission errors.
type TaskService interface {
	// ListTasks returns the visible tasks matching filter.
	ListTasks(ctx context.Context, actorID uuid.UUID, filter domain.TaskFilter) ([]*domain.Task, error)

	// GetTask returns one visible task.
	GetTask(ctx context.Context, actorID, taskID uuid.UUID) (*domain.Task, error)

	// CreateTask validates fields, creates a task owned by the actor and
	// schedules a task.created broadcast.
	CreateTask(ctx context.Context, actorID uuid.UUID, fields domain.TaskFields) (*domain.Task, error)

	// UpdateTask applies a partial update after the access checks and
	// returns the refreshed task.
	UpdateTask(ctx context.Context, actorID, taskID uuid.UUID, fields domain.TaskFields) (*domain.Task, error)

	// DeleteTask removes a task owned by the actor.
	DeleteTask(ctx context.Context, actorID, taskID uuid.UUID) error

	// GetUserTaskStatistics summarizes the visible tasks.
	GetUserTaskStatistics(ctx context.Context, actorID uuid.UUID) (*domain.TaskStatistics, error)

	// OverdueTasks returns the visible tasks past their due date that are
	// not completed, earliest first.
	OverdueTasks(ctx context.Context, actorID uuid.UUID) ([]*domain.Task, error)
}

// TaskServiceOption customizes a task service.
type TaskServiceOption func(*taskServiceImpl)

// WithClock overrides the time source used for due-date checks.
func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *taskServiceImpl) {
		s.now = now
	}
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskStore store.TaskStore
	userStore store.UserStore
	policy    access.Policy
	notifier  TaskNotifier
	db        *sql.DB
	now       func() time.Time
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	taskStore store.TaskStore,
	userStore store.UserStore,
	policy access.Policy,
	notifier TaskNotifier,
	db *sql.DB,
	logger *slog.Logger,
	opts ...TaskServiceOption,
) (TaskService, error) {
	switch {
	case taskStore == nil:
		return nil, &TaskServiceError{Operation: "create_service", Message: "taskStore cannot be nil"}
	case userStore == nil:
		return nil, &TaskServiceError{Operation: "create_service", Message: "userStore cannot be nil"}
	case policy == nil:
		return nil, &TaskServiceError{Operation: "create_service", Message: "policy cannot be nil"}
	case notifier == nil:
		return nil, &TaskServiceError{Operation: "create_service", Message: "notifier cannot be nil"}
	case db == nil:
		return nil, &TaskServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		taskStore: taskStore,
		userStore: userStore,
		policy:    policy,
		notifier:  notifier,
		db:        db,
		now:       time.Now,
		logger:    logger.With("component", "task_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	actorID uuid.UUID,
	filter domain.TaskFilter,
) ([]*domain.Task, error) {
	tasks, err := s.taskStore.ListForUser(ctx, actorID, filter)
	if err != nil {
		if errors.Is(err, store.ErrInvalidSort) {
			return nil, domain.NewFieldError("sort_by", "The selected sort by is invalid.")
		}
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, actorID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.FindForUser(ctx, taskID, actorID)
	if err != nil {
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	actorID uuid.UUID,
	fields domain.TaskFields,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	if err := domain.ValidateTaskFields(fields, false, domain.DateOf(now)); err != nil {
		log.Debug("task validation failed", slog.String("error", err.Error()))
		return nil, err
	}
	if err := s.verifyAssignee(ctx, fields); err != nil {
		return nil, err
	}

	task, err := domain.NewTask(actorID, fields, now)
	if err != nil {
		return nil, NewTaskServiceError("create_task", "failed to build task", err)
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		log.Error("failed to save task",
			slog.String("error", err.Error()),
			slog.String("user_id", actorID.String()))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	created, err := s.taskStore.FindForUser(ctx, task.ID, actorID)
	if err != nil {
		return nil, NewTaskServiceError("create_task", "failed to reload task", err)
	}

	log.Info("task created",
		slog.String("task_id", created.ID.String()),
		slog.String("user_id", actorID.String()))

	creator := domain.UserSummary{ID: actorID}
	if created.Owner != nil {
		creator = *created.Owner
	}
	s.notifier.NotifyTaskCreated(ctx, created, creator)

	return created, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	actorID, taskID uuid.UUID,
	fields domain.TaskFields,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.taskStore.WithTx(tx)

		task, err := tasks.FindForUser(ctx, taskID, actorID)
		if err != nil {
			return err
		}

		if err := s.policy.VerifyUpdate(task, actorID, fields); err != nil {
			log.Debug("task update denied",
				slog.String("task_id", taskID.String()),
				slog.String("user_id", actorID.String()),
				slog.String("error", err.Error()))
			return err
		}

		if err := domain.ValidateTaskFields(fields, true, domain.DateOf(now)); err != nil {
			return err
		}
		if err := s.verifyAssignee(ctx, fields); err != nil {
			return err
		}

		if err := fields.ApplyTo(task); err != nil {
			return err
		}
		if err := tasks.Update(ctx, task); err != nil {
			return err
		}

		updated, err = tasks.FindForUser(ctx, taskID, actorID)
		if errors.Is(err, store.ErrTaskNotFound) {
			// The actor reassigned away a task they do not own.
			updated, err = task, nil
		}
		return err
	})
	if err != nil {
		return nil, NewTaskServiceError("update_task", "failed to update task", err)
	}

	log.Info("task updated",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", actorID.String()),
		slog.Any("fields", fields.Keys()))

	return updated, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, actorID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.taskStore.WithTx(tx)

		task, err := tasks.FindForUser(ctx, taskID, actorID)
		if err != nil {
			return err
		}
		if err := s.policy.VerifyOwnership(task, actorID); err != nil {
			return err
		}
		return tasks.Delete(ctx, taskID)
	})
	if err != nil {
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	log.Info("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", actorID.String()))
	return nil
}

// GetUserTaskStatistics implements TaskService.GetUserTaskStatistics
func (s *taskServiceImpl) GetUserTaskStatistics(
	ctx context.Context,
	actorID uuid.UUID,
) (*domain.TaskStatistics, error) {
	total, err := s.taskStore.CountForUser(ctx, actorID)
	if err != nil {
		return nil, NewTaskServiceError("task_statistics", "failed to count tasks", err)
	}

	byStatus, err := s.taskStore.CountByStatus(ctx, actorID)
	if err != nil {
		return nil, NewTaskServiceError("task_statistics", "failed to count tasks by status", err)
	}

	overdue, err := s.taskStore.OverdueForUser(ctx, actorID, s.now())
	if err != nil {
		return nil, NewTaskServiceError("task_statistics", "failed to count overdue tasks", err)
	}

	stats := domain.NewTaskStatistics(total, byStatus, len(overdue))
	return &stats, nil
}

// OverdueTasks implements TaskService.OverdueTasks
func (s *taskServiceImpl) OverdueTasks(ctx context.Context, actorID uuid.UUID) ([]*domain.Task, error) {
	tasks, err := s.taskStore.OverdueForUser(ctx, actorID, s.now())
	if err != nil {
		return nil, NewTaskServiceError("overdue_tasks", "failed to list overdue tasks", err)
	}
	return tasks, nil
}

// verifyAssignee checks that a supplied assignee refers to an existing user.
func (s *taskServiceImpl) verifyAssignee(ctx context.Context, fields domain.TaskFields) error {
	if !fields.AssignedTo.Valid {
		return nil
	}

	_, err := s.userStore.GetByID(ctx, fields.AssignedTo.Value)
	if errors.Is(err, store.ErrUserNotFound) {
		return domain.NewFieldError(domain.FieldAssignedTo, domain.MsgInvalidAssignee)
	}
	if err != nil {
		return NewTaskServiceError("verify_assignee", "failed to look up assignee", err)
	}
	return nil
}
