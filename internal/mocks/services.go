package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service"
)

// MockTaskService implements service.TaskService for handler tests.
// Unset function fields return zero values.
type MockTaskService struct {
	ListTasksFn             func(ctx context.Context, actorID uuid.UUID, filter domain.TaskFilter) ([]*domain.Task, error)
	GetTaskFn               func(ctx context.Context, actorID, taskID uuid.UUID) (*domain.Task, error)
	CreateTaskFn            func(ctx context.Context, actorID uuid.UUID, fields domain.TaskFields) (*domain.Task, error)
	UpdateTaskFn            func(ctx context.Context, actorID, taskID uuid.UUID, fields domain.TaskFields) (*domain.Task, error)
	DeleteTaskFn            func(ctx context.Context, actorID, taskID uuid.UUID) error
	GetUserTaskStatisticsFn func(ctx context.Context, actorID uuid.UUID) (*domain.TaskStatistics, error)
	OverdueTasksFn          func(ctx context.Context, actorID uuid.UUID) ([]*domain.Task, error)
}

var _ service.TaskService = (*MockTaskService)(nil)

// ListTasks implements service.TaskService
func (m *MockTaskService) ListTasks(
	ctx context.Context,
	actorID uuid.UUID,
	filter domain.TaskFilter,
) ([]*domain.Task, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, actorID, filter)
	}
	return []*domain.Task{}, nil
}

// GetTask implements service.TaskService
func (m *MockTaskService) GetTask(ctx context.Context, actorID, taskID uuid.UUID) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, actorID, taskID)
	}
	return nil, service.ErrTaskNotFound
}

// CreateTask implements service.TaskService
func (m *MockTaskService) CreateTask(
	ctx context.Context,
	actorID uuid.UUID,
	fields domain.TaskFields,
) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, actorID, fields)
	}
	return nil, nil
}

// UpdateTask implements service.TaskService
func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	actorID, taskID uuid.UUID,
	fields domain.TaskFields,
) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, actorID, taskID, fields)
	}
	return nil, service.ErrTaskNotFound
}

// DeleteTask implements service.TaskService
func (m *MockTaskService) DeleteTask(ctx context.Context, actorID, taskID uuid.UUID) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, actorID, taskID)
	}
	return nil
}

// GetUserTaskStatistics implements service.TaskService
func (m *MockTaskService) GetUserTaskStatistics(
	ctx context.Context,
	actorID uuid.UUID,
) (*domain.TaskStatistics, error) {
	if m.GetUserTaskStatisticsFn != nil {
		return m.GetUserTaskStatisticsFn(ctx, actorID)
	}
	stats := domain.NewTaskStatistics(0, nil, 0)
	return &stats, nil
}

// OverdueTasks implements service.TaskService
func (m *MockTaskService) OverdueTasks(ctx context.Context, actorID uuid.UUID) ([]*domain.Task, error) {
	if m.OverdueTasksFn != nil {
		return m.OverdueTasksFn(ctx, actorID)
	}
	return []*domain.Task{}, nil
}

// MockUserService implements service.UserService for handler tests.
type MockUserService struct {
	RegisterFn     func(ctx context.Context, reg service.Registration) (*domain.User, error)
	AuthenticateFn func(ctx context.Context, email, password string) (*domain.User, error)
	GetUserFn      func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	ListUsersFn    func(ctx context.Context) ([]domain.UserSummary, error)
}

var _ service.UserService = (*MockUserService)(nil)

// Register implements service.UserService
func (m *MockUserService) Register(ctx context.Context, reg service.Registration) (*domain.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, reg)
	}
	return nil, nil
}

// Authenticate implements service.UserService
func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, email, password)
	}
	return nil, service.ErrInvalidCredentials
}

// GetUser implements service.UserService
func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return nil, service.ErrUserNotFound
}

// ListUsers implements service.UserService
func (m *MockUserService) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	if m.ListUsersFn != nil {
		return m.ListUsersFn(ctx)
	}
	return []domain.UserSummary{}, nil
}
