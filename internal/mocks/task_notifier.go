package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// TaskCreatedCall records one NotifyTaskCreated invocation.
type TaskCreatedCall struct {
	Task    *domain.Task
	Creator domain.UserSummary
}

// MockTaskNotifier implements service.TaskNotifier and records every call.
type MockTaskNotifier struct {
	mu    sync.Mutex
	Calls []TaskCreatedCall
}

// NotifyTaskCreated implements service.TaskNotifier
func (m *MockTaskNotifier) NotifyTaskCreated(ctx context.Context, task *domain.Task, creator domain.UserSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, TaskCreatedCall{Task: task, Creator: creator})
}

// CallCount returns how many notifications were requested.
func (m *MockTaskNotifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
