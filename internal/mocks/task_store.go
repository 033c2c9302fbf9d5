package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
//
// Without function overrides it behaves like an in-memory store: visibility
// follows ownership or assignment and Owner/Assignee are resolved from Users
// when it is set.
type MockTaskStore struct {
	ListForUserFn    func(ctx context.Context, userID uuid.UUID, filter domain.TaskFilter) ([]*domain.Task, error)
	FindForUserFn    func(ctx context.Context, taskID, userID uuid.UUID) (*domain.Task, error)
	CreateFn         func(ctx context.Context, task *domain.Task) error
	UpdateFn         func(ctx context.Context, task *domain.Task) error
	DeleteFn         func(ctx context.Context, taskID uuid.UUID) error
	CountForUserFn   func(ctx context.Context, userID uuid.UUID) (int, error)
	CountByStatusFn  func(ctx context.Context, userID uuid.UUID) (map[domain.TaskStatus]int, error)
	OverdueForUserFn func(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Task, error)

	mu      sync.Mutex
	Tasks   map[uuid.UUID]*domain.Task
	order   []uuid.UUID
	Users   *MockUserStore
	TxCount int
}

// NewMockTaskStore creates an empty in-memory task store. users may be nil.
func NewMockTaskStore(users *MockUserStore) *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
		Users: users,
	}
}

// ListForUser implements the TaskStore interface
func (m *MockTaskStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.TaskFilter,
) ([]*domain.Task, error) {
	if m.ListForUserFn != nil {
		return m.ListForUserFn(ctx, userID, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*domain.Task{}
	for i := len(m.order) - 1; i >= 0; i-- {
		t := m.Tasks[m.order[i]]
		if !visible(t, userID) {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		out = append(out, m.resolve(t))
	}
	return out, nil
}

// FindForUser implements the TaskStore interface
func (m *MockTaskStore) FindForUser(ctx context.Context, taskID, userID uuid.UUID) (*domain.Task, error) {
	if m.FindForUserFn != nil {
		return m.FindForUserFn(ctx, taskID, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.Tasks[taskID]
	if !ok || !visible(t, userID) {
		return nil, store.ErrTaskNotFound
	}
	return m.resolve(t), nil
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *task
	m.Tasks[task.ID] = &stored
	m.order = append(m.order, task.ID)
	return nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.Tasks[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}
	stored := *task
	stored.UserID = existing.UserID
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	m.Tasks[task.ID] = &stored
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, taskID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, taskID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Tasks[taskID]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, taskID)
	for i, id := range m.order {
		if id == taskID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// CountForUser implements the TaskStore interface
func (m *MockTaskStore) CountForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.CountForUserFn != nil {
		return m.CountForUserFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.Tasks {
		if visible(t, userID) {
			n++
		}
	}
	return n, nil
}

// CountByStatus implements the TaskStore interface
func (m *MockTaskStore) CountByStatus(ctx context.Context, userID uuid.UUID) (map[domain.TaskStatus]int, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[domain.TaskStatus]int)
	for _, t := range m.Tasks {
		if visible(t, userID) {
			counts[t.Status]++
		}
	}
	return counts, nil
}

// OverdueForUser implements the TaskStore interface
func (m *MockTaskStore) OverdueForUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Task, error) {
	if m.OverdueForUserFn != nil {
		return m.OverdueForUserFn(ctx, userID, now)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*domain.Task{}
	for _, t := range m.Tasks {
		if visible(t, userID) && t.IsOverdue(now) {
			out = append(out, m.resolve(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DueDate.Before(*out[j].DueDate)
	})
	return out, nil
}

// WithTx implements the TaskStore interface. The mock ignores the
// transaction and returns itself.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	m.mu.Lock()
	m.TxCount++
	m.mu.Unlock()
	return m
}

// Put stores a task directly, bypassing validation.
func (m *MockTaskStore) Put(task *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *task
	m.Tasks[task.ID] = &stored
	m.order = append(m.order, task.ID)
}

// Get returns the stored copy of a task, ignoring visibility.
func (m *MockTaskStore) Get(id uuid.UUID) (*domain.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.Tasks[id]
	if !ok {
		return nil, false
	}
	cp := *t
	return &cp, true
}

func (m *MockTaskStore) resolve(t *domain.Task) *domain.Task {
	cp := *t
	if m.Users == nil {
		return &cp
	}
	if owner, ok := m.Users.Summary(t.UserID); ok {
		cp.Owner = &owner
	}
	if t.AssignedTo != nil {
		if assignee, ok := m.Users.Summary(*t.AssignedTo); ok {
			cp.Assignee = &assignee
		}
	}
	return &cp
}

func visible(t *domain.Task, userID uuid.UUID) bool {
	return t.IsOwnedBy(userID) || t.IsAssignedTo(userID)
}
