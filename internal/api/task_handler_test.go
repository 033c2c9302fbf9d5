package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/domain/access"
	"github.com/phrazzld/taskboard-api/internal/mocks"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskRouter(svc service.TaskService, userID uuid.UUID) chi.Router {
	log, _ := logger.NewCapture()
	h := NewTaskHandler(svc, log)

	r := chi.NewRouter()
	r.Use(withUser(userID, nil))
	r.Get("/api/tasks", h.ListTasks)
	r.Post("/api/tasks", h.CreateTask)
	r.Get("/api/tasks/stats", h.Statistics)
	r.Get("/api/tasks/overdue", h.OverdueTasks)
	r.Get("/api/tasks/{id}", h.GetTask)
	r.Put("/api/tasks/{id}", h.UpdateTask)
	r.Patch("/api/tasks/{id}", h.UpdateTask)
	r.Delete("/api/tasks/{id}", h.DeleteTask)
	return r
}

func sampleTask(ownerID uuid.UUID) *domain.Task {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	return &domain.Task{
		ID:        uuid.New(),
		Title:     "Write report",
		Status:    domain.TaskStatusPending,
		Priority:  domain.TaskPriorityHigh,
		UserID:    ownerID,
		CreatedAt: now,
		UpdatedAt: now,
		Owner:     &domain.UserSummary{ID: ownerID, Name: "Alice", Email: "alice@example.com"},
	}
}

func TestTaskHandler_RequiresAuthentication(t *testing.T) {
	t.Parallel()

	router := newTaskRouter(&mocks.MockTaskService{}, uuid.Nil)

	rr := doRequest(t, router, http.MethodGet, "/api/tasks", nil)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	body := decodeBody[shared.ErrorResponse](t, rr)
	assert.False(t, body.Success)
	assert.Equal(t, "Unauthenticated.", body.Message)
}

func TestTaskHandler_ListTasks(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("passes filter and returns tasks", func(t *testing.T) {
		t.Parallel()

		var got domain.TaskFilter
		svc := &mocks.MockTaskService{
			ListTasksFn: func(ctx context.Context, actorID uuid.UUID, filter domain.TaskFilter) ([]*domain.Task, error) {
				assert.Equal(t, userID, actorID)
				got = filter
				return []*domain.Task{sampleTask(actorID)}, nil
			},
		}

		rr := doRequest(t, newTaskRouter(svc, userID), http.MethodGet,
			"/api/tasks?status=pending&priority=high&sort_by=due_date&sort_direction=ASC", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, domain.TaskStatusPending, got.Status)
		assert.Equal(t, domain.TaskPriorityHigh, got.Priority)
		assert.Equal(t, "due_date", got.SortBy)
		assert.Equal(t, domain.SortAsc, got.SortDirection)

		body := decodeBody[TaskListResponse](t, rr)
		assert.True(t, body.Success)
		require.Len(t, body.Tasks, 1)
		assert.Equal(t, "Write report", body.Tasks[0].Title)
		require.NotNil(t, body.Tasks[0].User)
		assert.Equal(t, "Alice", body.Tasks[0].User.Name)
	})

	t.Run("empty list encodes as array", func(t *testing.T) {
		t.Parallel()

		rr := doRequest(t, newTaskRouter(&mocks.MockTaskService{}, userID), http.MethodGet, "/api/tasks", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"tasks":[]`)
	})

	t.Run("invalid sort column", func(t *testing.T) {
		t.Parallel()

		rr := doRequest(t, newTaskRouter(&mocks.MockTaskService{}, userID), http.MethodGet,
			"/api/tasks?sort_by=password", nil)

		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		body := decodeBody[shared.ErrorResponse](t, rr)
		assert.Equal(t, "Validation error", body.Message)
		assert.Contains(t, body.Errors, "sort_by")
	})

	t.Run("service failure", func(t *testing.T) {
		t.Parallel()

		svc := &mocks.MockTaskService{
			ListTasksFn: func(context.Context, uuid.UUID, domain.TaskFilter) ([]*domain.Task, error) {
				return nil, errors.New("connection reset")
			},
		}

		rr := doRequest(t, newTaskRouter(svc, userID), http.MethodGet, "/api/tasks", nil)

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		body := decodeBody[shared.ErrorResponse](t, rr)
		assert.Equal(t, "An unexpected error occurred", body.Message)
		assert.NotContains(t, rr.Body.String(), "connection reset")
	})
}

func TestTaskHandler_CreateTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("created", func(t *testing.T) {
		t.Parallel()

		var got domain.TaskFields
		svc := &mocks.MockTaskService{
			CreateTaskFn: func(ctx context.Context, actorID uuid.UUID, fields domain.TaskFields) (*domain.Task, error) {
				got = fields
				task := sampleTask(actorID)
				task.Title = fields.Title.Value
				return task, nil
			},
		}

		rr := doRequest(t, newTaskRouter(svc, userID), http.MethodPost, "/api/tasks", map[string]any{
			"title":    "Plan sprint",
			"priority": "low",
			"user_id":  uuid.NewString(),
		})

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.True(t, got.Title.Present)
		assert.Equal(t, "Plan sprint", got.Title.Value)
		assert.Equal(t, "low", got.Priority.Value)
		assert.False(t, got.Status.Present)

		body := decodeBody[TaskEnvelope](t, rr)
		assert.True(t, body.Success)
		assert.Equal(t, "Task created successfully", body.Message)
		assert.Equal(t, "Plan sprint", body.Task.Title)
		assert.Equal(t, userID, body.Task.UserID)
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()

		rr := doRequest(t, newTaskRouter(&mocks.MockTaskService{}, userID), http.MethodPost, "/api/tasks",
			`{"title": `)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		body := decodeBody[shared.ErrorResponse](t, rr)
		assert.Equal(t, "Invalid request format", body.Message)
	})

	t.Run("validation errors from service", func(t *testing.T) {
		t.Parallel()

		svc := &mocks.MockTaskService{
			CreateTaskFn: func(context.Context, uuid.UUID, domain.TaskFields) (*domain.Task, error) {
				verr := domain.NewValidationError()
				verr.Add(domain.FieldTitle, domain.MsgTitleRequired)
				return nil, verr
			},
		}

		rr := doRequest(t, newTaskRouter(svc, userID), http.MethodPost, "/api/tasks", map[string]any{})

		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		body := decodeBody[shared.ErrorResponse](t, rr)
		assert.False(t, body.Success)
		assert.Equal(t, "Validation error", body.Message)
		assert.Equal(t, []string{domain.MsgTitleRequired}, body.Errors[domain.FieldTitle])
	})
}

func TestTaskHandler_GetTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		task := sampleTask(userID)
		svc := &mocks.MockTaskService{
			GetTaskFn: func(ctx context.Context, actorID, taskID uuid.UUID) (*domain.Task, error) {
				assert.Equal(t, task.ID, taskID)
				return task, nil
			},
		}

		rr := doRequest(t, newTaskRouter(svc, userID), http.MethodGet, "/api/tasks/"+task.ID.String(), nil)

		require.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody[TaskEnvelope](t, rr)
		assert.Equal(t, task.ID, body.Task.ID)
		assert.Empty(t, body.Message)
	})

	t.Run("not visible", func(t *testing.T) {
		t.Parallel()

		rr := doRequest(t, newTaskRouter(&mocks.MockTaskService{}, userID), http.MethodGet,
			"/api/tasks/"+uuid.NewString(), nil)

		require.Equal(t, http.StatusNotFound, rr.Code)
		body := decodeBody[shared.ErrorResponse](t, rr)
		assert.Equal(t, msgTaskNotFoundView, body.Message)
	})

	t.Run("malformed id", func(t *testing.T) {
		t.Parallel()

		rr := doRequest(t, newTaskRouter(&mocks.MockTaskService{}, userID), http.MethodGet,
			"/api/tasks/not-a-uuid", nil)

		require.Equal(t, http.StatusNotFound, rr.Code)
		body := decodeBody[shared.ErrorResponse](t, rr)
		assert.Equal(t, msgTaskNotFoundView, body.Message)
	})
}

func TestTaskHandler_UpdateTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("partial update via PATCH", func(t *testing.T) {
		t.Parallel()

		var got domain.TaskFields
		svc := &mocks.MockTaskService{
			UpdateTaskFn: func(ctx context.Context, actorID, taskID uuid.UUID, fields domain.TaskFields) (*domain.Task, error) {
				got = fields
				task := sampleTask(actorID)
				task.ID = taskID
				task.Status = domain.TaskStatusCompleted
				return task, nil
			},
		}

		rr := doRequest(t, newTaskRouter(svc, userID), http.MethodPatch, "/api/tasks/"+uuid.NewString(),
			map[string]any{"status": "completed"})

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []string{domain.FieldStatus}, got.Keys())

		body := decodeBody[TaskEnvelope](t, rr)
		assert.Equal(t, "Task updated successfully", body.Message)
		assert.Equal(t, domain.TaskStatusCompleted, body.Task.Status)
	})

	t.Run("permission denied", func(t *testing.T) {
		t.Parallel()

		svc := &mocks.MockTaskService{
			UpdateTaskFn: func(context.Context, uuid.UUID, uuid.UUID, domain.TaskFields) (*domain.Task, error) {
				return nil, &access.PermissionError{
					Action:  access.ActionChangeStatus,
					Message: access.MsgOnlyAssigneeStatus,
				}
			},
		}

		rr := doRequest(t, newTaskRouter(svc, userID), http.MethodPut, "/api/tasks/"+uuid.NewString(),
			map[string]any{"status": "completed"})

		require.Equal(t, http.StatusForbidden, rr.Code)
		body := decodeBody[shared.ErrorResponse](t, rr)
		assert.Equal(t, access.MsgOnlyAssigneeStatus, body.Message)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		rr := doRequest(t, newTaskRouter(&mocks.MockTaskService{}, userID), http.MethodPut,
			"/api/tasks/"+uuid.NewString(), map[string]any{"title": "x"})

		require.Equal(t, http.StatusNotFound, rr.Code)
		body := decodeBody[shared.ErrorResponse](t, rr)
		assert.Equal(t, msgTaskNotFoundUpdate, body.Message)
	})

	t.Run("wrong json type", func(t *testing.T) {
		t.Parallel()

		called := false
		svc := &mocks.MockTaskService{
			UpdateTaskFn: func(context.Context, uuid.UUID, uuid.UUID, domain.TaskFields) (*domain.Task, error) {
				called = true
				return nil, nil
			},
		}

		rr := doRequest(t, newTaskRouter(svc, userID), http.MethodPut, "/api/tasks/"+uuid.NewString(),
			`{"title": 42}`)

		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.False(t, called)
		body := decodeBody[shared.ErrorResponse](t, rr)
		assert.Contains(t, body.Errors, domain.FieldTitle)
	})
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		taskID := uuid.New()
		var deleted uuid.UUID
		svc := &mocks.MockTaskService{
			DeleteTaskFn: func(ctx context.Context, actorID, id uuid.UUID) error {
				deleted = id
				return nil
			},
		}

		rr := doRequest(t, newTaskRouter(svc, userID), http.MethodDelete, "/api/tasks/"+taskID.String(), nil)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, taskID, deleted)
		body := decodeBody[shared.MessageResponse](t, rr)
		assert.True(t, body.Success)
		assert.Equal(t, "Task deleted successfully", body.Message)
	})

	t.Run("assignee cannot delete", func(t *testing.T) {
		t.Parallel()

		svc := &mocks.MockTaskService{
			DeleteTaskFn: func(context.Context, uuid.UUID, uuid.UUID) error {
				return &access.PermissionError{Action: access.ActionModify, Message: access.MsgNoPermission}
			},
		}

		rr := doRequest(t, newTaskRouter(svc, userID), http.MethodDelete, "/api/tasks/"+uuid.NewString(), nil)

		require.Equal(t, http.StatusForbidden, rr.Code)
		body := decodeBody[shared.ErrorResponse](t, rr)
		assert.Equal(t, access.MsgNoPermission, body.Message)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		svc := &mocks.MockTaskService{
			DeleteTaskFn: func(context.Context, uuid.UUID, uuid.UUID) error {
				return service.ErrTaskNotFound
			},
		}

		rr := doRequest(t, newTaskRouter(svc, userID), http.MethodDelete, "/api/tasks/"+uuid.NewString(), nil)

		require.Equal(t, http.StatusNotFound, rr.Code)
		body := decodeBody[shared.ErrorResponse](t, rr)
		assert.Equal(t, msgTaskNotFoundDelete, body.Message)
	})
}

func TestTaskHandler_Statistics(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &mocks.MockTaskService{
		GetUserTaskStatisticsFn: func(context.Context, uuid.UUID) (*domain.TaskStatistics, error) {
			stats := domain.NewTaskStatistics(4, map[domain.TaskStatus]int{
				domain.TaskStatusPending:   1,
				domain.TaskStatusCompleted: 3,
			}, 1)
			return &stats, nil
		},
	}

	rr := doRequest(t, newTaskRouter(svc, userID), http.MethodGet, "/api/tasks/stats", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody[StatisticsResponse](t, rr)
	assert.True(t, body.Success)
	assert.Equal(t, 4, body.Statistics.TotalTasks)
	assert.Equal(t, 3, body.Statistics.CompletedTasks)
	assert.Equal(t, 1, body.Statistics.OverdueTasks)
	assert.InDelta(t, 75.0, body.Statistics.CompletionRate, 0.001)
}

func TestTaskHandler_OverdueTasks(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	overdue := sampleTask(userID)
	due := domain.NewDate(2025, time.June, 1)
	overdue.DueDate = &due

	svc := &mocks.MockTaskService{
		OverdueTasksFn: func(context.Context, uuid.UUID) ([]*domain.Task, error) {
			return []*domain.Task{overdue}, nil
		},
	}

	rr := doRequest(t, newTaskRouter(svc, userID), http.MethodGet, "/api/tasks/overdue", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"due_date":"2025-06-01"`)
	body := decodeBody[TaskListResponse](t, rr)
	require.Len(t, body.Tasks, 1)
	assert.Equal(t, overdue.ID, body.Tasks[0].ID)
}
