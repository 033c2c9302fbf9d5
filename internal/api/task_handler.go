package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/service"
)

// Messages returned when a task is absent or not visible to the caller.
const (
	msgTaskNotFoundView   = "Task not found or you do not have permission to view this task"
	msgTaskNotFoundUpdate = "Task not found or you do not have permission to update this task"
	msgTaskNotFoundDelete = "Task not found or you do not have permission to delete this task"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With("component", "task_handler"),
	}
}

// ListTasks handles GET /api/tasks.
// Query parameters: status, priority, sort_by, sort_direction.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter, err := domain.NewTaskFilter(q.Get("status"), q.Get("priority"), q.Get("sort_by"), q.Get("sort_direction"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), userID, filter)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Success: true,
		Tasks:   tasksToResponse(tasks),
	})
}

// CreateTask handles POST /api/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	fields, ok := decodeTaskFields(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), userID, fields)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, TaskEnvelope{
		Success: true,
		Message: "Task created successfully",
		Task:    taskToResponse(task),
	})
}

// GetTask handles GET /api/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", msgTaskNotFoundView)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, msgTaskNotFoundView)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskEnvelope{
		Success: true,
		Task:    taskToResponse(task),
	})
}

// UpdateTask handles PUT and PATCH /api/tasks/{id}. Only the supplied fields
// change.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", msgTaskNotFoundUpdate)
	if !ok {
		return
	}

	fields, ok := decodeTaskFields(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), userID, taskID, fields)
	if err != nil {
		HandleAPIError(w, r, err, msgTaskNotFoundUpdate)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskEnvelope{
		Success: true,
		Message: "Task updated successfully",
		Task:    taskToResponse(task),
	})
}

// DeleteTask handles DELETE /api/tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", msgTaskNotFoundDelete)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, msgTaskNotFoundDelete)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{
		Success: true,
		Message: "Task deleted successfully",
	})
}

// Statistics handles GET /api/tasks/stats.
func (h *TaskHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	stats, err := h.taskService.GetUserTaskStatistics(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StatisticsResponse{
		Success:    true,
		Statistics: *stats,
	})
}

// OverdueTasks handles GET /api/tasks/overdue.
func (h *TaskHandler) OverdueTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	tasks, err := h.taskService.OverdueTasks(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("listed overdue tasks",
		slog.Int("count", len(tasks)))

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Success: true,
		Tasks:   tasksToResponse(tasks),
	})
}
