package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskAppliesDefaults(t *testing.T) {
	t.Parallel()
	owner := uuid.New()
	now := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

	task, err := NewTask(owner, TaskFields{Title: Some("Ship report")}, now)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, "Ship report", task.Title)
	assert.Equal(t, TaskStatusPending, task.Status)
	assert.Equal(t, TaskPriorityMedium, task.Priority)
	assert.Equal(t, owner, task.UserID)
	assert.Nil(t, task.AssignedTo)
	assert.Nil(t, task.DueDate)
	assert.Nil(t, task.Description)
	assert.Equal(t, now, task.CreatedAt)
	assert.Equal(t, now, task.UpdatedAt)
}

func TestNewTaskOverlaysSuppliedFields(t *testing.T) {
	t.Parallel()
	owner := uuid.New()
	assignee := uuid.New()

	task, err := NewTask(owner, TaskFields{
		Title:       Some("Ship report"),
		Description: Some("quarterly"),
		Status:      Some("in_progress"),
		Priority:    Some("high"),
		DueDate:     Some("2030-01-02"),
		AssignedTo:  Some(assignee),
	}, time.Now())

	require.NoError(t, err)
	assert.Equal(t, TaskStatusInProgress, task.Status)
	assert.Equal(t, TaskPriorityHigh, task.Priority)
	require.NotNil(t, task.Description)
	assert.Equal(t, "quarterly", *task.Description)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2030-01-02", task.DueDate.String())
	assert.True(t, task.IsAssignedTo(assignee))
	assert.True(t, task.IsOwnedBy(owner))
	assert.False(t, task.IsOwnedBy(assignee))
}

func TestNewTaskRejectsEmptyTitle(t *testing.T) {
	t.Parallel()

	_, err := NewTask(uuid.New(), TaskFields{}, time.Now())
	assert.ErrorIs(t, err, ErrEmptyTaskTitle)

	_, err = NewTask(uuid.Nil, TaskFields{Title: Some("x")}, time.Now())
	assert.ErrorIs(t, err, ErrEmptyTaskOwner)
}

func TestApplyToClearsNullableFields(t *testing.T) {
	t.Parallel()
	desc := "old"
	due := NewDate(2030, 1, 1)
	assignee := uuid.New()
	task := &Task{
		Title:       "keep",
		Description: &desc,
		DueDate:     &due,
		AssignedTo:  &assignee,
		Assignee:    &UserSummary{ID: assignee},
		Status:      TaskStatusPending,
		Priority:    TaskPriorityLow,
	}

	err := TaskFields{
		Description: Null[string](),
		DueDate:     Some(""),
		AssignedTo:  Null[uuid.UUID](),
	}.ApplyTo(task)

	require.NoError(t, err)
	assert.Equal(t, "keep", task.Title)
	assert.Nil(t, task.Description)
	assert.Nil(t, task.DueDate)
	assert.Nil(t, task.AssignedTo)
	assert.Nil(t, task.Assignee)
	assert.Equal(t, TaskPriorityLow, task.Priority)
}

func TestApplyToRejectsNullForRequiredFields(t *testing.T) {
	t.Parallel()
	task := &Task{Title: "keep", Status: TaskStatusPending, Priority: TaskPriorityLow}

	err := TaskFields{
		Title:    Null[string](),
		Status:   Null[string](),
		Priority: Some("urgent"),
	}.ApplyTo(task)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, FieldTitle)
	assert.Contains(t, verr.Fields, FieldStatus)
	assert.Contains(t, verr.Fields, FieldPriority)
	assert.Equal(t, "keep", task.Title)
	assert.Equal(t, TaskStatusPending, task.Status)
}

func TestTaskFieldsKeysAndTouches(t *testing.T) {
	t.Parallel()

	empty := TaskFields{}
	assert.True(t, empty.IsEmpty())
	assert.Empty(t, empty.Keys())
	assert.False(t, empty.Touches(OwnerOnlyTaskFields...))

	statusOnly := TaskFields{Status: Some("completed")}
	assert.Equal(t, []string{FieldStatus}, statusOnly.Keys())
	assert.False(t, statusOnly.Touches(OwnerOnlyTaskFields...))

	mixed := TaskFields{AssignedTo: Null[uuid.UUID](), Title: Some("x"), Status: Some("pending")}
	assert.Equal(t, []string{FieldTitle, FieldStatus, FieldAssignedTo}, mixed.Keys())
	assert.True(t, mixed.Touches(FieldAssignedTo))
	assert.False(t, mixed.Touches(FieldDueDate))
}

func TestDecodeTaskFields(t *testing.T) {
	t.Parallel()
	assignee := uuid.New()

	var raw map[string]json.RawMessage
	body := `{
		"title": "Ship report",
		"description": null,
		"status": "pending",
		"due_date": "2030-01-01",
		"assigned_to": "` + assignee.String() + `",
		"user_id": "someone-else",
		"id": 42
	}`
	require.NoError(t, json.Unmarshal([]byte(body), &raw))

	fields, dropped, err := DecodeTaskFields(raw)

	require.NoError(t, err)
	assert.Equal(t, []string{"id", "user_id"}, dropped)
	assert.Equal(t, Some("Ship report"), fields.Title)
	assert.Equal(t, Null[string](), fields.Description)
	assert.Equal(t, Some("pending"), fields.Status)
	assert.False(t, fields.Priority.Present)
	assert.Equal(t, Some("2030-01-01"), fields.DueDate)
	assert.Equal(t, Some(assignee), fields.AssignedTo)
}

func TestDecodeTaskFieldsTypeErrors(t *testing.T) {
	t.Parallel()

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(`{"title": 12, "due_date": true, "assigned_to": "nope"}`), &raw))

	_, _, err := DecodeTaskFields(raw)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"The title field must be a string."}, verr.Fields[FieldTitle])
	assert.Equal(t, []string{"The due date field must be a string."}, verr.Fields[FieldDueDate])
	assert.Equal(t, []string{MsgInvalidAssignee}, verr.Fields[FieldAssignedTo])
}

func TestTaskIsOverdue(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := NewDate(2025, 6, 14)
	future := NewDate(2025, 6, 16)

	assert.False(t, (&Task{Status: TaskStatusPending}).IsOverdue(now))
	assert.True(t, (&Task{Status: TaskStatusPending, DueDate: &past}).IsOverdue(now))
	assert.False(t, (&Task{Status: TaskStatusCompleted, DueDate: &past}).IsOverdue(now))
	assert.False(t, (&Task{Status: TaskStatusInProgress, DueDate: &future}).IsOverdue(now))
}

func TestTaskJSONShape(t *testing.T) {
	t.Parallel()
	due := NewDate(2030, 1, 2)
	task := Task{
		ID:       uuid.New(),
		Title:    "Ship report",
		Status:   TaskStatusPending,
		Priority: TaskPriorityMedium,
		DueDate:  &due,
		UserID:   uuid.New(),
		Owner:    &UserSummary{Name: "John Doe"},
	}

	data, err := json.Marshal(task)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "2030-01-02", decoded["due_date"])
	assert.Nil(t, decoded["description"])
	assert.Nil(t, decoded["assigned_to"])
	assert.Contains(t, decoded, "user")
	assert.NotContains(t, decoded, "assigned_to_user")
}

func TestNewTaskStatistics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		total    int
		byStatus map[TaskStatus]int
		overdue  int
		wantRate float64
	}{
		{name: "no tasks", total: 0, byStatus: map[TaskStatus]int{}, wantRate: 0},
		{name: "none completed", total: 4, byStatus: map[TaskStatus]int{TaskStatusPending: 4}, wantRate: 0},
		{
			name:     "one third completed",
			total:    3,
			byStatus: map[TaskStatus]int{TaskStatusCompleted: 1, TaskStatusPending: 2},
			overdue:  1,
			wantRate: 33.33,
		},
		{
			name:     "two thirds completed",
			total:    3,
			byStatus: map[TaskStatus]int{TaskStatusCompleted: 2, TaskStatusInProgress: 1},
			wantRate: 66.67,
		},
		{name: "all completed", total: 2, byStatus: map[TaskStatus]int{TaskStatusCompleted: 2}, wantRate: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := NewTaskStatistics(tt.total, tt.byStatus, tt.overdue)
			assert.Equal(t, tt.total, stats.TotalTasks)
			assert.Equal(t, tt.byStatus[TaskStatusPending], stats.PendingTasks)
			assert.Equal(t, tt.byStatus[TaskStatusInProgress], stats.InProgressTasks)
			assert.Equal(t, tt.byStatus[TaskStatusCompleted], stats.CompletedTasks)
			assert.Equal(t, tt.overdue, stats.OverdueTasks)
			assert.InDelta(t, tt.wantRate, stats.CompletionRate, 0.0001)
		})
	}
}

func TestNewTaskFilter(t *testing.T) {
	t.Parallel()

	f, err := NewTaskFilter("pending", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, TaskFilter{Status: TaskStatusPending, SortBy: "created_at", SortDirection: "desc"}, f)

	f, err = NewTaskFilter("", "high", "Due_Date", "ASC")
	require.NoError(t, err)
	assert.Equal(t, "due_date", f.SortBy)
	assert.Equal(t, "asc", f.SortDirection)
	assert.Equal(t, TaskPriorityHigh, f.Priority)

	_, err = NewTaskFilter("", "", "user_id; DROP TABLE tasks", "sideways")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "sort_by")
	assert.Contains(t, verr.Fields, "sort_direction")

	assert.Equal(t, TaskFilter{SortBy: "created_at", SortDirection: "desc"}, TaskFilter{}.Normalized())
}

func TestDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", d.AddDays(1).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.Before(d))

	offset, err := ParseDate("2025-02-28T23:30:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-28", offset.String())

	_, err = ParseDate("28/02/2025")
	assert.ErrorIs(t, err, ErrInvalidDate)

	var decoded Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-12-31"`), &decoded))
	assert.Equal(t, NewDate(2025, 12, 31), decoded)
	assert.Equal(t, time.UTC, decoded.Time().Location())
	assert.True(t, Date{}.IsZero())
}
