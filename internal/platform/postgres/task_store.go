package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// taskSelect loads tasks together with the owner and assignee identities.
const taskSelect = `
	SELECT t.id, t.title, t.description, t.status, t.priority, t.due_date,
	       t.user_id, t.assigned_to, t.created_at, t.updated_at,
	       o.name, o.email, a.name, a.email
	FROM tasks t
	JOIN users o ON o.id = t.user_id
	LEFT JOIN users a ON a.id = t.assigned_to
`

// visibleTo restricts a query to tasks owned by or assigned to $1.
const visibleTo = `(t.user_id = $1 OR t.assigned_to = $1)`

// sortColumns maps the sortable task columns onto qualified SQL columns.
// Only values from this map are ever interpolated into ORDER BY.
var sortColumns = map[string]string{
	"created_at": "t.created_at",
	"updated_at": "t.updated_at",
	"due_date":   "t.due_date",
	"title":      "t.title",
	"status":     "t.status",
	"priority":   "t.priority",
}

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

// ListForUser implements store.TaskStore.ListForUser
func (s *PostgresTaskStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.TaskFilter,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	orderBy, err := orderClause(filter)
	if err != nil {
		return nil, err
	}

	var (
		conditions = []string{visibleTo}
		args       = []any{userID}
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, string(filter.Priority))
		conditions = append(conditions, fmt.Sprintf("t.priority = $%d", len(args)))
	}

	query := taskSelect + " WHERE " + strings.Join(conditions, " AND ") + " ORDER BY " + orderBy

	tasks, err := s.queryTasks(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	log.Debug("listed tasks",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// FindForUser implements store.TaskStore.FindForUser
func (s *PostgresTaskStore) FindForUser(ctx context.Context, taskID, userID uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := taskSelect + " WHERE " + visibleTo + " AND t.id = $2"

	task, err := scanTask(s.db.QueryRowContext(ctx, query, userID, taskID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found or not visible",
				slog.String("task_id", taskID.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, MapError(err)
	}

	return task, nil
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, title, description, status, priority, due_date,
		                   user_id, assigned_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		dueDateArg(task.DueDate),
		task.UserID,
		task.AssignedTo,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("task_id", task.ID.String()),
				slog.String("user_id", task.UserID.String()))
			return fmt.Errorf("%w: owner or assignee does not exist", store.ErrInvalidEntity)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	task.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4,
		    due_date = $5, assigned_to = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		dueDateArg(task.DueDate),
		task.AssignedTo,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: assignee does not exist", store.ErrInvalidEntity)
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Debug("task updated", slog.String("task_id", task.ID.String()))
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task deleted", slog.String("task_id", taskID.String()))
	return nil
}

// CountForUser implements store.TaskStore.CountForUser
func (s *PostgresTaskStore) CountForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tasks t WHERE ` + visibleTo
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, MapError(err)
	}
	return count, nil
}

// CountByStatus implements store.TaskStore.CountByStatus
func (s *PostgresTaskStore) CountByStatus(ctx context.Context, userID uuid.UUID) (map[domain.TaskStatus]int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT t.status, COUNT(*) FROM tasks t WHERE ` + visibleTo + ` GROUP BY t.status`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to count tasks by status",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	counts := make(map[domain.TaskStatus]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, MapError(err)
		}
		counts[domain.TaskStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return counts, nil
}

// OverdueForUser implements store.TaskStore.OverdueForUser
func (s *PostgresTaskStore) OverdueForUser(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) ([]*domain.Task, error) {
	query := taskSelect + " WHERE " + visibleTo + `
		AND t.due_date IS NOT NULL
		AND t.due_date < $2
		AND t.status <> 'completed'
		ORDER BY t.due_date ASC, t.id`

	tasks, err := s.queryTasks(ctx, query, userID, now.UTC())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list overdue tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	return tasks, nil
}

func (s *PostgresTaskStore) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tasks, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task          domain.Task
		status        string
		priority      string
		description   sql.NullString
		dueDate       sql.NullTime
		assignedTo    uuid.NullUUID
		ownerName     string
		ownerEmail    string
		assigneeName  sql.NullString
		assigneeEmail sql.NullString
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&status,
		&priority,
		&dueDate,
		&task.UserID,
		&assignedTo,
		&task.CreatedAt,
		&task.UpdatedAt,
		&ownerName,
		&ownerEmail,
		&assigneeName,
		&assigneeEmail,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	if description.Valid {
		task.Description = &description.String
	}
	if dueDate.Valid {
		d := domain.DateOf(dueDate.Time)
		task.DueDate = &d
	}
	task.Owner = &domain.UserSummary{ID: task.UserID, Name: ownerName, Email: ownerEmail}
	if assignedTo.Valid {
		id := assignedTo.UUID
		task.AssignedTo = &id
		if assigneeName.Valid {
			task.Assignee = &domain.UserSummary{ID: id, Name: assigneeName.String, Email: assigneeEmail.String}
		}
	}

	return &task, nil
}

func dueDateArg(d *domain.Date) any {
	if d == nil {
		return nil
	}
	return d.Time()
}

func orderClause(filter domain.TaskFilter) (string, error) {
	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = domain.DefaultTaskSort
	}
	column, ok := sortColumns[sortBy]
	if !ok {
		return "", fmt.Errorf("%w: column %q", store.ErrInvalidSort, filter.SortBy)
	}

	direction := filter.SortDirection
	switch direction {
	case "":
		direction = domain.SortDesc
	case domain.SortAsc, domain.SortDesc:
	default:
		return "", fmt.Errorf("%w: direction %q", store.ErrInvalidSort, filter.SortDirection)
	}

	return column + " " + strings.ToUpper(direction) + ", t.id", nil
}
