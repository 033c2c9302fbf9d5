package domain

import "strings"

// Sort directions accepted by TaskFilter.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// DefaultTaskSort is the column tasks are ordered by when none is requested.
const DefaultTaskSort = "created_at"

// SortableTaskColumns lists the columns a task listing may be ordered by.
var SortableTaskColumns = []string{"created_at", "updated_at", "due_date", "title", "status", "priority"}

// TaskFilter narrows and orders a task listing. Empty Status or Priority
// means no filtering on that column.
type TaskFilter struct {
	Status        TaskStatus
	Priority      TaskPriority
	SortBy        string
	SortDirection string
}

// NewTaskFilter builds a filter from raw query values. Sort values are
// normalised to lower case and defaulted to created_at descending; unknown
// sort values produce a ValidationError.
func NewTaskFilter(status, priority, sortBy, sortDirection string) (TaskFilter, error) {
	f := TaskFilter{
		Status:        TaskStatus(status),
		Priority:      TaskPriority(priority),
		SortBy:        strings.ToLower(strings.TrimSpace(sortBy)),
		SortDirection: strings.ToLower(strings.TrimSpace(sortDirection)),
	}
	if f.SortBy == "" {
		f.SortBy = DefaultTaskSort
	}
	if f.SortDirection == "" {
		f.SortDirection = SortDesc
	}

	verr := NewValidationError()
	if !isSortable(f.SortBy) {
		verr.Add("sort_by", "The selected sort by is invalid.")
	}
	if f.SortDirection != SortAsc && f.SortDirection != SortDesc {
		verr.Add("sort_direction", "The selected sort direction is invalid.")
	}
	if err := verr.OrNil(); err != nil {
		return TaskFilter{}, err
	}
	return f, nil
}

// Normalized returns f with an empty sort replaced by the default order.
// Stores call it so that a zero TaskFilter lists newest first.
func (f TaskFilter) Normalized() TaskFilter {
	if !isSortable(f.SortBy) {
		f.SortBy = DefaultTaskSort
	}
	if f.SortDirection != SortAsc {
		f.SortDirection = SortDesc
	}
	return f
}

func isSortable(column string) bool {
	for _, c := range SortableTaskColumns {
		if c == column {
			return true
		}
	}
	return false
}
