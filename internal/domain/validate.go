package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxTitleLength is the longest accepted task title, in characters.
const MaxTitleLength = 255

// Validation messages reported for task fields.
const (
	MsgTitleRequired   = "Task title is required"
	MsgTitleTooLong    = "The title field must not be greater than 255 characters."
	MsgDueDateInPast   = "Due date must be today or in the future"
	MsgInvalidDate     = "The due date is not a valid date."
	MsgInvalidStatus   = "Invalid status value"
	MsgInvalidPriority = "Invalid priority value"
	MsgInvalidAssignee = "The selected assigned to is invalid."
)

// ValidateTaskFields checks an incoming field set against the task rules.
//
//   - on create (isUpdate false) the title must be supplied and non-blank;
//     on update a supplied title must still be non-blank
//   - a title may not exceed MaxTitleLength characters
//   - a supplied due date must not fall before today; only the calendar date
//     is compared
//   - a supplied status must be pending, in_progress or completed
//   - a supplied priority must be low, medium or high
//
// It returns a *ValidationError listing every failure, or nil.
func ValidateTaskFields(fields TaskFields, isUpdate bool, today Date) error {
	verr := NewValidationError()

	titleBlank := !fields.Title.Valid || strings.TrimSpace(fields.Title.Value) == ""
	switch {
	case (!isUpdate || fields.Title.Present) && titleBlank:
		verr.Add(FieldTitle, MsgTitleRequired)
	case fields.Title.Valid && utf8.RuneCountInString(fields.Title.Value) > MaxTitleLength:
		verr.Add(FieldTitle, MsgTitleTooLong)
	}

	if fields.DueDate.Valid && fields.DueDate.Value != "" {
		due, err := ParseDate(fields.DueDate.Value)
		switch {
		case err != nil:
			verr.Add(FieldDueDate, MsgInvalidDate)
		case due.Before(today):
			verr.Add(FieldDueDate, MsgDueDateInPast)
		}
	}

	if fields.Status.Present && !TaskStatus(fields.Status.Value).Valid() {
		verr.Add(FieldStatus, MsgInvalidStatus)
	}

	if fields.Priority.Present && !TaskPriority(fields.Priority.Value).Valid() {
		verr.Add(FieldPriority, MsgInvalidPriority)
	}

	return verr.OrNil()
}
