package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTaskFields(t *testing.T) {
	t.Parallel()
	today := NewDate(2025, 6, 15)

	tests := []struct {
		name       string
		fields     TaskFields
		isUpdate   bool
		wantFields map[string]string
	}{
		{
			name:   "valid create with title only",
			fields: TaskFields{Title: Some("Ship report")},
		},
		{
			name:       "create without title",
			fields:     TaskFields{Description: Some("no title")},
			wantFields: map[string]string{FieldTitle: MsgTitleRequired},
		},
		{
			name:       "create with blank title",
			fields:     TaskFields{Title: Some("   ")},
			wantFields: map[string]string{FieldTitle: MsgTitleRequired},
		},
		{
			name:       "create with null title",
			fields:     TaskFields{Title: Null[string]()},
			wantFields: map[string]string{FieldTitle: MsgTitleRequired},
		},
		{
			name:     "update without title",
			fields:   TaskFields{Status: Some("completed")},
			isUpdate: true,
		},
		{
			name:       "update with blank title",
			fields:     TaskFields{Title: Some(" ")},
			isUpdate:   true,
			wantFields: map[string]string{FieldTitle: MsgTitleRequired},
		},
		{
			name:   "title at the length limit",
			fields: TaskFields{Title: Some(strings.Repeat("é", MaxTitleLength))},
		},
		{
			name:       "title over the length limit",
			fields:     TaskFields{Title: Some(strings.Repeat("a", MaxTitleLength+1))},
			isUpdate:   true,
			wantFields: map[string]string{FieldTitle: MsgTitleTooLong},
		},
		{
			name:   "due date today",
			fields: TaskFields{Title: Some("t"), DueDate: Some("2025-06-15")},
		},
		{
			name:       "due date yesterday",
			fields:     TaskFields{Title: Some("t"), DueDate: Some("2025-06-14")},
			wantFields: map[string]string{FieldDueDate: MsgDueDateInPast},
		},
		{
			name:   "due date today with late time of day",
			fields: TaskFields{Title: Some("t"), DueDate: Some("2025-06-15T23:59:59Z")},
		},
		{
			name:       "due date yesterday with time of day",
			fields:     TaskFields{Title: Some("t"), DueDate: Some("2025-06-14T00:00:01Z")},
			wantFields: map[string]string{FieldDueDate: MsgDueDateInPast},
		},
		{
			name:       "due date unparseable",
			fields:     TaskFields{Title: Some("t"), DueDate: Some("next tuesday")},
			wantFields: map[string]string{FieldDueDate: MsgInvalidDate},
		},
		{
			name:   "empty due date is ignored",
			fields: TaskFields{Title: Some("t"), DueDate: Some("")},
		},
		{
			name:   "null due date is ignored",
			fields: TaskFields{Title: Some("t"), DueDate: Null[string]()},
		},
		{
			name:       "invalid status",
			fields:     TaskFields{Status: Some("done")},
			isUpdate:   true,
			wantFields: map[string]string{FieldStatus: MsgInvalidStatus},
		},
		{
			name:       "null status",
			fields:     TaskFields{Status: Null[string]()},
			isUpdate:   true,
			wantFields: map[string]string{FieldStatus: MsgInvalidStatus},
		},
		{
			name:       "invalid priority",
			fields:     TaskFields{Title: Some("t"), Priority: Some("urgent")},
			wantFields: map[string]string{FieldPriority: MsgInvalidPriority},
		},
		{
			name: "every valid enum",
			fields: TaskFields{
				Title:    Some("t"),
				Status:   Some("in_progress"),
				Priority: Some("high"),
			},
		},
		{
			name: "multiple failures reported together",
			fields: TaskFields{
				DueDate:  Some("2020-01-01"),
				Status:   Some("nope"),
				Priority: Some("nope"),
			},
			wantFields: map[string]string{
				FieldTitle:    MsgTitleRequired,
				FieldDueDate:  MsgDueDateInPast,
				FieldStatus:   MsgInvalidStatus,
				FieldPriority: MsgInvalidPriority,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTaskFields(tt.fields, tt.isUpdate, today)

			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Len(t, verr.Fields, len(tt.wantFields))
			for field, msg := range tt.wantFields {
				assert.Equal(t, []string{msg}, verr.Fields[field], field)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	verr := NewValidationError()
	assert.NoError(t, verr.OrNil())
	assert.Equal(t, "validation failed", verr.Error())

	verr.Add("title", "required")
	verr.Add("due_date", "in the past")
	verr.Add("title", "too long")

	assert.True(t, verr.HasErrors())
	assert.Equal(t, "validation failed: due_date: in the past; title: required, too long", verr.Error())

	single := NewFieldError("status", "bad")
	assert.Equal(t, map[string][]string{"status": {"bad"}}, single.Fields)
}
