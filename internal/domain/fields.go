package domain

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Task field names as they appear in requests.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldDueDate     = "due_date"
	FieldAssignedTo  = "assigned_to"
)

// UpdatableTaskFields is the allow-list of fields a caller may supply.
// Anything else in a request body is discarded before it reaches the service.
var UpdatableTaskFields = []string{
	FieldTitle, FieldDescription, FieldStatus, FieldPriority, FieldDueDate, FieldAssignedTo,
}

// OwnerOnlyTaskFields are the fields only the task owner may change.
var OwnerOnlyTaskFields = []string{
	FieldTitle, FieldDescription, FieldPriority, FieldDueDate, FieldAssignedTo,
}

// Optional is a value that may be absent, explicitly null, or set.
type Optional[T any] struct {
	// Present is true when the key was supplied at all.
	Present bool
	// Valid is true when the supplied value was not null.
	Valid bool
	Value T
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Valid: true, Value: v}
}

// Null returns a present Optional holding null.
func Null[T any]() Optional[T] {
	return Optional[T]{Present: true}
}

// TaskFields is a typed partial set of task fields, as supplied on create or
// update. Status, priority and due date are kept as raw strings so that
// validation can report bad values instead of failing to decode them.
type TaskFields struct {
	Title       Optional[string]
	Description Optional[string]
	Status      Optional[string]
	Priority    Optional[string]
	DueDate     Optional[string]
	AssignedTo  Optional[uuid.UUID]
}

// Keys returns the names of the supplied fields in allow-list order.
func (f TaskFields) Keys() []string {
	present := map[string]bool{
		FieldTitle:       f.Title.Present,
		FieldDescription: f.Description.Present,
		FieldStatus:      f.Status.Present,
		FieldPriority:    f.Priority.Present,
		FieldDueDate:     f.DueDate.Present,
		FieldAssignedTo:  f.AssignedTo.Present,
	}

	keys := make([]string, 0, len(present))
	for _, name := range UpdatableTaskFields {
		if present[name] {
			keys = append(keys, name)
		}
	}
	return keys
}

// Touches reports whether any of names was supplied.
func (f TaskFields) Touches(names ...string) bool {
	for _, key := range f.Keys() {
		for _, name := range names {
			if key == name {
				return true
			}
		}
	}
	return false
}

// IsEmpty reports whether no field was supplied.
func (f TaskFields) IsEmpty() bool {
	return len(f.Keys()) == 0
}

// ApplyTo overlays the supplied fields onto t. Null clears nullable fields;
// null for title, status or priority is rejected.
func (f TaskFields) ApplyTo(t *Task) error {
	verr := NewValidationError()

	if f.Title.Present {
		if f.Title.Valid {
			t.Title = f.Title.Value
		} else {
			verr.Add(FieldTitle, "The title field is required.")
		}
	}

	if f.Description.Present {
		if f.Description.Valid {
			d := f.Description.Value
			t.Description = &d
		} else {
			t.Description = nil
		}
	}

	if f.Status.Present {
		if s := TaskStatus(f.Status.Value); f.Status.Valid && s.Valid() {
			t.Status = s
		} else {
			verr.Add(FieldStatus, MsgInvalidStatus)
		}
	}

	if f.Priority.Present {
		if p := TaskPriority(f.Priority.Value); f.Priority.Valid && p.Valid() {
			t.Priority = p
		} else {
			verr.Add(FieldPriority, MsgInvalidPriority)
		}
	}

	if f.DueDate.Present {
		if f.DueDate.Valid && f.DueDate.Value != "" {
			d, err := ParseDate(f.DueDate.Value)
			if err != nil {
				verr.Add(FieldDueDate, MsgInvalidDate)
			} else {
				t.DueDate = &d
			}
		} else {
			t.DueDate = nil
		}
	}

	if f.AssignedTo.Present {
		if f.AssignedTo.Valid {
			id := f.AssignedTo.Value
			t.AssignedTo = &id
		} else {
			t.AssignedTo = nil
		}
		// The resolved identity no longer matches; the store reloads it.
		t.Assignee = nil
	}

	return verr.OrNil()
}

// DecodeTaskFields converts a decoded JSON object into TaskFields. Keys outside
// UpdatableTaskFields are discarded and returned, sorted, as the second value.
// Values of the wrong JSON type produce a ValidationError.
func DecodeTaskFields(raw map[string]json.RawMessage) (TaskFields, []string, error) {
	var (
		fields  TaskFields
		dropped []string
	)
	verr := NewValidationError()

	for key, value := range raw {
		isNull := strings.TrimSpace(string(value)) == "null"

		switch key {
		case FieldTitle:
			fields.Title = decodeString(key, value, isNull, verr)
		case FieldDescription:
			fields.Description = decodeString(key, value, isNull, verr)
		case FieldStatus:
			fields.Status = decodeString(key, value, isNull, verr)
		case FieldPriority:
			fields.Priority = decodeString(key, value, isNull, verr)
		case FieldDueDate:
			fields.DueDate = decodeString(key, value, isNull, verr)
		case FieldAssignedTo:
			if isNull {
				fields.AssignedTo = Null[uuid.UUID]()
				continue
			}
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				verr.Add(key, MsgInvalidAssignee)
				continue
			}
			id, err := uuid.Parse(s)
			if err != nil {
				verr.Add(key, MsgInvalidAssignee)
				continue
			}
			fields.AssignedTo = Some(id)
		default:
			dropped = append(dropped, key)
		}
	}

	sort.Strings(dropped)
	return fields, dropped, verr.OrNil()
}

func decodeString(key string, value json.RawMessage, isNull bool, verr *ValidationError) Optional[string] {
	if isNull {
		return Null[string]()
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		verr.Add(key, "The "+strings.ReplaceAll(key, "_", " ")+" field must be a string.")
		return Optional[string]{}
	}
	return Some(s)
}
