package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultUserID is the shared tenant used when no user scope is supplied.
const DefaultUserID = "default_user"

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusActive    TaskStatus = "active"
	TaskStatusOpen      TaskStatus = "open"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusCompleted, TaskStatusActive, TaskStatusOpen:
		return true
	}
	return false
}

type TaskType string

const (
	TaskTypeWork        TaskType = "work"
	TaskTypePersonal    TaskType = "personal"
	TaskTypeGroceryList TaskType = "grocery_list"
	TaskTypeReminder    TaskType = "reminder"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeWork, TaskTypePersonal, TaskTypeGroceryList, TaskTypeReminder:
		return true
	}
	return false
}

// Task is a to-do item. Completed always agrees with Status.
type Task struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Completed   bool       `db:"-" json:"completed"`
	Status      TaskStatus `db:"status" json:"status"`
	TaskType    TaskType   `db:"task_type" json:"task_type"`
	UserID      string     `db:"user_id" json:"user_id"`
	DueDate     *time.Time `db:"due_date" json:"due_date"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// Tenant is an optional user scope. The zero value means "no scope".
type Tenant struct {
	UserID string
}

// ResolveTenant returns the user id a new task is stored under.
func ResolveTenant(t Tenant) string {
	if id := strings.TrimSpace(t.UserID); id != "" {
		return id
	}
	return DefaultUserID
}

// NewTask holds the caller-supplied fields for a create.
type NewTask struct {
	Title       string
	Description string
	Completed   *bool
	Status      *TaskStatus
	TaskType    *TaskType
	Tenant      Tenant
	DueDate     *time.Time
}

// Normalize trims strings, applies defaults and rejects invalid input.
func (n NewTask) Normalize() (NewTask, error) {
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		return n, NewValidationError("title", "Title is required")
	}
	n.Description = strings.TrimSpace(n.Description)
	n.Status = trimEnum(n.Status)
	n.TaskType = trimEnum(n.TaskType)

	if n.Status != nil && !n.Status.Valid() {
		return n, NewValidationError("status", "invalid status: "+string(*n.Status))
	}
	if err := checkCompletion(n.Status, n.Completed); err != nil {
		return n, err
	}
	if n.TaskType == nil {
		tt := TaskTypePersonal
		n.TaskType = &tt
	} else if !n.TaskType.Valid() {
		return n, NewValidationError("task_type", "invalid task_type: "+string(*n.TaskType))
	}
	n.Tenant = Tenant{UserID: ResolveTenant(n.Tenant)}
	return n, nil
}

// DueDatePatch distinguishes "leave alone" from "clear" and "set".
// Decoding JSON null yields Set with a nil Value.
type DueDatePatch struct {
	Set   bool
	Value *time.Time
}

func (d *DueDatePatch) UnmarshalJSON(b []byte) error {
	d.Set = true
	d.Value = nil
	if string(b) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return NewValidationError("due_date", "due_date must be a string or null")
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := ParseDueDate(raw)
	if err != nil {
		return err
	}
	d.Value = &t
	return nil
}

// ParseDueDate accepts RFC 3339 timestamps and plain dates (UTC midnight).
func ParseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, NewValidationError("due_date", "due_date must be an RFC 3339 timestamp or YYYY-MM-DD date")
}

// TaskPatch is a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	Status      *TaskStatus
	TaskType    *TaskType
	DueDate     DueDatePatch
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil &&
		p.Status == nil && p.TaskType == nil && !p.DueDate.Set
}

// Normalize trims present strings and validates present enums.
func (p TaskPatch) Normalize() (TaskPatch, error) {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return p, NewValidationError("title", "Title cannot be empty")
		}
		p.Title = &title
	}
	if p.Description != nil {
		desc := strings.TrimSpace(*p.Description)
		p.Description = &desc
	}
	p.Status = trimEnum(p.Status)
	p.TaskType = trimEnum(p.TaskType)
	if p.Status != nil && !p.Status.Valid() {
		return p, NewValidationError("status", "invalid status: "+string(*p.Status))
	}
	if p.TaskType != nil && !p.TaskType.Valid() {
		return p, NewValidationError("task_type", "invalid task_type: "+string(*p.TaskType))
	}
	if err := checkCompletion(p.Status, p.Completed); err != nil {
		return p, err
	}
	return p, nil
}

func trimEnum[T ~string](v *T) *T {
	if v == nil {
		return nil
	}
	t := T(strings.TrimSpace(string(*v)))
	return &t
}

func checkCompletion(status *TaskStatus, completed *bool) error {
	if status == nil || completed == nil {
		return nil
	}
	if (*status == TaskStatusCompleted) != *completed {
		return NewValidationError("completed", "completed conflicts with status "+string(*status))
	}
	return nil
}

// TaskFilter narrows a listing. Nil fields do not filter.
type TaskFilter struct {
	Completed *bool
	UserID    *string
	TaskType  *TaskType
}
