package task

import (
	"time"

	"github.com/google/uuid"
)

// Priority is the task priority level.
type Priority string

// Valid priority levels, lowest to highest.
const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority level.
func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a single checklist item owned by a user.
//
// OrderPosition defines the user-visible ordering and is unique within a
// user's task set; it is renumbered atomically on reorder. CompletedAt
// is maintained by a database trigger: non-nil iff Completed is true.
type Task struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	OrderPosition int        `json:"order_position"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	Priority      Priority   `json:"priority"`
	Tags          []string   `json:"tags"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreateParams are the caller-supplied fields for creating a task.
// OrderPosition is assigned by the store, never by the caller.
type CreateParams struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    Priority
	Tags        []string
}

// UpdateParams is a partial update: nil fields are left unchanged.
type UpdateParams struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
	Priority    *Priority
	Tags        []string
}
