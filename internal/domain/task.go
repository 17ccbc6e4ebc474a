package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusOverdue    TaskStatus = "overdue"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// TaskPriority represents the urgency class of a task
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Common validation errors for TaskRecord
var (
	ErrEmptyTaskID         = errors.New("task ID cannot be empty")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
)

// TaskRecord is the read-only subset of a task that the scoring and
// caching core consumes. The task store owns the full document; this
// core never mutates a TaskRecord.
type TaskRecord struct {
	ID              uuid.UUID    `json:"id"`
	TeamID          uuid.UUID    `json:"team_id"` // uuid.Nil when the task has no owning team
	AssignedUserIDs []uuid.UUID  `json:"assigned_user_ids"`
	Status          TaskStatus   `json:"status"`
	Priority        TaskPriority `json:"priority"`
	Category        string       `json:"category"`
	CreatedAt       time.Time    `json:"created_at"`
	DueDate         time.Time    `json:"due_date"`
	CompletedAt     *time.Time   `json:"completed_at,omitempty"`
}

// Validate checks if the TaskRecord has valid data.
// Returns an error if any field fails validation.
func (t *TaskRecord) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	switch t.Status {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted,
		TaskStatusOverdue, TaskStatusCancelled:
	default:
		return ErrInvalidTaskStatus
	}

	switch t.Priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
	default:
		return ErrInvalidTaskPriority
	}

	return nil
}

// AssignedCount returns the number of users the task is shared across,
// never less than one so per-user score shares stay well defined.
func (t *TaskRecord) AssignedCount() int {
	if len(t.AssignedUserIDs) < 1 {
		return 1
	}
	return len(t.AssignedUserIDs)
}

// IsCompleted reports whether the task reached the completed state with
// a recorded completion time.
func (t *TaskRecord) IsCompleted() bool {
	return t.Status == TaskStatusCompleted && t.CompletedAt != nil
}
