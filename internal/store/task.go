package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// Version: 1.0
type TaskStore interface {
	// Create saves a new task to the store, including its assignee rows.
	// The task must be valid according to domain validation rules.
	// Returns validation errors wrapped in ErrInvalidEntity if the task
	// data is invalid.
	Create(ctx context.Context, task *domain.TaskRecord) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	// The returned task has its AssignedUserIDs populated from the
	// assignee join table.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskRecord, error)

	// Update modifies an existing task's fields and replaces its assignee
	// set. Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.TaskRecord) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	// Assignee rows are removed through ON DELETE CASCADE constraints.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetTasksByAssignedUser retrieves every task the given user is
	// assigned to, most recently created first. Returns an empty slice
	// when the user has no tasks.
	GetTasksByAssignedUser(ctx context.Context, userID uuid.UUID) ([]*domain.TaskRecord, error)

	// GetTasksByTeam retrieves every task belonging to the given team,
	// most recently created first. Returns an empty slice when the team
	// has no tasks.
	GetTasksByTeam(ctx context.Context, teamID uuid.UUID) ([]*domain.TaskRecord, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. This allows for multiple operations to be executed
	// within a single transaction. The transaction should be created and
	// managed by the caller (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
