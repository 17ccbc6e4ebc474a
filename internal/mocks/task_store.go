package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn                 func(ctx context.Context, task *domain.TaskRecord) error
	GetByIDFn                func(ctx context.Context, id uuid.UUID) (*domain.TaskRecord, error)
	UpdateFn                 func(ctx context.Context, task *domain.TaskRecord) error
	DeleteFn                 func(ctx context.Context, id uuid.UUID) error
	GetTasksByAssignedUserFn func(ctx context.Context, userID uuid.UUID) ([]*domain.TaskRecord, error)
	GetTasksByTeamFn         func(ctx context.Context, teamID uuid.UUID) ([]*domain.TaskRecord, error)

	// Data for default implementation
	Tasks map[uuid.UUID]*domain.TaskRecord
}

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.TaskRecord),
	}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.TaskRecord) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.Tasks[task.ID] = task
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskRecord, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	task, exists := m.Tasks[id]
	if !exists {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.TaskRecord) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	if _, exists := m.Tasks[task.ID]; !exists {
		return store.ErrTaskNotFound
	}
	m.Tasks[task.ID] = task
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, exists := m.Tasks[id]; !exists {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}

// GetTasksByAssignedUser implements the TaskStore interface
func (m *MockTaskStore) GetTasksByAssignedUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.TaskRecord, error) {
	if m.GetTasksByAssignedUserFn != nil {
		return m.GetTasksByAssignedUserFn(ctx, userID)
	}

	var tasks []*domain.TaskRecord
	for _, task := range m.Tasks {
		for _, assignee := range task.AssignedUserIDs {
			if assignee == userID {
				tasks = append(tasks, task)
				break
			}
		}
	}
	return tasks, nil
}

// GetTasksByTeam implements the TaskStore interface
func (m *MockTaskStore) GetTasksByTeam(
	ctx context.Context,
	teamID uuid.UUID,
) ([]*domain.TaskRecord, error) {
	if m.GetTasksByTeamFn != nil {
		return m.GetTasksByTeamFn(ctx, teamID)
	}

	var tasks []*domain.TaskRecord
	for _, task := range m.Tasks {
		if task.TeamID == teamID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// WithTx implements the TaskStore interface for transaction support
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	// For mock purposes, just return the same mock
	return m
}
