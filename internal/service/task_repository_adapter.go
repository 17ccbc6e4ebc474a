package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/store"
)

// NewTaskRepositoryAdapter creates a new adapter that allows a
// store.TaskStore to be used where a TaskRepository is expected.
func NewTaskRepositoryAdapter(taskStore store.TaskStore) TaskRepository {
	return &taskRepositoryAdapter{
		taskStore: taskStore,
	}
}

// taskRepositoryAdapter adapts a store.TaskStore to the TaskRepository interface
type taskRepositoryAdapter struct {
	taskStore store.TaskStore
}

// GetTasksByAssignedUser implements TaskRepository.GetTasksByAssignedUser
func (a *taskRepositoryAdapter) GetTasksByAssignedUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.TaskRecord, error) {
	return a.taskStore.GetTasksByAssignedUser(ctx, userID)
}
