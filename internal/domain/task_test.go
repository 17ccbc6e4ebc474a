package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTaskRecordValidate(t *testing.T) {
	validTask := TaskRecord{
		ID:        uuid.New(),
		TeamID:    uuid.New(),
		Status:    TaskStatusTodo,
		Priority:  TaskPriorityMedium,
		CreatedAt: time.Now(),
		DueDate:   time.Now().Add(24 * time.Hour),
	}

	// Test valid task
	if err := validTask.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// A task without an owning team is still valid
	teamless := validTask
	teamless.TeamID = uuid.Nil
	if err := teamless.Validate(); err != nil {
		t.Errorf("Expected no error for teamless task, got %v", err)
	}

	// Test empty ID
	invalidTask := validTask
	invalidTask.ID = uuid.Nil
	if err := invalidTask.Validate(); err != ErrEmptyTaskID {
		t.Errorf("Expected error %v, got %v", ErrEmptyTaskID, err)
	}

	// Test invalid status
	invalidTask = validTask
	invalidTask.Status = "paused"
	if err := invalidTask.Validate(); err != ErrInvalidTaskStatus {
		t.Errorf("Expected error %v, got %v", ErrInvalidTaskStatus, err)
	}

	// Test invalid priority
	invalidTask = validTask
	invalidTask.Priority = "urgent"
	if err := invalidTask.Validate(); err != ErrInvalidTaskPriority {
		t.Errorf("Expected error %v, got %v", ErrInvalidTaskPriority, err)
	}
}

func TestTaskRecordAssignedCount(t *testing.T) {
	task := TaskRecord{ID: uuid.New()}

	// No assignees still counts as one share
	if got := task.AssignedCount(); got != 1 {
		t.Errorf("Expected assigned count 1 for unassigned task, got %d", got)
	}

	task.AssignedUserIDs = []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	if got := task.AssignedCount(); got != 3 {
		t.Errorf("Expected assigned count 3, got %d", got)
	}
}

func TestTaskRecordIsCompleted(t *testing.T) {
	now := time.Now()

	task := TaskRecord{
		ID:          uuid.New(),
		Status:      TaskStatusCompleted,
		CompletedAt: &now,
	}
	if !task.IsCompleted() {
		t.Error("Expected completed task with timestamp to report completed")
	}

	// Completed status without a timestamp does not count
	task.CompletedAt = nil
	if task.IsCompleted() {
		t.Error("Expected completed status without timestamp to report not completed")
	}

	task.Status = TaskStatusInProgress
	task.CompletedAt = &now
	if task.IsCompleted() {
		t.Error("Expected in-progress task to report not completed")
	}
}
