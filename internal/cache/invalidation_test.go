package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/taskhive/internal/domain"
)

// fillKeys primes the cache with a value under every given key.
func fillKeys(t *testing.T, s *Service, keys ...string) {
	t.Helper()
	ctx := context.Background()
	for _, key := range keys {
		_, err := GetOrUpdate(ctx, s, key, func(ctx context.Context) (string, error) {
			return "cached", nil
		})
		require.NoError(t, err)
	}
}

func assertAbsent(t *testing.T, s *Service, keys ...string) {
	t.Helper()
	for _, key := range keys {
		_, ok := s.peek(key)
		assert.False(t, ok, "key %q should have been invalidated", key)
	}
}

func assertPresent(t *testing.T, s *Service, keys ...string) {
	t.Helper()
	for _, key := range keys {
		_, ok := s.peek(key)
		assert.True(t, ok, "key %q should have survived", key)
	}
}

func TestInvalidateTaskCascade(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	c := NewCoordinator(s, nil)

	teamID := uuid.New()
	u1, u2 := uuid.New(), uuid.New()
	bystander := uuid.New()

	task := &domain.TaskRecord{
		ID:              uuid.New(),
		TeamID:          teamID,
		AssignedUserIDs: []uuid.UUID{u1, u2},
		Status:          domain.TaskStatusCompleted,
		Priority:        domain.TaskPriorityHigh,
		CreatedAt:       time.Now().UTC(),
		DueDate:         time.Now().UTC(),
	}

	c.TrackDepartment("engineering")
	c.TrackDepartment("sales")

	cascade := []string{
		TaskKey(task.ID),
		TaskHistoryKey(task.ID),
		UserKey(u1), UserTasksKey(u1), UserTeamsKey(u1), PerformanceKey(u1),
		UserKey(u2), UserTasksKey(u2), UserTeamsKey(u2), PerformanceKey(u2),
		TeamKey(teamID), TeamMembersKey(teamID),
		AllMembersKey,
		MembersByDepartmentKey("engineering"),
		MembersByDepartmentKey("sales"),
	}
	survivors := []string{
		UserKey(bystander),
		TeamKey(uuid.New()),
	}

	fillKeys(t, s, append(append([]string{}, cascade...), survivors...)...)

	c.InvalidateTask(task)

	assertAbsent(t, s, cascade...)
	assertPresent(t, s, survivors...)
}

func TestInvalidateTaskWithoutTeamSkipsTeamSet(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	c := NewCoordinator(s, nil)

	userID := uuid.New()
	otherTeam := uuid.New()
	task := &domain.TaskRecord{
		ID:              uuid.New(),
		AssignedUserIDs: []uuid.UUID{userID},
		Status:          domain.TaskStatusTodo,
		Priority:        domain.TaskPriorityLow,
	}

	fillKeys(t, s,
		TaskKey(task.ID),
		UserKey(userID),
		TeamKey(otherTeam),
		AllMembersKey,
	)

	c.InvalidateTask(task)

	assertAbsent(t, s, TaskKey(task.ID), UserKey(userID))
	assertPresent(t, s, TeamKey(otherTeam), AllMembersKey)
}

func TestInvalidateMembership(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	c := NewCoordinator(s, nil)

	teamID, userID := uuid.New(), uuid.New()
	otherUser := uuid.New()

	fillKeys(t, s,
		TeamKey(teamID), TeamMembersKey(teamID), AllMembersKey,
		UserKey(userID), UserTasksKey(userID), UserTeamsKey(userID), PerformanceKey(userID),
		UserKey(otherUser),
	)

	c.InvalidateMembership(teamID, userID)

	assertAbsent(t, s,
		TeamKey(teamID), TeamMembersKey(teamID), AllMembersKey,
		UserKey(userID), UserTasksKey(userID), UserTeamsKey(userID), PerformanceKey(userID),
	)
	assertPresent(t, s, UserKey(otherUser))
}

func TestInvalidatePerformanceDropsOnlyThatKey(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	c := NewCoordinator(s, nil)

	userID := uuid.New()
	fillKeys(t, s,
		PerformanceKey(userID),
		UserKey(userID),
		UserTasksKey(userID),
	)

	c.InvalidatePerformance(userID)

	assertAbsent(t, s, PerformanceKey(userID))
	assertPresent(t, s, UserKey(userID), UserTasksKey(userID))
}

func TestInvalidateNilAndZeroInputsAreNoOps(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	c := NewCoordinator(s, nil)

	fillKeys(t, s, UserKey(uuid.New()))

	c.InvalidateTask(nil)
	c.InvalidateUser(uuid.Nil)
	c.InvalidateTeam(uuid.Nil)
	c.InvalidatePerformance(uuid.Nil)

	assert.Equal(t, 1, s.Len())
}
