package cache

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
)

// Coordinator computes and drops the closed set of cache keys that a
// domain mutation could have made stale.
//
// Cascades run synchronously on the calling goroutine so the writer is
// guaranteed to never read its own stale cache afterwards; the cost is
// cascade latency on the write path. Each key in a cascade is handled
// independently: one key is never skipped because another failed.
type Coordinator struct {
	cache  *Service
	logger *slog.Logger

	// Department labels are free text owned by the team store and do
	// not appear in any key the coordinator can derive, so every label
	// that has ever been cached is tracked here and all of its buckets
	// are dropped on a team cascade.
	mu          sync.Mutex
	departments map[string]struct{}
}

// NewCoordinator creates an invalidation coordinator over the cache
// service. If logger is nil, the default logger is used.
func NewCoordinator(cache *Service, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		cache:       cache,
		logger:      logger.With(slog.String("component", "cache_invalidation")),
		departments: make(map[string]struct{}),
	}
}

// TrackDepartment records a department whose member bucket has been
// cached, so team cascades can drop it later.
func (c *Coordinator) TrackDepartment(department string) {
	if department == "" {
		return
	}
	c.mu.Lock()
	c.departments[department] = struct{}{}
	c.mu.Unlock()
}

// InvalidateTask drops everything a task mutation can make stale: the
// task's own entry, the task-history entries, every assigned user's
// cache set, and the owning team's cache set when the task has one.
func (c *Coordinator) InvalidateTask(task *domain.TaskRecord) {
	if task == nil {
		return
	}

	c.dropKeys(TaskKey(task.ID))
	c.cache.InvalidatePattern(KeyPrefixTaskHistory)

	for _, userID := range task.AssignedUserIDs {
		c.InvalidateUser(userID)
	}

	if task.TeamID != uuid.Nil {
		c.InvalidateTeam(task.TeamID)
	}

	c.logger.Debug("task cascade complete",
		"task_id", task.ID,
		"assigned_users", len(task.AssignedUserIDs))
}

// InvalidateUser drops a user's full cache set: profile, task list,
// team list and performance.
func (c *Coordinator) InvalidateUser(userID uuid.UUID) {
	if userID == uuid.Nil {
		return
	}
	c.dropKeys(
		UserKey(userID),
		UserTasksKey(userID),
		UserTeamsKey(userID),
		PerformanceKey(userID),
	)
}

// InvalidateTeam drops a team's cache set plus the global member list
// and every known per-department member bucket. Department is not part
// of the cache key space, so correctness requires dropping every
// tracked bucket rather than guessing which one changed.
func (c *Coordinator) InvalidateTeam(teamID uuid.UUID) {
	if teamID == uuid.Nil {
		return
	}
	c.dropKeys(
		TeamKey(teamID),
		TeamMembersKey(teamID),
		AllMembersKey,
	)

	c.mu.Lock()
	departments := make([]string, 0, len(c.departments))
	for d := range c.departments {
		departments = append(departments, d)
	}
	c.mu.Unlock()

	for _, d := range departments {
		c.cache.Invalidate(MembersByDepartmentKey(d))
	}
}

// InvalidateMembership handles a team-membership change (member added
// or removed, role changed): both the team's set and the affected
// user's set go.
func (c *Coordinator) InvalidateMembership(teamID, userID uuid.UUID) {
	c.InvalidateTeam(teamID)
	c.InvalidateUser(userID)
}

// InvalidatePerformance drops only the user's performance cache key;
// the next read re-derives it from the persisted score record.
func (c *Coordinator) InvalidatePerformance(userID uuid.UUID) {
	if userID == uuid.Nil {
		return
	}
	c.cache.Invalidate(PerformanceKey(userID))
}

// dropKeys removes each key independently.
func (c *Coordinator) dropKeys(keys ...string) {
	for _, key := range keys {
		c.cache.Invalidate(key)
	}
}
