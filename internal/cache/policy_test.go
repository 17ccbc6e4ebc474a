package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPolicyForNamespaces(t *testing.T) {
	t.Parallel()
	table := DefaultPolicyTable()
	id := uuid.New()

	testCases := []struct {
		name        string
		key         string
		ttl         time.Duration
		priority    Priority
		refreshable bool
	}{
		{
			name:        "active tasks are short-lived, high priority, refreshable",
			key:         ActiveTasksKey(id),
			ttl:         DefaultShortTTL,
			priority:    PriorityHigh,
			refreshable: true,
		},
		{
			name:        "completed tasks are long-lived, low priority, refreshable",
			key:         CompletedTasksKey(id),
			ttl:         DefaultLongTTL,
			priority:    PriorityLow,
			refreshable: true,
		},
		{
			name:        "dashboard stats are short-lived, high priority, refreshable",
			key:         DashboardStatsKey(id),
			ttl:         DefaultShortTTL,
			priority:    PriorityHigh,
			refreshable: true,
		},
		{
			name:     "user profile gets the medium tier",
			key:      UserKey(id),
			ttl:      DefaultMediumTTL,
			priority: PriorityNormal,
		},
		{
			name:     "user tasks share the user namespace",
			key:      UserTasksKey(id),
			ttl:      DefaultMediumTTL,
			priority: PriorityNormal,
		},
		{
			name:     "team entries get the medium tier",
			key:      TeamKey(id),
			ttl:      DefaultMediumTTL,
			priority: PriorityNormal,
		},
		{
			name:     "team members share the team namespace",
			key:      TeamMembersKey(id),
			ttl:      DefaultMediumTTL,
			priority: PriorityNormal,
		},
		{
			name:     "unmatched keys fall back to the default policy",
			key:      "task_history_" + id.String(),
			ttl:      DefaultMediumTTL,
			priority: PriorityNormal,
		},
		{
			name:     "performance keys fall back to the default policy",
			key:      PerformanceKey(id),
			ttl:      DefaultMediumTTL,
			priority: PriorityNormal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := table.PolicyFor(tc.key)
			if got.TTL != tc.ttl {
				t.Errorf("TTL = %v, want %v", got.TTL, tc.ttl)
			}
			if got.Priority != tc.priority {
				t.Errorf("Priority = %v, want %v", got.Priority, tc.priority)
			}
			if got.Refreshable != tc.refreshable {
				t.Errorf("Refreshable = %v, want %v", got.Refreshable, tc.refreshable)
			}
		})
	}
}

func TestNewPolicyTableOverridesTiers(t *testing.T) {
	t.Parallel()
	table := NewPolicyTable(PolicyConfig{
		ShortTTL:  time.Minute,
		MediumTTL: 2 * time.Minute,
		LongTTL:   3 * time.Minute,
	})
	id := uuid.New()

	if got := table.PolicyFor(ActiveTasksKey(id)).TTL; got != time.Minute {
		t.Errorf("short tier = %v, want %v", got, time.Minute)
	}
	if got := table.PolicyFor(UserKey(id)).TTL; got != 2*time.Minute {
		t.Errorf("medium tier = %v, want %v", got, 2*time.Minute)
	}
	if got := table.PolicyFor(CompletedTasksKey(id)).TTL; got != 3*time.Minute {
		t.Errorf("long tier = %v, want %v", got, 3*time.Minute)
	}
}

func TestKeyNamingConvention(t *testing.T) {
	t.Parallel()
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	// These spellings interoperate with existing deployments and must
	// never drift.
	testCases := []struct {
		got  string
		want string
	}{
		{UserKey(id), "user_11111111-2222-3333-4444-555555555555"},
		{UserTasksKey(id), "user_tasks_11111111-2222-3333-4444-555555555555"},
		{UserTeamsKey(id), "teams_11111111-2222-3333-4444-555555555555"},
		{PerformanceKey(id), "performance_11111111-2222-3333-4444-555555555555"},
		{TaskKey(id), "task_11111111-2222-3333-4444-555555555555"},
		{TaskHistoryKey(id), "task_history_11111111-2222-3333-4444-555555555555"},
		{TeamKey(id), "team_11111111-2222-3333-4444-555555555555"},
		{TeamMembersKey(id), "team_members_11111111-2222-3333-4444-555555555555"},
		{ActiveTasksKey(id), "active_tasks_11111111-2222-3333-4444-555555555555"},
		{CompletedTasksKey(id), "completed_tasks_11111111-2222-3333-4444-555555555555"},
		{DashboardStatsKey(id), "dashboard_stats_11111111-2222-3333-4444-555555555555"},
		{MembersByDepartmentKey("engineering"), "members_dept_engineering"},
		{AllMembersKey, "all_members"},
	}

	for _, tc := range testCases {
		if tc.got != tc.want {
			t.Errorf("key = %q, want %q", tc.got, tc.want)
		}
	}
}
