package cache

import (
	"github.com/google/uuid"
)

// Key namespace prefixes. The exact spellings are load-bearing: they
// must match what an existing deployment has in memory, so changing one
// is a breaking change.
const (
	KeyPrefixUser           = "user_"
	KeyPrefixUserTasks      = "user_tasks_"
	KeyPrefixUserTeams      = "teams_"
	KeyPrefixPerformance    = "performance_"
	KeyPrefixTask           = "task_"
	KeyPrefixTaskHistory    = "task_history"
	KeyPrefixTeam           = "team_"
	KeyPrefixTeamMembers    = "team_members_"
	KeyPrefixActiveTasks    = "active_tasks"
	KeyPrefixCompletedTasks = "completed_tasks"
	KeyPrefixDashboard      = "dashboard"
	KeyPrefixMembersByDept  = "members_dept_"
)

// AllMembersKey caches the global member list across departments.
const AllMembersKey = "all_members"

// UserKey caches a user's profile.
func UserKey(userID uuid.UUID) string {
	return KeyPrefixUser + userID.String()
}

// UserTasksKey caches a user's assigned task list.
func UserTasksKey(userID uuid.UUID) string {
	return KeyPrefixUserTasks + userID.String()
}

// UserTeamsKey caches the teams a user belongs to.
func UserTeamsKey(userID uuid.UUID) string {
	return KeyPrefixUserTeams + userID.String()
}

// PerformanceKey caches a user's performance scores.
func PerformanceKey(userID uuid.UUID) string {
	return KeyPrefixPerformance + userID.String()
}

// TaskKey caches a single task.
func TaskKey(taskID uuid.UUID) string {
	return KeyPrefixTask + taskID.String()
}

// TaskHistoryKey caches a task's change history.
func TaskHistoryKey(taskID uuid.UUID) string {
	return KeyPrefixTaskHistory + "_" + taskID.String()
}

// TeamKey caches a team document.
func TeamKey(teamID uuid.UUID) string {
	return KeyPrefixTeam + teamID.String()
}

// TeamMembersKey caches a team's member list.
func TeamMembersKey(teamID uuid.UUID) string {
	return KeyPrefixTeamMembers + teamID.String()
}

// ActiveTasksKey caches a user's active task list.
func ActiveTasksKey(userID uuid.UUID) string {
	return KeyPrefixActiveTasks + "_" + userID.String()
}

// CompletedTasksKey caches a user's completed task list.
func CompletedTasksKey(userID uuid.UUID) string {
	return KeyPrefixCompletedTasks + "_" + userID.String()
}

// DashboardStatsKey caches a user's dashboard aggregates.
func DashboardStatsKey(userID uuid.UUID) string {
	return KeyPrefixDashboard + "_stats_" + userID.String()
}

// MembersByDepartmentKey caches one department's member list. The
// department label is free text owned by the team store.
func MembersByDepartmentKey(department string) string {
	return KeyPrefixMembersByDept + department
}
