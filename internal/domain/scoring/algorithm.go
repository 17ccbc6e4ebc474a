package scoring

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
)

const hoursPerDay = 24.0

// daysBetween returns the (possibly fractional, possibly negative)
// number of days from a to b.
func daysBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / hoursPerDay
}

// calculateTaskScore computes the point value of a single task.
//
// Completed tasks earn their base priority points adjusted by a time
// bonus: positive for every day finished ahead of the due date,
// negative (at a slightly gentler rate) for every day late. Overdue
// tasks earn a growing negative penalty for every day past due. Tasks
// in any other state score zero. The result is divided evenly across
// all assigned users so shared tasks never multiply points.
func calculateTaskScore(task *domain.TaskRecord, now time.Time, params *Params) float64 {
	base := params.BasePoints[task.Priority]
	if base == 0 {
		return 0
	}

	assigned := float64(task.AssignedCount())

	switch task.Status {
	case domain.TaskStatusCompleted:
		if task.CompletedAt == nil {
			return 0
		}

		// Positive daysDiff means the task finished early.
		daysDiff := daysBetween(*task.CompletedAt, task.DueDate)

		var timeBonus float64
		if daysDiff > 0 {
			timeBonus = daysDiff * params.EarlyBonusPerDay
		} else {
			// Negative daysDiff already yields a negative bonus here.
			timeBonus = daysDiff * params.LatePenaltyPerDay
		}

		return base * (1 + timeBonus) / assigned

	case domain.TaskStatusOverdue:
		overdueDays := daysBetween(task.DueDate, now)
		if overdueDays <= 0 {
			return 0
		}
		return -base * overdueDays * params.OverduePenaltyPerDay / assigned

	default:
		return 0
	}
}

// maxPossibleTaskScore computes the per-task ceiling: the score the
// task would earn if completed params.MaxEarlyDays days early.
func maxPossibleTaskScore(task *domain.TaskRecord, params *Params) float64 {
	base := params.BasePoints[task.Priority]
	if base == 0 {
		return 0
	}
	return base * (1 + params.MaxEarlyDays*params.EarlyBonusPerDay) /
		float64(task.AssignedCount())
}

// calculateUserPerformance aggregates the given tasks into a 0-100
// performance percentage for one team.
//
// Only tasks belonging to teamID participate. With no tasks (or a zero
// ceiling) the user gets the no-history default score rather than zero:
// absence of work is not evidence of poor performance. Otherwise the
// result is the achieved share of the all-completed-early ceiling,
// clamped into [0, 100] so accumulated overdue penalties can never push
// the percentage negative.
func calculateUserPerformance(
	tasks []*domain.TaskRecord,
	teamID uuid.UUID,
	now time.Time,
	params *Params,
) float64 {
	var totalScore, maxPossible float64
	count := 0

	for _, task := range tasks {
		if task.TeamID != teamID {
			continue
		}
		count++
		totalScore += calculateTaskScore(task, now, params)
		maxPossible += maxPossibleTaskScore(task, params)
	}

	if count == 0 || maxPossible == 0 {
		return params.EmptyTeamScore
	}

	return domain.ClampScore(totalScore / maxPossible * domain.MaxScore)
}

// filterTeamTasks returns the subset of tasks owned by teamID,
// preserving input order.
func filterTeamTasks(tasks []*domain.TaskRecord, teamID uuid.UUID) []*domain.TaskRecord {
	var out []*domain.TaskRecord
	for _, task := range tasks {
		if task.TeamID == teamID {
			out = append(out, task)
		}
	}
	return out
}
