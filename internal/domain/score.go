package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Score bounds. A performance score is always clamped to this range.
const (
	MinScore = 0.0
	MaxScore = 100.0

	// DefaultScore is the no-history starting score for a (user, team)
	// pair: a member with no tasks yet is treated as fully performing,
	// not as a zero.
	DefaultScore = 100.0
)

// MonthlyHistoryLimit bounds PerformanceMetrics.MonthlyHistory to the
// most recent entries by (year, month).
const MonthlyHistoryLimit = 12

// Common validation errors for PerformanceScore
var (
	ErrEmptyScoreUserID = errors.New("performance score user ID cannot be empty")
	ErrEmptyScoreTeamID = errors.New("performance score team ID cannot be empty")
	ErrScoreOutOfRange  = errors.New("performance score must be between 0 and 100")
)

// ScoreHistory is one append-only audit entry recording how a score
// moved. Entries are never mutated after insertion; insertion order is
// chronological.
type ScoreHistory struct {
	Date        time.Time `json:"date"`
	ScoreChange float64   `json:"score_change"` // signed delta from the previous value
	Reason      string    `json:"reason"`
	TeamID      uuid.UUID `json:"team_id"`
	ActionType  string    `json:"action_type"`
}

// PriorityStats accumulates per-priority-bucket task counts and a
// running average completion time in days.
type PriorityStats struct {
	TotalTasks            int     `json:"total_tasks"`
	CompletedTasks        int     `json:"completed_tasks"`
	OverdueTasks          int     `json:"overdue_tasks"`
	AverageCompletionTime float64 `json:"average_completion_time"`
}

// CategoryStats mirrors PriorityStats for the dynamic category buckets.
type CategoryStats struct {
	TotalTasks            int     `json:"total_tasks"`
	CompletedTasks        int     `json:"completed_tasks"`
	OverdueTasks          int     `json:"overdue_tasks"`
	AverageCompletionTime float64 `json:"average_completion_time"`
}

// MonthlyPerformance is one bounded trend entry. ProductivityTrend is
// the percent change of this month's average score versus the
// immediately preceding stored month.
type MonthlyPerformance struct {
	Year              int     `json:"year"`
	Month             int     `json:"month"` // 1-12
	CompletedTasks    int     `json:"completed_tasks"`
	OverdueTasks      int     `json:"overdue_tasks"`
	AverageScore      float64 `json:"average_score"`
	ProductivityTrend float64 `json:"productivity_trend"`
}

// PerformanceMetrics is the derived metric set recomputed in full on
// every scoring pass. Rates are ratios in [0,1]; completion times are
// in days.
type PerformanceMetrics struct {
	AverageCompletionTime float64 `json:"average_completion_time"`
	EarlyCompletionRate   float64 `json:"early_completion_rate"`
	OnTimeCompletionRate  float64 `json:"on_time_completion_rate"`
	OverdueRate           float64 `json:"overdue_rate"`

	HighPriority   PriorityStats `json:"high_priority"`
	MediumPriority PriorityStats `json:"medium_priority"`
	LowPriority    PriorityStats `json:"low_priority"`

	CategoryStats map[string]CategoryStats `json:"category_stats"`

	// MonthlyHistory holds at most MonthlyHistoryLimit entries ordered
	// by (year, month) descending: most recent first.
	MonthlyHistory []MonthlyPerformance `json:"monthly_history"`
}

// PerformanceScore is the persisted score record for one (user, team)
// pair. It is created lazily on first computation and replaced in full
// on every recompute; only History grows append-only across recomputes.
type PerformanceScore struct {
	UserID               uuid.UUID          `json:"user_id"`
	TeamID               uuid.UUID          `json:"team_id"`
	Score                float64            `json:"score"` // clamped to [MinScore, MaxScore]
	Metrics              PerformanceMetrics `json:"metrics"`
	TotalTasksAssigned   int                `json:"total_tasks_assigned"`
	CompletedTasksCount  int                `json:"completed_tasks_count"`
	OverdueTasksCount    int                `json:"overdue_tasks_count"`
	LastUpdated          time.Time          `json:"last_updated"`
	History              []ScoreHistory     `json:"history"`
	CreatedAt            time.Time          `json:"created_at"`
}

// NewPerformanceScore creates a fresh score record for a user and team
// with the no-history default score.
func NewPerformanceScore(userID, teamID uuid.UUID) (*PerformanceScore, error) {
	now := time.Now().UTC()
	score := &PerformanceScore{
		UserID:      userID,
		TeamID:      teamID,
		Score:       DefaultScore,
		Metrics:     PerformanceMetrics{CategoryStats: make(map[string]CategoryStats)},
		LastUpdated: now,
		History:     nil,
		CreatedAt:   now,
	}

	if err := score.Validate(); err != nil {
		return nil, err
	}

	return score, nil
}

// Validate checks if the PerformanceScore has valid data.
// Returns an error if any field fails validation.
func (p *PerformanceScore) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrEmptyScoreUserID
	}

	if p.TeamID == uuid.Nil {
		return ErrEmptyScoreTeamID
	}

	if p.Score < MinScore || p.Score > MaxScore {
		return ErrScoreOutOfRange
	}

	return nil
}

// AppendHistory records one audit entry. History is append-only: this
// is the only sanctioned way to grow it, and nothing ever removes or
// rewrites entries.
func (p *PerformanceScore) AppendHistory(entry ScoreHistory) {
	p.History = append(p.History, entry)
}

// ClampScore forces a raw score into the valid range.
func ClampScore(score float64) float64 {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
