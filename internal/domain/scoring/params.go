package scoring

import (
	"github.com/taskhive/taskhive/internal/domain"
)

// Params defines all configurable parameters for the performance
// scoring algorithm
type Params struct {
	// Base point value per task priority
	BasePoints map[domain.TaskPriority]float64

	// Per-day rate adjustments applied to completed tasks. Both are
	// positive numbers; the sign of the due-date delta selects which
	// one applies. The 2%/1.5% asymmetry is carried over from the
	// existing scoring behavior and must not be retuned casually.
	EarlyBonusPerDay  float64
	LatePenaltyPerDay float64

	// Per-day penalty rate applied to overdue tasks
	OverduePenaltyPerDay float64

	// MaxEarlyDays is the number of early-completion days assumed when
	// computing the per-task ceiling ("all tasks completed this many
	// days early")
	MaxEarlyDays float64

	// EmptyTeamScore is returned when a user has no tasks in a team
	EmptyTeamScore float64

	// MonthlyHistoryLimit bounds the monthly trend history
	MonthlyHistoryLimit int
}

// ParamsConfig allows overriding the default parameters when creating a
// new Params instance
type ParamsConfig struct {
	HighPriorityPoints   float64
	MediumPriorityPoints float64
	LowPriorityPoints    float64

	EarlyBonusPerDay     float64
	LatePenaltyPerDay    float64
	OverduePenaltyPerDay float64

	MaxEarlyDays        float64
	MonthlyHistoryLimit int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		BasePoints: map[domain.TaskPriority]float64{
			domain.TaskPriorityHigh:   30,
			domain.TaskPriorityMedium: 20,
			domain.TaskPriorityLow:    10,
		},

		EarlyBonusPerDay:  0.02,  // +2% per day early
		LatePenaltyPerDay: 0.015, // -1.5% per day late

		OverduePenaltyPerDay: 0.05,

		MaxEarlyDays: 5,

		EmptyTeamScore: domain.DefaultScore,

		MonthlyHistoryLimit: domain.MonthlyHistoryLimit,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.HighPriorityPoints > 0 {
		params.BasePoints[domain.TaskPriorityHigh] = config.HighPriorityPoints
	}
	if config.MediumPriorityPoints > 0 {
		params.BasePoints[domain.TaskPriorityMedium] = config.MediumPriorityPoints
	}
	if config.LowPriorityPoints > 0 {
		params.BasePoints[domain.TaskPriorityLow] = config.LowPriorityPoints
	}

	if config.EarlyBonusPerDay > 0 {
		params.EarlyBonusPerDay = config.EarlyBonusPerDay
	}
	if config.LatePenaltyPerDay > 0 {
		params.LatePenaltyPerDay = config.LatePenaltyPerDay
	}
	if config.OverduePenaltyPerDay > 0 {
		params.OverduePenaltyPerDay = config.OverduePenaltyPerDay
	}

	if config.MaxEarlyDays > 0 {
		params.MaxEarlyDays = config.MaxEarlyDays
	}
	if config.MonthlyHistoryLimit > 0 {
		params.MonthlyHistoryLimit = config.MonthlyHistoryLimit
	}

	return params
}
