package scoring

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
)

// Common errors
var (
	ErrNilTask     = errors.New("task cannot be nil")
	ErrEmptyTeamID = errors.New("team ID cannot be empty")
)

// Service defines the interface for performance scoring operations.
// All methods are pure: they derive results from their inputs and the
// configured parameters, never from stored state.
type Service interface {
	// TaskScore computes the point value of a single task at the given
	// reference time
	TaskScore(task *domain.TaskRecord, now time.Time) (float64, error)

	// UserPerformance aggregates a user's tasks for one team into a
	// 0-100 performance percentage
	UserPerformance(tasks []*domain.TaskRecord, teamID uuid.UUID, now time.Time) (float64, error)

	// DetailedMetrics derives the full metric set for one team from the
	// user's task list, refreshing the monthly trend history carried in
	// previous
	DetailedMetrics(
		tasks []*domain.TaskRecord,
		teamID uuid.UUID,
		previous []domain.MonthlyPerformance,
		now time.Time,
	) (domain.PerformanceMetrics, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scoring service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scoring service with custom parameters
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// TaskScore implements the Service interface for single-task scoring
func (s *defaultService) TaskScore(task *domain.TaskRecord, now time.Time) (float64, error) {
	if task == nil {
		return 0, ErrNilTask
	}
	return calculateTaskScore(task, now, s.params), nil
}

// UserPerformance implements the Service interface for the per-team aggregate
func (s *defaultService) UserPerformance(
	tasks []*domain.TaskRecord,
	teamID uuid.UUID,
	now time.Time,
) (float64, error) {
	if teamID == uuid.Nil {
		return 0, ErrEmptyTeamID
	}
	return calculateUserPerformance(tasks, teamID, now, s.params), nil
}

// DetailedMetrics implements the Service interface for derived metrics
func (s *defaultService) DetailedMetrics(
	tasks []*domain.TaskRecord,
	teamID uuid.UUID,
	previous []domain.MonthlyPerformance,
	now time.Time,
) (domain.PerformanceMetrics, error) {
	if teamID == uuid.Nil {
		return domain.PerformanceMetrics{}, ErrEmptyTeamID
	}
	teamTasks := filterTeamTasks(tasks, teamID)
	return calculateDetailedMetrics(teamTasks, previous, now, s.params), nil
}
