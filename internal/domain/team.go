package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Team and TeamMemberSummary
var (
	ErrEmptyTeamID       = errors.New("team ID cannot be empty")
	ErrEmptyMemberUserID = errors.New("team member user ID cannot be empty")
)

// Team is the subset of a team document the core needs: identity plus
// the department label used for the per-department member cache buckets.
type Team struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
}

// Validate checks if the Team has valid data.
func (t *Team) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTeamID
	}
	return nil
}

// TeamMemberSummary is the denormalized per-member record kept on the
// team. The score orchestrator pushes the freshly computed performance
// numbers into it after every recompute so team views never need to
// join against the score collection.
type TeamMemberSummary struct {
	TeamID           uuid.UUID `json:"team_id"`
	UserID           uuid.UUID `json:"user_id"`
	Role             string    `json:"role"`
	PerformanceScore float64   `json:"performance_score"`
	CompletedTasks   int       `json:"completed_tasks"`
	LastScoreUpdate  time.Time `json:"last_score_update"`
}

// Validate checks if the TeamMemberSummary has valid data.
func (s *TeamMemberSummary) Validate() error {
	if s.TeamID == uuid.Nil {
		return ErrEmptyTeamID
	}
	if s.UserID == uuid.Nil {
		return ErrEmptyMemberUserID
	}
	return nil
}
