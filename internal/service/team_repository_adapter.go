package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/store"
)

// NewTeamRepositoryAdapter creates a new adapter that allows a
// store.TeamStore to be used where a TeamRepository is expected.
func NewTeamRepositoryAdapter(teamStore store.TeamStore) TeamRepository {
	return &teamRepositoryAdapter{
		teamStore: teamStore,
	}
}

// teamRepositoryAdapter adapts a store.TeamStore to the TeamRepository interface
type teamRepositoryAdapter struct {
	teamStore store.TeamStore
}

// GetTeamsByUser implements TeamRepository.GetTeamsByUser
func (a *teamRepositoryAdapter) GetTeamsByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Team, error) {
	return a.teamStore.GetTeamsByUser(ctx, userID)
}

// GetMemberSummary implements TeamRepository.GetMemberSummary
func (a *teamRepositoryAdapter) GetMemberSummary(
	ctx context.Context,
	teamID, userID uuid.UUID,
) (*domain.TeamMemberSummary, error) {
	return a.teamStore.GetMemberSummary(ctx, teamID, userID)
}

// UpdateMemberSummary implements TeamRepository.UpdateMemberSummary
func (a *teamRepositoryAdapter) UpdateMemberSummary(
	ctx context.Context,
	summary *domain.TeamMemberSummary,
) error {
	return a.teamStore.UpdateMemberSummary(ctx, summary)
}
