package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/store"
)

// memberKey identifies a membership record in the mock's map.
type memberKey struct {
	TeamID uuid.UUID
	UserID uuid.UUID
}

// MockTeamStore implements store.TeamStore for testing
type MockTeamStore struct {
	// Function fields for customizable behavior
	CreateFn              func(ctx context.Context, team *domain.Team) error
	GetByIDFn             func(ctx context.Context, id uuid.UUID) (*domain.Team, error)
	GetTeamsByUserFn      func(ctx context.Context, userID uuid.UUID) ([]*domain.Team, error)
	GetMemberSummaryFn    func(ctx context.Context, teamID, userID uuid.UUID) (*domain.TeamMemberSummary, error)
	UpdateMemberSummaryFn func(ctx context.Context, summary *domain.TeamMemberSummary) error

	// Data for default implementation
	Teams   map[uuid.UUID]*domain.Team
	Members map[memberKey]*domain.TeamMemberSummary
}

// NewMockTeamStore creates a new mock store with initialized defaults
func NewMockTeamStore() *MockTeamStore {
	return &MockTeamStore{
		Teams:   make(map[uuid.UUID]*domain.Team),
		Members: make(map[memberKey]*domain.TeamMemberSummary),
	}
}

// AddMember seeds a membership record into the mock's default data.
func (m *MockTeamStore) AddMember(summary *domain.TeamMemberSummary) {
	m.Members[memberKey{TeamID: summary.TeamID, UserID: summary.UserID}] = summary
}

// Create implements the TeamStore interface
func (m *MockTeamStore) Create(ctx context.Context, team *domain.Team) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, team)
	}

	m.Teams[team.ID] = team
	return nil
}

// GetByID implements the TeamStore interface
func (m *MockTeamStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	team, exists := m.Teams[id]
	if !exists {
		return nil, store.ErrTeamNotFound
	}
	return team, nil
}

// GetTeamsByUser implements the TeamStore interface
func (m *MockTeamStore) GetTeamsByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Team, error) {
	if m.GetTeamsByUserFn != nil {
		return m.GetTeamsByUserFn(ctx, userID)
	}

	var teams []*domain.Team
	for key := range m.Members {
		if key.UserID != userID {
			continue
		}
		if team, exists := m.Teams[key.TeamID]; exists {
			teams = append(teams, team)
		}
	}
	return teams, nil
}

// GetMemberSummary implements the TeamStore interface
func (m *MockTeamStore) GetMemberSummary(
	ctx context.Context,
	teamID, userID uuid.UUID,
) (*domain.TeamMemberSummary, error) {
	if m.GetMemberSummaryFn != nil {
		return m.GetMemberSummaryFn(ctx, teamID, userID)
	}

	summary, exists := m.Members[memberKey{TeamID: teamID, UserID: userID}]
	if !exists {
		return nil, store.ErrMemberNotFound
	}
	return summary, nil
}

// UpdateMemberSummary implements the TeamStore interface
func (m *MockTeamStore) UpdateMemberSummary(
	ctx context.Context,
	summary *domain.TeamMemberSummary,
) error {
	if m.UpdateMemberSummaryFn != nil {
		return m.UpdateMemberSummaryFn(ctx, summary)
	}

	key := memberKey{TeamID: summary.TeamID, UserID: summary.UserID}
	if _, exists := m.Members[key]; !exists {
		return store.ErrMemberNotFound
	}
	m.Members[key] = summary
	return nil
}

// WithTx implements the TeamStore interface for transaction support
func (m *MockTeamStore) WithTx(tx *sql.Tx) store.TeamStore {
	// For mock purposes, just return the same mock
	return m
}
