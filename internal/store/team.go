package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
)

// TeamStore defines the interface for team and membership persistence.
// Version: 1.0
type TeamStore interface {
	// Create saves a new team to the store.
	// Returns validation errors wrapped in ErrInvalidEntity if the team
	// data is invalid.
	Create(ctx context.Context, team *domain.Team) error

	// GetByID retrieves a team by its unique ID.
	// Returns ErrTeamNotFound if the team does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error)

	// GetTeamsByUser retrieves every team the given user is a member of.
	// Returns an empty slice when the user belongs to no teams.
	GetTeamsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Team, error)

	// GetMemberSummary retrieves the membership record for the given user
	// on the given team. Returns ErrMemberNotFound if the user is not a
	// member of the team.
	GetMemberSummary(ctx context.Context, teamID, userID uuid.UUID) (*domain.TeamMemberSummary, error)

	// UpdateMemberSummary writes the denormalized per-member fields
	// (performance score, completed task count, last score update) back
	// onto the membership record. Returns ErrMemberNotFound if the user
	// is not a member of the team.
	UpdateMemberSummary(ctx context.Context, summary *domain.TeamMemberSummary) error

	// WithTx returns a new TeamStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) TeamStore
}
