package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/platform/logger"
	"github.com/taskhive/taskhive/internal/store"
)

// PostgresTeamStore implements the store.TeamStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTeamStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTeamStore creates a new PostgreSQL implementation of the TeamStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTeamStore(db store.DBTX, logger *slog.Logger) *PostgresTeamStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTeamStore{
		db:     db,
		logger: logger.With(slog.String("component", "team_store")),
	}
}

// Ensure PostgresTeamStore implements store.TeamStore interface
var _ store.TeamStore = (*PostgresTeamStore)(nil)

// Create implements store.TeamStore.Create
func (s *PostgresTeamStore) Create(ctx context.Context, team *domain.Team) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := team.Validate(); err != nil {
		log.Warn("team validation failed during create",
			slog.String("error", err.Error()),
			slog.String("team_id", team.ID.String()))
		return err
	}

	query := `INSERT INTO teams (id, name, department) VALUES ($1, $2, $3)`
	if _, err := s.db.ExecContext(ctx, query, team.ID, team.Name, team.Department); err != nil {
		log.Error("failed to create team",
			slog.String("error", err.Error()),
			slog.String("team_id", team.ID.String()))
		return MapError(err)
	}

	return nil
}

// GetByID implements store.TeamStore.GetByID
func (s *PostgresTeamStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT id, name, department FROM teams WHERE id = $1`

	var team domain.Team
	err := s.db.QueryRowContext(ctx, query, id).Scan(&team.ID, &team.Name, &team.Department)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrTeamNotFound
		}
		log.Error("failed to get team",
			slog.String("error", err.Error()),
			slog.String("team_id", id.String()))
		return nil, MapError(err)
	}

	return &team, nil
}

// GetTeamsByUser implements store.TeamStore.GetTeamsByUser
func (s *PostgresTeamStore) GetTeamsByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Team, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT t.id, t.name, t.department
		FROM teams t
		JOIN team_members tm ON tm.team_id = t.id
		WHERE tm.user_id = $1
		ORDER BY t.name
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query teams by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	teams := []*domain.Team{}
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.Department); err != nil {
			return nil, MapError(err)
		}
		teams = append(teams, &team)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return teams, nil
}

// GetMemberSummary implements store.TeamStore.GetMemberSummary
func (s *PostgresTeamStore) GetMemberSummary(
	ctx context.Context,
	teamID, userID uuid.UUID,
) (*domain.TeamMemberSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT team_id, user_id, role, performance_score, completed_tasks, last_score_update
		FROM team_members
		WHERE team_id = $1 AND user_id = $2
	`

	var summary domain.TeamMemberSummary
	var lastUpdate sql.NullTime
	err := s.db.QueryRowContext(ctx, query, teamID, userID).Scan(
		&summary.TeamID,
		&summary.UserID,
		&summary.Role,
		&summary.PerformanceScore,
		&summary.CompletedTasks,
		&lastUpdate,
	)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrMemberNotFound
		}
		log.Error("failed to get member summary",
			slog.String("error", err.Error()),
			slog.String("team_id", teamID.String()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	if lastUpdate.Valid {
		summary.LastScoreUpdate = lastUpdate.Time
	}

	return &summary, nil
}

// UpdateMemberSummary implements store.TeamStore.UpdateMemberSummary
func (s *PostgresTeamStore) UpdateMemberSummary(
	ctx context.Context,
	summary *domain.TeamMemberSummary,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := summary.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE team_members
		SET performance_score = $3, completed_tasks = $4, last_score_update = $5
		WHERE team_id = $1 AND user_id = $2
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		summary.TeamID,
		summary.UserID,
		summary.PerformanceScore,
		summary.CompletedTasks,
		summary.LastScoreUpdate,
	)
	if err != nil {
		log.Error("failed to update member summary",
			slog.String("error", err.Error()),
			slog.String("team_id", summary.TeamID.String()),
			slog.String("user_id", summary.UserID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, "team member"); err != nil {
		return store.ErrMemberNotFound
	}

	log.Debug("member summary updated",
		slog.String("team_id", summary.TeamID.String()),
		slog.String("user_id", summary.UserID.String()),
		slog.Float64("score", summary.PerformanceScore))
	return nil
}

// WithTx implements store.TeamStore.WithTx
func (s *PostgresTeamStore) WithTx(tx *sql.Tx) store.TeamStore {
	return &PostgresTeamStore{
		db:     tx,
		logger: s.logger,
	}
}
