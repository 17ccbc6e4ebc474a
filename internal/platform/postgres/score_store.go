package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/platform/logger"
	"github.com/taskhive/taskhive/internal/store"
)

// PostgresScoreStore implements the store.ScoreStore interface
// using a PostgreSQL database as the storage backend. The derived metric
// set and the append-only history are stored as JSONB documents; the
// scalar fields are proper columns so they stay queryable.
type PostgresScoreStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresScoreStore creates a new PostgreSQL implementation of the ScoreStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresScoreStore(db store.DBTX, logger *slog.Logger) *PostgresScoreStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresScoreStore{
		db:     db,
		logger: logger.With(slog.String("component", "score_store")),
	}
}

// Ensure PostgresScoreStore implements store.ScoreStore interface
var _ store.ScoreStore = (*PostgresScoreStore)(nil)

// marshalScoreDocs serializes the JSONB columns of one record.
func marshalScoreDocs(score *domain.PerformanceScore) (metrics, history []byte, err error) {
	metrics, err = json.Marshal(score.Metrics)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal metrics: %w", err)
	}
	history, err = json.Marshal(score.History)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal history: %w", err)
	}
	return metrics, history, nil
}

// Create implements store.ScoreStore.Create
func (s *PostgresScoreStore) Create(ctx context.Context, score *domain.PerformanceScore) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := score.Validate(); err != nil {
		log.Warn("score validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", score.UserID.String()),
			slog.String("team_id", score.TeamID.String()))
		return err
	}

	metrics, history, err := marshalScoreDocs(score)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO performance_scores
			(user_id, team_id, score, metrics, total_tasks_assigned,
			 completed_tasks_count, overdue_tasks_count, last_updated, history, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		score.UserID,
		score.TeamID,
		score.Score,
		metrics,
		score.TotalTasksAssigned,
		score.CompletedTasksCount,
		score.OverdueTasksCount,
		score.LastUpdated,
		history,
		score.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrScoreExists
		}
		log.Error("failed to create score",
			slog.String("error", err.Error()),
			slog.String("user_id", score.UserID.String()),
			slog.String("team_id", score.TeamID.String()))
		return MapError(err)
	}

	return nil
}

// FindScore implements store.ScoreStore.FindScore
func (s *PostgresScoreStore) FindScore(
	ctx context.Context,
	userID, teamID uuid.UUID,
) (*domain.PerformanceScore, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := scoreSelect + ` WHERE user_id = $1 AND team_id = $2`
	score, err := s.scanScore(s.db.QueryRowContext(ctx, query, userID, teamID))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrScoreNotFound
		}
		log.Error("failed to find score",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("team_id", teamID.String()))
		return nil, MapError(err)
	}

	return score, nil
}

// FindScoresByUser implements store.ScoreStore.FindScoresByUser
func (s *PostgresScoreStore) FindScoresByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.PerformanceScore, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := scoreSelect + ` WHERE user_id = $1 ORDER BY team_id`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query scores by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	scores := []*domain.PerformanceScore{}
	for rows.Next() {
		score, err := s.scanScore(rows)
		if err != nil {
			return nil, MapError(err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return scores, nil
}

// BatchUpsertScores implements store.ScoreStore.BatchUpsertScores
// Each record is written with INSERT ... ON CONFLICT so the batch stays
// one statement per record inside the caller's transaction.
func (s *PostgresScoreStore) BatchUpsertScores(
	ctx context.Context,
	scores []*domain.PerformanceScore,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(scores) == 0 {
		return nil
	}

	query := `
		INSERT INTO performance_scores
			(user_id, team_id, score, metrics, total_tasks_assigned,
			 completed_tasks_count, overdue_tasks_count, last_updated, history, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, team_id) DO UPDATE SET
			score = EXCLUDED.score,
			metrics = EXCLUDED.metrics,
			total_tasks_assigned = EXCLUDED.total_tasks_assigned,
			completed_tasks_count = EXCLUDED.completed_tasks_count,
			overdue_tasks_count = EXCLUDED.overdue_tasks_count,
			last_updated = EXCLUDED.last_updated,
			history = EXCLUDED.history
	`

	for _, score := range scores {
		if err := score.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		metrics, history, err := marshalScoreDocs(score)
		if err != nil {
			return err
		}

		_, err = s.db.ExecContext(
			ctx,
			query,
			score.UserID,
			score.TeamID,
			score.Score,
			metrics,
			score.TotalTasksAssigned,
			score.CompletedTasksCount,
			score.OverdueTasksCount,
			score.LastUpdated,
			history,
			score.CreatedAt,
		)
		if err != nil {
			log.Error("failed to upsert score",
				slog.String("error", err.Error()),
				slog.String("user_id", score.UserID.String()),
				slog.String("team_id", score.TeamID.String()))
			return MapError(err)
		}
	}

	log.Debug("batch upserted scores", slog.Int("count", len(scores)))
	return nil
}

// DeleteScoresByTeam implements store.ScoreStore.DeleteScoresByTeam
func (s *PostgresScoreStore) DeleteScoresByTeam(
	ctx context.Context,
	teamID uuid.UUID,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM performance_scores WHERE team_id = $1`, teamID)
	if err != nil {
		log.Error("failed to delete scores by team",
			slog.String("error", err.Error()),
			slog.String("team_id", teamID.String()))
		return 0, MapError(err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Debug("deleted team scores",
		slog.String("team_id", teamID.String()),
		slog.Int64("removed", removed))
	return removed, nil
}

// WithTx implements store.ScoreStore.WithTx
func (s *PostgresScoreStore) WithTx(tx *sql.Tx) store.ScoreStore {
	return &PostgresScoreStore{
		db:     tx,
		logger: s.logger,
	}
}

// scoreSelect is the shared column list for score reads.
const scoreSelect = `
	SELECT user_id, team_id, score, metrics, total_tasks_assigned,
	       completed_tasks_count, overdue_tasks_count, last_updated, history, created_at
	FROM performance_scores`

// scanScore reads one score row, decoding the JSONB documents.
func (s *PostgresScoreStore) scanScore(row rowScanner) (*domain.PerformanceScore, error) {
	var score domain.PerformanceScore
	var metrics, history []byte

	err := row.Scan(
		&score.UserID,
		&score.TeamID,
		&score.Score,
		&metrics,
		&score.TotalTasksAssigned,
		&score.CompletedTasksCount,
		&score.OverdueTasksCount,
		&score.LastUpdated,
		&history,
		&score.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(metrics, &score.Metrics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &score.History); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history: %w", err)
		}
	}

	return &score, nil
}
