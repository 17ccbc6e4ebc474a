package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
)

// ScoreStore defines the interface for performance score persistence.
// Version: 1.0
type ScoreStore interface {
	// Create saves a new performance score record.
	// Returns ErrScoreExists if a record for the same user and team
	// already exists.
	Create(ctx context.Context, score *domain.PerformanceScore) error

	// FindScore retrieves the score record for the given user on the
	// given team. Returns ErrScoreNotFound if no record exists.
	FindScore(ctx context.Context, userID, teamID uuid.UUID) (*domain.PerformanceScore, error)

	// FindScoresByUser retrieves every score record for the given user
	// across all of their teams. Returns an empty slice when the user has
	// no score records yet.
	FindScoresByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PerformanceScore, error)

	// BatchUpsertScores inserts or replaces the given score records in a
	// single operation. History on each record is persisted as given; the
	// caller is responsible for appending new entries before submission.
	//
	// IMPORTANT: This method MUST be run within a transaction for
	// atomicity. Use WithTx together with store.RunInTransaction so that
	// either every record lands or none do.
	BatchUpsertScores(ctx context.Context, scores []*domain.PerformanceScore) error

	// DeleteScoresByTeam removes every score record for the given team,
	// returning the number of records removed.
	DeleteScoresByTeam(ctx context.Context, teamID uuid.UUID) (int64, error)

	// WithTx returns a new ScoreStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) ScoreStore
}
