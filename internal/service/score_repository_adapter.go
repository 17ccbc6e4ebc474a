package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/store"
)

// NewScoreRepositoryAdapter creates a new adapter that allows a
// store.ScoreStore to be used where a ScoreRepository is expected.
// The db handle is what RunInTransaction opens transactions on.
func NewScoreRepositoryAdapter(scoreStore store.ScoreStore, db *sql.DB) ScoreRepository {
	return &scoreRepositoryAdapter{
		scoreStore: scoreStore,
		db:         db,
	}
}

// scoreRepositoryAdapter adapts a store.ScoreStore to the ScoreRepository interface
type scoreRepositoryAdapter struct {
	scoreStore store.ScoreStore
	db         *sql.DB
}

// Create implements ScoreRepository.Create
func (a *scoreRepositoryAdapter) Create(ctx context.Context, score *domain.PerformanceScore) error {
	return a.scoreStore.Create(ctx, score)
}

// FindScoresByUser implements ScoreRepository.FindScoresByUser
func (a *scoreRepositoryAdapter) FindScoresByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.PerformanceScore, error) {
	return a.scoreStore.FindScoresByUser(ctx, userID)
}

// BatchUpsertScores implements ScoreRepository.BatchUpsertScores
func (a *scoreRepositoryAdapter) BatchUpsertScores(
	ctx context.Context,
	scores []*domain.PerformanceScore,
) error {
	return a.scoreStore.BatchUpsertScores(ctx, scores)
}

// WithTx implements ScoreRepository.WithTx
func (a *scoreRepositoryAdapter) WithTx(tx *sql.Tx) ScoreRepository {
	return &scoreRepositoryAdapter{
		scoreStore: a.scoreStore.WithTx(tx),
		db:         a.db,
	}
}

// DB implements ScoreRepository.DB
func (a *scoreRepositoryAdapter) DB() *sql.DB {
	return a.db
}
