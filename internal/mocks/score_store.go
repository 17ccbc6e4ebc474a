package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/store"
)

// scoreKey identifies a score record in the mock's map.
type scoreKey struct {
	UserID uuid.UUID
	TeamID uuid.UUID
}

// MockScoreStore implements store.ScoreStore for testing
type MockScoreStore struct {
	// Function fields for customizable behavior
	CreateFn             func(ctx context.Context, score *domain.PerformanceScore) error
	FindScoreFn          func(ctx context.Context, userID, teamID uuid.UUID) (*domain.PerformanceScore, error)
	FindScoresByUserFn   func(ctx context.Context, userID uuid.UUID) ([]*domain.PerformanceScore, error)
	BatchUpsertScoresFn  func(ctx context.Context, scores []*domain.PerformanceScore) error
	DeleteScoresByTeamFn func(ctx context.Context, teamID uuid.UUID) (int64, error)

	// Data for default implementation
	Scores map[scoreKey]*domain.PerformanceScore

	// Upserts records every batch passed to BatchUpsertScores, in order,
	// so tests can assert on batching behavior.
	Upserts [][]*domain.PerformanceScore
}

// NewMockScoreStore creates a new mock store with initialized defaults
func NewMockScoreStore() *MockScoreStore {
	return &MockScoreStore{
		Scores: make(map[scoreKey]*domain.PerformanceScore),
	}
}

// Create implements the ScoreStore interface
func (m *MockScoreStore) Create(ctx context.Context, score *domain.PerformanceScore) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, score)
	}

	key := scoreKey{UserID: score.UserID, TeamID: score.TeamID}
	if _, exists := m.Scores[key]; exists {
		return store.ErrScoreExists
	}
	m.Scores[key] = score
	return nil
}

// FindScore implements the ScoreStore interface
func (m *MockScoreStore) FindScore(
	ctx context.Context,
	userID, teamID uuid.UUID,
) (*domain.PerformanceScore, error) {
	if m.FindScoreFn != nil {
		return m.FindScoreFn(ctx, userID, teamID)
	}

	score, exists := m.Scores[scoreKey{UserID: userID, TeamID: teamID}]
	if !exists {
		return nil, store.ErrScoreNotFound
	}
	return score, nil
}

// FindScoresByUser implements the ScoreStore interface
func (m *MockScoreStore) FindScoresByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.PerformanceScore, error) {
	if m.FindScoresByUserFn != nil {
		return m.FindScoresByUserFn(ctx, userID)
	}

	var scores []*domain.PerformanceScore
	for key, score := range m.Scores {
		if key.UserID == userID {
			scores = append(scores, score)
		}
	}
	return scores, nil
}

// BatchUpsertScores implements the ScoreStore interface
func (m *MockScoreStore) BatchUpsertScores(
	ctx context.Context,
	scores []*domain.PerformanceScore,
) error {
	if m.BatchUpsertScoresFn != nil {
		return m.BatchUpsertScoresFn(ctx, scores)
	}

	m.Upserts = append(m.Upserts, scores)
	for _, score := range scores {
		m.Scores[scoreKey{UserID: score.UserID, TeamID: score.TeamID}] = score
	}
	return nil
}

// DeleteScoresByTeam implements the ScoreStore interface
func (m *MockScoreStore) DeleteScoresByTeam(
	ctx context.Context,
	teamID uuid.UUID,
) (int64, error) {
	if m.DeleteScoresByTeamFn != nil {
		return m.DeleteScoresByTeamFn(ctx, teamID)
	}

	var removed int64
	for key := range m.Scores {
		if key.TeamID == teamID {
			delete(m.Scores, key)
			removed++
		}
	}
	return removed, nil
}

// WithTx implements the ScoreStore interface for transaction support
func (m *MockScoreStore) WithTx(tx *sql.Tx) store.ScoreStore {
	// For mock purposes, just return the same mock
	return m
}
