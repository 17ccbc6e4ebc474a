package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/cache"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/domain/scoring"
	"github.com/taskhive/taskhive/internal/platform/logger"
	"github.com/taskhive/taskhive/internal/store"
)

// History annotations written on every recompute pass.
const (
	recomputeReason     = "performance recompute"
	recomputeActionType = "recompute"
)

// TaskRepository defines the task access the scoring pipeline needs.
type TaskRepository interface {
	// GetTasksByAssignedUser retrieves every task the user is assigned to
	GetTasksByAssignedUser(ctx context.Context, userID uuid.UUID) ([]*domain.TaskRecord, error)
}

// TeamRepository defines the team access the scoring pipeline needs.
type TeamRepository interface {
	// GetTeamsByUser retrieves every team the user is a member of
	GetTeamsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Team, error)

	// GetMemberSummary retrieves the membership record for a user on a team
	GetMemberSummary(ctx context.Context, teamID, userID uuid.UUID) (*domain.TeamMemberSummary, error)

	// UpdateMemberSummary writes the denormalized member fields back
	UpdateMemberSummary(ctx context.Context, summary *domain.TeamMemberSummary) error
}

// ScoreRepository defines the score persistence the scoring pipeline needs.
type ScoreRepository interface {
	// Create saves a new score record
	Create(ctx context.Context, score *domain.PerformanceScore) error

	// FindScoresByUser retrieves every score record for the user
	FindScoresByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PerformanceScore, error)

	// BatchUpsertScores inserts or replaces the given records
	BatchUpsertScores(ctx context.Context, scores []*domain.PerformanceScore) error

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) ScoreRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// PerformanceInvalidator drops the cache keys a recompute makes stale.
// Implemented by cache.Coordinator.
type PerformanceInvalidator interface {
	InvalidatePerformance(userID uuid.UUID)
}

// PerformanceService runs the scoring pipeline: it recomputes a user's
// per-team performance scores from the full current task set and serves
// cached score reads.
type PerformanceService interface {
	// RecomputeUserPerformance loads the user's tasks and teams, rescores
	// every team, persists all updated records in one batched write,
	// pushes the results into the team member summaries and invalidates
	// the user's performance cache key.
	RecomputeUserPerformance(ctx context.Context, userID uuid.UUID) error

	// GetUserPerformance returns the user's score record for one team,
	// served through the cache. A missing record is created with the
	// default score on first access.
	GetUserPerformance(ctx context.Context, userID, teamID uuid.UUID) (*domain.PerformanceScore, error)
}

// performanceServiceImpl implements the PerformanceService interface
type performanceServiceImpl struct {
	taskRepo    TaskRepository
	teamRepo    TeamRepository
	scoreRepo   ScoreRepository
	scorer      scoring.Service
	cache       *cache.Service
	invalidator PerformanceInvalidator
	logger      *slog.Logger
}

// NewPerformanceService creates a new PerformanceService.
// It returns an error if any of the required dependencies are nil.
func NewPerformanceService(
	taskRepo TaskRepository,
	teamRepo TeamRepository,
	scoreRepo ScoreRepository,
	scorer scoring.Service,
	cacheService *cache.Service,
	invalidator PerformanceInvalidator,
	log *slog.Logger,
) (PerformanceService, error) {
	if taskRepo == nil {
		return nil, domain.NewValidationError("taskRepo", "cannot be nil", domain.ErrValidation)
	}
	if teamRepo == nil {
		return nil, domain.NewValidationError("teamRepo", "cannot be nil", domain.ErrValidation)
	}
	if scoreRepo == nil {
		return nil, domain.NewValidationError("scoreRepo", "cannot be nil", domain.ErrValidation)
	}
	if scorer == nil {
		return nil, domain.NewValidationError("scorer", "cannot be nil", domain.ErrValidation)
	}
	if cacheService == nil {
		return nil, domain.NewValidationError("cacheService", "cannot be nil", domain.ErrValidation)
	}
	if invalidator == nil {
		return nil, domain.NewValidationError("invalidator", "cannot be nil", domain.ErrValidation)
	}

	if log == nil {
		log = slog.Default()
	}

	return &performanceServiceImpl{
		taskRepo:    taskRepo,
		teamRepo:    teamRepo,
		scoreRepo:   scoreRepo,
		scorer:      scorer,
		cache:       cacheService,
		invalidator: invalidator,
		logger:      log.With(slog.String("component", "performance_service")),
	}, nil
}

// RecomputeUserPerformance implements PerformanceService.RecomputeUserPerformance.
//
// The per-team loop is sequential and isolates failures: a team whose
// score cannot be computed is logged and left out of the batch, it never
// blocks the other teams. The batched write is one transaction, so either
// every staged record lands or none do.
func (s *performanceServiceImpl) RecomputeUserPerformance(
	ctx context.Context,
	userID uuid.UUID,
) error {
	if userID == uuid.Nil {
		return domain.NewValidationError("userID", "cannot be empty", domain.ErrInvalidID)
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	now := time.Now().UTC()

	tasks, err := s.taskRepo.GetTasksByAssignedUser(ctx, userID)
	if err != nil {
		log.Error("failed to load tasks for recompute",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return NewScoreServiceError("recompute", "failed to load tasks", err)
	}

	teams, err := s.teamRepo.GetTeamsByUser(ctx, userID)
	if err != nil {
		log.Error("failed to load teams for recompute",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return NewScoreServiceError("recompute", "failed to load teams", err)
	}

	existing, err := s.scoreRepo.FindScoresByUser(ctx, userID)
	if err != nil {
		log.Error("failed to load existing scores for recompute",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return NewScoreServiceError("recompute", "failed to load existing scores", err)
	}
	byTeam := make(map[uuid.UUID]*domain.PerformanceScore, len(existing))
	for _, score := range existing {
		byTeam[score.TeamID] = score
	}

	var staged []*domain.PerformanceScore
	for _, team := range teams {
		if team == nil || team.ID == uuid.Nil {
			continue
		}

		record, recomputeErr := s.recomputeTeamScore(tasks, byTeam[team.ID], userID, team.ID, now)
		if recomputeErr != nil {
			// One team failing must not block the rest of the batch.
			log.Error("failed to recompute team score",
				slog.String("error", recomputeErr.Error()),
				slog.String("user_id", userID.String()),
				slog.String("team_id", team.ID.String()))
			continue
		}
		staged = append(staged, record)
	}

	if len(staged) == 0 {
		log.Debug("no team scores to persist",
			slog.String("user_id", userID.String()),
			slog.Int("team_count", len(teams)))
		s.invalidator.InvalidatePerformance(userID)
		return nil
	}

	err = store.RunInTransaction(ctx, s.scoreRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		return s.scoreRepo.WithTx(tx).BatchUpsertScores(ctx, staged)
	})
	if err != nil {
		log.Error("failed to persist recomputed scores",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("score_count", len(staged)))
		return NewScoreServiceError("recompute", "failed to persist scores", err)
	}

	// Summary pushes happen after the batch commits; a summary failure is
	// logged but the recompute as a whole still succeeded.
	for _, record := range staged {
		s.pushMemberSummary(ctx, log, record, now)
	}

	s.invalidator.InvalidatePerformance(userID)

	log.Info("recomputed user performance",
		slog.String("user_id", userID.String()),
		slog.Int("teams_scored", len(staged)),
		slog.Int("tasks_considered", len(tasks)))
	return nil
}

// recomputeTeamScore replaces one (user, team) record's score and metrics
// from the full current task set and appends the audit delta.
func (s *performanceServiceImpl) recomputeTeamScore(
	tasks []*domain.TaskRecord,
	prior *domain.PerformanceScore,
	userID, teamID uuid.UUID,
	now time.Time,
) (*domain.PerformanceScore, error) {
	record := prior
	if record == nil {
		fresh, err := domain.NewPerformanceScore(userID, teamID)
		if err != nil {
			return nil, err
		}
		record = fresh
	}

	newScore, err := s.scorer.UserPerformance(tasks, teamID, now)
	if err != nil {
		return nil, err
	}

	metrics, err := s.scorer.DetailedMetrics(tasks, teamID, record.Metrics.MonthlyHistory, now)
	if err != nil {
		return nil, err
	}

	var assigned, completed, overdue int
	for _, task := range tasks {
		if task == nil || task.TeamID != teamID {
			continue
		}
		assigned++
		switch {
		case task.IsCompleted():
			completed++
		case task.Status == domain.TaskStatusOverdue:
			overdue++
		}
	}

	delta := newScore - record.Score
	record.Score = newScore
	record.Metrics = metrics
	record.TotalTasksAssigned = assigned
	record.CompletedTasksCount = completed
	record.OverdueTasksCount = overdue
	record.LastUpdated = now
	record.AppendHistory(domain.ScoreHistory{
		Date:        now,
		ScoreChange: delta,
		Reason:      recomputeReason,
		TeamID:      teamID,
		ActionType:  recomputeActionType,
	})

	return record, nil
}

// pushMemberSummary copies the recomputed score onto the team membership
// record. A user who is no longer a member is not an error.
func (s *performanceServiceImpl) pushMemberSummary(
	ctx context.Context,
	log *slog.Logger,
	record *domain.PerformanceScore,
	now time.Time,
) {
	summary, err := s.teamRepo.GetMemberSummary(ctx, record.TeamID, record.UserID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("skipping member summary push, user not on team",
				slog.String("user_id", record.UserID.String()),
				slog.String("team_id", record.TeamID.String()))
			return
		}
		log.Error("failed to load member summary",
			slog.String("error", err.Error()),
			slog.String("user_id", record.UserID.String()),
			slog.String("team_id", record.TeamID.String()))
		return
	}

	summary.PerformanceScore = record.Score
	summary.CompletedTasks = record.CompletedTasksCount
	summary.LastScoreUpdate = now

	if err := s.teamRepo.UpdateMemberSummary(ctx, summary); err != nil {
		log.Error("failed to update member summary",
			slog.String("error", err.Error()),
			slog.String("user_id", record.UserID.String()),
			slog.String("team_id", record.TeamID.String()))
	}
}

// GetUserPerformance implements PerformanceService.GetUserPerformance.
//
// All of a user's score records are loaded and cached together under the
// user's performance key, so one cache entry serves every team the user
// belongs to. A record missing for the requested team is created with
// the default score and persisted, then the cache entry is dropped so
// the next read sees the persisted record.
func (s *performanceServiceImpl) GetUserPerformance(
	ctx context.Context,
	userID, teamID uuid.UUID,
) (*domain.PerformanceScore, error) {
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("userID", "cannot be empty", domain.ErrInvalidID)
	}
	if teamID == uuid.Nil {
		return nil, domain.NewValidationError("teamID", "cannot be empty", domain.ErrInvalidID)
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	scores, err := cache.GetOrUpdate(ctx, s.cache, cache.PerformanceKey(userID),
		func(ctx context.Context) ([]*domain.PerformanceScore, error) {
			return s.scoreRepo.FindScoresByUser(ctx, userID)
		})
	if err != nil {
		log.Error("failed to load performance scores",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewScoreServiceError("get_performance", "failed to load scores", err)
	}

	for _, score := range scores {
		if score != nil && score.TeamID == teamID {
			return score, nil
		}
	}

	// First access for this (user, team) pair: start from the default.
	fresh, err := domain.NewPerformanceScore(userID, teamID)
	if err != nil {
		return nil, NewScoreServiceError("get_performance", "failed to create default score", err)
	}

	if err := s.scoreRepo.Create(ctx, fresh); err != nil {
		if !store.IsDuplicateError(err) {
			log.Warn("failed to persist default score",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()),
				slog.String("team_id", teamID.String()))
		}
	}
	s.invalidator.InvalidatePerformance(userID)

	return fresh, nil
}
