package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/cache"
	"github.com/taskhive/taskhive/internal/service"
)

// CacheInvalidationHandler drops the cache keys a domain mutation makes
// stale by running the matching coordinator cascade.
type CacheInvalidationHandler struct {
	coordinator *cache.Coordinator
	logger      *slog.Logger
}

// NewCacheInvalidationHandler creates a handler over the given coordinator.
func NewCacheInvalidationHandler(
	coordinator *cache.Coordinator,
	logger *slog.Logger,
) *CacheInvalidationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheInvalidationHandler{
		coordinator: coordinator,
		logger:      logger.With(slog.String("component", "cache_invalidation_handler")),
	}
}

// HandleEvent implements the EventHandler interface.
func (h *CacheInvalidationHandler) HandleEvent(ctx context.Context, event *MutationEvent) error {
	switch event.Type {
	case EventTypeTaskMutated:
		var payload TaskMutationPayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to decode task mutation payload: %w", err)
		}
		h.coordinator.InvalidateTask(payload.Task)

	case EventTypeMembershipChanged:
		var payload MembershipChangePayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to decode membership change payload: %w", err)
		}
		h.coordinator.TrackDepartment(payload.Department)
		h.coordinator.InvalidateMembership(payload.TeamID, payload.UserID)

	default:
		h.logger.Debug("ignoring event type", "event_type", event.Type)
	}
	return nil
}

// RecomputeHandler fires the scoring pipeline for every user a mutation
// affects, so scores track the task set without the write paths knowing
// about scoring.
type RecomputeHandler struct {
	performance service.PerformanceService
	logger      *slog.Logger
}

// NewRecomputeHandler creates a handler over the given performance service.
func NewRecomputeHandler(
	performance service.PerformanceService,
	logger *slog.Logger,
) *RecomputeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecomputeHandler{
		performance: performance,
		logger:      logger.With(slog.String("component", "recompute_handler")),
	}
}

// HandleEvent implements the EventHandler interface.
func (h *RecomputeHandler) HandleEvent(ctx context.Context, event *MutationEvent) error {
	switch event.Type {
	case EventTypeTaskMutated:
		var payload TaskMutationPayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to decode task mutation payload: %w", err)
		}
		if payload.Task == nil {
			return nil
		}
		return h.recomputeUsers(ctx, payload.Task.AssignedUserIDs)

	case EventTypeMembershipChanged:
		var payload MembershipChangePayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to decode membership change payload: %w", err)
		}
		return h.recomputeUsers(ctx, []uuid.UUID{payload.UserID})
	}
	return nil
}

// recomputeUsers runs the pipeline per user. One user failing does not
// stop the others; the first error is reported.
func (h *RecomputeHandler) recomputeUsers(ctx context.Context, userIDs []uuid.UUID) error {
	var firstErr error
	for _, userID := range userIDs {
		if userID == uuid.Nil {
			continue
		}
		if err := h.performance.RecomputeUserPerformance(ctx, userID); err != nil {
			h.logger.Error("failed to recompute user performance",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// compile-time interface checks
var (
	_ EventHandler = (*CacheInvalidationHandler)(nil)
	_ EventHandler = (*RecomputeHandler)(nil)
)
