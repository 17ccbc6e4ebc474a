package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
)

// Mutation event types. Every write path that can make cached data stale
// emits one of these.
const (
	// EventTypeTaskMutated is emitted when a task is created, updated,
	// completed, reassigned or deleted.
	EventTypeTaskMutated = "task.mutated"

	// EventTypeMembershipChanged is emitted when a user joins or leaves a
	// team, or their role on the team changes.
	EventTypeMembershipChanged = "membership.changed"
)

// MutationEvent represents a domain mutation that downstream components
// react to. It carries the mutation-specific data as JSON so emitters
// need no direct dependencies on the handlers.
type MutationEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates which mutation occurred
	Type string `json:"type"`

	// Payload contains the mutation-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *MutationEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewMutationEvent creates a new MutationEvent with the specified type and payload.
func NewMutationEvent(eventType string, payload interface{}) (*MutationEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &MutationEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// TaskMutationPayload is the payload of an EventTypeTaskMutated event.
type TaskMutationPayload struct {
	Task *domain.TaskRecord `json:"task"`
}

// MembershipChangePayload is the payload of an EventTypeMembershipChanged
// event. Department is the team's department label, needed so the
// per-department member cache buckets can be tracked and dropped.
type MembershipChangePayload struct {
	TeamID     uuid.UUID `json:"team_id"`
	UserID     uuid.UUID `json:"user_id"`
	Department string    `json:"department,omitempty"`
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *MutationEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *MutationEvent) error
}
