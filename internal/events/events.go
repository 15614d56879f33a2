package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StateChange is the consistent post-state snapshot published after a batch
// of session mutations. It carries derived counters rather than engine
// internals so handlers cannot reach back into mutable state.
type StateChange struct {
	// ID is a unique identifier for this event.
	ID uuid.UUID `json:"id"`

	// SessionID identifies the session the change belongs to.
	SessionID uuid.UUID `json:"session_id"`

	// Status is the session status after the batch ("inactive", "active",
	// "completed").
	Status string `json:"status"`

	// QueueLength is the number of pending card entries, current included.
	QueueLength int `json:"queue_length"`

	// Successes and Failures count distinct subjects graded this session.
	Successes int `json:"successes"`
	Failures  int `json:"failures"`

	// At is when the batch committed.
	At time.Time `json:"at"`
}

// NewStateChange creates a StateChange stamped with a fresh event ID.
func NewStateChange(sessionID uuid.UUID, status string, queueLength, successes, failures int, at time.Time) *StateChange {
	return &StateChange{
		ID:          uuid.New(),
		SessionID:   sessionID,
		Status:      status,
		QueueLength: queueLength,
		Successes:   successes,
		Failures:    failures,
		At:          at,
	}
}

// Handler consumes state changes. Handlers must not block: the engine is
// synchronous and publishes on the mutating goroutine.
type Handler interface {
	// HandleStateChange processes one state change.
	// Returns an error if the change cannot be handled.
	HandleStateChange(ctx context.Context, change *StateChange) error
}

// Emitter publishes state changes to registered handlers.
type Emitter interface {
	// RegisterHandler adds a handler to receive future state changes.
	RegisterHandler(handler Handler)

	// Emit publishes the change to all registered handlers. All handlers
	// see the change even when one fails; the first error is returned.
	Emit(ctx context.Context, change *StateChange) error
}
