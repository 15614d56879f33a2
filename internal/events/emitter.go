package events

import (
	"context"
	"log/slog"
	"sync"
)

// InMemoryEmitter is a simple implementation of the Emitter interface that
// stores registered handlers in memory and dispatches changes to them.
type InMemoryEmitter struct {
	handlers []Handler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewInMemoryEmitter creates a new instance of InMemoryEmitter.
func NewInMemoryEmitter(logger *slog.Logger) *InMemoryEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEmitter{
		handlers: make([]Handler, 0),
		logger:   logger.With("component", "in_memory_emitter"),
	}
}

// RegisterHandler adds a new handler to receive state changes.
func (e *InMemoryEmitter) RegisterHandler(handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered new state change handler", "handler_count", len(e.handlers))
}

// Emit publishes the given change to all registered handlers. If any handler
// returns an error, the change is still delivered to all other handlers, and
// the first error encountered is returned.
func (e *InMemoryEmitter) Emit(ctx context.Context, change *StateChange) error {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	e.logger.Debug("emitting state change",
		"event_id", change.ID,
		"session_id", change.SessionID,
		"status", change.Status,
		"handler_count", len(handlers))

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleStateChange(ctx, change); err != nil {
			e.logger.Error("handler failed to process state change",
				"error", err,
				"handler_index", i,
				"event_id", change.ID)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
