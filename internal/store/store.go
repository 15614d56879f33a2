package store

import (
	"context"

	"github.com/flashdeck/flashdeck/internal/domain"
	"github.com/flashdeck/flashdeck/internal/scheduler"
)

// AssignmentStore defines the interface for assignment persistence.
type AssignmentStore interface {
	// Get retrieves the assignment for the given subject.
	// Returns ErrAssignmentNotFound if no assignment exists for it.
	Get(ctx context.Context, subjectID string) (*domain.Assignment, error)

	// GetAll retrieves every stored assignment, keyed by subject ID.
	// An empty store yields an empty, non-nil map.
	GetAll(ctx context.Context) (scheduler.AssignmentMap, error)

	// Save persists the assignment, inserting or replacing by subject ID.
	// The assignment must pass domain validation; invalid assignments are
	// rejected with ErrInvalidEntity.
	Save(ctx context.Context, assignment *domain.Assignment) error

	// SaveAll persists every assignment in the map. Implementations apply
	// the whole batch atomically where the backend allows it.
	SaveAll(ctx context.Context, assignments scheduler.AssignmentMap) error
}
