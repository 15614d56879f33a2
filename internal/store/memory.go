package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/flashdeck/flashdeck/internal/domain"
	"github.com/flashdeck/flashdeck/internal/scheduler"
)

// MemoryStore is an in-memory AssignmentStore. It is safe for concurrent
// use and stores defensive copies, so callers cannot mutate stored state
// through retained pointers.
type MemoryStore struct {
	mu          sync.RWMutex
	assignments map[string]*domain.Assignment
}

var _ AssignmentStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory assignment store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		assignments: make(map[string]*domain.Assignment),
	}
}

// Get implements AssignmentStore.Get.
func (s *MemoryStore) Get(_ context.Context, subjectID string) (*domain.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assignment, ok := s.assignments[subjectID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAssignmentNotFound, subjectID)
	}
	return assignment.Clone(), nil
}

// GetAll implements AssignmentStore.GetAll.
func (s *MemoryStore) GetAll(_ context.Context) (scheduler.AssignmentMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make(scheduler.AssignmentMap, len(s.assignments))
	for id, assignment := range s.assignments {
		all[id] = assignment.Clone()
	}
	return all, nil
}

// Save implements AssignmentStore.Save.
func (s *MemoryStore) Save(_ context.Context, assignment *domain.Assignment) error {
	if assignment == nil {
		return fmt.Errorf("%w: nil assignment", ErrInvalidEntity)
	}
	if err := assignment.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.assignments[assignment.SubjectID] = assignment.Clone()
	return nil
}

// SaveAll implements AssignmentStore.SaveAll. The batch is validated up
// front so a failure partway through cannot leave a partial write behind.
func (s *MemoryStore) SaveAll(_ context.Context, assignments scheduler.AssignmentMap) error {
	for id, assignment := range assignments {
		if assignment == nil {
			return fmt.Errorf("%w: nil assignment for subject %s", ErrInvalidEntity, id)
		}
		if err := assignment.Validate(); err != nil {
			return fmt.Errorf("%w: subject %s: %w", ErrInvalidEntity, id, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, assignment := range assignments {
		s.assignments[id] = assignment.Clone()
	}
	return nil
}
