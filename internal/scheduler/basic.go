package scheduler

import (
	"time"

	"github.com/flashdeck/flashdeck/internal/domain"
)

// DefaultCompletionThreshold is the repetition count at which the Basic
// scheduler stops showing a card.
const DefaultCompletionThreshold = 3

// BasicParams configures the Basic scheduler.
type BasicParams struct {
	// CompletionThreshold excludes a card once its repetition count reaches
	// this value. Defaults to DefaultCompletionThreshold.
	CompletionThreshold int

	// Now supplies the current time. Defaults to time.Now in UTC.
	Now func() time.Time
}

// Basic is the simplest scheduler: a bare repetition counter with no due
// dates. A correct grade increments the counter, an incorrect grade
// decrements it (floored at 0), and cards retire once the counter reaches
// the completion threshold.
type Basic struct {
	Base[bool]

	completionThreshold int
	now                 func() time.Time
}

// NewBasic creates a Basic scheduler. A nil params uses defaults.
func NewBasic(params *BasicParams) *Basic {
	b := &Basic{
		completionThreshold: DefaultCompletionThreshold,
		now:                 defaultClock,
	}
	if params != nil {
		if params.CompletionThreshold > 0 {
			b.completionThreshold = params.CompletionThreshold
		}
		if params.Now != nil {
			b.now = params.Now
		}
	}
	return b
}

// Add implements Scheduler.Add: repetition 0, available immediately.
func (b *Basic) Add(subject *domain.Subject) (*domain.Assignment, error) {
	if subject == nil {
		return nil, ErrNilSubject
	}

	now := b.now()
	assignment, err := domain.NewAssignment(subject.ID, now)
	if err != nil {
		return nil, err
	}
	assignment.StartedAt = now
	return assignment, nil
}

// Filter implements Scheduler.Filter. Cards are excluded once marked
// completed or once the repetition count reaches the completion threshold;
// there is no due date.
func (b *Basic) Filter(subject *domain.Subject, assignment *domain.Assignment) bool {
	if assignment == nil {
		return true
	}
	if assignment.Completed() {
		return false
	}
	return assignment.Repetition < b.completionThreshold
}

// FilterLearnable implements Scheduler.FilterLearnable.
func (b *Basic) FilterLearnable(subject *domain.Subject, assignment *domain.Assignment, all AssignmentMap) bool {
	return b.Filter(subject, assignment) && (assignment == nil || !assignment.Started())
}

// FilterQuizzable implements Scheduler.FilterQuizzable.
func (b *Basic) FilterQuizzable(subject *domain.Subject, assignment *domain.Assignment, all AssignmentMap) bool {
	return b.Filter(subject, assignment) && assignment != nil && assignment.Started()
}

// Compare implements Scheduler.Compare: ascending by repetition count, with
// ties broken randomly.
func (b *Basic) Compare(x, y Pair) int {
	rx, ry := 0, 0
	if x.Assignment != nil {
		rx = x.Assignment.Repetition
	}
	if y.Assignment != nil {
		ry = y.Assignment.Repetition
	}
	switch {
	case rx < ry:
		return -1
	case rx > ry:
		return 1
	default:
		return 0
	}
}

// Update implements Scheduler.Update. A correct answer increments the
// repetition count; an incorrect one decrements it, never below zero.
func (b *Basic) Update(correct bool, subject *domain.Subject, assignment *domain.Assignment) (*domain.Assignment, error) {
	if subject == nil {
		return nil, ErrNilSubject
	}
	if assignment == nil {
		return nil, ErrNilAssignment
	}

	now := b.now()
	next := assignment.Clone()
	if correct {
		next.Repetition = assignment.Repetition + 1
	} else if assignment.Repetition > 0 {
		next.Repetition = assignment.Repetition - 1
	}
	next.LastStudiedAt = now
	next.UpdatedAt = now
	return next, nil
}
