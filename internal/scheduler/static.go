package scheduler

import (
	"time"

	"github.com/flashdeck/flashdeck/internal/domain"
)

// maxDoOverDelay bounds the retry delay after an incorrect answer: however
// large the regressed stage's interval is, the next attempt is never more
// than a day out.
const maxDoOverDelay = 24 * time.Hour

// StaticParams configures the Static scheduler.
type StaticParams struct {
	// Tables maps an algorithm-selector ID (subject.Data.AlgorithmID) to an
	// ordered list of stage intervals. Stage n waits Tables[id][n-1] after a
	// correct answer; stage 0 is reserved for "unstarted".
	Tables map[string][]time.Duration

	// Now supplies the current time. Defaults to time.Now in UTC.
	Now func() time.Time
}

// Static schedules with fixed per-stage interval tables. The stage index is
// stored in the assignment's EFactor field. A correct answer advances one
// stage and waits that stage's interval; past the end of the table the card
// stays immediately available (capped). An incorrect answer regresses one
// stage, never below stage 1, with the retry delay bounded to a day.
type Static struct {
	Base[bool]

	tables map[string][]time.Duration
	now    func() time.Time
}

// NewStatic creates a Static scheduler over the given interval tables.
func NewStatic(params *StaticParams) *Static {
	s := &Static{
		tables: map[string][]time.Duration{},
		now:    defaultClock,
	}
	if params != nil {
		if params.Tables != nil {
			s.tables = params.Tables
		}
		if params.Now != nil {
			s.now = params.Now
		}
	}
	return s
}

// Add implements Scheduler.Add: stage 0, available immediately.
func (s *Static) Add(subject *domain.Subject) (*domain.Assignment, error) {
	if subject == nil {
		return nil, ErrNilSubject
	}

	now := s.now()
	assignment, err := domain.NewAssignment(subject.ID, now)
	if err != nil {
		return nil, err
	}
	assignment.StartedAt = now
	return assignment, nil
}

// Filter implements Scheduler.Filter: due when AvailableAt has been reached.
func (s *Static) Filter(subject *domain.Subject, assignment *domain.Assignment) bool {
	if assignment == nil {
		return true
	}
	if assignment.Completed() {
		return false
	}
	return !assignment.AvailableAt.After(s.now())
}

// FilterLearnable implements Scheduler.FilterLearnable.
func (s *Static) FilterLearnable(subject *domain.Subject, assignment *domain.Assignment, all AssignmentMap) bool {
	return s.Filter(subject, assignment) && (assignment == nil || !assignment.Started())
}

// FilterQuizzable implements Scheduler.FilterQuizzable.
func (s *Static) FilterQuizzable(subject *domain.Subject, assignment *domain.Assignment, all AssignmentMap) bool {
	return s.Filter(subject, assignment) && assignment != nil && assignment.Started()
}

// Compare implements Scheduler.Compare: ascending by availability, random
// within the same calendar day.
func (s *Static) Compare(x, y Pair) int {
	var dx, dy time.Time
	if x.Assignment != nil {
		dx = x.Assignment.AvailableAt
	}
	if y.Assignment != nil {
		dy = y.Assignment.AvailableAt
	}
	return compareByDay(dx, dy)
}

// Update implements Scheduler.Update over the subject's interval table.
func (s *Static) Update(correct bool, subject *domain.Subject, assignment *domain.Assignment) (*domain.Assignment, error) {
	if subject == nil {
		return nil, ErrNilSubject
	}
	if assignment == nil {
		return nil, ErrNilAssignment
	}

	now := s.now()
	next := assignment.Clone()
	table := s.tables[subject.Data.AlgorithmID]
	stage := int(assignment.EFactor)

	if correct {
		stage++
		if idx := stage - 1; idx < len(table) {
			next.AvailableAt = now.Add(table[idx])
		} else {
			// Past the end of the table there is no further interval.
			next.AvailableAt = now
		}
	} else {
		stage--
		if stage < 1 {
			stage = 1
		}
		delay := maxDoOverDelay
		if idx := stage - 1; idx < len(table) && table[idx] < delay {
			delay = table[idx]
		}
		next.AvailableAt = now.Add(delay)
	}

	next.EFactor = float64(stage)
	next.LastStudiedAt = now
	next.UpdatedAt = now
	return next, nil
}
