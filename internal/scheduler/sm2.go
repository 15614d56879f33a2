package scheduler

import (
	"fmt"
	"math"
	"time"

	"github.com/flashdeck/flashdeck/internal/domain"
)

// SM2 constants.
const (
	// InitialEFactor is the ease factor every new card starts with.
	InitialEFactor = 2.5

	// MinEFactor is the floor the ease factor can never drop below.
	MinEFactor = 1.3

	// sm2FirstInterval and sm2SecondInterval are the fixed intervals (days)
	// for the first two successful reviews.
	sm2FirstInterval  = 1
	sm2SecondInterval = 6
)

// SM2Params configures the SM2 scheduler.
type SM2Params struct {
	// Now supplies the current time. Defaults to time.Now in UTC.
	Now func() time.Time
}

// SM2 implements the classic SuperMemo-2 algorithm. Quality is an integer
// from 0 (complete blackout) to 5 (perfect response). Grades of 4 and above
// are successes that grow the interval; grades below 4 reset the repetition
// counter and schedule a prompt retry.
type SM2 struct {
	Base[int]

	now func() time.Time
}

// NewSM2 creates an SM2 scheduler. A nil params uses defaults.
func NewSM2(params *SM2Params) *SM2 {
	s := &SM2{now: defaultClock}
	if params != nil && params.Now != nil {
		s.now = params.Now
	}
	return s
}

// Add implements Scheduler.Add: ease factor 2.5, repetition 0, interval 0,
// available immediately.
func (s *SM2) Add(subject *domain.Subject) (*domain.Assignment, error) {
	if subject == nil {
		return nil, ErrNilSubject
	}

	now := s.now()
	assignment, err := domain.NewAssignment(subject.ID, now)
	if err != nil {
		return nil, err
	}
	assignment.EFactor = InitialEFactor
	assignment.StartedAt = now
	return assignment, nil
}

// Filter implements Scheduler.Filter: due when the last study time plus the
// current interval in days has been reached.
func (s *SM2) Filter(subject *domain.Subject, assignment *domain.Assignment) bool {
	if assignment == nil {
		return true
	}
	if assignment.Completed() {
		return false
	}
	return !s.dueAt(assignment).After(s.now())
}

// FilterLearnable implements Scheduler.FilterLearnable.
func (s *SM2) FilterLearnable(subject *domain.Subject, assignment *domain.Assignment, all AssignmentMap) bool {
	return s.Filter(subject, assignment) && (assignment == nil || !assignment.Started())
}

// FilterQuizzable implements Scheduler.FilterQuizzable.
func (s *SM2) FilterQuizzable(subject *domain.Subject, assignment *domain.Assignment, all AssignmentMap) bool {
	return s.Filter(subject, assignment) && assignment != nil && assignment.Started()
}

// Compare implements Scheduler.Compare: ascending by due date, with cards due
// on the same calendar day ordered randomly.
func (s *SM2) Compare(x, y Pair) int {
	var dx, dy time.Time
	if x.Assignment != nil {
		dx = s.dueAt(x.Assignment)
	}
	if y.Assignment != nil {
		dy = s.dueAt(y.Assignment)
	}
	return compareByDay(dx, dy)
}

// Update implements Scheduler.Update with the SM-2 formula.
//
// For quality >= 4 the interval grows (1 day, then 6, then the previous
// interval times the previous ease factor) and the repetition counter
// increments. For quality < 4 the repetition counter resets; the ease factor
// is only adjusted at quality 3 and preserved below that, and the interval
// collapses to 0 when the card was already studied today (so the due date
// never jumps backward within a single day) or to at most 1 day otherwise.
func (s *SM2) Update(quality int, subject *domain.Subject, assignment *domain.Assignment) (*domain.Assignment, error) {
	if subject == nil {
		return nil, ErrNilSubject
	}
	if assignment == nil {
		return nil, ErrNilAssignment
	}
	if quality < 0 || quality > 5 {
		return nil, fmt.Errorf("%w: SM2 quality must be 0-5, got %d", ErrInvalidQuality, quality)
	}

	now := s.now()
	next := assignment.Clone()

	newEF := assignment.EFactor + (0.1 - float64(5-quality)*(0.08+float64(5-quality)*0.02))
	if newEF < MinEFactor {
		newEF = MinEFactor
	}

	if quality < 4 {
		next.Repetition = 0
		if quality == 3 {
			next.EFactor = newEF
		}
		if sameDay(assignment.LastStudiedAt, now) {
			next.Interval = 0
		} else if assignment.Interval > 1 {
			next.Interval = 1
		} else {
			next.Interval = assignment.Interval
		}
	} else {
		next.EFactor = newEF
		switch assignment.Repetition {
		case 0:
			next.Interval = sm2FirstInterval
		case 1:
			next.Interval = sm2SecondInterval
		default:
			next.Interval = int(math.Round(float64(assignment.Interval) * assignment.EFactor))
		}
		next.Repetition = assignment.Repetition + 1
	}

	next.LastStudiedAt = now
	next.AvailableAt = now.AddDate(0, 0, next.Interval)
	next.UpdatedAt = now
	return next, nil
}

// dueAt is the moment the assignment becomes due: the last study time plus
// the current interval in days, or immediately for never-studied cards.
func (s *SM2) dueAt(assignment *domain.Assignment) time.Time {
	if assignment.LastStudiedAt.IsZero() {
		return time.Time{}
	}
	return assignment.LastStudiedAt.AddDate(0, 0, assignment.Interval)
}
