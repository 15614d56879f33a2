package scheduler

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/open-spaced-repetition/go-fsrs"

	"github.com/flashdeck/flashdeck/internal/domain"
)

// ErrMemoryModel marks a failure inside the external memory model. It never
// escapes Update: grading falls back to a fixed interval table instead,
// because failing to grade a card is worse than grading it less precisely.
var ErrMemoryModel = errors.New("memory model failure")

// Fallback intervals (days) used when the memory model cannot produce a
// usable candidate.
const (
	fallbackAgainInterval = 1
	fallbackHardInterval  = 3
	fallbackGoodInterval  = 7
	fallbackEasyFactor    = 2.5
)

// MemoryModel is the narrow capability the FSRS-backed scheduler needs from
// an external memory-modeling component: given a card state and the current
// time, produce per-rating scheduling candidates. The production
// implementation wraps go-fsrs; tests substitute a stub.
type MemoryModel interface {
	Repeat(card fsrs.Card, now time.Time) map[fsrs.Rating]fsrs.SchedulingInfo
}

// fsrsModel adapts go-fsrs Parameters to the MemoryModel interface.
type fsrsModel struct {
	params fsrs.Parameters
}

func (m fsrsModel) Repeat(card fsrs.Card, now time.Time) map[fsrs.Rating]fsrs.SchedulingInfo {
	return m.params.Repeat(card, now)
}

// FSRSParams configures the FSRS-backed scheduler.
type FSRSParams struct {
	// Model is the external memory model. Defaults to go-fsrs with its
	// default parameters.
	Model MemoryModel

	// Now supplies the current time. Defaults to time.Now in UTC.
	Now func() time.Time
}

// FSRS delegates numeric memory modeling (stability, difficulty,
// retrievability) to an external component and translates between
// domain.Assignment and the model's card shape. Quality is a 1-4 rating
// (Again, Hard, Good, Easy); out-of-range ratings are clamped.
//
// Any failure of the external model - a panic, a missing rating, or
// malformed numbers - is contained here and replaced by a deterministic
// fallback interval, so grading always succeeds.
type FSRS struct {
	Base[fsrs.Rating]

	model MemoryModel
	now   func() time.Time
}

// NewFSRS creates an FSRS-backed scheduler. A nil params uses go-fsrs with
// default parameters.
func NewFSRS(params *FSRSParams) *FSRS {
	f := &FSRS{
		model: fsrsModel{params: fsrs.DefaultParam()},
		now:   defaultClock,
	}
	if params != nil {
		if params.Model != nil {
			f.model = params.Model
		}
		if params.Now != nil {
			f.now = params.Now
		}
	}
	return f
}

// Add implements Scheduler.Add: a fresh card in the model's "new" state,
// available immediately.
func (f *FSRS) Add(subject *domain.Subject) (*domain.Assignment, error) {
	if subject == nil {
		return nil, ErrNilSubject
	}

	now := f.now()
	assignment, err := domain.NewAssignment(subject.ID, now)
	if err != nil {
		return nil, err
	}
	assignment.StartedAt = now
	return assignment, nil
}

// Filter implements Scheduler.Filter: due when AvailableAt has been reached.
func (f *FSRS) Filter(subject *domain.Subject, assignment *domain.Assignment) bool {
	if assignment == nil {
		return true
	}
	if assignment.Completed() {
		return false
	}
	return !assignment.AvailableAt.After(f.now())
}

// FilterLearnable implements Scheduler.FilterLearnable.
func (f *FSRS) FilterLearnable(subject *domain.Subject, assignment *domain.Assignment, all AssignmentMap) bool {
	return f.Filter(subject, assignment) && (assignment == nil || !assignment.Started())
}

// FilterQuizzable implements Scheduler.FilterQuizzable.
func (f *FSRS) FilterQuizzable(subject *domain.Subject, assignment *domain.Assignment, all AssignmentMap) bool {
	return f.Filter(subject, assignment) && assignment != nil && assignment.Started()
}

// Compare implements Scheduler.Compare: ascending by due date, random within
// the same calendar day.
func (f *FSRS) Compare(x, y Pair) int {
	var dx, dy time.Time
	if x.Assignment != nil {
		dx = x.Assignment.AvailableAt
	}
	if y.Assignment != nil {
		dy = y.Assignment.AvailableAt
	}
	return compareByDay(dx, dy)
}

// Update implements Scheduler.Update. Rating 1 (Again) resets the repetition
// counter; all other ratings increment it. The interval comes from the
// memory model when it produces a usable candidate, and from the fallback
// table otherwise.
func (f *FSRS) Update(rating fsrs.Rating, subject *domain.Subject, assignment *domain.Assignment) (*domain.Assignment, error) {
	if subject == nil {
		return nil, ErrNilSubject
	}
	if assignment == nil {
		return nil, ErrNilAssignment
	}

	if rating < fsrs.Again {
		rating = fsrs.Again
	}
	if rating > fsrs.Easy {
		rating = fsrs.Easy
	}

	now := f.now()
	next := assignment.Clone()

	candidate, err := f.schedule(assignment, rating, now)
	if err != nil {
		next.Interval = fallbackInterval(rating, assignment.Interval)
	} else {
		next.Stability = candidate.Stability
		next.Difficulty = candidate.Difficulty
		next.Interval = int(candidate.ScheduledDays)
	}

	if rating == fsrs.Again {
		next.Repetition = 0
	} else {
		next.Repetition = assignment.Repetition + 1
	}

	next.LastStudiedAt = now
	next.AvailableAt = now.AddDate(0, 0, next.Interval)
	next.UpdatedAt = now
	return next, nil
}

// schedule asks the memory model for the candidate card at the given rating.
// Panics from the model are recovered and surfaced as ErrMemoryModel, and
// the candidate is validated before use.
func (f *FSRS) schedule(assignment *domain.Assignment, rating fsrs.Rating, now time.Time) (card fsrs.Card, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrMemoryModel, r)
		}
	}()

	candidates := f.model.Repeat(cardFromAssignment(assignment, now), now)
	info, ok := candidates[rating]
	if !ok {
		return fsrs.Card{}, fmt.Errorf("%w: no candidate for rating %d", ErrMemoryModel, rating)
	}

	card = info.Card
	if math.IsNaN(card.Stability) || math.IsInf(card.Stability, 0) ||
		math.IsNaN(card.Difficulty) || math.IsInf(card.Difficulty, 0) {
		return fsrs.Card{}, fmt.Errorf("%w: non-finite stability or difficulty", ErrMemoryModel)
	}
	return card, nil
}

// cardFromAssignment translates an Assignment into the model's card shape.
// The model's state is derived: never studied is New, a reset repetition
// counter means the card lapsed and is Relearning, anything else is Review.
func cardFromAssignment(assignment *domain.Assignment, now time.Time) fsrs.Card {
	card := fsrs.NewCard()
	card.Stability = assignment.Stability
	card.Difficulty = assignment.Difficulty
	card.ScheduledDays = uint64(assignment.Interval)
	card.Reps = uint64(assignment.Repetition)
	card.Due = assignment.AvailableAt
	card.LastReview = assignment.LastStudiedAt

	switch {
	case assignment.LastStudiedAt.IsZero():
		card.State = fsrs.New
	case assignment.Repetition == 0:
		card.State = fsrs.Relearning
	default:
		card.State = fsrs.Review
	}

	if !assignment.LastStudiedAt.IsZero() {
		elapsed := now.Sub(assignment.LastStudiedAt)
		if elapsed > 0 {
			card.ElapsedDays = uint64(elapsed.Hours() / 24)
		}
	}
	return card
}

// fallbackInterval is the deterministic degraded-mode schedule used when the
// memory model fails: Again 1 day, Hard 3, Good 7, Easy scales the previous
// interval by 2.5.
func fallbackInterval(rating fsrs.Rating, prevInterval int) int {
	switch rating {
	case fsrs.Again:
		return fallbackAgainInterval
	case fsrs.Hard:
		return fallbackHardInterval
	case fsrs.Good:
		return fallbackGoodInterval
	default:
		scaled := int(math.Round(float64(prevInterval) * fallbackEasyFactor))
		if scaled < 1 {
			scaled = 1
		}
		return scaled
	}
}
