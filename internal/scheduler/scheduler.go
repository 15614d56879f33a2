package scheduler

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"github.com/flashdeck/flashdeck/internal/domain"
)

// Common scheduler errors.
var (
	// ErrNotImplemented is returned by contract methods a scheduler does not
	// support. It is raised at call time, not at construction, so partially
	// implemented schedulers remain usable for the methods they do support.
	ErrNotImplemented = errors.New("scheduler operation not implemented")

	// ErrNilSubject is returned when a subject is nil.
	ErrNilSubject = errors.New("subject cannot be nil")

	// ErrNilAssignment is returned when an operation requires an existing assignment.
	ErrNilAssignment = errors.New("assignment cannot be nil")

	// ErrInvalidQuality is returned when a grade is outside the scheduler's scale.
	ErrInvalidQuality = errors.New("invalid quality for this scheduler")
)

// Pair couples a subject with its assignment (nil when never studied) for
// eligibility checks and ordering.
type Pair struct {
	Subject    *domain.Subject
	Assignment *domain.Assignment
}

// AssignmentMap indexes assignments by subject ID. A deck holds 0 or 1
// assignment per subject.
type AssignmentMap map[string]*domain.Assignment

// Scheduler is the algorithm contract. Q is the grading scale the algorithm
// accepts: bool for Basic and Static, 0-5 for SM2, fsrs.Rating for the
// FSRS-backed scheduler.
type Scheduler[Q any] interface {
	// Add initializes an assignment with algorithm-specific defaults on first
	// exposure. It must not require an existing assignment.
	Add(subject *domain.Subject) (*domain.Assignment, error)

	// Filter reports whether the card is currently eligible: not completed
	// and due now. A nil assignment means the subject was never studied and
	// is eligible by default.
	Filter(subject *domain.Subject, assignment *domain.Assignment) bool

	// FilterLearnable refines Filter to subjects that were never started.
	// Implementations may additionally consult all assignments for
	// prerequisite checks; a nil map skips those checks.
	FilterLearnable(subject *domain.Subject, assignment *domain.Assignment, all AssignmentMap) bool

	// FilterQuizzable refines Filter to subjects that were already started.
	FilterQuizzable(subject *domain.Subject, assignment *domain.Assignment, all AssignmentMap) bool

	// Compare is a three-way priority comparator for display order. A zero
	// result marks a tie; ties are broken randomly by SortPairs unless the
	// scheduler documents otherwise.
	Compare(a, b Pair) int

	// Update applies a grade and returns a new assignment. The input
	// assignment is never mutated.
	Update(quality Q, subject *domain.Subject, assignment *domain.Assignment) (*domain.Assignment, error)
}

// Base provides the documented no-op contract: Add fails with
// ErrNotImplemented, filters are permissive, ordering is neutral, and Update
// is the identity. Concrete schedulers embed Base and override what they need.
type Base[Q any] struct{}

// Add implements Scheduler.Add. The base contract has no defaults to
// initialize, so it fails at call time.
func (Base[Q]) Add(subject *domain.Subject) (*domain.Assignment, error) {
	return nil, ErrNotImplemented
}

// Filter implements Scheduler.Filter with a permissive default.
func (Base[Q]) Filter(subject *domain.Subject, assignment *domain.Assignment) bool {
	return true
}

// FilterLearnable implements Scheduler.FilterLearnable: never started.
func (Base[Q]) FilterLearnable(subject *domain.Subject, assignment *domain.Assignment, all AssignmentMap) bool {
	return assignment == nil || !assignment.Started()
}

// FilterQuizzable implements Scheduler.FilterQuizzable: already started.
func (Base[Q]) FilterQuizzable(subject *domain.Subject, assignment *domain.Assignment, all AssignmentMap) bool {
	return assignment != nil && assignment.Started()
}

// Compare implements Scheduler.Compare with a neutral ordering.
func (Base[Q]) Compare(a, b Pair) int {
	return 0
}

// Update implements Scheduler.Update as the identity.
func (Base[Q]) Update(quality Q, subject *domain.Subject, assignment *domain.Assignment) (*domain.Assignment, error) {
	return assignment, nil
}

// SortPairs orders pairs by the scheduler's comparator. The slice is shuffled
// first so that entries comparing equal end up in random order under the
// subsequent stable sort.
func SortPairs[Q any](s Scheduler[Q], pairs []Pair, rng *rand.Rand) {
	rng.Shuffle(len(pairs), func(i, j int) {
		pairs[i], pairs[j] = pairs[j], pairs[i]
	})
	sort.SliceStable(pairs, func(i, j int) bool {
		return s.Compare(pairs[i], pairs[j]) < 0
	})
}

// defaultClock is the production clock. Schedulers operate in UTC.
func defaultClock() time.Time {
	return time.Now().UTC()
}

// sameDay reports whether two instants fall on the same calendar day in UTC.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// compareByDay compares two due dates at calendar-day resolution so that
// cards due the same day tie (and are then ordered randomly). Zero times sort
// first: a card that was never scheduled is due immediately.
func compareByDay(a, b time.Time) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return -1
	case b.IsZero():
		return 1
	}
	if sameDay(a, b) {
		return 0
	}
	if a.Before(b) {
		return -1
	}
	return 1
}
