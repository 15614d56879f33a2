// Package progress composes level gating, prerequisite gating, and threshold
// promotion over any scheduler without modifying it. The tracker is an
// explicit decorator: it holds the wrapped scheduler and delegates every
// contract method, overriding only eligibility and ordering, so arbitrary
// combinations (FSRS plus progress, static intervals plus progress) compose
// without a class hierarchy.
package progress

import (
	"time"

	"github.com/flashdeck/flashdeck/internal/domain"
	"github.com/flashdeck/flashdeck/internal/scheduler"
)

// Extractor reads the wrapped algorithm's progress signal from an
// assignment: the repetition count for SM2 or FSRS, the EFactor-held stage
// index for static intervals. Modeling this as a function value keeps the
// gating layer algorithm-agnostic.
type Extractor func(*domain.Assignment) float64

// RepetitionCount extracts the consecutive-success counter.
func RepetitionCount(a *domain.Assignment) float64 {
	return float64(a.Repetition)
}

// StageIndex extracts the stage the static-interval scheduler keeps in
// EFactor.
func StageIndex(a *domain.Assignment) float64 {
	return a.EFactor
}

// Thresholds are the progress values at which an assignment's lifecycle
// timestamps get set. Each is set once; crossing a threshold again later has
// no effect.
type Thresholds struct {
	UnlocksAt   float64
	StartsAt    float64
	PassesAt    float64
	CompletesAt float64
}

// DefaultThresholds unlocks immediately, starts on the first success, passes
// at four, and completes at nine.
func DefaultThresholds() Thresholds {
	return Thresholds{UnlocksAt: 0, StartsAt: 1, PassesAt: 4, CompletesAt: 9}
}

// Params configures a Tracker.
type Params struct {
	// UserLevel gates out subjects whose data level exceeds it.
	UserLevel int

	// Extract reads the progress signal. Defaults to RepetitionCount.
	Extract Extractor

	// Thresholds for timestamp promotion. Defaults to DefaultThresholds.
	Thresholds *Thresholds

	// Now supplies the current time. Defaults to time.Now in UTC.
	Now func() time.Time
}

// Verify interface compliance at compile time
var _ scheduler.Scheduler[int] = (*Tracker[int])(nil)

// Tracker wraps a scheduler with level gating, prerequisite gating, and
// threshold promotion.
//
// Prerequisite checks are fail-open: when FilterLearnable is called with a
// nil assignment map there is no prerequisite data to consult and the check
// is skipped. Callers that need strict unlock correctness must always pass
// the full map.
type Tracker[Q any] struct {
	inner      scheduler.Scheduler[Q]
	userLevel  int
	extract    Extractor
	thresholds Thresholds
	now        func() time.Time
}

// New wraps the given scheduler. Panics if inner is nil; a nil params uses
// defaults.
func New[Q any](inner scheduler.Scheduler[Q], params *Params) *Tracker[Q] {
	if inner == nil {
		panic("inner scheduler cannot be nil")
	}

	t := &Tracker[Q]{
		inner:      inner,
		extract:    RepetitionCount,
		thresholds: DefaultThresholds(),
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	if params != nil {
		t.userLevel = params.UserLevel
		if params.Extract != nil {
			t.extract = params.Extract
		}
		if params.Thresholds != nil {
			t.thresholds = *params.Thresholds
		}
		if params.Now != nil {
			t.now = params.Now
		}
	}
	return t
}

// SetUserLevel moves the gate as the user levels up.
func (t *Tracker[Q]) SetUserLevel(level int) {
	t.userLevel = level
}

// Add delegates to the wrapped scheduler, then applies threshold promotion
// so thresholds at zero take effect immediately.
func (t *Tracker[Q]) Add(subject *domain.Subject) (*domain.Assignment, error) {
	assignment, err := t.inner.Add(subject)
	if err != nil {
		return nil, err
	}
	return t.promote(assignment), nil
}

// Filter excludes subjects above the user's level, then delegates.
func (t *Tracker[Q]) Filter(subject *domain.Subject, assignment *domain.Assignment) bool {
	if subject.Data.Level > t.userLevel {
		return false
	}
	return t.inner.Filter(subject, assignment)
}

// FilterLearnable additionally requires every prerequisite subject to have
// passed. With a nil assignment map the prerequisite check is skipped
// (fail-open).
func (t *Tracker[Q]) FilterLearnable(subject *domain.Subject, assignment *domain.Assignment, all scheduler.AssignmentMap) bool {
	if subject.Data.Level > t.userLevel {
		return false
	}
	if all != nil {
		for _, required := range subject.Data.RequiredSubjects {
			prerequisite, ok := all[required]
			if !ok || !prerequisite.Passed() {
				return false
			}
		}
	}
	return t.inner.FilterLearnable(subject, assignment, all)
}

// FilterQuizzable excludes subjects above the user's level, then delegates.
func (t *Tracker[Q]) FilterQuizzable(subject *domain.Subject, assignment *domain.Assignment, all scheduler.AssignmentMap) bool {
	if subject.Data.Level > t.userLevel {
		return false
	}
	return t.inner.FilterQuizzable(subject, assignment, all)
}

// Compare orders by level first, then by position within the level, and only
// falls through to the wrapped scheduler's own ordering when both are equal.
func (t *Tracker[Q]) Compare(x, y scheduler.Pair) int {
	switch {
	case x.Subject.Data.Level < y.Subject.Data.Level:
		return -1
	case x.Subject.Data.Level > y.Subject.Data.Level:
		return 1
	}
	switch {
	case x.Subject.Data.Position < y.Subject.Data.Position:
		return -1
	case x.Subject.Data.Position > y.Subject.Data.Position:
		return 1
	}
	return t.inner.Compare(x, y)
}

// Update delegates the grading, then promotes lifecycle timestamps the new
// progress value has crossed.
func (t *Tracker[Q]) Update(quality Q, subject *domain.Subject, assignment *domain.Assignment) (*domain.Assignment, error) {
	updated, err := t.inner.Update(quality, subject, assignment)
	if err != nil {
		return nil, err
	}
	return t.promote(updated), nil
}

// promote sets each lifecycle timestamp at most once when the progress
// signal crosses its threshold. PassedAt and CompletedAt are never cleared
// here, whatever the signal later does.
func (t *Tracker[Q]) promote(assignment *domain.Assignment) *domain.Assignment {
	value := t.extract(assignment)
	now := t.now()
	next := assignment.Clone()

	if value >= t.thresholds.UnlocksAt && next.UnlockedAt.IsZero() {
		next.UnlockedAt = now
	}
	if value >= t.thresholds.StartsAt && next.StartedAt.IsZero() {
		next.StartedAt = now
	}
	if value >= t.thresholds.PassesAt && next.PassedAt.IsZero() {
		next.PassedAt = now
	}
	if value >= t.thresholds.CompletesAt && next.CompletedAt.IsZero() {
		next.CompletedAt = now
	}
	return next
}
