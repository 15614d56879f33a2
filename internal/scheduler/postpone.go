package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/flashdeck/flashdeck/internal/domain"
)

// ErrInvalidPostpone is returned when a postpone request is not a positive
// number of days.
var ErrInvalidPostpone = errors.New("postpone days must be positive")

// Postpone pushes an assignment's next due date out by the given number of
// days without touching its memory state (ease factor, repetition count,
// stability). It serves the due-date schedulers: the interval grows so
// interval-derived due dates move too, and AvailableAt is rebased to now
// first so an already-overdue card is postponed from today, not from the
// past.
func Postpone(assignment *domain.Assignment, days int, now func() time.Time) (*domain.Assignment, error) {
	if assignment == nil {
		return nil, ErrNilAssignment
	}
	if days <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPostpone, days)
	}

	at := defaultClock()
	if now != nil {
		at = now()
	}

	next := assignment.Clone()
	next.Interval = assignment.Interval + days
	base := assignment.AvailableAt
	if base.Before(at) {
		base = at
	}
	next.AvailableAt = base.AddDate(0, 0, days)
	next.UpdatedAt = at
	return next, nil
}
