package scheduler

import (
	"errors"
	"testing"
	"time"
)

func TestPostponeFutureDueDate(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	s := NewSM2(&SM2Params{Now: fixedClock(now)})
	subject := testSubject(t, "kanji-water")

	assignment, err := s.Add(subject)
	if err != nil {
		t.Fatal(err)
	}
	graded, err := s.Update(5, subject, assignment)
	if err != nil {
		t.Fatal(err)
	}

	postponed, err := Postpone(graded, 3, fixedClock(now))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := postponed.Interval, graded.Interval+3; got != want {
		t.Errorf("Interval = %d, want %d", got, want)
	}
	if got, want := postponed.AvailableAt, graded.AvailableAt.AddDate(0, 0, 3); !got.Equal(want) {
		t.Errorf("AvailableAt = %v, want %v", got, want)
	}
	if postponed.EFactor != graded.EFactor || postponed.Repetition != graded.Repetition {
		t.Error("postpone must not touch memory state")
	}
}

func TestPostponeOverdueRebasesToNow(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	s := NewSM2(&SM2Params{Now: fixedClock(now.AddDate(0, 0, -10))})
	subject := testSubject(t, "kanji-water")

	assignment, err := s.Add(subject)
	if err != nil {
		t.Fatal(err)
	}
	graded, err := s.Update(5, subject, assignment)
	if err != nil {
		t.Fatal(err)
	}

	// Due nine days ago; postponing by two lands two days from now, not
	// seven days in the past.
	postponed, err := Postpone(graded, 2, fixedClock(now))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := postponed.AvailableAt, now.AddDate(0, 0, 2); !got.Equal(want) {
		t.Errorf("AvailableAt = %v, want %v", got, want)
	}
}

func TestPostponeRejectsBadInput(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	if _, err := Postpone(nil, 1, fixedClock(now)); !errors.Is(err, ErrNilAssignment) {
		t.Errorf("nil assignment: got %v, want ErrNilAssignment", err)
	}

	s := NewSM2(&SM2Params{Now: fixedClock(now)})
	assignment, err := s.Add(testSubject(t, "kanji-water"))
	if err != nil {
		t.Fatal(err)
	}
	for _, days := range []int{0, -1} {
		if _, err := Postpone(assignment, days, fixedClock(now)); !errors.Is(err, ErrInvalidPostpone) {
			t.Errorf("days=%d: got %v, want ErrInvalidPostpone", days, err)
		}
	}
}
