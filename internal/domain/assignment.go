package domain

import (
	"time"
)

// Assignment tracks a user's long-term memory state for a single subject.
// Fields are a superset used across scheduling algorithms; only the fields
// relevant to the active algorithm carry meaning (e.g. EFactor for SM-2,
// Stability/Difficulty for FSRS, EFactor-as-stage for static intervals).
//
// Assignments follow the immutable update pattern: schedulers never modify an
// Assignment in place, they return a new instance. The zero time.Time value
// means "not yet" for every *At field. PassedAt and CompletedAt are set once
// and never reverted by normal grading; only MarkedCompleted is a reversible
// user override.
type Assignment struct {
	SubjectID       string    `json:"subject_id"`
	MarkedCompleted bool      `json:"marked_completed"`
	EFactor         float64   `json:"efactor"`    // SM-2 ease factor, or stage index for static intervals
	Stability       float64   `json:"stability"`  // FSRS memory stability
	Difficulty      float64   `json:"difficulty"` // FSRS item difficulty
	Interval        int       `json:"interval"`   // Current interval in days
	Repetition      int       `json:"repetition"` // Consecutive successful reviews
	LastStudiedAt   time.Time `json:"last_studied_at"`
	AvailableAt     time.Time `json:"available_at"` // When the card is next due
	UnlockedAt      time.Time `json:"unlocked_at"`
	StartedAt       time.Time `json:"started_at"` // First exposure
	PassedAt        time.Time `json:"passed_at"`  // Once set, dependents may unlock
	CompletedAt     time.Time `json:"completed_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewAssignment creates an Assignment with neutral defaults: immediately
// available, never studied. Schedulers layer their own defaults on top.
func NewAssignment(subjectID string, now time.Time) (*Assignment, error) {
	assignment := &Assignment{
		SubjectID:   subjectID,
		AvailableAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := assignment.Validate(); err != nil {
		return nil, err
	}

	return assignment, nil
}

// Validate checks if the Assignment has valid data.
// Returns an error if any field fails validation.
func (a *Assignment) Validate() error {
	if a.SubjectID == "" {
		return ErrEmptyAssignmentSubjectID
	}

	if a.Interval < 0 {
		return ErrInvalidInterval
	}

	if a.Repetition < 0 {
		return ErrInvalidRepetition
	}

	if a.EFactor < 0 {
		return ErrInvalidEFactor
	}

	return nil
}

// Clone returns a field-for-field copy. Schedulers start every update from a
// clone so the caller's Assignment is never mutated.
func (a *Assignment) Clone() *Assignment {
	copied := *a
	return &copied
}

// Started reports whether the subject has had its first exposure.
func (a *Assignment) Started() bool {
	return !a.StartedAt.IsZero()
}

// Passed reports whether the subject has reached its pass threshold.
func (a *Assignment) Passed() bool {
	return !a.PassedAt.IsZero()
}

// Completed reports whether the subject should stop being shown, either by
// crossing its completion threshold or by user override.
func (a *Assignment) Completed() bool {
	return a.MarkedCompleted || !a.CompletedAt.IsZero()
}

// MarkCompleted returns a copy with the reversible user override set.
func (a *Assignment) MarkCompleted(now time.Time) *Assignment {
	next := a.Clone()
	next.MarkedCompleted = true
	next.UpdatedAt = now
	return next
}

// ResumeStudy returns a copy with the user override cleared. CompletedAt, if
// it was ever set by threshold promotion, is left untouched.
func (a *Assignment) ResumeStudy(now time.Time) *Assignment {
	next := a.Clone()
	next.MarkedCompleted = false
	next.UpdatedAt = now
	return next
}
