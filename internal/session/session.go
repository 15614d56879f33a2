package session

import (
	"errors"

	"github.com/flashdeck/flashdeck/internal/domain"
)

// Common session errors.
var (
	// ErrNoEligibleCards is returned by StartSession when the filters,
	// daily caps, and session size leave nothing to study.
	ErrNoEligibleCards = errors.New("no cards eligible for a session")

	// ErrUnreachableState signals a grading branch with no matching case.
	// It marks a scheduler or engine bug, not a user error.
	ErrUnreachableState = errors.New("unreachable grading state")

	// ErrUnknownSubject is returned when a queue entry references a subject
	// the engine was never given.
	ErrUnknownSubject = errors.New("unknown subject")
)

// Mode selects which card facets a session draws from.
type Mode int

// Session modes.
const (
	ModeLearn Mode = iota
	ModeQuiz
)

// String returns the mode name for logging.
func (m Mode) String() string {
	switch m {
	case ModeLearn:
		return "learn"
	case ModeQuiz:
		return "quiz"
	default:
		return "unknown"
	}
}

// Status is the session lifecycle state.
type Status int

// Session statuses. Completed is terminal until a new StartSession call.
const (
	StatusInactive Status = iota
	StatusActive
	StatusCompleted
)

// String returns the status name for logging and notifications.
func (s Status) String() string {
	switch s {
	case StatusInactive:
		return "inactive"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// CardState tracks the two-phase grading of the current card: Pending before
// grading, then Success or Failure awaiting resolution.
type CardState int

// Card states.
const (
	CardPending CardState = iota
	CardSuccess
	CardFailure
)

// SortMethod orders the card queue at session start.
type SortMethod int

// Queue orderings.
const (
	// SortPaired stable-sorts by subject ID so all facets of one subject
	// are adjacent.
	SortPaired SortMethod = iota

	// SortSequential groups by facet type: with an explicit facet order it
	// sorts by that order's index (unknown types last); without one it
	// keeps facet types in first-seen order and shuffles within each group.
	SortSequential

	// SortRandom fully shuffles the queue.
	SortRandom
)

// Entry is one pending card: a subject facet awaiting grading.
type Entry struct {
	SubjectID string
	Facet     string
	State     CardState
}

// CheckAnswer is the caller-supplied grader: it turns a raw answer into the
// scheduler's quality scale. Pure and synchronous.
type CheckAnswer[Q any] func(answer string, subject *domain.Subject) Q

// CheckComplete classifies a quality as success or failure. Pure and
// synchronous.
type CheckComplete[Q any] func(quality Q) bool

// Config holds session behavior settings.
type Config struct {
	// LearnLimit caps subjects first exposed per calendar day. Zero means
	// unlimited.
	LearnLimit int

	// ReviewLimit caps subjects quizzed per calendar day. Zero means
	// unlimited.
	ReviewLimit int

	// SessionSize caps subjects per session. Zero means unlimited.
	SessionSize int

	// SortMethod orders the card queue.
	SortMethod SortMethod

	// FacetOrder is the explicit facet-type order for SortSequential.
	FacetOrder []string

	// AllowRedos enables two-step grading: the first Submit grades the
	// card and stops, a second Submit confirms and advances.
	AllowRedos bool
}

// Summary is the session-scoped bookkeeping exposed to callers: distinct
// subjects that failed or succeeded at least once this session.
type Summary struct {
	Successes int
	Failures  int
}
