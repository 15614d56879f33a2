package domain

import "errors"

// Common domain errors used across the engine.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptySubjectID is returned when a subject ID is empty.
	ErrEmptySubjectID = errors.New("subject ID cannot be empty")

	// ErrNoCards is returned when a subject exposes no learn or quiz cards.
	ErrNoCards = errors.New("subject must expose at least one card facet")

	// ErrEmptyAssignmentSubjectID is returned when an assignment has no subject ID.
	ErrEmptyAssignmentSubjectID = errors.New("assignment subject ID cannot be empty")

	// ErrInvalidInterval is returned when an interval is negative.
	ErrInvalidInterval = errors.New("interval must be greater than or equal to 0")

	// ErrInvalidRepetition is returned when a repetition count is negative.
	ErrInvalidRepetition = errors.New("repetition must be greater than or equal to 0")

	// ErrInvalidEFactor is returned when an ease factor is negative.
	ErrInvalidEFactor = errors.New("efactor must be greater than or equal to 0")
)
