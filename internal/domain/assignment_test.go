package domain

import (
	"testing"
	"time"
)

func TestNewAssignment(t *testing.T) {
	t.Parallel() // Enable parallel execution
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	assignment, err := NewAssignment("vocab-mountain", now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if assignment.SubjectID != "vocab-mountain" {
		t.Errorf("Expected subject ID vocab-mountain, got %s", assignment.SubjectID)
	}

	if !assignment.AvailableAt.Equal(now) {
		t.Errorf("Expected assignment available immediately, got %v", assignment.AvailableAt)
	}

	if assignment.Started() {
		t.Error("Expected new assignment to be unstarted")
	}

	if assignment.Passed() || assignment.Completed() {
		t.Error("Expected new assignment to be neither passed nor completed")
	}

	// Test empty subject ID
	_, err = NewAssignment("", now)
	if err != ErrEmptyAssignmentSubjectID {
		t.Errorf("Expected error %v, got %v", ErrEmptyAssignmentSubjectID, err)
	}
}

func TestAssignmentValidate(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	testCases := []struct {
		name     string
		modify   func(*Assignment)
		expected error
	}{
		{
			name:     "valid assignment",
			modify:   func(a *Assignment) {},
			expected: nil,
		},
		{
			name:     "negative interval",
			modify:   func(a *Assignment) { a.Interval = -1 },
			expected: ErrInvalidInterval,
		},
		{
			name:     "negative repetition",
			modify:   func(a *Assignment) { a.Repetition = -1 },
			expected: ErrInvalidRepetition,
		},
		{
			name:     "negative efactor",
			modify:   func(a *Assignment) { a.EFactor = -0.5 },
			expected: ErrInvalidEFactor,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assignment, err := NewAssignment("subject-a", now)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			tc.modify(assignment)

			if err := assignment.Validate(); err != tc.expected {
				t.Errorf("Expected error %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestAssignmentClone(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	original, err := NewAssignment("subject-a", now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	original.EFactor = 2.5
	original.Repetition = 2

	clone := original.Clone()
	clone.Repetition = 5
	clone.EFactor = 1.3

	if original.Repetition != 2 {
		t.Errorf("Expected original repetition unchanged, got %d", original.Repetition)
	}
	if original.EFactor != 2.5 {
		t.Errorf("Expected original efactor unchanged, got %f", original.EFactor)
	}
}

func TestMarkCompletedIsReversible(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	assignment, err := NewAssignment("subject-a", now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	marked := assignment.MarkCompleted(now)
	if !marked.Completed() {
		t.Error("Expected marked assignment to report completed")
	}
	if assignment.Completed() {
		t.Error("Expected original assignment to be unaffected")
	}

	resumed := marked.ResumeStudy(now)
	if resumed.Completed() {
		t.Error("Expected resumed assignment to report not completed")
	}
}
