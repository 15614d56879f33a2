package domain

// SubjectData is the scheduler-facing payload attached to a Subject. Only the
// fields relevant to the active scheduler are meaningful: Level and Position
// drive the progress decorator, RequiredSubjects drives prerequisite gating,
// and AlgorithmID selects a table for the static-interval scheduler.
type SubjectData struct {
	Level            int      `json:"level"`
	Position         int      `json:"position"`
	RequiredSubjects []string `json:"required_subjects,omitempty"`
	AlgorithmID      string   `json:"algorithm_id,omitempty"`
}

// Subject is an immutable unit of teaching content. LearnCards and QuizCards
// name the facets shown during learning and quizzing respectively; a subject
// may expose several facets (e.g. "meaning" and "reading"). Subjects are
// created once from static content and never mutated by the engine.
type Subject struct {
	ID         string      `json:"id"`
	LearnCards []string    `json:"learn_cards"`
	QuizCards  []string    `json:"quiz_cards"`
	Data       SubjectData `json:"data"`
}

// NewSubject creates a Subject with the given ID, card facets, and payload.
// Returns an error if validation fails.
func NewSubject(id string, learnCards, quizCards []string, data SubjectData) (*Subject, error) {
	subject := &Subject{
		ID:         id,
		LearnCards: learnCards,
		QuizCards:  quizCards,
		Data:       data,
	}

	if err := subject.Validate(); err != nil {
		return nil, err
	}

	return subject, nil
}

// Validate checks if the Subject has valid data.
// Returns an error if any field fails validation.
func (s *Subject) Validate() error {
	if s.ID == "" {
		return ErrEmptySubjectID
	}

	if len(s.LearnCards) == 0 && len(s.QuizCards) == 0 {
		return ErrNoCards
	}

	return nil
}

// Cards returns the facet names relevant to the given phase of study.
func (s *Subject) Cards(learning bool) []string {
	if learning {
		return s.LearnCards
	}
	return s.QuizCards
}
