package scheduler

import (
	"math"
	"testing"
	"time"

	"github.com/open-spaced-repetition/go-fsrs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubModel returns canned candidates, or misbehaves on demand.
type stubModel struct {
	candidates map[fsrs.Rating]fsrs.SchedulingInfo
	panicMsg   string
	lastCard   fsrs.Card
}

func (m *stubModel) Repeat(card fsrs.Card, now time.Time) map[fsrs.Rating]fsrs.SchedulingInfo {
	m.lastCard = card
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	return m.candidates
}

func candidateFor(rating fsrs.Rating, stability, difficulty float64, days uint64) map[fsrs.Rating]fsrs.SchedulingInfo {
	return map[fsrs.Rating]fsrs.SchedulingInfo{
		rating: {Card: fsrs.Card{
			Stability:     stability,
			Difficulty:    difficulty,
			ScheduledDays: days,
		}},
	}
}

func TestFSRSUpdateAppliesModelCandidate(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	model := &stubModel{candidates: candidateFor(fsrs.Good, 12.5, 4.2, 9)}
	f := NewFSRS(&FSRSParams{Model: model, Now: fixedClock(now)})
	subject := testSubject(t, "kanji-river")

	assignment, err := f.Add(subject)
	require.NoError(t, err)

	updated, err := f.Update(fsrs.Good, subject, assignment)
	require.NoError(t, err)

	assert.InDelta(t, 12.5, updated.Stability, 1e-9)
	assert.InDelta(t, 4.2, updated.Difficulty, 1e-9)
	assert.Equal(t, 9, updated.Interval)
	assert.Equal(t, 1, updated.Repetition)
	assert.Equal(t, now.AddDate(0, 0, 9), updated.AvailableAt)
}

func TestFSRSAgainResetsRepetition(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	model := &stubModel{candidates: candidateFor(fsrs.Again, 1.0, 6.0, 1)}
	f := NewFSRS(&FSRSParams{Model: model, Now: fixedClock(now)})
	subject := testSubject(t, "kanji-river")

	assignment, err := f.Add(subject)
	require.NoError(t, err)
	assignment.Repetition = 4

	updated, err := f.Update(fsrs.Again, subject, assignment)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Repetition)
}

func TestFSRSRatingClamp(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	model := &stubModel{candidates: candidateFor(fsrs.Easy, 20, 3, 15)}
	f := NewFSRS(&FSRSParams{Model: model, Now: fixedClock(now)})
	subject := testSubject(t, "kanji-river")

	assignment, err := f.Add(subject)
	require.NoError(t, err)

	// Rating 9 clamps to Easy and still increments the counter.
	updated, err := f.Update(fsrs.Rating(9), subject, assignment)
	require.NoError(t, err)
	assert.Equal(t, 15, updated.Interval)
	assert.Equal(t, 1, updated.Repetition)
}

func TestFSRSFallbackOnModelFailure(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	subject := testSubject(t, "kanji-river")

	testCases := []struct {
		name     string
		model    *stubModel
		rating   fsrs.Rating
		prev     int
		expected int
	}{
		{
			name:     "panicking model, again",
			model:    &stubModel{panicMsg: "weights exploded"},
			rating:   fsrs.Again,
			prev:     10,
			expected: 1,
		},
		{
			name:     "panicking model, hard",
			model:    &stubModel{panicMsg: "weights exploded"},
			rating:   fsrs.Hard,
			prev:     10,
			expected: 3,
		},
		{
			name:     "missing rating, good",
			model:    &stubModel{candidates: map[fsrs.Rating]fsrs.SchedulingInfo{}},
			rating:   fsrs.Good,
			prev:     10,
			expected: 7,
		},
		{
			name:     "non-finite output, easy scales previous interval",
			model:    &stubModel{candidates: candidateFor(fsrs.Easy, math.NaN(), 3, 15)},
			rating:   fsrs.Easy,
			prev:     10,
			expected: 25, // round(10 * 2.5)
		},
		{
			name:     "easy fallback never schedules below a day",
			model:    &stubModel{panicMsg: "weights exploded"},
			rating:   fsrs.Easy,
			prev:     0,
			expected: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := NewFSRS(&FSRSParams{Model: tc.model, Now: fixedClock(now)})
			assignment, err := f.Add(subject)
			require.NoError(t, err)
			assignment.Interval = tc.prev

			// Grading must always succeed, whatever the model does.
			updated, err := f.Update(tc.rating, subject, assignment)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, updated.Interval)
		})
	}
}

func TestFSRSCardTranslation(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	model := &stubModel{candidates: candidateFor(fsrs.Good, 5, 5, 5)}
	f := NewFSRS(&FSRSParams{Model: model, Now: fixedClock(now)})
	subject := testSubject(t, "kanji-river")

	assignment, err := f.Add(subject)
	require.NoError(t, err)
	assignment.Stability = 3.5
	assignment.Difficulty = 6.1
	assignment.Interval = 4
	assignment.Repetition = 2
	assignment.LastStudiedAt = now.AddDate(0, 0, -4)

	_, err = f.Update(fsrs.Good, subject, assignment)
	require.NoError(t, err)

	card := model.lastCard
	assert.InDelta(t, 3.5, card.Stability, 1e-9)
	assert.InDelta(t, 6.1, card.Difficulty, 1e-9)
	assert.Equal(t, uint64(4), card.ScheduledDays)
	assert.Equal(t, uint64(2), card.Reps)
	assert.Equal(t, uint64(4), card.ElapsedDays)
	assert.Equal(t, fsrs.Review, card.State)
}
