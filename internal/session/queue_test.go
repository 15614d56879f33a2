package session

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashdeck/flashdeck/internal/domain"
	"github.com/flashdeck/flashdeck/internal/scheduler"
)

func multiFacetDeck(t *testing.T) []*domain.Subject {
	t.Helper()
	var subjects []*domain.Subject
	for _, id := range []string{"kanji-river", "kanji-tree", "vocab-mountain"} {
		subject, err := domain.NewSubject(id, []string{"front"}, []string{"front", "back"}, domain.SubjectData{})
		require.NoError(t, err)
		subjects = append(subjects, subject)
	}
	return subjects
}

func startedAssignments(t *testing.T, now time.Time, subjects []*domain.Subject) scheduler.AssignmentMap {
	t.Helper()
	basic := scheduler.NewBasic(&scheduler.BasicParams{Now: func() time.Time { return now }})
	assignments := make(scheduler.AssignmentMap)
	for _, subject := range subjects {
		assignment, err := basic.Add(subject)
		require.NoError(t, err)
		assignment.StartedAt = now.AddDate(0, 0, -1)
		assignments[subject.ID] = assignment
	}
	return assignments
}

func queueSnapshot(e *Engine[bool]) []Entry {
	var entries []Entry
	if e.current != nil {
		entries = append(entries, *e.current)
	}
	for _, entry := range e.queue {
		entries = append(entries, *entry)
	}
	return entries
}

func newSortEngine(t *testing.T, cfg Config, seed int64) *Engine[bool] {
	t.Helper()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	subjects := multiFacetDeck(t)
	return NewEngine(Params[bool]{
		Scheduler:     scheduler.NewBasic(&scheduler.BasicParams{CompletionThreshold: 100, Now: func() time.Time { return now }}),
		Subjects:      subjects,
		Assignments:   startedAssignments(t, now, subjects),
		CheckAnswer:   func(string, *domain.Subject) bool { return true },
		CheckComplete: func(q bool) bool { return q },
		Config:        cfg,
		Now:           func() time.Time { return now },
		Rand:          rand.New(rand.NewSource(seed)),
	})
}

func TestPairedSortKeepsFacetsAdjacent(t *testing.T) {
	t.Parallel()
	for seed := int64(0); seed < 20; seed++ {
		engine := newSortEngine(t, Config{SortMethod: SortPaired}, seed)
		require.NoError(t, engine.StartSession(ModeQuiz))

		entries := queueSnapshot(engine)
		require.Len(t, entries, 6)

		seen := make(map[string]bool)
		last := ""
		for _, entry := range entries {
			if entry.SubjectID != last {
				require.False(t, seen[entry.SubjectID],
					"seed %d: subject %q split apart in %v", seed, entry.SubjectID, entries)
				seen[entry.SubjectID] = true
				last = entry.SubjectID
			}
		}
	}
}

func TestSequentialSortHonorsExplicitOrder(t *testing.T) {
	t.Parallel()
	// Across many randomized runs, a 'back' entry never precedes a 'front'
	// entry when the explicit order says front first.
	for seed := int64(0); seed < 50; seed++ {
		engine := newSortEngine(t, Config{
			SortMethod: SortSequential,
			FacetOrder: []string{"front", "back"},
		}, seed)
		require.NoError(t, engine.StartSession(ModeQuiz))

		entries := queueSnapshot(engine)
		sawBack := false
		for _, entry := range entries {
			if entry.Facet == "back" {
				sawBack = true
			}
			if entry.Facet == "front" {
				require.False(t, sawBack, "seed %d: back before front in %v", seed, entries)
			}
		}
	}
}

func TestSequentialSortUnknownFacetsLast(t *testing.T) {
	t.Parallel()
	engine := newSortEngine(t, Config{
		SortMethod: SortSequential,
		FacetOrder: []string{"back"},
	}, 7)
	require.NoError(t, engine.StartSession(ModeQuiz))

	entries := queueSnapshot(engine)
	for i, entry := range entries {
		if i < 3 {
			assert.Equal(t, "back", entry.Facet, "known facets sort first")
		} else {
			assert.Equal(t, "front", entry.Facet, "unknown facets sort last")
		}
	}
}

func TestSequentialSortWithoutOrderGroupsByType(t *testing.T) {
	t.Parallel()
	// Without an explicit order, facet types keep first-seen order: all
	// 'front' entries precede any 'back' entry, whatever the shuffle does
	// within each group.
	for seed := int64(0); seed < 50; seed++ {
		engine := newSortEngine(t, Config{SortMethod: SortSequential}, seed)
		require.NoError(t, engine.StartSession(ModeQuiz))

		entries := queueSnapshot(engine)
		require.Len(t, entries, 6)
		for i, entry := range entries {
			if i < 3 {
				require.Equal(t, "front", entry.Facet, "seed %d: %v", seed, entries)
			} else {
				require.Equal(t, "back", entry.Facet, "seed %d: %v", seed, entries)
			}
		}
	}
}

func TestRandomSortKeepsAllEntries(t *testing.T) {
	t.Parallel()
	engine := newSortEngine(t, Config{SortMethod: SortRandom}, 11)
	require.NoError(t, engine.StartSession(ModeQuiz))

	entries := queueSnapshot(engine)
	require.Len(t, entries, 6)

	counts := make(map[string]int)
	for _, entry := range entries {
		counts[entry.SubjectID]++
	}
	for id, n := range counts {
		assert.Equal(t, 2, n, "subject %q lost an entry in the shuffle", id)
	}
}
