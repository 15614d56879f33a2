package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck/internal/domain"
	"github.com/flashdeck/flashdeck/internal/events"
	"github.com/flashdeck/flashdeck/internal/scheduler"
)

// Params configures an Engine. Scheduler, CheckAnswer, and CheckComplete are
// required; everything else has a sensible default.
type Params[Q any] struct {
	Scheduler     scheduler.Scheduler[Q]
	Subjects      []*domain.Subject
	Assignments   scheduler.AssignmentMap
	CheckAnswer   CheckAnswer[Q]
	CheckComplete CheckComplete[Q]
	Config        Config

	// Emitter receives one state change per outermost batch. Optional.
	Emitter events.Emitter

	Logger *slog.Logger
	Now    func() time.Time
	Rand   *rand.Rand
}

// Engine runs one study session at a time over a deck of subjects. It is the
// only API application code calls: construct, StartSession, then Submit per
// answer. Single-writer; concurrent use is undefined.
type Engine[Q any] struct {
	id            uuid.UUID
	scheduler     scheduler.Scheduler[Q]
	order         []string
	subjects      map[string]*domain.Subject
	assignments   scheduler.AssignmentMap
	checkAnswer   CheckAnswer[Q]
	checkComplete CheckComplete[Q]
	cfg           Config
	emitter       events.Emitter
	logger        *slog.Logger
	now           func() time.Time
	rng           *rand.Rand

	status         Status
	mode           Mode
	current        *Entry
	queue          []*Entry
	currentQuality Q
	currFailures   map[string]struct{}
	currSuccesses  map[string]struct{}

	batchDepth int
	dirty      bool
}

// NewEngine creates a session engine. Panics on missing required
// dependencies; a partially wired engine is a programming error, not a
// runtime condition.
func NewEngine[Q any](params Params[Q]) *Engine[Q] {
	if params.Scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if params.CheckAnswer == nil {
		panic("checkAnswer cannot be nil")
	}
	if params.CheckComplete == nil {
		panic("checkComplete cannot be nil")
	}

	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	rng := params.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(now().UnixNano()))
	}
	assignments := params.Assignments
	if assignments == nil {
		assignments = make(scheduler.AssignmentMap)
	}

	e := &Engine[Q]{
		id:            uuid.New(),
		scheduler:     params.Scheduler,
		subjects:      make(map[string]*domain.Subject, len(params.Subjects)),
		assignments:   assignments,
		checkAnswer:   params.CheckAnswer,
		checkComplete: params.CheckComplete,
		cfg:           params.Config,
		emitter:       params.Emitter,
		logger:        logger.With(slog.String("component", "session_engine")),
		now:           now,
		rng:           rng,
		status:        StatusInactive,
		currFailures:  make(map[string]struct{}),
		currSuccesses: make(map[string]struct{}),
	}
	for _, subject := range params.Subjects {
		if _, seen := e.subjects[subject.ID]; seen {
			continue
		}
		e.order = append(e.order, subject.ID)
		e.subjects[subject.ID] = subject
	}
	return e
}

// Status returns the session lifecycle state.
func (e *Engine[Q]) Status() Status {
	return e.status
}

// Mode returns the mode of the current (or most recent) session.
func (e *Engine[Q]) Mode() Mode {
	return e.mode
}

// CurrentCard returns the card being shown, or ok=false between sessions.
func (e *Engine[Q]) CurrentCard() (subject *domain.Subject, facet string, ok bool) {
	if e.current == nil {
		return nil, "", false
	}
	return e.subjects[e.current.SubjectID], e.current.Facet, true
}

// QueueLength counts pending entries, the current card included.
func (e *Engine[Q]) QueueLength() int {
	n := len(e.queue)
	if e.current != nil {
		n++
	}
	return n
}

// Assignments exposes the engine's assignment map so callers can persist it.
// The engine owns the map for the lifetime of the session.
func (e *Engine[Q]) Assignments() scheduler.AssignmentMap {
	return e.assignments
}

// Summary reports distinct subjects graded so far this session.
func (e *Engine[Q]) Summary() Summary {
	return Summary{Successes: len(e.currSuccesses), Failures: len(e.currFailures)}
}

// Batch groups multiple mutations into one logical operation: observers
// receive a single post-state notification when the outermost batch ends.
// Nested batches coalesce into the outermost one.
func (e *Engine[Q]) Batch(fn func()) {
	e.batchDepth++
	defer func() {
		e.batchDepth--
		if e.batchDepth == 0 && e.dirty {
			e.dirty = false
			e.notify()
		}
	}()
	fn()
}

// StartSession recomputes the eligible subjects for the given mode, expands
// them into a card queue, and activates the session. Returns
// ErrNoEligibleCards (status stays Inactive) when nothing qualifies.
func (e *Engine[Q]) StartSession(mode Mode) error {
	var err error
	e.Batch(func() { err = e.start(mode) })
	return err
}

// Submit grades the current card with the caller's answer and advances the
// session. See the grading protocol on resolve for the branch semantics.
func (e *Engine[Q]) Submit(answer string) error {
	var err error
	e.Batch(func() { err = e.submit(answer) })
	return err
}

func (e *Engine[Q]) start(mode Mode) error {
	now := e.now()
	e.mode = mode
	e.current = nil
	e.queue = nil
	e.currFailures = make(map[string]struct{})
	e.currSuccesses = make(map[string]struct{})
	e.clearQuality()
	e.dirty = true

	eligible := e.eligiblePairs(mode)
	scheduler.SortPairs(e.scheduler, eligible, e.rng)

	if remaining, capped := e.dailyRemaining(mode, now); capped && len(eligible) > remaining {
		eligible = eligible[:remaining]
	}
	if e.cfg.SessionSize > 0 && len(eligible) > e.cfg.SessionSize {
		eligible = eligible[:e.cfg.SessionSize]
	}

	entries := expandEntries(eligible, mode)
	e.orderEntries(entries)

	if len(entries) == 0 {
		e.status = StatusInactive
		e.logger.Debug("session not started", slog.String("mode", mode.String()))
		return ErrNoEligibleCards
	}

	e.current = entries[0]
	e.queue = entries[1:]
	e.status = StatusActive
	e.logger.Debug("session started",
		slog.String("session_id", e.id.String()),
		slog.String("mode", mode.String()),
		slog.Int("queue_length", len(entries)))
	return nil
}

func (e *Engine[Q]) submit(answer string) error {
	// No current subject: grading is a no-op, except that an inactive
	// session auto-starts with its current mode.
	if e.current == nil {
		if e.status == StatusInactive {
			return e.start(e.mode)
		}
		return nil
	}

	subject, ok := e.subjects[e.current.SubjectID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSubject, e.current.SubjectID)
	}
	assignment := e.assignments[subject.ID]

	// First exposure has no grading phase: learning a card (or quizzing one
	// that was somehow never added) just records the scheduler's defaults.
	if e.mode == ModeLearn || assignment == nil {
		added, err := e.scheduler.Add(subject)
		if err != nil {
			return fmt.Errorf("add subject %q: %w", subject.ID, err)
		}
		e.assignments[subject.ID] = added
		e.dirty = true
		e.advance()
		return nil
	}

	if e.current.State == CardPending {
		quality := e.checkAnswer(answer, subject)
		e.currentQuality = quality
		if e.checkComplete(quality) {
			e.current.State = CardSuccess
		} else {
			e.current.State = CardFailure
		}
		e.dirty = true
		if e.cfg.AllowRedos {
			// Two-step mode: stop here, the caller confirms with a
			// second Submit.
			return nil
		}
	}

	return e.resolve(subject)
}

// resolve applies the graded card state to long-term memory and the queue.
func (e *Engine[Q]) resolve(subject *domain.Subject) error {
	switch e.current.State {
	case CardFailure:
		// Demote once per subject per session, then requeue the entry at
		// the back so it resurfaces before the session ends.
		if _, failed := e.currFailures[subject.ID]; !failed {
			updated, err := e.scheduler.Update(e.currentQuality, subject, e.assignments[subject.ID])
			if err != nil {
				return fmt.Errorf("demote subject %q: %w", subject.ID, err)
			}
			e.assignments[subject.ID] = updated
			e.currFailures[subject.ID] = struct{}{}
		}
		entry := e.current
		entry.State = CardPending
		e.queue = append(e.queue, entry)
		e.dirty = true
		e.advance()
		return nil

	case CardSuccess:
		if e.remainingFor(subject.ID) == 0 {
			// Last entry for this subject: record mastery and purge it
			// from the pending pool.
			if _, done := e.currSuccesses[subject.ID]; !done {
				updated, err := e.scheduler.Update(e.currentQuality, subject, e.assignments[subject.ID])
				if err != nil {
					return fmt.Errorf("promote subject %q: %w", subject.ID, err)
				}
				e.assignments[subject.ID] = updated
				e.currSuccesses[subject.ID] = struct{}{}
			}
			e.purge(subject.ID)
		}
		e.dirty = true
		e.advance()
		return nil

	default:
		// A graded card must be Success or Failure; anything else is an
		// engine bug and must fail loudly.
		return fmt.Errorf("%w: subject %q facet %q state %d",
			ErrUnreachableState, subject.ID, e.current.Facet, e.current.State)
	}
}

// advance loads the next queue entry, or completes the session when the
// queue is empty.
func (e *Engine[Q]) advance() {
	e.clearQuality()
	if len(e.queue) == 0 {
		e.current = nil
		e.status = StatusCompleted
		e.logger.Debug("session completed",
			slog.String("session_id", e.id.String()),
			slog.Int("successes", len(e.currSuccesses)),
			slog.Int("failures", len(e.currFailures)))
		return
	}
	e.current = e.queue[0]
	e.queue = e.queue[1:]
}

// remainingFor counts queue entries for the subject besides the current one.
func (e *Engine[Q]) remainingFor(subjectID string) int {
	n := 0
	for _, entry := range e.queue {
		if entry.SubjectID == subjectID {
			n++
		}
	}
	return n
}

// purge drops every queued entry for the subject.
func (e *Engine[Q]) purge(subjectID string) {
	kept := e.queue[:0]
	for _, entry := range e.queue {
		if entry.SubjectID != subjectID {
			kept = append(kept, entry)
		}
	}
	e.queue = kept
}

// eligiblePairs runs the scheduler's learnable/quizzable filter over the
// deck in insertion order.
func (e *Engine[Q]) eligiblePairs(mode Mode) []scheduler.Pair {
	var pairs []scheduler.Pair
	for _, id := range e.order {
		subject := e.subjects[id]
		assignment := e.assignments[id]
		var ok bool
		if mode == ModeLearn {
			ok = e.scheduler.FilterLearnable(subject, assignment, e.assignments)
		} else {
			ok = e.scheduler.FilterQuizzable(subject, assignment, e.assignments)
		}
		if ok {
			pairs = append(pairs, scheduler.Pair{Subject: subject, Assignment: assignment})
		}
	}
	return pairs
}

// dailyRemaining applies the learn/review daily caps, counted from
// StartedAt/LastStudiedAt falling on today.
func (e *Engine[Q]) dailyRemaining(mode Mode, now time.Time) (int, bool) {
	limit := e.cfg.LearnLimit
	if mode == ModeQuiz {
		limit = e.cfg.ReviewLimit
	}
	if limit <= 0 {
		return 0, false
	}

	today := 0
	for _, assignment := range e.assignments {
		var stamp time.Time
		if mode == ModeLearn {
			stamp = assignment.StartedAt
		} else {
			stamp = assignment.LastStudiedAt
		}
		if !stamp.IsZero() && sameCalendarDay(stamp, now) {
			today++
		}
	}

	remaining := limit - today
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

func (e *Engine[Q]) clearQuality() {
	var zero Q
	e.currentQuality = zero
}

// notify publishes one consistent post-state snapshot.
func (e *Engine[Q]) notify() {
	if e.emitter == nil {
		return
	}
	change := events.NewStateChange(
		e.id,
		e.status.String(),
		e.QueueLength(),
		len(e.currSuccesses),
		len(e.currFailures),
		e.now(),
	)
	if err := e.emitter.Emit(context.Background(), change); err != nil {
		e.logger.Warn("state change handler failed", slog.String("error", err.Error()))
	}
}

// sameCalendarDay reports whether two instants fall on the same UTC day.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
