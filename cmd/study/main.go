// Package main implements the interactive study binary. It wires the
// configuration, logging, persistence, and scheduling layers together and
// runs a line-oriented review loop on standard input.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/open-spaced-repetition/go-fsrs"

	"github.com/flashdeck/flashdeck/internal/config"
	"github.com/flashdeck/flashdeck/internal/domain"
	"github.com/flashdeck/flashdeck/internal/events"
	"github.com/flashdeck/flashdeck/internal/platform/logger"
	"github.com/flashdeck/flashdeck/internal/scheduler"
	"github.com/flashdeck/flashdeck/internal/scheduler/progress"
	"github.com/flashdeck/flashdeck/internal/session"
	"github.com/flashdeck/flashdeck/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("study: %v", err)
	}
}

// engine is the mode-agnostic view of a session engine. Every concrete
// Engine[Q] satisfies it regardless of quality type, which lets run wire a
// different scheduler per configured algorithm without leaking generics.
type engine interface {
	StartSession(mode session.Mode) error
	Submit(answer string) error
	Status() session.Status
	CurrentCard() (subject *domain.Subject, facet string, ok bool)
	Summary() session.Summary
	Assignments() scheduler.AssignmentMap
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setting up logger: %w", err)
	}

	assignmentStore, err := openStore(cfg.Store, appLogger)
	if err != nil {
		return fmt.Errorf("opening assignment store: %w", err)
	}
	if closer, ok := assignmentStore.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				appLogger.Error("closing assignment store", slog.String("error", err.Error()))
			}
		}()
	}

	ctx := context.Background()
	assignments, err := assignmentStore.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("loading assignments: %w", err)
	}

	subjects, err := deckSubjects(sampleDeck)
	if err != nil {
		return fmt.Errorf("loading deck: %w", err)
	}

	emitter := events.NewInMemoryEmitter(appLogger)
	emitter.RegisterHandler(&progressPrinter{out: os.Stdout})

	eng, err := buildEngine(cfg, subjects, assignments, emitter, appLogger)
	if err != nil {
		return err
	}

	index := deckIndex(sampleDeck)
	in := bufio.NewScanner(os.Stdin)

	// Introduce new subjects first, then quiz whatever is due.
	if err := runSession(eng, session.ModeLearn, index, in, os.Stdout); err != nil {
		return err
	}
	if err := runSession(eng, session.ModeQuiz, index, in, os.Stdout); err != nil {
		return err
	}

	if err := assignmentStore.SaveAll(ctx, eng.Assignments()); err != nil {
		return fmt.Errorf("saving assignments: %w", err)
	}
	appLogger.Info("study session saved",
		slog.Int("assignments", len(eng.Assignments())))
	return nil
}

// openStore picks the persistence backend: SQLite when a path is
// configured, otherwise an in-memory store that forgets everything at exit.
func openStore(cfg config.StoreConfig, appLogger *slog.Logger) (store.AssignmentStore, error) {
	if cfg.Path == "" {
		appLogger.Warn("no store path configured, progress will not persist")
		return store.NewMemoryStore(), nil
	}
	return store.OpenSQLite(cfg.Path)
}

// buildEngine constructs the session engine for the configured algorithm.
// Each algorithm has its own quality type, so the generic instantiation
// happens here and the rest of the program sees only the engine interface.
func buildEngine(
	cfg *config.Config,
	subjects []*domain.Subject,
	assignments scheduler.AssignmentMap,
	emitter events.Emitter,
	appLogger *slog.Logger,
) (engine, error) {
	index := deckIndex(sampleDeck)
	correct := func(answer string, subject *domain.Subject) bool {
		c, ok := index[subject.ID]
		if !ok {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(answer), c.answer)
	}
	gating := &progress.Params{UserLevel: cfg.Scheduler.UserLevel}

	switch cfg.Scheduler.Algorithm {
	case "basic":
		inner := scheduler.NewBasic(&scheduler.BasicParams{
			CompletionThreshold: cfg.Scheduler.CompletionThreshold,
		})
		return session.NewEngine(session.Params[bool]{
			Scheduler:     progress.New[bool](inner, gating),
			Subjects:      subjects,
			Assignments:   assignments,
			CheckAnswer:   correct,
			CheckComplete: func(quality bool) bool { return quality },
			Config:        sessionConfig(cfg.Session),
			Emitter:       emitter,
			Logger:        appLogger,
		}), nil

	case "sm2":
		inner := scheduler.NewSM2(nil)
		return session.NewEngine(session.Params[int]{
			Scheduler:   progress.New[int](inner, gating),
			Subjects:    subjects,
			Assignments: assignments,
			CheckAnswer: func(answer string, subject *domain.Subject) int {
				if correct(answer, subject) {
					return 5
				}
				return 1
			},
			CheckComplete: func(quality int) bool { return quality >= 4 },
			Config:        sessionConfig(cfg.Session),
			Emitter:       emitter,
			Logger:        appLogger,
		}), nil

	case "fsrs":
		inner := scheduler.NewFSRS(nil)
		return session.NewEngine(session.Params[fsrs.Rating]{
			Scheduler:   progress.New[fsrs.Rating](inner, gating),
			Subjects:    subjects,
			Assignments: assignments,
			CheckAnswer: func(answer string, subject *domain.Subject) fsrs.Rating {
				if correct(answer, subject) {
					return fsrs.Good
				}
				return fsrs.Again
			},
			CheckComplete: func(quality fsrs.Rating) bool { return quality != fsrs.Again },
			Config:        sessionConfig(cfg.Session),
			Emitter:       emitter,
			Logger:        appLogger,
		}), nil

	case "static":
		inner := scheduler.NewStatic(&scheduler.StaticParams{
			Tables: map[string][]time.Duration{
				// Default progression for subjects without an algorithm ID.
				"": {
					4 * time.Hour,
					8 * time.Hour,
					24 * time.Hour,
					3 * 24 * time.Hour,
					7 * 24 * time.Hour,
					14 * 24 * time.Hour,
					30 * 24 * time.Hour,
				},
			},
		})
		gating.Extract = progress.StageIndex
		return session.NewEngine(session.Params[bool]{
			Scheduler:     progress.New[bool](inner, gating),
			Subjects:      subjects,
			Assignments:   assignments,
			CheckAnswer:   correct,
			CheckComplete: func(quality bool) bool { return quality },
			Config:        sessionConfig(cfg.Session),
			Emitter:       emitter,
			Logger:        appLogger,
		}), nil

	default:
		return nil, fmt.Errorf("unknown scheduler algorithm %q", cfg.Scheduler.Algorithm)
	}
}

// sessionConfig translates the loaded configuration into session settings.
func sessionConfig(cfg config.SessionConfig) session.Config {
	sortMethods := map[string]session.SortMethod{
		"paired":     session.SortPaired,
		"sequential": session.SortSequential,
		"random":     session.SortRandom,
	}
	return session.Config{
		LearnLimit:  cfg.LearnLimit,
		ReviewLimit: cfg.ReviewLimit,
		SessionSize: cfg.SessionSize,
		SortMethod:  sortMethods[cfg.SortMethod],
		AllowRedos:  cfg.AllowRedos,
	}
}

// runSession drives one study session of the given mode over stdin and
// stdout. A session with nothing eligible is reported, not treated as an
// error.
func runSession(eng engine, mode session.Mode, index map[string]card, in *bufio.Scanner, out io.Writer) error {
	if err := eng.StartSession(mode); err != nil {
		if errors.Is(err, session.ErrNoEligibleCards) {
			fmt.Fprintf(out, "Nothing to %s right now.\n", mode)
			return nil
		}
		return fmt.Errorf("starting %s session: %w", mode, err)
	}

	fmt.Fprintf(out, "\n=== %s session ===\n", mode)
	for eng.Status() == session.StatusActive {
		subject, _, ok := eng.CurrentCard()
		if !ok {
			break
		}
		c, known := index[subject.ID]
		if !known {
			return fmt.Errorf("subject %s missing from deck", subject.ID)
		}

		if mode == session.ModeLearn {
			fmt.Fprintf(out, "\n%s\n  -> %s\n[Enter to continue] ", c.prompt, c.answer)
			if !in.Scan() {
				break
			}
			if err := eng.Submit(""); err != nil {
				return fmt.Errorf("submitting: %w", err)
			}
			continue
		}

		fmt.Fprintf(out, "\n%s\n> ", c.prompt)
		if !in.Scan() {
			break
		}
		answer := in.Text()
		if err := eng.Submit(answer); err != nil {
			return fmt.Errorf("submitting: %w", err)
		}
		if strings.EqualFold(strings.TrimSpace(answer), c.answer) {
			fmt.Fprintln(out, "Correct!")
		} else {
			fmt.Fprintf(out, "Incorrect. The answer is %q; it will come around again.\n", c.answer)
		}
	}

	summary := eng.Summary()
	fmt.Fprintf(out, "\n%s session done: %d correct, %d missed.\n",
		mode, summary.Successes, summary.Failures)
	return in.Err()
}

// progressPrinter surfaces queue progress to the user as the session moves.
type progressPrinter struct {
	out io.Writer
}

var _ events.Handler = (*progressPrinter)(nil)

func (p *progressPrinter) HandleStateChange(_ context.Context, change *events.StateChange) error {
	if change.Status != session.StatusActive.String() {
		return nil
	}
	fmt.Fprintf(p.out, "[%d cards left]\n", change.QueueLength)
	return nil
}
