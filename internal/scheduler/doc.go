// Package scheduler defines the pluggable spaced-repetition algorithm
// contract and its concrete implementations: a bare repetition counter
// (Basic), the classic SuperMemo-2 formula (SM2), an FSRS-backed scheduler
// delegating to an external memory model, and fixed per-stage interval tables
// (Static).
//
// A Scheduler produces and updates domain.Assignments and decides which
// subjects are currently eligible and in what order. Updates follow the
// immutable pattern: the input Assignment is never modified, a new instance
// is returned. All schedulers are pure and synchronous; the current time is
// an injected clock so behavior is reproducible in tests.
package scheduler
