// Package session implements the study-session engine: a state machine over
// Inactive, Active, and Completed that sequences which card is shown next and
// how grading mutates long-term memory state through a pluggable scheduler.
//
// Application code constructs an Engine with subjects, a scheduler (possibly
// progress-wrapped), and checker callbacks, calls StartSession, then
// repeatedly calls Submit. The engine is fully synchronous and assumes a
// single writer; it performs no I/O of its own. Mutations are grouped into
// batches so observers receive one consistent post-state notification per
// logical operation.
package session
