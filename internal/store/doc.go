// Package store defines persistence interfaces for assignment records and
// provides two implementations: an in-memory store for tests and ephemeral
// sessions, and a SQLite-backed store for durable study history.
//
// Stores hold only the per-subject scheduling state (assignments). Subjects
// themselves are content, loaded from whatever deck source the caller uses,
// and are never persisted here.
package store
