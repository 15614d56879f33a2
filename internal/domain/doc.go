// Package domain contains the core entities of the study engine: immutable
// Subjects (teaching content) and mutable Assignments (per-subject mastery
// records). Entities are plain serializable data with no embedded behavior,
// independent of any specific scheduler, storage, or delivery mechanism.
package domain
