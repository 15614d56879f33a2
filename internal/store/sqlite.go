package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/flashdeck/flashdeck/internal/domain"
	"github.com/flashdeck/flashdeck/internal/scheduler"
)

const assignmentSchema = `
CREATE TABLE IF NOT EXISTS assignments (
	subject_id TEXT PRIMARY KEY,
	data       TEXT NOT NULL
);
`

// SQLiteStore is an AssignmentStore backed by a SQLite database.
// Assignments are stored as JSON documents keyed by subject ID, so schema
// migrations are only needed when the key changes, not when scheduling
// fields evolve.
type SQLiteStore struct {
	db *sql.DB
}

var _ AssignmentStore = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if necessary) a SQLite-backed assignment store
// at the given path. If path is ":memory:", uses an in-memory database.
// Sets WAL mode for better concurrent read performance.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := db.Exec(assignmentSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get implements AssignmentStore.Get.
func (s *SQLiteStore) Get(ctx context.Context, subjectID string) (*domain.Assignment, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM assignments WHERE subject_id = ?", subjectID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrAssignmentNotFound, subjectID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying assignment: %w", err)
	}

	var assignment domain.Assignment
	if err := json.Unmarshal(data, &assignment); err != nil {
		return nil, fmt.Errorf("decoding assignment %s: %w", subjectID, err)
	}
	return &assignment, nil
}

// GetAll implements AssignmentStore.GetAll.
func (s *SQLiteStore) GetAll(ctx context.Context) (scheduler.AssignmentMap, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT subject_id, data FROM assignments")
	if err != nil {
		return nil, fmt.Errorf("querying assignments: %w", err)
	}
	defer rows.Close()

	all := make(scheduler.AssignmentMap)
	for rows.Next() {
		var (
			subjectID string
			data      []byte
		)
		if err := rows.Scan(&subjectID, &data); err != nil {
			return nil, fmt.Errorf("scanning assignment row: %w", err)
		}

		var assignment domain.Assignment
		if err := json.Unmarshal(data, &assignment); err != nil {
			return nil, fmt.Errorf("decoding assignment %s: %w", subjectID, err)
		}
		all[subjectID] = &assignment
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignments: %w", err)
	}
	return all, nil
}

// Save implements AssignmentStore.Save.
func (s *SQLiteStore) Save(ctx context.Context, assignment *domain.Assignment) error {
	if assignment == nil {
		return fmt.Errorf("%w: nil assignment", ErrInvalidEntity)
	}
	if err := assignment.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}

	data, err := json.Marshal(assignment)
	if err != nil {
		return fmt.Errorf("encoding assignment %s: %w", assignment.SubjectID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO assignments (subject_id, data) VALUES (?, ?)
		 ON CONFLICT(subject_id) DO UPDATE SET data = excluded.data`,
		assignment.SubjectID, data,
	)
	if err != nil {
		return fmt.Errorf("saving assignment %s: %w", assignment.SubjectID, err)
	}
	return nil
}

// SaveAll implements AssignmentStore.SaveAll. The batch runs in a single
// transaction so either every assignment is written or none are.
func (s *SQLiteStore) SaveAll(ctx context.Context, assignments scheduler.AssignmentMap) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO assignments (subject_id, data) VALUES (?, ?)
		 ON CONFLICT(subject_id) DO UPDATE SET data = excluded.data`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for id, assignment := range assignments {
		if assignment == nil {
			return fmt.Errorf("%w: nil assignment for subject %s", ErrInvalidEntity, id)
		}
		if err := assignment.Validate(); err != nil {
			return fmt.Errorf("%w: subject %s: %w", ErrInvalidEntity, id, err)
		}

		data, err := json.Marshal(assignment)
		if err != nil {
			return fmt.Errorf("encoding assignment %s: %w", id, err)
		}
		if _, err := stmt.ExecContext(ctx, id, data); err != nil {
			return fmt.Errorf("saving assignment %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
