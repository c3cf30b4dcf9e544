// Package store handles SQLite persistence of the undo slot.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/clipper/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the single undo slot.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS undo_slot (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			text TEXT NOT NULL,
			saved_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save overwrites the undo slot with text.
func (s *Store) Save(ctx context.Context, text string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO undo_slot (id, text, saved_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET text = excluded.text, saved_at = excluded.saved_at`,
		text,
		s.now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Load returns the saved entry. ok is false when nothing was saved yet.
func (s *Store) Load(ctx context.Context) (model.UndoEntry, bool, error) {
	var entry model.UndoEntry
	var savedAt string
	err := s.db.QueryRowContext(ctx, `SELECT text, saved_at FROM undo_slot WHERE id = 1`).Scan(&entry.Text, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UndoEntry{}, false, nil
	}
	if err != nil {
		return model.UndoEntry{}, false, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return model.UndoEntry{}, false, err
	}
	entry.SavedAt = parsed
	return entry, true, nil
}

// Clear empties the undo slot.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM undo_slot`)
	return err
}
