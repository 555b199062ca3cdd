package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"lapse/internal/session"
	"lapse/internal/status"
)

// DefaultFileName is the database file created under the base directory,
// shared across sessions.
const DefaultFileName = "lapse_history.db"

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL UNIQUE,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    status TEXT NOT NULL,
    captured INTEGER NOT NULL DEFAULT 0,
    total INTEGER NOT NULL,
    folder TEXT NOT NULL,
    video TEXT NOT NULL DEFAULT '',
    error TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);
`

// Entry is one recorded session outcome.
type Entry struct {
	ID         int64
	SessionID  string
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     string
	Captured   int
	Total      int
	Folder     string
	Video      string
	Error      string
}

// Store persists session outcomes in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Begin records the start of a session.
func (s *Store) Begin(ctx context.Context, sess *session.Session) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, started_at, status, captured, total, folder)
         VALUES (?, ?, ?, 0, ?, ?)`,
		sess.ID, now, string(status.StateRunning), sess.Total, sess.Root,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Finish records a session's terminal status record.
func (s *Store) Finish(ctx context.Context, sessionID string, rec status.Record) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions
         SET finished_at = ?, status = ?, captured = ?, video = ?, error = ?
         WHERE session_id = ?`,
		now, string(rec.Status), rec.Captured, rec.Video, rec.ErrorMessage(), sessionID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s not recorded", sessionID)
	}
	return nil
}

// Recent returns the most recently started sessions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, started_at, finished_at, status, captured, total, folder, video, error
         FROM sessions ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry    Entry
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.SessionID, &started, &finished,
			&entry.Status, &entry.Captured, &entry.Total, &entry.Folder, &entry.Video, &entry.Error); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if entry.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if finished.Valid {
			parsed, err := time.Parse(time.RFC3339Nano, finished.String)
			if err != nil {
				return nil, fmt.Errorf("parse finished_at: %w", err)
			}
			entry.FinishedAt = &parsed
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
