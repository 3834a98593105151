package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Transcript is a final transcript recorded for a session.
type Transcript struct {
	ID        int64
	SessionID string
	Text      string
	CreatedAt time.Time
}

// SessionRecord is the journal row of one relay session.
type SessionRecord struct {
	ID        string
	Provider  string
	StartedAt time.Time
	EndedAt   time.Time
	EndReason string
}

// ErrSessionNotFound is returned when a session id has no journal row.
var ErrSessionNotFound = errors.New("session not found")

// Store is a SQLite-backed journal of sessions and their final transcripts.
type Store struct {
	db    *sql.DB
	log   *zap.Logger
	clock func() time.Time
}

// Open creates or opens the journal database at path.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("journal path must not be empty")
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Relays write concurrently; a single connection serializes them.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &Store{db: db, log: logger.With(zap.String("component", "journal")), clock: time.Now}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	s.log.Info("journal opened", zap.String("path", path))
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS sessions (
    session_id TEXT PRIMARY KEY,
    provider TEXT NOT NULL,
    started_at INTEGER NOT NULL,
    ended_at INTEGER,
    end_reason TEXT
);
CREATE TABLE IF NOT EXISTS transcripts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    text TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY(session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_transcripts_session ON transcripts(session_id, id);
`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) now() int64 {
	return s.clock().UTC().UnixMilli()
}

// SessionStarted inserts the session row.
func (s *Store) SessionStarted(ctx context.Context, sessionID, provider string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions(session_id, provider, started_at) VALUES(?, ?, ?)
		 ON CONFLICT(session_id) DO NOTHING`,
		sessionID, provider, s.now())
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Transcript appends a final transcript to the session.
func (s *Store) Transcript(ctx context.Context, sessionID, provider, text string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transcripts(session_id, text, created_at) VALUES(?, ?, ?)`,
		sessionID, text, s.now())
	if err != nil {
		return fmt.Errorf("insert transcript: %w", err)
	}
	return nil
}

// SessionEnded stamps the end time and reason of the session.
func (s *Store) SessionEnded(ctx context.Context, sessionID, provider, reason string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET ended_at = ?, end_reason = ? WHERE session_id = ?`,
		s.now(), reason, sessionID)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// Session returns the journal row for sessionID.
func (s *Store) Session(ctx context.Context, sessionID string) (SessionRecord, error) {
	var (
		rec     SessionRecord
		started int64
		ended   sql.NullInt64
		reason  sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, provider, started_at, ended_at, end_reason FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&rec.ID, &rec.Provider, &started, &ended, &reason)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrSessionNotFound
	}
	if err != nil {
		return rec, err
	}
	rec.StartedAt = time.UnixMilli(started).UTC()
	if ended.Valid {
		rec.EndedAt = time.UnixMilli(ended.Int64).UTC()
	}
	rec.EndReason = reason.String
	return rec, nil
}

// Transcripts lists the final transcripts of a session in arrival order.
func (s *Store) Transcripts(ctx context.Context, sessionID string) ([]Transcript, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, text, created_at FROM transcripts WHERE session_id = ? ORDER BY id ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transcript
	for rows.Next() {
		var tr Transcript
		var created int64
		if err := rows.Scan(&tr.ID, &tr.SessionID, &tr.Text, &created); err != nil {
			return nil, err
		}
		tr.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, tr)
	}
	return out, rows.Err()
}
