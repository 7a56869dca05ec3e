// Package state persists chat transcripts and tool invocations in SQLite.
// Persistence is an audit trail: callers treat failures as best-effort.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DB is the SQLite-backed transcript store.
type DB struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// OpenDB opens (or creates) the fincoach database in dir.
func OpenDB(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	dbPath := filepath.Join(dir, "fincoach.db")
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Single connection for writes, WAL allows concurrent reads
	db.SetMaxOpenConns(2)

	s := &DB{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *DB) migrate() error {
	ddl := `
	CREATE TABLE IF NOT EXISTS chat_sessions (
		id          TEXT PRIMARY KEY,
		account_id  TEXT,
		created_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS turns (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id  TEXT NOT NULL,
		role        TEXT NOT NULL,
		content     TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		FOREIGN KEY (session_id) REFERENCES chat_sessions(id)
	);
	CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id);

	CREATE TABLE IF NOT EXISTS tool_invocations (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id  TEXT NOT NULL,
		tool        TEXT NOT NULL,
		input       TEXT,
		output      TEXT,
		is_error    INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		FOREIGN KEY (session_id) REFERENCES chat_sessions(id)
	);
	CREATE INDEX IF NOT EXISTS idx_invocations_session ON tool_invocations(session_id);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// Close closes the underlying database.
func (s *DB) Close() error {
	return s.db.Close()
}

// EnsureSession creates the session row if it does not exist yet.
func (s *DB) EnsureSession(ctx context.Context, id, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO chat_sessions (id, account_id, created_at) VALUES (?, ?, ?)`,
		id, accountID, now,
	)
	return err
}

// RecordTurn appends one conversation turn. Implements coach.Recorder.
func (s *DB) RecordTurn(ctx context.Context, sessionID, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO chat_sessions (id, account_id, created_at) VALUES (?, '', ?)`,
		sessionID, now,
	); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		sessionID, role, content, now,
	)
	return err
}

// RecordInvocation appends one tool invocation with its outcome.
func (s *DB) RecordInvocation(ctx context.Context, sessionID, tool, input, output string, isError bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	errFlag := 0
	if isError {
		errFlag = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tool_invocations (session_id, tool, input, output, is_error, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, tool, input, output, errFlag, now,
	)
	return err
}

// Turn is one persisted conversation turn.
type Turn struct {
	ID        int64  `json:"id"`
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// Turns returns a session's transcript in insertion order.
func (s *DB) Turns(ctx context.Context, sessionID string) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, created_at FROM turns WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// Invocation is one persisted tool call.
type Invocation struct {
	ID        int64  `json:"id"`
	SessionID string `json:"session_id"`
	Tool      string `json:"tool"`
	Input     string `json:"input"`
	Output    string `json:"output"`
	IsError   bool   `json:"is_error"`
	CreatedAt string `json:"created_at"`
}

// Invocations returns a session's tool audit trail in insertion order.
func (s *DB) Invocations(ctx context.Context, sessionID string) ([]Invocation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, tool, input, output, is_error, created_at FROM tool_invocations WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invocations []Invocation
	for rows.Next() {
		var inv Invocation
		var errFlag int
		if err := rows.Scan(&inv.ID, &inv.SessionID, &inv.Tool, &inv.Input, &inv.Output, &errFlag, &inv.CreatedAt); err != nil {
			return nil, err
		}
		inv.IsError = errFlag != 0
		invocations = append(invocations, inv)
	}
	return invocations, rows.Err()
}
