// Package audit persists one row per tool invocation to SQLite. A failing
// audit store never fails the tool call: Record logs the error via slog and
// moves on.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/leynos/env-debug-mcp/dbopen"
	"github.com/leynos/env-debug-mcp/idgen"
	"github.com/leynos/env-debug-mcp/kit"
)

const schema = `
CREATE TABLE IF NOT EXISTS tool_invocations (
	entry_id    TEXT PRIMARY KEY,
	tool        TEXT NOT NULL,
	transport   TEXT NOT NULL,
	session_id  TEXT NOT NULL DEFAULT '',
	remote_addr TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL,
	success     INTEGER NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tool_invocations_created
	ON tool_invocations (created_at);
`

// Entry is one recorded tool invocation.
type Entry struct {
	EntryID    string
	Tool       string
	Transport  string
	SessionID  string
	RemoteAddr string
	DurationMS int64
	Success    bool
	Error      string
	CreatedAt  int64
}

// SQLiteLogger writes invocation entries to a caller-owned database handle.
type SQLiteLogger struct {
	db    *sql.DB
	newID idgen.Generator
}

// Option configures a SQLiteLogger.
type Option func(*SQLiteLogger)

// WithIDGenerator sets a custom ID generator for entry IDs.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(l *SQLiteLogger) { l.newID = gen }
}

// NewSQLiteLogger creates a logger backed by the given database.
func NewSQLiteLogger(db *sql.DB, opts ...Option) *SQLiteLogger {
	l := &SQLiteLogger{
		db:    db,
		newID: idgen.Prefixed("aud_", idgen.Default),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Init creates the invocation table if it does not exist.
func (l *SQLiteLogger) Init() error {
	if _, err := l.db.Exec(schema); err != nil {
		return fmt.Errorf("audit: init: %w", err)
	}
	return nil
}

// Log writes one entry, filling EntryID and CreatedAt when unset.
func (l *SQLiteLogger) Log(ctx context.Context, e *Entry) error {
	if e.EntryID == "" {
		e.EntryID = l.newID()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	_, err := dbopen.Exec(ctx, l.db, `
		INSERT INTO tool_invocations (
			entry_id, tool, transport, session_id, remote_addr,
			duration_ms, success, error, created_at
		) VALUES (?,?,?,?,?,?,?,?,?)`,
		e.EntryID, e.Tool, e.Transport, e.SessionID, e.RemoteAddr,
		e.DurationMS, e.Success, e.Error, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("audit: log: %w", err)
	}
	return nil
}

// Record captures one invocation outcome, pulling transport and session
// identity from the context. Errors are logged via slog, never propagated.
func (l *SQLiteLogger) Record(ctx context.Context, tool string, duration time.Duration, callErr error) {
	e := &Entry{
		Tool:       tool,
		Transport:  kit.GetTransport(ctx),
		SessionID:  kit.GetSessionID(ctx),
		RemoteAddr: kit.GetRemoteAddr(ctx),
		DurationMS: duration.Milliseconds(),
		Success:    callErr == nil,
	}
	if callErr != nil {
		e.Error = callErr.Error()
	}
	if err := l.Log(ctx, e); err != nil {
		slog.Error("audit record failed", "tool", tool, "error", err)
	}
}

// Recent returns the newest entries, most recent first.
func (l *SQLiteLogger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT entry_id, tool, transport, session_id, remote_addr,
		       duration_ms, success, error, created_at
		FROM tool_invocations
		ORDER BY created_at DESC, entry_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: recent: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.EntryID, &e.Tool, &e.Transport, &e.SessionID, &e.RemoteAddr,
			&e.DurationMS, &e.Success, &e.Error, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit: scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
