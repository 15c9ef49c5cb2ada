package sync

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/reptrack/internal/models"
	_ "modernc.org/sqlite"
)

// StateDB is the local SQLite database backing the sync outbox and the
// upstream token store. It survives restarts so queued deliveries and
// credentials are never lost with the process.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the sync state database at dir/sync.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "sync.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS outbox (
		session_id   TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		payload      TEXT NOT NULL,
		attempts     INTEGER NOT NULL DEFAULT 0,
		last_error   TEXT,
		queued_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		delivered_at TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating outbox table: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS tokens (
		name       TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tokens table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}

// payload is the JSON envelope stored per queued session.
type payload struct {
	Session   *models.WorkoutSession  `json:"session"`
	Completed models.CompletedWorkout `json:"completed"`
}

// Entry is one queued delivery.
type Entry struct {
	SessionID string
	UserID    string
	Session   *models.WorkoutSession
	Completed models.CompletedWorkout
	Attempts  int
}

// Enqueue queues a completed session for upstream delivery. The session id
// is the primary key, so re-enqueueing the same session is a no-op.
func (s *StateDB) Enqueue(ctx context.Context, sess *models.WorkoutSession, completed models.CompletedWorkout) error {
	data, err := json.Marshal(payload{Session: sess, Completed: completed})
	if err != nil {
		return fmt.Errorf("marshaling outbox payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO outbox (session_id, user_id, payload) VALUES (?, ?, ?)`,
		completed.ID.String(), completed.UserID, string(data))
	if err != nil {
		return fmt.Errorf("enqueueing session: %w", err)
	}
	return nil
}

// Pending returns up to limit undelivered entries, oldest first.
func (s *StateDB) Pending(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, user_id, payload, attempts
		 FROM outbox
		 WHERE delivered_at IS NULL
		 ORDER BY queued_at ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying outbox: %w", err)
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var e Entry
		var raw string
		if err := rows.Scan(&e.SessionID, &e.UserID, &raw, &e.Attempts); err != nil {
			return nil, fmt.Errorf("scanning outbox entry: %w", err)
		}
		var p payload
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("unmarshaling outbox payload %s: %w", e.SessionID, err)
		}
		e.Session = p.Session
		e.Completed = p.Completed
		result = append(result, e)
	}
	return result, rows.Err()
}

// MarkDelivered records a successful delivery.
func (s *StateDB) MarkDelivered(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE outbox SET delivered_at = ?, last_error = NULL WHERE session_id = ?`,
		time.Now().UTC(), sessionID)
	return err
}

// MarkFailed bumps the attempt counter and records the error for later
// inspection. The entry stays queued.
func (s *StateDB) MarkFailed(ctx context.Context, sessionID, errMsg string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE outbox SET attempts = attempts + 1, last_error = ? WHERE session_id = ?`,
		errMsg, sessionID)
	return err
}

// PendingCount returns the number of undelivered entries.
func (s *StateDB) PendingCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM outbox WHERE delivered_at IS NULL`).Scan(&n)
	return n, err
}

// Tokens returns the stored access and refresh tokens. Missing tokens come
// back as empty strings, not errors.
func (s *StateDB) Tokens(ctx context.Context) (access, refresh string, err error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM tokens`)
	if err != nil {
		return "", "", fmt.Errorf("querying tokens: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return "", "", fmt.Errorf("scanning token: %w", err)
		}
		switch name {
		case "access":
			access = value
		case "refresh":
			refresh = value
		}
	}
	return access, refresh, rows.Err()
}

// SetTokens stores the access and refresh tokens, replacing any previous
// values.
func (s *StateDB) SetTokens(ctx context.Context, access, refresh string) error {
	for name, value := range map[string]string{"access": access, "refresh": refresh} {
		_, err := s.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO tokens (name, value, updated_at) VALUES (?, ?, ?)`,
			name, value, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("storing %s token: %w", name, err)
		}
	}
	return nil
}
