package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// SessionRepository persists the bearer token for the single local user.
//
// The table holds at most one row; Save replaces it, Clear removes it.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save stores the access token, replacing any previous session.
func (r *SessionRepository) Save(token string) error {
	if token == "" {
		return fmt.Errorf("refusing to persist empty token")
	}

	query := `
		INSERT INTO sessions (id, token, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, token, time.Now()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Load returns the persisted token, or an empty string when no session exists.
func (r *SessionRepository) Load() (string, error) {
	var token string
	err := r.db.QueryRow("SELECT token FROM sessions WHERE id = 1").Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}

	return token, nil
}

// Clear removes the persisted session, if any.
func (r *SessionRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
