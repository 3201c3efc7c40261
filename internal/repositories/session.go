package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/dish/internal/models"
)

// Well-known keys in the session_values table.
const (
	KeyIdentity = "identity"
	KeyToken    = "token"
)

// SessionRepository persists the [models.Session] as key/value rows.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Load reads the stored session. A missing or half-written pair loads as anonymous.
func (r *SessionRepository) Load(ctx context.Context) (models.Session, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT key, value FROM session_values WHERE key IN (?, ?)", KeyIdentity, KeyToken)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to query session: %w", err)
	}
	defer rows.Close()

	var session models.Session
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Session{}, fmt.Errorf("failed to scan session value: %w", err)
		}

		switch key {
		case KeyIdentity:
			session.Identity = value
		case KeyToken:
			session.Token = value
		}
	}

	if err := rows.Err(); err != nil {
		return models.Session{}, fmt.Errorf("error iterating session values: %w", err)
	}

	if !session.Authenticated() {
		return models.Session{}, nil
	}
	return session, nil
}

// Save writes both session values in one transaction.
func (r *SessionRepository) Save(ctx context.Context, session models.Session) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO session_values (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	now := time.Now()
	for _, kv := range [][2]string{{KeyIdentity, session.Identity}, {KeyToken, session.Token}} {
		if _, err := tx.ExecContext(ctx, query, kv[0], kv[1], now); err != nil {
			return fmt.Errorf("failed to save %s: %w", kv[0], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// Clear removes both session values.
func (r *SessionRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM session_values WHERE key IN (?, ?)", KeyIdentity, KeyToken)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// UpdatedAt reports when the session was last written. ok is false when nothing is stored.
func (r *SessionRepository) UpdatedAt(ctx context.Context) (t time.Time, ok bool, err error) {
	var updatedAt time.Time
	err = r.db.QueryRowContext(ctx, "SELECT updated_at FROM session_values WHERE key = ?", KeyToken).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query session timestamp: %w", err)
	}
	return updatedAt, true, nil
}
