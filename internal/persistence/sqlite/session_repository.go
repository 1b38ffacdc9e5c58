package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository using SQLite.
type SessionRepository struct {
	pool *ConnectionPool
	now  func() time.Time
}

// NewSessionRepository creates the repository. A nil now falls back to
// time.Now; tests inject a fixed clock.
func NewSessionRepository(pool *ConnectionPool, now func() time.Time) *SessionRepository {
	if now == nil {
		now = time.Now
	}
	return &SessionRepository{pool: pool, now: now}
}

func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.Session) error {
	if session.Token == "" || session.StaffID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO sessions (token, staff_id, created_at, expires_at, revoked_at)
		VALUES (?, ?, ?, ?, NULL)`,
		session.Token,
		session.StaffID,
		session.CreatedAt.UTC().Format(time.RFC3339),
		session.ExpiresAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

func (r *SessionRepository) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	if token == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}

	var (
		session              persistence.Session
		createdAt, expiresAt string
		revokedAt            sql.NullString
	)
	err := r.pool.db.QueryRowContext(ctx, `
		SELECT token, staff_id, created_at, expires_at, revoked_at
		FROM sessions WHERE token = ?`, token).
		Scan(&session.Token, &session.StaffID, &createdAt, &expiresAt, &revokedAt)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}

	if session.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Session{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if session.ExpiresAt, err = time.Parse(time.RFC3339, expiresAt); err != nil {
		return persistence.Session{}, fmt.Errorf("failed to parse expires_at: %w", err)
	}
	if revokedAt.Valid {
		parsed, err := time.Parse(time.RFC3339, revokedAt.String)
		if err != nil {
			return persistence.Session{}, fmt.Errorf("failed to parse revoked_at: %w", err)
		}
		session.RevokedAt = &parsed
	}
	return session, nil
}

func (r *SessionRepository) RevokeSession(ctx context.Context, token string) error {
	if token == "" {
		return persistence.ErrNotFound
	}
	result, err := r.pool.db.ExecContext(ctx,
		"UPDATE sessions SET revoked_at = ? WHERE token = ? AND revoked_at IS NULL",
		r.now().UTC().Format(time.RFC3339), token)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// DeleteExpiredSessions prunes rows whose expiry has passed and returns how
// many were removed.
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context) (int, error) {
	result, err := r.pool.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE expires_at < ?",
		r.now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(affected), nil
}
