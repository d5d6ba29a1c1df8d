package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chatterbox/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type refreshSessionRepository struct {
	db *sqlx.DB
}

func newRefreshSessionRepository(db *sqlx.DB) *refreshSessionRepository {
	return &refreshSessionRepository{
		db: db,
	}
}

const refreshSessionColumns = `
	id, user_id, refresh_token, user_agent, ip,
	is_revoked, revoked_at, expires_at, created_at
`

func (r *refreshSessionRepository) Create(ctx context.Context, session *domain.RefreshSession) error {
	const query = `
	INSERT INTO refresh_session (id, user_id, refresh_token, user_agent, ip, expires_at)
	VALUES (uuid_to_bin(?), uuid_to_bin(?), uuid_to_bin(?), ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.RefreshToken,
		session.UserAgent,
		session.IP,
		session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("db insert refresh session: %w", err)
	}

	return nil
}

func (r *refreshSessionRepository) GetByToken(ctx context.Context, token uuid.UUID) (*domain.RefreshSession, error) {
	const query = `
	SELECT ` + refreshSessionColumns + `
	FROM refresh_session WHERE refresh_token = uuid_to_bin(?);
	`
	var session domain.RefreshSession
	if err := r.db.GetContext(ctx, &session, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select refresh session by token failed: %w", err)
	}

	return &session, nil
}

// Rotate redeems oldToken inside a single transaction. The session row is
// locked with SELECT ... FOR UPDATE, re-checked for validity while locked,
// marked revoked, and the replacement is inserted before commit. A concurrent
// call racing on the same token blocks on the row lock and then sees
// is_revoked = 1, so only the first redeemer wins.
func (r *refreshSessionRepository) Rotate(ctx context.Context, oldToken uuid.UUID, next *domain.RefreshSession) (*domain.RefreshSession, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin rotate tx failed: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const lockQuery = `
	SELECT ` + refreshSessionColumns + `
	FROM refresh_session WHERE refresh_token = uuid_to_bin(?) FOR UPDATE;
	`
	var old domain.RefreshSession
	if err := tx.GetContext(ctx, &old, lockQuery, oldToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock refresh session failed: %w", err)
	}

	if !old.Valid(time.Now()) {
		return nil, domain.ErrSessionInvalid
	}

	// The replacement belongs to whoever owned the redeemed session.
	next.UserID = old.UserID

	const revokeQuery = `
	UPDATE refresh_session SET is_revoked = 1, revoked_at = now()
	WHERE id = uuid_to_bin(?);
	`
	if _, err := tx.ExecContext(ctx, revokeQuery, old.ID); err != nil {
		return nil, fmt.Errorf("revoke rotated session failed: %w", err)
	}

	const insertQuery = `
	INSERT INTO refresh_session (id, user_id, refresh_token, user_agent, ip, expires_at)
	VALUES (uuid_to_bin(?), uuid_to_bin(?), uuid_to_bin(?), ?, ?, ?);
	`
	if _, err := tx.ExecContext(ctx, insertQuery,
		next.ID,
		next.UserID,
		next.RefreshToken,
		next.UserAgent,
		next.IP,
		next.ExpiresAt,
	); err != nil {
		return nil, fmt.Errorf("insert rotated session failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit rotate tx failed: %w", err)
	}

	return &old, nil
}

// Revoke marks the session unusable. Revoking an already-revoked or unknown
// token is a no-op, logout must stay idempotent.
func (r *refreshSessionRepository) Revoke(ctx context.Context, token uuid.UUID) error {
	const query = `
	UPDATE refresh_session SET is_revoked = 1, revoked_at = now()
	WHERE refresh_token = uuid_to_bin(?) AND is_revoked = 0;
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("revoke refresh session failed: %w", err)
	}

	return nil
}

func (r *refreshSessionRepository) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	const query = `
	UPDATE refresh_session SET is_revoked = 1, revoked_at = now()
	WHERE user_id = uuid_to_bin(?) AND is_revoked = 0;
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("revoke user refresh sessions failed: %w", err)
	}

	return nil
}

// DeleteExpiredRevoked prunes revoked rows whose expiry passed before the
// given instant. Used only by the maintenance job.
func (r *refreshSessionRepository) DeleteExpiredRevoked(ctx context.Context, before time.Time) (int64, error) {
	const query = `
	DELETE FROM refresh_session WHERE is_revoked = 1 AND expires_at < ?;
	`
	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("prune refresh sessions failed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected failed: %w", err)
	}

	return rowsAffected, nil
}
