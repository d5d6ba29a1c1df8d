package repository

import (
	"context"
	"time"

	"github.com/chatterbox/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Users           Users
	RefreshSessions RefreshSessions
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Users:           newUserRepository(db),
		RefreshSessions: newRefreshSessionRepository(db),
	}
}

type Users interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetOneByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RefreshSessions interface {
	Create(ctx context.Context, session *domain.RefreshSession) error
	GetByToken(ctx context.Context, token uuid.UUID) (*domain.RefreshSession, error)
	// Rotate atomically revokes the session identified by oldToken and
	// inserts next in its place. Exactly one of two racing calls with the
	// same oldToken succeeds; the loser gets domain.ErrSessionInvalid.
	Rotate(ctx context.Context, oldToken uuid.UUID, next *domain.RefreshSession) (*domain.RefreshSession, error)
	Revoke(ctx context.Context, token uuid.UUID) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpiredRevoked(ctx context.Context, before time.Time) (int64, error)
}
