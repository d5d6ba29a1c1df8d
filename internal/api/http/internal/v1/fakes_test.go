package v1

import (
	"context"
	"sync"
	"time"

	"github.com/chatterbox/backend/internal/domain"

	"github.com/google/uuid"
)

// In-memory stand-ins for the MySQL repositories, matching the semantics the
// handlers observe: unique email, soft-deleted users invisible, atomic
// single-use rotation.

type fakeUsers struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]uuid.UUID
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byEmail[user.Email]; ok {
		return domain.ErrDuplicateEntry
	}

	stored := *user
	f.byID[user.ID] = &stored
	f.byEmail[user.Email] = user.ID

	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}

	user := f.byID[id]
	if user.DeletedAt != nil {
		return nil, domain.ErrNotFound
	}

	copied := *user
	return &copied, nil
}

func (f *fakeUsers) GetOneByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.byID[id]
	if !ok || user.DeletedAt != nil {
		return nil, domain.ErrNotFound
	}

	copied := *user
	return &copied, nil
}

func (f *fakeUsers) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.byID[id]
	if !ok || user.DeletedAt != nil {
		return domain.ErrNotFound
	}

	now := time.Now()
	user.DeletedAt = &now

	return nil
}

type fakeSessions struct {
	mu      sync.Mutex
	byToken map[uuid.UUID]*domain.RefreshSession
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		byToken: make(map[uuid.UUID]*domain.RefreshSession),
	}
}

func (f *fakeSessions) Create(_ context.Context, session *domain.RefreshSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := *session
	f.byToken[session.RefreshToken] = &stored

	return nil
}

func (f *fakeSessions) GetByToken(_ context.Context, token uuid.UUID) (*domain.RefreshSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	session, ok := f.byToken[token]
	if !ok {
		return nil, domain.ErrNotFound
	}

	copied := *session
	return &copied, nil
}

func (f *fakeSessions) Rotate(_ context.Context, oldToken uuid.UUID, next *domain.RefreshSession) (*domain.RefreshSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	old, ok := f.byToken[oldToken]
	if !ok {
		return nil, domain.ErrNotFound
	}

	if !old.Valid(time.Now()) {
		return nil, domain.ErrSessionInvalid
	}

	now := time.Now()
	old.IsRevoked = true
	old.RevokedAt = &now

	next.UserID = old.UserID
	stored := *next
	f.byToken[next.RefreshToken] = &stored

	copied := *old
	return &copied, nil
}

func (f *fakeSessions) Revoke(_ context.Context, token uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	session, ok := f.byToken[token]
	if !ok || session.IsRevoked {
		return nil
	}

	now := time.Now()
	session.IsRevoked = true
	session.RevokedAt = &now

	return nil
}

func (f *fakeSessions) RevokeAllByUser(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	for _, session := range f.byToken {
		if session.UserID == userID && !session.IsRevoked {
			session.IsRevoked = true
			session.RevokedAt = &now
		}
	}

	return nil
}

func (f *fakeSessions) DeleteExpiredRevoked(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var pruned int64
	for token, session := range f.byToken {
		if session.IsRevoked && session.ExpiresAt.Before(before) {
			delete(f.byToken, token)
			pruned++
		}
	}

	return pruned, nil
}
