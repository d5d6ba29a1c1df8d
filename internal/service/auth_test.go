package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chatterbox/backend/internal/blacklist"
	"github.com/chatterbox/backend/internal/config"
	"github.com/chatterbox/backend/internal/domain"
	"github.com/chatterbox/backend/pkg/auth"
	"github.com/chatterbox/backend/pkg/hash"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	service  *authService
	users    *fakeUsers
	sessions *fakeSessions
	manager  *auth.Manager
	registry *blacklist.Memory
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	manager, err := auth.NewManager(config.JWTConfig{
		SigningKey:      "service-test-key",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	users := newFakeUsers()
	sessions := newFakeSessions()
	registry := blacklist.NewMemory()

	return &authFixture{
		service:  newAuthService(users, sessions, hash.NewBcryptHasher(4), manager, registry),
		users:    users,
		sessions: sessions,
		manager:  manager,
		registry: registry,
	}
}

func (f *authFixture) signUpAndIn(t *testing.T, email, password string) *AuthResult {
	t.Helper()

	ctx := context.Background()
	_, err := f.service.SignUp(ctx, SignUpInput{Email: email, Password: password, Nickname: "nick"})
	require.NoError(t, err)

	res, err := f.service.SignIn(ctx, SignInInput{Email: email, Password: password}, ClientMeta{UserAgent: "test-agent", IP: "127.0.0.1"})
	require.NoError(t, err)

	return res
}

func TestAuthService_SignUp(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.service.SignUp(ctx, SignUpInput{Email: "a@x.com", Password: "password1", Nickname: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "alice", user.Nickname)
	assert.NotEqual(t, "password1", user.PasswordHash)

	_, err = f.service.SignUp(ctx, SignUpInput{Email: "a@x.com", Password: "password2", Nickname: "alice2"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_SignIn(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	res := f.signUpAndIn(t, "a@x.com", "password1")

	// The access token verifies and resolves to the logged-in user.
	userID, err := f.manager.Parse(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)

	// One refresh session row was persisted.
	session, err := f.sessions.GetByToken(context.Background(), res.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, session.UserID)
	assert.Equal(t, "test-agent", session.UserAgent)
	assert.True(t, session.Valid(time.Now()))
}

func TestAuthService_SignInBadCredentials(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.service.SignUp(ctx, SignUpInput{Email: "a@x.com", Password: "password1", Nickname: "alice"})
	require.NoError(t, err)

	_, err = f.service.SignIn(ctx, SignInInput{Email: "a@x.com", Password: "wrong"}, ClientMeta{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.service.SignIn(ctx, SignInInput{Email: "nobody@x.com", Password: "password1"}, ClientMeta{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_RefreshRotation(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	res := f.signUpAndIn(t, "a@x.com", "password1")

	rotated, err := f.service.Refresh(ctx, res.RefreshToken.String(), ClientMeta{})
	require.NoError(t, err)
	assert.NotEqual(t, res.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, res.User.ID, rotated.User.ID)

	// The redeemed token is permanently unusable.
	_, err = f.service.Refresh(ctx, res.RefreshToken.String(), ClientMeta{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	// The replacement works.
	_, err = f.service.Refresh(ctx, rotated.RefreshToken.String(), ClientMeta{})
	assert.NoError(t, err)
}

func TestAuthService_RefreshGarbageToken(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)

	_, err := f.service.Refresh(context.Background(), "not-a-uuid", ClientMeta{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.service.Refresh(context.Background(), uuid.NewString(), ClientMeta{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_RefreshExpiredSession(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	res := f.signUpAndIn(t, "a@x.com", "password1")

	expiredToken := uuid.New()
	require.NoError(t, f.sessions.Create(ctx, &domain.RefreshSession{
		ID:           uuid.New(),
		UserID:       res.User.ID,
		RefreshToken: expiredToken,
		ExpiresAt:    time.Now().Add(-time.Minute),
	}))

	_, err := f.service.Refresh(ctx, expiredToken.String(), ClientMeta{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_RefreshConcurrentSingleUse(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	res := f.signUpAndIn(t, "a@x.com", "password1")

	const racers = 16

	var (
		wg        sync.WaitGroup
		successes int64
		mu        sync.Mutex
	)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.service.Refresh(context.Background(), res.RefreshToken.String(), ClientMeta{}); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Exactly one racer redeems the token; the rest replay a revoked one.
	assert.EqualValues(t, 1, successes)
}

func TestAuthService_Logout(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	res := f.signUpAndIn(t, "a@x.com", "password1")

	require.NoError(t, f.service.Logout(ctx, res.AccessToken, res.RefreshToken.String()))

	blacklisted, err := f.registry.IsBlacklisted(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.True(t, blacklisted)

	session, err := f.sessions.GetByToken(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.True(t, session.IsRevoked)

	// Idempotent: a second logout with the same tokens is harmless.
	require.NoError(t, f.service.Logout(ctx, res.AccessToken, res.RefreshToken.String()))
	assert.Equal(t, 1, f.registry.Len())
}

func TestAuthService_LogoutGarbageIsNoop(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	assert.NoError(t, f.service.Logout(ctx, "garbage-token", "garbage-refresh"))
	assert.NoError(t, f.service.Logout(ctx, "", ""))
	assert.Equal(t, 0, f.registry.Len())
}

func TestAuthService_DeleteAccount(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	res := f.signUpAndIn(t, "a@x.com", "password1")

	err := f.service.DeleteAccount(ctx, res.User.ID, "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, f.service.DeleteAccount(ctx, res.User.ID, "password1"))

	// The user is gone and every session is revoked.
	_, err = f.service.GetUserByID(ctx, res.User.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	session, err := f.sessions.GetByToken(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.True(t, session.IsRevoked)

	_, err = f.service.Refresh(ctx, res.RefreshToken.String(), ClientMeta{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
