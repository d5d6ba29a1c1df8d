package guard

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/chatterbox/backend/internal/blacklist"
	"github.com/chatterbox/backend/internal/config"
	"github.com/chatterbox/backend/internal/domain"
	"github.com/chatterbox/backend/internal/service"
	"github.com/chatterbox/backend/pkg/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticResolver struct {
	users map[uuid.UUID]*domain.User
}

func (r *staticResolver) GetUserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, service.ErrUnauthorized
	}
	return user, nil
}

func newTestGuard(t *testing.T, accessTTL time.Duration, user *domain.User) (*Guard, *auth.Manager, *blacklist.Memory) {
	t.Helper()

	manager, err := auth.NewManager(config.JWTConfig{
		SigningKey:      "guard-test-key",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	registry := blacklist.NewMemory()
	resolver := &staticResolver{users: map[uuid.UUID]*domain.User{user.ID: user}}

	return New(manager, registry, resolver), manager, registry
}

func TestGuard_Authenticate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	user := &domain.User{ID: uuid.New(), Email: "a@x.com", Nickname: "a"}
	g, manager, _ := newTestGuard(t, time.Minute, user)

	token, _, err := manager.NewJWT(user.ID)
	require.NoError(t, err)

	got, err := g.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestGuard_AuthenticateFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	user := &domain.User{ID: uuid.New()}
	g, manager, registry := newTestGuard(t, time.Minute, user)

	_, err := g.Authenticate(ctx, "")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = g.Authenticate(ctx, "not.a.jwt")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	// Valid token for an unknown user.
	strangerToken, _, err := manager.NewJWT(uuid.New())
	require.NoError(t, err)
	_, err = g.Authenticate(ctx, strangerToken)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	// Blacklisted token fails even though its expiry has not passed.
	token, _, err := manager.NewJWT(user.ID)
	require.NoError(t, err)
	require.NoError(t, registry.Add(ctx, token, time.Now().Add(time.Minute)))
	_, err = g.Authenticate(ctx, token)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestGuard_AuthenticateExpired(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: uuid.New()}
	g, manager, _ := newTestGuard(t, -time.Minute, user)

	token, _, err := manager.NewJWT(user.ID)
	require.NoError(t, err)

	_, err = g.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestFromAuthHeader(t *testing.T) {
	t.Parallel()

	token, ok := FromAuthHeader("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic abc", "Bearer a b"} {
		_, ok := FromAuthHeader(header)
		assert.False(t, ok, "header %q", header)
	}
}

func TestFromRequest_HeaderPreferredOverCookie(t *testing.T) {
	t.Parallel()

	r, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer header-token")
	r.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})

	token, ok := FromRequest(r, "access_token")
	require.True(t, ok)
	assert.Equal(t, "header-token", token)

	r.Header.Del("Authorization")
	token, ok = FromRequest(r, "access_token")
	require.True(t, ok)
	assert.Equal(t, "cookie-token", token)
}

func TestFromHandshake_QueryFallback(t *testing.T) {
	t.Parallel()

	r, _ := http.NewRequest(http.MethodGet, "/ws?token=query-token", nil)
	token, ok := FromHandshake(r, "access_token")
	require.True(t, ok)
	assert.Equal(t, "query-token", token)

	bare, _ := http.NewRequest(http.MethodGet, "/ws", nil)
	_, ok = FromHandshake(bare, "access_token")
	assert.False(t, ok)
}
