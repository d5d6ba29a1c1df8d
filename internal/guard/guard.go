package guard

import (
	"context"

	"github.com/chatterbox/backend/internal/blacklist"
	"github.com/chatterbox/backend/internal/domain"
	"github.com/chatterbox/backend/internal/service"

	"github.com/google/uuid"
)

// TokenParser is the slice of the token manager the guard needs.
type TokenParser interface {
	Parse(accessToken string) (uuid.UUID, error)
}

// UserResolver turns a verified subject id into a full user record.
type UserResolver interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Guard is the single verification routine behind every protected HTTP
// request and every connection handshake. Extraction of the raw token varies
// by transport (see extract.go); verification never does, so the two paths
// cannot drift apart.
type Guard struct {
	tokens   TokenParser
	registry blacklist.Registry
	users    UserResolver
}

func New(tokens TokenParser, registry blacklist.Registry, users UserResolver) *Guard {
	return &Guard{
		tokens:   tokens,
		registry: registry,
		users:    users,
	}
}

// Authenticate verifies signature and expiry, rejects blacklisted tokens, and
// resolves the subject to a user. Every failure surfaces as
// service.ErrUnauthorized; the caller learns nothing about which check failed.
func (g *Guard) Authenticate(ctx context.Context, rawToken string) (*domain.User, error) {
	if rawToken == "" {
		return nil, service.ErrUnauthorized
	}

	userID, err := g.tokens.Parse(rawToken)
	if err != nil {
		return nil, service.ErrUnauthorized
	}

	revoked, err := g.registry.IsBlacklisted(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, service.ErrUnauthorized
	}

	user, err := g.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, service.ErrUnauthorized
	}

	return user, nil
}
