package blacklist

import (
	"context"
	"time"

	"github.com/chatterbox/backend/internal/config"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Registry records access tokens revoked before their natural expiry.
//
// Entries only need to live until the token's own expiry: past that point the
// token codec rejects the token anyway, so dropping the entry changes no
// observable behavior.
type Registry interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

// New selects a registry implementation from config: an in-memory map for
// single-instance deployments, or redis with native per-key TTL when the
// blacklist must be shared across instances.
func New(cfg config.Blacklist, rdb redis.UniversalClient) (Registry, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemory(), nil
	case "redis":
		return NewRedis(rdb, cfg.KeyPrefix), nil
	}

	return nil, errors.Errorf("wrong blacklist backend: %s", cfg.Backend)
}
