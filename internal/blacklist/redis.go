package blacklist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a shared registry for multi-instance deployments. Redis expires
// keys on its own, so no sweep is needed.
type Redis struct {
	client    redis.UniversalClient
	keyPrefix string
}

func NewRedis(client redis.UniversalClient, keyPrefix string) *Redis {
	return &Redis{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (r *Redis) key(token string) string {
	return r.keyPrefix + token
}

func (r *Redis) Add(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already past its own expiry, the codec rejects it regardless.
		return nil
	}

	if err := r.client.Set(ctx, r.key(token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("blacklist set failed: %w", err)
	}

	return nil
}

func (r *Redis) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("blacklist exists failed: %w", err)
	}

	return n > 0, nil
}
