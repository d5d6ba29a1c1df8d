package blacklist

import (
	"context"
	"sync"
	"time"

	"github.com/chatterbox/backend/pkg/logger"

	"go.uber.org/zap"
)

// Memory is a process-local registry backed by a mutex-guarded map.
//
// Reads take the read lock only, so authentication checks do not serialize
// against each other; the periodic sweep holds the write lock just long
// enough to drop expired entries.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]time.Time),
	}
}

func (m *Memory) Add(_ context.Context, token string, expiresAt time.Time) error {
	m.mu.Lock()
	m.entries[token] = expiresAt
	m.mu.Unlock()

	return nil
}

func (m *Memory) IsBlacklisted(_ context.Context, token string) (bool, error) {
	m.mu.RLock()
	_, ok := m.entries[token]
	m.mu.RUnlock()

	return ok, nil
}

// Sweep removes every entry whose expiry is at or before now.
func (m *Memory) Sweep(now time.Time) {
	m.mu.Lock()
	for token, expiresAt := range m.entries {
		if !expiresAt.After(now) {
			delete(m.entries, token)
		}
	}
	m.mu.Unlock()
}

// Len reports the number of live entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// Run sweeps the registry on a fixed interval until ctx is cancelled.
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Sweep(now)
			logger.Debug("blacklist sweep done", zap.Int("entries", m.Len()))
		}
	}
}
