package worker

import (
	"context"
	"time"

	"github.com/chatterbox/backend/internal/config"
	"github.com/chatterbox/backend/internal/repository"
	"github.com/chatterbox/backend/pkg/logger"

	"go.uber.org/zap"
)

type sessionPruner struct {
	sessions  repository.RefreshSessions
	retention time.Duration
}

func newSessionPruner(sessions repository.RefreshSessions, cfg config.Maintenance) *sessionPruner {
	return &sessionPruner{
		sessions:  sessions,
		retention: cfg.PruneRetention,
	}
}

func (p *sessionPruner) Prune(ctx context.Context) error {
	before := time.Now().Add(-p.retention)

	pruned, err := p.sessions.DeleteExpiredRevoked(ctx, before)
	if err != nil {
		return err
	}

	if pruned > 0 {
		logger.Info("pruned refresh sessions", zap.Int64("rows", pruned))
	}

	return nil
}
