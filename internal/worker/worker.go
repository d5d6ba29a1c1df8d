package worker

import (
	"context"

	"github.com/chatterbox/backend/internal/config"
	"github.com/chatterbox/backend/internal/repository"
)

type Workers struct {
	SessionPruner SessionPruner
}

type Deps struct {
	Repos  *repository.Repositories
	Config *config.Config
}

// SessionPruner deletes refresh-session rows that are both revoked and past
// their expiry by more than the retention window.
type SessionPruner interface {
	Prune(ctx context.Context) error
}

func NewWorkers(deps Deps) *Workers {
	return &Workers{
		SessionPruner: newSessionPruner(deps.Repos.RefreshSessions, deps.Config.Maintenance),
	}
}
