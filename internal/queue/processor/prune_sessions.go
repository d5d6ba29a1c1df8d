package processor

import (
	"context"

	"github.com/chatterbox/backend/internal/worker"

	"github.com/hibiken/asynq"
)

type PruneSessionsProcessor struct {
	workers *worker.Workers
}

func NewPruneSessionsProcessor(workers *worker.Workers) *PruneSessionsProcessor {
	return &PruneSessionsProcessor{workers: workers}
}

func (p *PruneSessionsProcessor) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	return p.workers.SessionPruner.Prune(ctx)
}
