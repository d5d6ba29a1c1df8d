package task

import (
	"github.com/hibiken/asynq"
)

const (
	PruneSessionsTaskName  = "pruneSessionsTask"
	PruneSessionsQueueName = "maintenanceQueue"
)

// NewPruneSessionsTask builds the periodic task that deletes long-expired
// revoked refresh-session rows. The task carries no payload; the retention
// window is worker-side configuration.
func NewPruneSessionsTask() *asynq.Task {
	return asynq.NewTask(
		PruneSessionsTaskName,
		nil,
		asynq.MaxRetry(3),
		asynq.Queue(PruneSessionsQueueName),
	)
}
