package asynqserver

import (
	"github.com/chatterbox/backend/internal/cache"
	"github.com/chatterbox/backend/internal/config"
	"github.com/chatterbox/backend/internal/queue/processor"
	"github.com/chatterbox/backend/internal/queue/task"
	"github.com/chatterbox/backend/internal/worker"

	"github.com/hibiken/asynq"
)

func New(cfg config.Cache, workers *worker.Workers) (*asynq.Server, *asynq.ServeMux) {
	mux, queues := getQueues(workers)
	srv := asynq.NewServer(
		RedisOptions(cfg),
		asynq.Config{
			Concurrency: 10,
			LogLevel:    asynq.ErrorLevel,
			Queues:      queues,
		},
	)

	return srv, mux
}

// NewScheduler enqueues the maintenance tasks on their configured cadence.
func NewScheduler(cacheCfg config.Cache, maintenanceCfg config.Maintenance) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(RedisOptions(cacheCfg), &asynq.SchedulerOpts{})

	if _, err := scheduler.Register(maintenanceCfg.PruneSchedule, task.NewPruneSessionsTask()); err != nil {
		return nil, err
	}

	return scheduler, nil
}

func RedisOptions(cfg config.Cache) asynq.RedisConnOpt {
	var opts asynq.RedisConnOpt
	if cfg.Type == cache.RedisTypeCluster {
		opts = asynq.RedisClusterClientOpt{
			Addrs:    cfg.RedisCluster.Addresses,
			Password: cfg.RedisCluster.Password,
		}
	} else {
		opts = asynq.RedisClientOpt{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
		}
	}
	return opts
}

func getQueues(workers *worker.Workers) (*asynq.ServeMux, map[string]int) {
	mux := asynq.NewServeMux()
	mux.Handle(task.PruneSessionsTaskName, processor.NewPruneSessionsProcessor(workers))
	queues := map[string]int{
		task.PruneSessionsQueueName: 1,
	}
	return mux, queues
}
