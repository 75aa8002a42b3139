package tasks

import (
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// StartWorker runs the asynq server for queued imports in its own goroutine
// and returns it so the caller can Shutdown on exit.
func StartWorker(redisOpt asynq.RedisClientOpt, handler *ImportTaskHandler, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.Handle(TypeProductImport, handler)

	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Fatal("Import worker stopped", zap.Error(err))
		}
	}()

	return srv
}
