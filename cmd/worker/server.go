package main

import (
	"context"
	"errors"
	"log"

	"github.com/hibiken/asynq"

	"shop-backend/internal/config"
	"shop-backend/pkg/logger"
)

// asynqServer wraps asynq.Server with additional functionality
type asynqServer struct {
	*asynq.Server
}

// setupAsynqServer creates and configures the Asynq server
func setupAsynqServer(cfg *config.Config, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		redisOpt(cfg),
		asynq.Config{
			Queues:      queuePriorities(cfg),
			Concurrency: cfg.Worker.Concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				fields := map[string]interface{}{
					"type":      task.Type(),
					"retried":   retried,
					"max_retry": maxRetry,
				}
				if errors.Is(err, asynq.SkipRetry) || retried >= maxRetry {
					logger.ErrorWithFields("Task archived", err, fields)
					return
				}
				logger.ErrorWithFields("Task failed, will retry", err, fields)
			}),
		},
	)

	go func() {
		log.Println("[Worker] Starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[Worker] Failed: %v", err)
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown chờ các task đang chạy xong (asynq ShutdownTimeout mặc định 8s)
func (s *asynqServer) Shutdown() {
	log.Println("[Worker] Shutting down...")
	s.Server.Shutdown()
	log.Println("[Worker] ✓ Gracefully stopped")
}
