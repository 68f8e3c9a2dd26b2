package main

import (
	"log"

	"shop-backend/internal/config"
	"shop-backend/internal/infrastructure/queue"
)

// asynqScheduler wraps queue.Scheduler with additional functionality
type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler đăng ký recovery sweep của flash sale rồi start
func setupScheduler(cfg *config.Config) *asynqScheduler {
	scheduler := queue.NewScheduler(redisOpt(cfg), cfg.FlashSale)

	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatalf("[Scheduler] Failed to register: %v", err)
	}

	// Start() không block (asynq chạy goroutine riêng)
	log.Println("[Scheduler] Starting...")
	if err := scheduler.Start(); err != nil {
		log.Fatalf("[Scheduler] Failed: %v", err)
	}

	return &asynqScheduler{Scheduler: scheduler}
}

// Shutdown gracefully shuts down the scheduler
func (s *asynqScheduler) Shutdown() {
	log.Println("[Scheduler] Shutting down...")
	s.Scheduler.Shutdown()
	log.Println("[Scheduler] ✓ Stopped")
}
