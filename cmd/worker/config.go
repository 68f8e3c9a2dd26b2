package main

import (
	"log"

	"github.com/hibiken/asynq"

	"shop-backend/internal/config"
	"shop-backend/internal/shared"
)

// queuePriorities: timer flash sale phải chạy đúng giờ nên critical cao nhất.
// Queue đổi tên qua QUEUE_* cũng phải được worker xử lý.
func queuePriorities(cfg *config.Config) map[string]int {
	priorities := map[string]int{
		shared.QueueCritical: 30,
		shared.QueueHigh:     20,
		shared.QueueDefault:  10,
		shared.QueueLow:      5,
	}
	set := func(name string, priority int) {
		if current, ok := priorities[name]; !ok || current < priority {
			priorities[name] = priority
		}
	}
	set(cfg.FlashSale.TimerQueue, 30)
	set(cfg.FlashSale.NotifyQueue, 20)
	set(cfg.FlashSale.EmailQueue, 10)
	set(cfg.FlashSale.ImportQueue, 5)
	return priorities
}

// redisOpt dùng chung cho server + scheduler (cùng Redis với API)
func redisOpt(cfg *config.Config) asynq.RedisClientOpt {
	log.Printf("[Config] Redis: %s (db %d), concurrency: %d",
		cfg.Redis.Host, cfg.Redis.DB, cfg.Worker.Concurrency)

	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}
