package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"shop-backend/internal/config"
	"shop-backend/internal/shared"
	"shop-backend/pkg/logger"
)

// Scheduler đăng ký các periodic task (cron) lên asynq
type Scheduler struct {
	scheduler *asynq.Scheduler
	cfg       config.FlashSaleConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, cfg config.FlashSaleConfig) *Scheduler {
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: time.Local,
		LogLevel: asynq.InfoLevel,
	})

	return &Scheduler{
		scheduler: scheduler,
		cfg:       cfg,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerFlashSaleRecoveryJob()
}

// ================================================
// JOB: Flash sale recovery sweep
// ================================================
// Enqueue lại activate/deactivate bị lỡ khi worker down
func (s *Scheduler) registerFlashSaleRecoveryJob() error {
	task := asynq.NewTask(shared.TypeFlashSaleRecover, nil)

	_, err := s.scheduler.Register(
		s.cfg.RecoveryCron,
		task,
		asynq.Queue(s.cfg.TimerQueue),
		asynq.MaxRetry(0),
		asynq.Timeout(time.Minute),
		asynq.Unique(time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register FlashSaleRecovery job", err)
		return err
	}

	logger.Info("✓ Registered FlashSaleRecovery job", map[string]interface{}{
		"schedule": s.cfg.RecoveryCron,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
