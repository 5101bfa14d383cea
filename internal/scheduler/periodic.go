package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"trbe_ops_backend/platform/config"
	"trbe_ops_backend/platform/logger"
)

// Periodic enqueues the recurring reminder scan on a cron schedule. It runs
// alongside the worker in the scheduler process.
type Periodic struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewPeriodic(cfg config.SchedulerConfig, log *logger.Logger) (*Periodic, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	sched := asynq.NewScheduler(opt, &asynq.SchedulerOpts{})

	task, err := NewReminderScanTask(ReminderScanPayload{})
	if err != nil {
		return nil, err
	}

	spec := cfg.GetReminderCronSpec()
	if _, err := sched.Register(spec, task, asynq.Queue(queue)); err != nil {
		return nil, fmt.Errorf("register reminder cron %q: %w", spec, err)
	}

	return &Periodic{scheduler: sched, log: log}, nil
}

// Run blocks until the context is cancelled.
func (p *Periodic) Run(ctx context.Context) {
	if p == nil || p.scheduler == nil {
		return
	}

	go func() {
		<-ctx.Done()
		p.scheduler.Shutdown()
	}()

	if err := p.scheduler.Run(); err != nil {
		p.log.Error("periodic scheduler stopped", "error", err)
	}
}
