package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"trbe_ops_backend/internal/notification"
	"trbe_ops_backend/platform/config"
	"trbe_ops_backend/platform/logger"
)

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	reminders *notification.Service
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, reminders *notification.Service, log *logger.Logger) (*Worker, error) {
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

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		reminders: reminders,
		log:       log,
	}

	mux.HandleFunc(TaskReminderScan, w.handleReminderScan)

	return w, nil
}

func (w *Worker) handleReminderScan(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseReminderScanPayload(task)
	if err != nil {
		return err
	}

	w.log.Info("reminder scan started", "requested_at", payload.RequestedAt)
	return w.reminders.RunScan(ctx)
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
