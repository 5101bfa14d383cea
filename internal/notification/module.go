package notification

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	chatsrepo "trbe_ops_backend/internal/chats/repository"
	"trbe_ops_backend/internal/events"
	"trbe_ops_backend/internal/notification/repository"
	"trbe_ops_backend/platform/config"
	"trbe_ops_backend/platform/logger"
)

// ModuleConfig combines the config interfaces the notification module needs.
type ModuleConfig interface {
	config.TelegramConfig
	config.EvaluationConfig
}

// Module wires the reminder service, its event subscriptions and the
// operator trigger for an immediate scan. Scans themselves run on the
// scheduler worker; the HTTP surface only enqueues.
type Module struct {
	service  *Service
	sender   MessageSender
	enqueuer ScanEnqueuer
	teamID   int64
	log      *logger.Logger
}

// New creates the notification module on the shared connection pool. The
// enqueuer is optional; without it the manual scan trigger reports the
// queue as unavailable.
func New(pool *pgxpool.Pool, sender MessageSender, enqueuer ScanEnqueuer, cfg ModuleConfig, log *logger.Logger) *Module {
	svc := NewService(
		chatsrepo.New(pool),
		repository.New(pool),
		sender,
		cfg.GetTeamChatID(),
		cfg.GetReminderDayMarkers(),
		log,
	)

	return &Module{
		service:  svc,
		sender:   sender,
		enqueuer: enqueuer,
		teamID:   cfg.GetTeamChatID(),
		log:      log,
	}
}

// Service returns the reminder service for the scheduler worker.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterHandlers subscribes the module to domain events. Stage advances are
// mirrored into the team chat so operators see movement without opening the
// dashboard.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.StageAdvanced{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.StageAdvanced)
		if !ok {
			return nil
		}
		return m.notifyStageAdvanced(ctx, e)
	}))
}

func (m *Module) notifyStageAdvanced(ctx context.Context, e events.StageAdvanced) error {
	if m.teamID == 0 || m.sender == nil {
		return nil
	}

	var text string
	switch {
	case e.Manual:
		text = fmt.Sprintf("✏️ Chat %d stage set manually: %s", e.ChatID, e.ToStage)
	case e.FromStage == "":
		text = fmt.Sprintf("🆕 Chat %d is now tracked at stage \"%s\"", e.ChatID, e.ToStage)
	default:
		text = fmt.Sprintf("📈 Chat %d moved forward: %s → %s", e.ChatID, e.FromStage, e.ToStage)
	}

	if err := m.sender.SendMessage(ctx, m.teamID, text); err != nil {
		m.log.Warn("stage advance note failed", "chat_id", e.ChatID, "error", err)
	}
	return nil
}
