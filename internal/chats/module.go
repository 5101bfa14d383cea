// Package chats provides the conversation lifecycle bounded context module.
// This file defines the module that encapsulates all chats setup and route
// registration.
package chats

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"trbe_ops_backend/internal/chats/agent"
	"trbe_ops_backend/internal/chats/handler"
	"trbe_ops_backend/internal/chats/repository"
	"trbe_ops_backend/internal/chats/service"
	"trbe_ops_backend/internal/events"
	apphttp "trbe_ops_backend/internal/http"
	"trbe_ops_backend/platform/config"
	"trbe_ops_backend/platform/logger"
	"trbe_ops_backend/platform/validator"
)

// ModuleConfig combines the config interfaces the chats module needs.
type ModuleConfig interface {
	config.TeamConfig
	config.AIConfig
	config.EvaluationConfig
}

// Module is the chats bounded context module implementing http.Module.
type Module struct {
	handler        *handler.Handler
	webhookHandler *handler.WebhookHandler
	service        *service.Service
}

// NewModule creates and initializes the chats module with all its dependencies.
// The Gemini collaborator is optional: without an API key both the refiner and
// the summarizer are disabled and evaluation runs on evidence rules alone.
func NewModule(ctx context.Context, pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, cfg ModuleConfig, log *logger.Logger) (*Module, error) {
	repo := repository.New(pool)

	var refiner service.StageRefiner
	var summarizer service.ChatSummarizer
	if cfg.IsAIEnabled() {
		completer, err := agent.NewGeminiCompleter(ctx, cfg)
		if err != nil {
			return nil, err
		}
		refiner = agent.NewRefiner(completer, cfg.GetAITimeout(), log)
		summarizer = agent.NewSummarizer(completer, cfg.GetAITimeout(), log)
	} else {
		log.Warn("GEMINI_API_KEY not configured; stage refinement and summaries disabled")
	}

	svc := service.New(repo, refiner, summarizer, eventBus, cfg, cfg, log)

	return &Module{
		handler:        handler.New(svc, val),
		webhookHandler: handler.NewWebhookHandler(svc),
		service:        svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "chats"
}

// Service returns the chats service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts chats routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Operator-facing routes require MiniApp authentication; the webhook is
	// guarded separately by the Bot API secret token.
	chatsGroup := ctx.Protected.Group("/chats")
	m.handler.RegisterRoutes(chatsGroup)
	m.webhookHandler.RegisterRoutes(ctx.Webhook)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
