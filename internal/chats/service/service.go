// Package service orchestrates chat stage evaluation: it pulls stored
// messages, resolves a candidate stage from evidence, optionally refines it
// with the AI collaborator, and reconciles the result against the persisted
// record so stages only move forward.
package service

import (
	"context"
	"strings"
	"time"

	"trbe_ops_backend/internal/chats/domain"
	"trbe_ops_backend/internal/chats/repository"
	"trbe_ops_backend/internal/events"
	"trbe_ops_backend/platform/apperr"
	"trbe_ops_backend/platform/config"
	"trbe_ops_backend/platform/logger"
)

// Store is the persistence surface the service depends on.
type Store interface {
	UpsertChat(ctx context.Context, id int64, title string, username *string) error
	InsertMessage(ctx context.Context, chatID, telegramMessageID int64, date time.Time, text, fromUsername string, isService bool) error
	FetchRecentMessages(ctx context.Context, chatID int64, limit int) ([]repository.StoredMessage, error)
	ListChats(ctx context.Context) ([]repository.Chat, error)
	ChatExists(ctx context.Context, chatID int64) (bool, error)
	GetStage(ctx context.Context, chatID int64) (*domain.StageRecord, error)
	UpsertStageMonotonic(ctx context.Context, chatID int64, stage domain.Stage, updatedAt time.Time) (domain.StageRecord, error)
	SetStageManual(ctx context.Context, chatID int64, stage domain.Stage, updatedAt time.Time) error
}

// StageRefiner is the optional AI second opinion on a resolved candidate.
type StageRefiner interface {
	Refine(ctx context.Context, candidate domain.Stage, evidence domain.EvidenceSet, messages []domain.Message) domain.Stage
}

// ChatSummarizer produces a short operator-facing digest of a conversation.
type ChatSummarizer interface {
	Summarize(ctx context.Context, messages []domain.Message) (string, error)
}

// Service coordinates stage evaluation, manual overrides and chat listings.
type Service struct {
	store       Store
	extractor   *domain.Extractor
	refiner     StageRefiner
	summarizer  ChatSummarizer
	bus         events.Bus
	teamHandles map[string]struct{}
	fetchLimit  int
	log         *logger.Logger
	now         func() time.Time
}

// New creates the chats service. refiner and summarizer may be nil when the
// AI collaborator is disabled; bus may be nil in tests.
func New(store Store, refiner StageRefiner, summarizer ChatSummarizer, bus events.Bus, teamCfg config.TeamConfig, evalCfg config.EvaluationConfig, log *logger.Logger) *Service {
	handles := make(map[string]struct{})
	for _, h := range teamCfg.GetTeamHandles() {
		h = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(h), "@"))
		if h != "" {
			handles[h] = struct{}{}
		}
	}

	return &Service{
		store:       store,
		extractor:   domain.NewExtractor(domain.DefaultRules()),
		refiner:     refiner,
		summarizer:  summarizer,
		bus:         bus,
		teamHandles: handles,
		fetchLimit:  evalCfg.GetMessageFetchLimit(),
		log:         log,
		now:         time.Now,
	}
}

// Evaluation is the outcome of a stage read or evaluation.
type Evaluation struct {
	ChatID             int64
	Stage              domain.Stage
	UpdatedAt          *time.Time
	ElapsedDaysInStage *int
	Advanced           bool
}

// EvaluateStage runs the full pipeline for one chat and persists any forward
// movement. It never regresses a stored stage: when the fresh candidate is
// weaker than the record, the record is returned untouched.
func (s *Service) EvaluateStage(ctx context.Context, chatID int64) (*Evaluation, error) {
	if chatID == 0 {
		return nil, apperr.Validation("chat id is required")
	}

	exists, err := s.store.ChatExists(ctx, chatID)
	if err != nil {
		s.log.DatabaseError("chat_exists", err)
		return nil, apperr.Unavailable("failed to load chat")
	}
	if !exists {
		return nil, apperr.NotFound("chat not found")
	}

	previous, err := s.store.GetStage(ctx, chatID)
	if err != nil {
		s.log.DatabaseError("get_stage", err)
		return nil, apperr.Unavailable("failed to load stage record")
	}

	stored, err := s.store.FetchRecentMessages(ctx, chatID, s.fetchLimit)
	if err != nil {
		s.log.DatabaseError("fetch_messages", err)
		return nil, apperr.Unavailable("failed to load chat messages")
	}

	messages := s.toDomainMessages(stored)
	evidence := s.extractor.Extract(messages)
	candidate := domain.ResolveStage(evidence)

	if s.refiner != nil {
		candidate = s.refiner.Refine(ctx, candidate, evidence, messages)
	}

	now := s.now()
	decision := domain.Reconcile(previous, candidate, now)

	record := domain.StageRecord{ChatID: chatID, Stage: decision.Stage, UpdatedAt: decision.UpdatedAt}
	if decision.Advanced {
		record, err = s.store.UpsertStageMonotonic(ctx, chatID, decision.Stage, decision.UpdatedAt)
		if err != nil {
			s.log.DatabaseError("upsert_stage", err)
			return nil, apperr.Unavailable("failed to persist stage")
		}
	}

	// The read-back after a monotonic upsert may carry a concurrent writer's
	// stronger stage; only announce movement this evaluation produced.
	fromStage := domain.StageTalking
	if previous != nil {
		fromStage = previous.Stage
	}
	advanced := decision.Advanced && record.Stage == decision.Stage && record.Stage != fromStage
	s.log.StageChange(chatID, string(fromStage), string(record.Stage), advanced)

	if advanced {
		s.publishAdvance(ctx, chatID, fromStage, record, false, previous != nil)
	}

	return s.toEvaluation(record, advanced, now), nil
}

// GetStage returns the stored stage for a chat, defaulting to Talking when
// the chat has never been evaluated.
func (s *Service) GetStage(ctx context.Context, chatID int64) (*Evaluation, error) {
	if chatID == 0 {
		return nil, apperr.Validation("chat id is required")
	}

	record, err := s.store.GetStage(ctx, chatID)
	if err != nil {
		s.log.DatabaseError("get_stage", err)
		return nil, apperr.Unavailable("failed to load stage record")
	}

	if record == nil {
		return &Evaluation{ChatID: chatID, Stage: domain.StageTalking}, nil
	}

	return s.toEvaluation(*record, false, s.now()), nil
}

// SetStageManual overrides the stored stage unconditionally. Manual writes
// may move in either direction; only automatic evaluation is monotonic.
func (s *Service) SetStageManual(ctx context.Context, chatID int64, label string) (*Evaluation, error) {
	if chatID == 0 {
		return nil, apperr.Validation("chat id is required")
	}

	stage, ok := domain.ParseStage(label)
	if !ok {
		return nil, apperr.Validation("unknown stage: " + label)
	}

	previous, err := s.store.GetStage(ctx, chatID)
	if err != nil {
		s.log.DatabaseError("get_stage", err)
		return nil, apperr.Unavailable("failed to load stage record")
	}

	now := s.now()
	if err := s.store.SetStageManual(ctx, chatID, stage, now); err != nil {
		s.log.DatabaseError("set_stage_manual", err)
		return nil, apperr.Unavailable("failed to persist stage")
	}

	record := domain.StageRecord{ChatID: chatID, Stage: stage, UpdatedAt: now}

	fromStage := domain.StageTalking
	if previous != nil {
		fromStage = previous.Stage
	}
	changed := previous == nil || previous.Stage != stage
	s.log.StageChange(chatID, string(fromStage), string(stage), changed)
	if changed {
		s.publishAdvance(ctx, chatID, fromStage, record, true, previous != nil)
	}

	return s.toEvaluation(record, changed, now), nil
}

// ListChats returns every tracked chat with its stored stage, if any.
func (s *Service) ListChats(ctx context.Context) ([]repository.Chat, error) {
	chats, err := s.store.ListChats(ctx)
	if err != nil {
		s.log.DatabaseError("list_chats", err)
		return nil, apperr.Unavailable("failed to list chats")
	}
	return chats, nil
}

// Summarize produces a short digest of the chat's recent messages.
func (s *Service) Summarize(ctx context.Context, chatID int64) (string, error) {
	if chatID == 0 {
		return "", apperr.Validation("chat id is required")
	}
	if s.summarizer == nil {
		return "", apperr.Unavailable("summarization is not configured")
	}

	stored, err := s.store.FetchRecentMessages(ctx, chatID, s.fetchLimit)
	if err != nil {
		s.log.DatabaseError("fetch_messages", err)
		return "", apperr.Unavailable("failed to load chat messages")
	}

	return s.summarizer.Summarize(ctx, s.toDomainMessages(stored))
}

// InboundMessage is one message delivered by the Telegram webhook.
type InboundMessage struct {
	ChatID            int64
	ChatTitle         string
	ChatUsername      *string
	TelegramMessageID int64
	Date              time.Time
	Text              string
	FromUsername      string
	IsService         bool
}

// IngestMessage registers the chat and stores the message. Duplicate
// deliveries of the same Telegram message are ignored.
func (s *Service) IngestMessage(ctx context.Context, msg InboundMessage) error {
	if msg.ChatID == 0 {
		return apperr.Validation("chat id is required")
	}

	if err := s.store.UpsertChat(ctx, msg.ChatID, msg.ChatTitle, msg.ChatUsername); err != nil {
		s.log.DatabaseError("upsert_chat", err)
		return apperr.Unavailable("failed to register chat")
	}

	if err := s.store.InsertMessage(ctx, msg.ChatID, msg.TelegramMessageID, msg.Date, msg.Text, msg.FromUsername, msg.IsService); err != nil {
		s.log.DatabaseError("insert_message", err)
		return apperr.Unavailable("failed to store message")
	}

	return nil
}

func (s *Service) toDomainMessages(stored []repository.StoredMessage) []domain.Message {
	messages := make([]domain.Message, 0, len(stored))
	for _, m := range stored {
		role := domain.RoleExternal
		handle := strings.ToLower(strings.TrimPrefix(m.FromUsername, "@"))
		if _, ok := s.teamHandles[handle]; ok && handle != "" {
			role = domain.RoleTeam
		}
		messages = append(messages, domain.Message{
			Text:       m.Text,
			Timestamp:  m.Date,
			AuthorRole: role,
		})
	}
	return messages
}

func (s *Service) toEvaluation(record domain.StageRecord, advanced bool, now time.Time) *Evaluation {
	updatedAt := record.UpdatedAt
	return &Evaluation{
		ChatID:             record.ChatID,
		Stage:              record.Stage,
		UpdatedAt:          &updatedAt,
		ElapsedDaysInStage: domain.ElapsedDaysInAnchor(record, now),
		Advanced:           advanced,
	}
}

func (s *Service) publishAdvance(ctx context.Context, chatID int64, from domain.Stage, record domain.StageRecord, manual, hadPrevious bool) {
	if s.bus == nil {
		return
	}

	fromLabel := ""
	if hadPrevious {
		fromLabel = string(from)
	}
	s.bus.Publish(ctx, events.StageAdvanced{
		BaseEvent: events.NewBaseEvent(),
		ChatID:    chatID,
		FromStage: fromLabel,
		ToStage:   string(record.Stage),
		Manual:    manual,
		UpdatedAt: record.UpdatedAt,
	})
}
