// Package notification sends the team-chat reminders and stage change notes.
//
// Reminders fire when a conversation has been sitting in the anchor stage
// (contract signed, payment not yet confirmed) for a configured number of
// days. Each (chat, stage, day marker) reminder is sent at most once; a
// failed send is not recorded, so the next scan retries it.
package notification

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"trbe_ops_backend/internal/chats/domain"
	chatsrepo "trbe_ops_backend/internal/chats/repository"
	"trbe_ops_backend/platform/logger"
)

// sendConcurrency bounds parallel Bot API calls during one scan.
const sendConcurrency = 4

// StageLister reads conversations currently parked in a given stage.
type StageLister interface {
	ListChatsInStage(ctx context.Context, stage domain.Stage) ([]chatsrepo.AnchorChat, error)
}

// NotificationStore is the sent-reminder dedup ledger.
type NotificationStore interface {
	HasNotification(ctx context.Context, chatID int64, stage string, dayMarker int) (bool, error)
	RecordNotification(ctx context.Context, chatID int64, stage string, dayMarker int, sentAt time.Time) error
}

// MessageSender delivers a message to a Telegram chat.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Service runs reminder scans and forwards stage change notes to the team chat.
type Service struct {
	stages     StageLister
	store      NotificationStore
	sender     MessageSender
	teamChatID int64
	dayMarkers []int
	log        *logger.Logger
	now        func() time.Time
}

func NewService(stages StageLister, store NotificationStore, sender MessageSender, teamChatID int64, dayMarkers []int, log *logger.Logger) *Service {
	markers := make([]int, 0, len(dayMarkers))
	for _, m := range dayMarkers {
		if m > 0 {
			markers = append(markers, m)
		}
	}
	sort.Ints(markers)

	return &Service{
		stages:     stages,
		store:      store,
		sender:     sender,
		teamChatID: teamChatID,
		dayMarkers: markers,
		log:        log,
		now:        time.Now,
	}
}

// RunScan walks every chat in the anchor stage and sends the due reminders.
// Individual send failures are logged and retried on the next scan; the scan
// itself only fails when the chat list cannot be loaded.
func (s *Service) RunScan(ctx context.Context) error {
	if s.teamChatID == 0 {
		s.log.Warn("TEAM_CHAT_ID not configured; reminder scan skipped")
		return nil
	}

	chats, err := s.stages.ListChatsInStage(ctx, domain.AnchorStage)
	if err != nil {
		return fmt.Errorf("list chats in anchor stage: %w", err)
	}

	now := s.now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sendConcurrency)

	for _, chat := range chats {
		g.Go(func() error {
			s.remindChat(gctx, chat, now)
			return nil
		})
	}

	_ = g.Wait()
	return nil
}

func (s *Service) remindChat(ctx context.Context, chat chatsrepo.AnchorChat, now time.Time) {
	record := domain.StageRecord{ChatID: chat.ChatID, Stage: domain.AnchorStage, UpdatedAt: chat.UpdatedAt}
	elapsed := domain.ElapsedDaysInAnchor(record, now)
	if elapsed == nil {
		return
	}

	marker := s.dueMarker(*elapsed)
	if marker == 0 {
		return
	}

	sent, err := s.store.HasNotification(ctx, chat.ChatID, string(domain.AnchorStage), marker)
	if err != nil {
		s.log.DatabaseError("has_notification", err)
		return
	}
	if sent {
		return
	}

	if err := s.sender.SendMessage(ctx, s.teamChatID, reminderText(chat, *elapsed)); err != nil {
		// Leave the marker unrecorded so the next scan retries.
		s.log.Warn("reminder send failed", "chat_id", chat.ChatID, "day_marker", marker, "error", err)
		return
	}

	if err := s.store.RecordNotification(ctx, chat.ChatID, string(domain.AnchorStage), marker, now); err != nil {
		s.log.DatabaseError("record_notification", err)
		return
	}

	s.log.Info("stage reminder sent", "chat_id", chat.ChatID, "day_marker", marker, "elapsed_days", *elapsed)
}

// dueMarker returns the highest configured marker at or below the elapsed
// days, so a chat that slipped past several markers gets one reminder, not a
// backlog. Zero means nothing is due.
func (s *Service) dueMarker(elapsedDays int) int {
	due := 0
	for _, m := range s.dayMarkers {
		if m <= elapsedDays {
			due = m
		}
	}
	return due
}

func reminderText(chat chatsrepo.AnchorChat, elapsedDays int) string {
	title := chat.Title
	if title == "" {
		title = fmt.Sprintf("chat %d", chat.ChatID)
	}

	dayWord := "days"
	if elapsedDays == 1 {
		dayWord = "day"
	}

	text := fmt.Sprintf("⏰ <b>%s</b> has been in \"%s\" for %d %s without payment confirmation.", title, domain.AnchorStage, elapsedDays, dayWord)
	if chat.Username != nil && *chat.Username != "" {
		text += fmt.Sprintf("\nhttps://t.me/%s", *chat.Username)
	}
	return text
}
