package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trbe_ops_backend/internal/chats/domain"
	chatsrepo "trbe_ops_backend/internal/chats/repository"
	"trbe_ops_backend/platform/logger"
)

type fakeStageLister struct {
	chats []chatsrepo.AnchorChat
	err   error
}

func (f *fakeStageLister) ListChatsInStage(_ context.Context, _ domain.Stage) ([]chatsrepo.AnchorChat, error) {
	return f.chats, f.err
}

type fakeNotificationStore struct {
	mu   sync.Mutex
	sent map[string]bool
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{sent: make(map[string]bool)}
}

func (f *fakeNotificationStore) key(chatID int64, stage string, marker int) string {
	return fmt.Sprintf("%d/%s/%d", chatID, stage, marker)
}

func (f *fakeNotificationStore) HasNotification(_ context.Context, chatID int64, stage string, marker int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[f.key(chatID, stage, marker)], nil
}

func (f *fakeNotificationStore) RecordNotification(_ context.Context, chatID int64, stage string, marker int, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[f.key(chatID, stage, marker)] = true
	return nil
}

type fakeSender struct {
	mu       sync.Mutex
	messages []string
	fail     bool
}

func (f *fakeSender) SendMessage(_ context.Context, _ int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("bot api unavailable")
	}
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func newTestReminderService(lister *fakeStageLister, store *fakeNotificationStore, sender *fakeSender, now time.Time) *Service {
	svc := NewService(lister, store, sender, 999, []int{1, 3, 5}, logger.New("development"))
	svc.now = func() time.Time { return now }
	return svc
}

func anchorChat(id int64, enteredAt time.Time) chatsrepo.AnchorChat {
	return chatsrepo.AnchorChat{ChatID: id, Title: "Acme x Ops", UpdatedAt: enteredAt}
}

func TestRunScanSendsReminderAtDayMarker(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	lister := &fakeStageLister{chats: []chatsrepo.AnchorChat{
		anchorChat(10, now.Add(-3*24*time.Hour)),
	}}
	store := newFakeNotificationStore()
	sender := &fakeSender{}

	svc := newTestReminderService(lister, store, sender, now)
	require.NoError(t, svc.RunScan(context.Background()))

	require.Equal(t, 1, sender.count())
	assert.Contains(t, sender.messages[0], "Acme x Ops")
	assert.Contains(t, sender.messages[0], "3 days")
}

func TestRunScanSkipsChatsBelowFirstMarker(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	lister := &fakeStageLister{chats: []chatsrepo.AnchorChat{
		anchorChat(10, now.Add(-6*time.Hour)),
	}}
	sender := &fakeSender{}

	svc := newTestReminderService(lister, newFakeNotificationStore(), sender, now)
	require.NoError(t, svc.RunScan(context.Background()))

	assert.Equal(t, 0, sender.count())
}

func TestRunScanDeduplicatesMarkers(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	lister := &fakeStageLister{chats: []chatsrepo.AnchorChat{
		anchorChat(10, now.Add(-24*time.Hour)),
	}}
	store := newFakeNotificationStore()
	sender := &fakeSender{}

	svc := newTestReminderService(lister, store, sender, now)
	require.NoError(t, svc.RunScan(context.Background()))
	require.NoError(t, svc.RunScan(context.Background()))

	assert.Equal(t, 1, sender.count())
}

func TestRunScanRetriesAfterSendFailure(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	lister := &fakeStageLister{chats: []chatsrepo.AnchorChat{
		anchorChat(10, now.Add(-24*time.Hour)),
	}}
	store := newFakeNotificationStore()
	sender := &fakeSender{fail: true}

	svc := newTestReminderService(lister, store, sender, now)
	require.NoError(t, svc.RunScan(context.Background()))
	assert.Equal(t, 0, sender.count())

	// The marker was not recorded, so a later scan sends the reminder.
	sender.fail = false
	require.NoError(t, svc.RunScan(context.Background()))
	assert.Equal(t, 1, sender.count())
}

func TestRunScanSendsOnlyLatestMissedMarker(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	lister := &fakeStageLister{chats: []chatsrepo.AnchorChat{
		anchorChat(10, now.Add(-6*24*time.Hour)),
	}}
	store := newFakeNotificationStore()
	sender := &fakeSender{}

	svc := newTestReminderService(lister, store, sender, now)
	require.NoError(t, svc.RunScan(context.Background()))

	require.Equal(t, 1, sender.count())
	assert.Contains(t, sender.messages[0], "6 days")
}

func TestRunScanFailsWhenListingFails(t *testing.T) {
	lister := &fakeStageLister{err: errors.New("connection refused")}
	svc := newTestReminderService(lister, newFakeNotificationStore(), &fakeSender{}, time.Now())

	assert.Error(t, svc.RunScan(context.Background()))
}
