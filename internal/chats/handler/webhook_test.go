package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trbe_ops_backend/internal/chats/transport"
)

func groupUpdate() transport.TelegramUpdate {
	return transport.TelegramUpdate{
		UpdateID: 1,
		Message: &transport.TelegramMessage{
			MessageID: 77,
			Date:      1746867600,
			Text:      "contract signed",
			Chat:      &transport.TelegramChat{ID: -100123, Type: "supergroup", Title: "Acme x Ops"},
			From:      &transport.TelegramFrom{ID: 5, Username: "client_kate"},
		},
	}
}

func TestToInboundGroupMessage(t *testing.T) {
	msg, ok := toInbound(groupUpdate())

	require.True(t, ok)
	assert.Equal(t, int64(-100123), msg.ChatID)
	assert.Equal(t, "Acme x Ops", msg.ChatTitle)
	assert.Equal(t, int64(77), msg.TelegramMessageID)
	assert.Equal(t, "contract signed", msg.Text)
	assert.Equal(t, "client_kate", msg.FromUsername)
	assert.False(t, msg.IsService)
	assert.Equal(t, time.Unix(1746867600, 0).UTC(), msg.Date)
}

func TestToInboundSkipsPrivateChats(t *testing.T) {
	update := groupUpdate()
	update.Message.Chat.Type = "private"

	_, ok := toInbound(update)
	assert.False(t, ok)
}

func TestToInboundSkipsUpdatesWithoutMessage(t *testing.T) {
	_, ok := toInbound(transport.TelegramUpdate{UpdateID: 1})
	assert.False(t, ok)
}

func TestToInboundUsesCaptionWhenTextEmpty(t *testing.T) {
	update := groupUpdate()
	update.Message.Text = ""
	update.Message.Caption = "invoice attached"

	msg, ok := toInbound(update)
	require.True(t, ok)
	assert.Equal(t, "invoice attached", msg.Text)
	assert.False(t, msg.IsService)
}

func TestToInboundFlagsServiceEvents(t *testing.T) {
	joined := groupUpdate()
	joined.Message.Text = ""
	joined.Message.NewChatMembers = []transport.TelegramFrom{{ID: 9, Username: "newbie"}}

	msg, ok := toInbound(joined)
	require.True(t, ok)
	assert.True(t, msg.IsService)

	bot := groupUpdate()
	bot.Message.From.IsBot = true

	msg, ok = toInbound(bot)
	require.True(t, ok)
	assert.True(t, msg.IsService)
}
