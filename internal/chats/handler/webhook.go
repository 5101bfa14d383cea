package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"trbe_ops_backend/internal/chats/service"
	"trbe_ops_backend/internal/chats/transport"
	"trbe_ops_backend/platform/httpkit"
)

// WebhookHandler ingests Telegram Bot API updates into the message store.
type WebhookHandler struct {
	svc *service.Service
}

func NewWebhookHandler(svc *service.Service) *WebhookHandler {
	return &WebhookHandler{svc: svc}
}

// RegisterRoutes mounts the webhook route on the guarded webhook group.
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhook", h.HandleUpdate)
}

// HandleUpdate stores the incoming message. Updates without a usable group
// message are acknowledged and dropped so Telegram does not redeliver them.
func (h *WebhookHandler) HandleUpdate(c *gin.Context) {
	var update transport.TelegramUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	msg, ok := toInbound(update)
	if !ok {
		httpkit.OK(c, gin.H{"ok": true, "skipped": true})
		return
	}

	if err := h.svc.IngestMessage(c.Request.Context(), msg); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, gin.H{"ok": true})
}

func toInbound(update transport.TelegramUpdate) (service.InboundMessage, bool) {
	m := update.Message
	if m == nil || m.Chat == nil {
		return service.InboundMessage{}, false
	}
	if m.Chat.Type != "group" && m.Chat.Type != "supergroup" {
		return service.InboundMessage{}, false
	}

	text := m.Text
	if text == "" {
		text = m.Caption
	}
	isService := text == "" || len(m.NewChatMembers) > 0 || m.LeftChatMember != nil || m.NewChatTitle != ""

	var fromUsername string
	if m.From != nil {
		fromUsername = m.From.Username
		if m.From.IsBot {
			isService = true
		}
	}

	var username *string
	if m.Chat.Username != "" {
		u := m.Chat.Username
		username = &u
	}

	return service.InboundMessage{
		ChatID:            m.Chat.ID,
		ChatTitle:         m.Chat.Title,
		ChatUsername:      username,
		TelegramMessageID: m.MessageID,
		Date:              time.Unix(m.Date, 0).UTC(),
		Text:              text,
		FromUsername:      fromUsername,
		IsService:         isService,
	}, true
}
