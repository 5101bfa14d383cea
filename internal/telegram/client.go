// Package telegram provides the Telegram Bot API client used for outbound
// message delivery and MiniApp initData verification.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trbe_ops_backend/platform/config"
	"trbe_ops_backend/platform/logger"
)

const defaultBaseURL = "https://api.telegram.org"

// Client wraps the Bot API sendMessage endpoint. A nil client is valid and
// drops sends, so callers do not need to guard for disabled delivery.
type Client struct {
	baseURL  string
	botToken string
	http     *http.Client
	log      *logger.Logger
}

type sendMessageRequest struct {
	ChatID              int64  `json:"chat_id"`
	Text                string `json:"text"`
	ParseMode           string `json:"parse_mode,omitempty"`
	DisableNotification bool   `json:"disable_notification,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// NewClient builds a Bot API client. Returns nil when no token is configured.
func NewClient(cfg config.TelegramConfig, log *logger.Logger) *Client {
	if !cfg.IsTelegramEnabled() {
		return nil
	}

	return &Client{
		baseURL:  defaultBaseURL,
		botToken: cfg.GetBotToken(),
		http:     &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

// SendMessage posts a single message to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if c == nil {
		return nil
	}

	payload := sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, _ := io.ReadAll(resp.Body)

	var api apiResponse
	if err := json.Unmarshal(data, &api); err != nil || !api.OK {
		desc := api.Description
		if desc == "" {
			desc = strings.TrimSpace(string(data))
		}
		return fmt.Errorf("telegram send failed: status=%d %s", resp.StatusCode, desc)
	}

	c.log.Info("telegram message sent", "chat_id", chatID)
	return nil
}
