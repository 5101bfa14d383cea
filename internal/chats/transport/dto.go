// Package transport defines the request and response DTOs for the chats API.
package transport

import (
	"time"

	"trbe_ops_backend/internal/chats/repository"
	"trbe_ops_backend/internal/chats/service"
)

// Request DTOs

type SetStageRequest struct {
	Stage string `json:"stage" validate:"required,min=1,max=64"`
}

// TelegramUpdate mirrors the subset of the Bot API Update object the webhook
// consumes. Everything else in the payload is ignored.
type TelegramUpdate struct {
	UpdateID int64            `json:"update_id"`
	Message  *TelegramMessage `json:"message"`
}

type TelegramMessage struct {
	MessageID int64         `json:"message_id"`
	Date      int64         `json:"date"`
	Text      string        `json:"text"`
	Caption   string        `json:"caption"`
	Chat      *TelegramChat `json:"chat"`
	From      *TelegramFrom `json:"from"`

	NewChatMembers []TelegramFrom `json:"new_chat_members"`
	LeftChatMember *TelegramFrom  `json:"left_chat_member"`
	NewChatTitle   string         `json:"new_chat_title"`
}

type TelegramChat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Username string `json:"username"`
}

type TelegramFrom struct {
	ID       int64  `json:"id"`
	IsBot    bool   `json:"is_bot"`
	Username string `json:"username"`
}

// Response DTOs

type StageResponse struct {
	ChatID             int64      `json:"chatId"`
	Stage              string     `json:"stage"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
	ElapsedDaysInStage *int       `json:"elapsedDaysInStage,omitempty"`
	Advanced           bool       `json:"advanced"`
}

type ChatResponse struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Username  *string    `json:"username,omitempty"`
	Stage     *string    `json:"stage,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type SummaryResponse struct {
	ChatID  int64  `json:"chatId"`
	Summary string `json:"summary"`
}

// ToStageResponse maps a service evaluation to its wire form.
func ToStageResponse(eval *service.Evaluation) StageResponse {
	return StageResponse{
		ChatID:             eval.ChatID,
		Stage:              string(eval.Stage),
		UpdatedAt:          eval.UpdatedAt,
		ElapsedDaysInStage: eval.ElapsedDaysInStage,
		Advanced:           eval.Advanced,
	}
}

// ToChatResponses maps repository chats to their wire form.
func ToChatResponses(chats []repository.Chat) []ChatResponse {
	out := make([]ChatResponse, 0, len(chats))
	for _, ch := range chats {
		out = append(out, ChatResponse{
			ID:        ch.ID,
			Title:     ch.Title,
			Username:  ch.Username,
			Stage:     ch.Stage,
			UpdatedAt: ch.UpdatedAt,
		})
	}
	return out
}
