package events

import "time"

// Event names for the chat stage lifecycle.
const (
	EventStageAdvanced = "chats.stage.advanced"
)

// StageAdvanced is published whenever a chat's lifecycle stage moves forward,
// whether through automatic evaluation or a manual override.
type StageAdvanced struct {
	BaseEvent
	ChatID    int64     `json:"chat_id"`
	FromStage string    `json:"from_stage"`
	ToStage   string    `json:"to_stage"`
	Manual    bool      `json:"manual"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventName returns the event name.
func (e StageAdvanced) EventName() string { return EventStageAdvanced }
