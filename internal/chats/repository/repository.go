// Package repository provides Postgres persistence for the chats bounded
// context: the message snapshots, the chat registry and the stage store.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound marks lookups for rows that do not exist. A missing stage
// record is an expected condition, not a failure.
var ErrNotFound = errors.New("not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Chat is one tracked Telegram group conversation.
type Chat struct {
	ID        int64
	Title     string
	Username  *string
	Stage     *string
	UpdatedAt *time.Time
}

// StoredMessage is a raw message row before author-role resolution.
type StoredMessage struct {
	ChatID       int64
	Text         string
	Date         time.Time
	FromUsername string
}

// UpsertChat registers or refreshes a chat's metadata.
func (r *Repository) UpsertChat(ctx context.Context, id int64, title string, username *string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chats (id, title, username)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, username = EXCLUDED.username
	`, id, title, username)
	return err
}

// InsertMessage stores one inbound message. Re-deliveries of the same
// Telegram message are ignored.
func (r *Repository) InsertMessage(ctx context.Context, chatID, telegramMessageID int64, date time.Time, text, fromUsername string, isService bool) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO messages (chat_id, telegram_message_id, date, text, from_username, is_service)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (chat_id, telegram_message_id) DO NOTHING
	`, chatID, telegramMessageID, date, text, fromUsername, isService)
	return err
}

// FetchRecentMessages returns up to limit non-service messages with text,
// newest first.
func (r *Repository) FetchRecentMessages(ctx context.Context, chatID int64, limit int) ([]StoredMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT chat_id, text, date, from_username
		FROM messages
		WHERE chat_id = $1 AND is_service = false AND text <> ''
		ORDER BY date DESC
		LIMIT $2
	`, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]StoredMessage, 0, limit)
	for rows.Next() {
		var item StoredMessage
		if err := rows.Scan(&item.ChatID, &item.Text, &item.Date, &item.FromUsername); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// ListChats returns every tracked chat with its current stage, if any.
func (r *Repository) ListChats(ctx context.Context) ([]Chat, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.title, c.username, cs.stage, cs.updated_at
		FROM chats c
		LEFT JOIN chat_stage cs ON cs.chat_id = c.id
		ORDER BY c.title ASC, c.id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Chat, 0)
	for rows.Next() {
		var item Chat
		if err := rows.Scan(&item.ID, &item.Title, &item.Username, &item.Stage, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// ChatExists reports whether a chat is registered.
func (r *Repository) ChatExists(ctx context.Context, chatID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM chats WHERE id = $1)`, chatID).Scan(&exists)
	return exists, err
}
