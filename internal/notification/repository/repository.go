// Package repository persists the reminder dedup ledger. One row per chat,
// stage and day marker guarantees each reminder goes out at most once.
package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// HasNotification reports whether a reminder for this chat, stage and day
// marker was already sent.
func (r *Repository) HasNotification(ctx context.Context, chatID int64, stage string, dayMarker int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM stage_notifications
			WHERE chat_id = $1 AND stage = $2 AND day_marker = $3
		)
	`, chatID, stage, dayMarker).Scan(&exists)
	return exists, err
}

// RecordNotification marks a reminder as sent. Recording a marker twice is
// harmless; the second insert is a no-op.
func (r *Repository) RecordNotification(ctx context.Context, chatID int64, stage string, dayMarker int, sentAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO stage_notifications (chat_id, stage, day_marker, sent_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (chat_id, stage, day_marker) DO NOTHING
	`, chatID, stage, dayMarker, sentAt)
	return err
}
