package repository

import (
	"context"
	"errors"
	"time"

	"trbe_ops_backend/internal/chats/domain"

	"github.com/jackc/pgx/v5"
)

// GetStage returns the persisted stage record, or (nil, nil) when the chat
// has never been evaluated.
func (r *Repository) GetStage(ctx context.Context, chatID int64) (*domain.StageRecord, error) {
	var record domain.StageRecord
	var stage string

	err := r.pool.QueryRow(ctx, `
		SELECT chat_id, stage, updated_at
		FROM chat_stage
		WHERE chat_id = $1
	`, chatID).Scan(&record.ChatID, &stage, &record.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	record.Stage = domain.Stage(stage)
	return &record, nil
}

// UpsertStageMonotonic writes the stage under the forward-only rule in a
// single atomic statement: the row is only updated when the new stage rank
// is strictly greater than the stored one. Two concurrent evaluations can
// therefore never regress the record; the higher-ranked write wins.
// Returns the record as persisted after the attempt.
func (r *Repository) UpsertStageMonotonic(ctx context.Context, chatID int64, stage domain.Stage, updatedAt time.Time) (domain.StageRecord, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_stage (chat_id, stage, stage_rank, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (chat_id) DO UPDATE
		SET stage = EXCLUDED.stage, stage_rank = EXCLUDED.stage_rank, updated_at = EXCLUDED.updated_at
		WHERE chat_stage.stage_rank < EXCLUDED.stage_rank
	`, chatID, string(stage), stage.Rank(), updatedAt)
	if err != nil {
		return domain.StageRecord{}, err
	}

	// Read back: a concurrent, more advanced write may have won.
	record, err := r.GetStage(ctx, chatID)
	if err != nil {
		return domain.StageRecord{}, err
	}
	if record == nil {
		return domain.StageRecord{}, ErrNotFound
	}
	return *record, nil
}

// SetStageManual force-writes a stage, bypassing the monotonic rule. This
// is the explicit operator-override pathway and the only sanctioned way to
// move a stage backwards.
func (r *Repository) SetStageManual(ctx context.Context, chatID int64, stage domain.Stage, updatedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_stage (chat_id, stage, stage_rank, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (chat_id) DO UPDATE
		SET stage = EXCLUDED.stage, stage_rank = EXCLUDED.stage_rank, updated_at = EXCLUDED.updated_at
	`, chatID, string(stage), stage.Rank(), updatedAt)
	return err
}

// AnchorChat is one conversation sitting in the reminder anchor stage.
type AnchorChat struct {
	ChatID    int64
	Title     string
	Username  *string
	UpdatedAt time.Time
}

// ListChatsInStage returns chats currently in the given stage with the
// metadata the reminder job needs. The reminder consumer only reads; it
// never writes back into the stage store.
func (r *Repository) ListChatsInStage(ctx context.Context, stage domain.Stage) ([]AnchorChat, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT cs.chat_id, c.title, c.username, cs.updated_at
		FROM chat_stage cs
		JOIN chats c ON c.id = cs.chat_id
		WHERE cs.stage = $1
		ORDER BY cs.updated_at ASC
	`, string(stage))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]AnchorChat, 0)
	for rows.Next() {
		var item AnchorChat
		if err := rows.Scan(&item.ChatID, &item.Title, &item.Username, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
