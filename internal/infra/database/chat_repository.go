package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type ChatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Register(ctx context.Context, chatID int64) error {
	query := r.db.Rebind(`INSERT INTO chats (chat_id) VALUES (?) ON CONFLICT (chat_id) DO NOTHING`)
	if _, err := r.db.ExecContext(ctx, query, chatID); err != nil {
		return fmt.Errorf("error registering chat %d: %w", chatID, err)
	}
	return nil
}

func (r *ChatRepository) List(ctx context.Context) ([]int64, error) {
	ids := make([]int64, 0)
	if err := r.db.SelectContext(ctx, &ids, `SELECT chat_id FROM chats ORDER BY id`); err != nil {
		return nil, fmt.Errorf("error listing chats: %w", err)
	}
	return ids, nil
}
