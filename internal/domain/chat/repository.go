package chat

import "context"

// Repository keeps the set of chats that receive broadcasts.
// Chats are never removed, even when delivery to them fails.
type Repository interface {
	// Register is idempotent.
	Register(ctx context.Context, chatID int64) error
	// List returns chat ids in registration order.
	List(ctx context.Context) ([]int64, error)
}
