package repository

import (
	"context"

	"warbler/internal/domain"
)

// MessageRepository exposes persistence operations for warbles.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Message, error)
	Delete(ctx context.Context, id int64) error
	// ListByUser returns the user's messages, newest first.
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Message, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	// Timeline returns messages written by userID or by anyone userID
	// follows, newest first, with Author populated.
	Timeline(ctx context.Context, userID int64, limit int) ([]domain.Message, error)
	// ListLikedBy returns messages liked by userID, newest first, with Author populated.
	ListLikedBy(ctx context.Context, userID int64) ([]domain.Message, error)
}
