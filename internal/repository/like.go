package repository

import "context"

// LikeRepository manages user→message like edges.
type LikeRepository interface {
	// Create is a no-op when the like already exists.
	Create(ctx context.Context, userID, messageID int64) error
	Delete(ctx context.Context, userID, messageID int64) error
	Exists(ctx context.Context, userID, messageID int64) (bool, error)
	CountForMessage(ctx context.Context, messageID int64) (int, error)
	ListMessageIDsByUser(ctx context.Context, userID int64) ([]int64, error)
}
