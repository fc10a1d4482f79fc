package repository

import (
	"context"

	"warbler/internal/domain"
)

// FollowRepository manages directed follow edges.
type FollowRepository interface {
	// Create is idempotent: an existing edge is left untouched.
	Create(ctx context.Context, followerID, followedID int64) error
	Delete(ctx context.Context, followerID, followedID int64) error
	Exists(ctx context.Context, followerID, followedID int64) (bool, error)
	// ListFollowing returns the users followerID follows.
	ListFollowing(ctx context.Context, followerID int64) ([]domain.User, error)
	// ListFollowers returns the users following followedID.
	ListFollowers(ctx context.Context, followedID int64) ([]domain.User, error)
	CountFollowing(ctx context.Context, followerID int64) (int, error)
	CountFollowers(ctx context.Context, followedID int64) (int, error)
}
