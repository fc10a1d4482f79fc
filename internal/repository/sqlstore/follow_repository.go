package sqlstore

import (
	"context"
	"fmt"
	"time"

	"warbler/internal/dbx"
	"warbler/internal/domain"
)

type FollowRepository struct {
	db      dbx.DBTX
	dialect Dialect
}

func (r *FollowRepository) Create(ctx context.Context, followerID, followedID int64) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(`
INSERT INTO follows (user_being_followed_id, user_following_id, created_at)
VALUES (?, ?, ?)
ON CONFLICT (user_being_followed_id, user_following_id) DO NOTHING`),
		followedID, followerID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert follow: %w", mapError(err))
	}
	return nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followedID int64) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`
DELETE FROM follows
WHERE user_being_followed_id = ? AND user_following_id = ?`), followedID, followerID)
	if err != nil {
		return fmt.Errorf("delete follow: %w", mapError(err))
	}
	return expectAffected(res, "delete follow")
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`
SELECT COUNT(*) FROM follows
WHERE user_being_followed_id = ? AND user_following_id = ?`), followedID, followerID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("follow exists: %w", mapError(err))
	}
	return n > 0, nil
}

func (r *FollowRepository) ListFollowing(ctx context.Context, followerID int64) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`
SELECT u.id, u.username, u.email, u.password, u.image_url, u.header_image_url, u.bio, u.location, u.created_at
FROM follows f
JOIN users u ON u.id = f.user_being_followed_id
WHERE f.user_following_id = ?
ORDER BY u.username`), followerID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", mapError(err))
	}
	return collectUsers(rows)
}

func (r *FollowRepository) ListFollowers(ctx context.Context, followedID int64) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`
SELECT u.id, u.username, u.email, u.password, u.image_url, u.header_image_url, u.bio, u.location, u.created_at
FROM follows f
JOIN users u ON u.id = f.user_following_id
WHERE f.user_being_followed_id = ?
ORDER BY u.username`), followedID)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", mapError(err))
	}
	return collectUsers(rows)
}

func (r *FollowRepository) CountFollowing(ctx context.Context, followerID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM follows WHERE user_following_id = ?`, followerID)
}

func (r *FollowRepository) CountFollowers(ctx context.Context, followedID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM follows WHERE user_being_followed_id = ?`, followedID)
}

func (r *FollowRepository) count(ctx context.Context, q string, id int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(q), id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count follows: %w", mapError(err))
	}
	return n, nil
}
