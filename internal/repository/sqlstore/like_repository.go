package sqlstore

import (
	"context"
	"fmt"
	"time"

	"warbler/internal/dbx"
)

type LikeRepository struct {
	db      dbx.DBTX
	dialect Dialect
}

func (r *LikeRepository) Create(ctx context.Context, userID, messageID int64) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(`
INSERT INTO likes (user_id, message_id, created_at) VALUES (?, ?, ?)
ON CONFLICT (user_id, message_id) DO NOTHING`),
		userID, messageID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert like: %w", mapError(err))
	}
	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, userID, messageID int64) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`
DELETE FROM likes WHERE user_id = ? AND message_id = ?`), userID, messageID)
	if err != nil {
		return fmt.Errorf("delete like: %w", mapError(err))
	}
	return expectAffected(res, "delete like")
}

func (r *LikeRepository) Exists(ctx context.Context, userID, messageID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`
SELECT COUNT(*) FROM likes WHERE user_id = ? AND message_id = ?`), userID, messageID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("like exists: %w", mapError(err))
	}
	return n > 0, nil
}

func (r *LikeRepository) CountForMessage(ctx context.Context, messageID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`
SELECT COUNT(*) FROM likes WHERE message_id = ?`), messageID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", mapError(err))
	}
	return n, nil
}

func (r *LikeRepository) ListMessageIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`
SELECT message_id FROM likes WHERE user_id = ? ORDER BY message_id`), userID)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", mapError(err))
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan like: %w", mapError(err))
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate likes: %w", mapError(err))
	}
	return ids, nil
}
