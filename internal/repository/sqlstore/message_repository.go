package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"warbler/internal/dbx"
	"warbler/internal/domain"
)

const authoredMessageColumns = `m.id, m.text, m.user_id, m.created_at,
	u.id, u.username, u.email, u.password, u.image_url, u.header_image_url, u.bio, u.location, u.created_at`

type MessageRepository struct {
	db      dbx.DBTX
	dialect Dialect
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) (int64, error) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	cols := `text, created_at, user_id`
	marks := `?, ?, ?`
	args := []any{nullIfEmpty(msg.Text), msg.Timestamp, msg.UserID}
	if msg.ID != 0 {
		cols = "id, " + cols
		marks = "?, " + marks
		args = append([]any{msg.ID}, args...)
	}

	q := r.dialect.Rebind(`INSERT INTO messages (` + cols + `) VALUES (` + marks + `) RETURNING id`)
	var id int64
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert message: %w", mapError(err))
	}
	if msg.ID != 0 {
		if err := syncSequence(ctx, r.db, r.dialect, "messages"); err != nil {
			return 0, err
		}
	}
	msg.ID = id
	return id, nil
}

// Get returns the message with its Author populated.
func (r *MessageRepository) Get(ctx context.Context, id int64) (*domain.Message, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(`
SELECT `+authoredMessageColumns+`
FROM messages m
JOIN users u ON u.id = m.user_id
WHERE m.id = ?`), id)
	return scanAuthoredMessage(row)
}

func (r *MessageRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM messages WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete message: %w", mapError(err))
	}
	return expectAffected(res, "delete message")
}

func (r *MessageRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`
SELECT `+authoredMessageColumns+`
FROM messages m
JOIN users u ON u.id = m.user_id
WHERE m.user_id = ?
ORDER BY m.created_at DESC, m.id DESC
LIMIT ?`), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", mapError(err))
	}
	return collectMessages(rows)
}

func (r *MessageRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`
SELECT COUNT(*) FROM messages WHERE user_id = ?`), userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", mapError(err))
	}
	return n, nil
}

func (r *MessageRepository) Timeline(ctx context.Context, userID int64, limit int) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`
SELECT `+authoredMessageColumns+`
FROM messages m
JOIN users u ON u.id = m.user_id
WHERE m.user_id = ?
   OR m.user_id IN (SELECT f.user_being_followed_id FROM follows f WHERE f.user_following_id = ?)
ORDER BY m.created_at DESC, m.id DESC
LIMIT ?`), userID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("timeline: %w", mapError(err))
	}
	return collectMessages(rows)
}

func (r *MessageRepository) ListLikedBy(ctx context.Context, userID int64) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`
SELECT `+authoredMessageColumns+`
FROM likes l
JOIN messages m ON m.id = l.message_id
JOIN users u ON u.id = m.user_id
WHERE l.user_id = ?
ORDER BY m.created_at DESC, m.id DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("liked messages: %w", mapError(err))
	}
	return collectMessages(rows)
}

func scanAuthoredMessage(row scanner) (*domain.Message, error) {
	var (
		msg    domain.Message
		author domain.User
	)
	if err := row.Scan(
		&msg.ID,
		&msg.Text,
		&msg.UserID,
		&msg.Timestamp,
		&author.ID,
		&author.Username,
		&author.Email,
		&author.PasswordHash,
		&author.ImageURL,
		&author.HeaderImageURL,
		&author.Bio,
		&author.Location,
		&author.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan message: %w", mapError(err))
	}
	msg.Author = &author
	return &msg, nil
}

func collectMessages(rows *sql.Rows) ([]domain.Message, error) {
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		m, err := scanAuthoredMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", mapError(err))
	}
	return msgs, nil
}
