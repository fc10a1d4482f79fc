package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"warbler/internal/dbx"
	"warbler/internal/domain"
)

const userColumns = `id, username, email, password, image_url, header_image_url, bio, location, created_at`

type UserRepository struct {
	db      dbx.DBTX
	dialect Dialect
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.ImageURL == "" {
		user.ImageURL = domain.DefaultImageURL
	}
	if user.HeaderImageURL == "" {
		user.HeaderImageURL = domain.DefaultHeaderImageURL
	}

	cols := `username, email, password, image_url, header_image_url, bio, location, created_at`
	marks := `?, ?, ?, ?, ?, ?, ?, ?`
	args := []any{
		nullIfEmpty(user.Username),
		nullIfEmpty(user.Email),
		nullIfEmpty(user.PasswordHash),
		user.ImageURL,
		user.HeaderImageURL,
		user.Bio,
		user.Location,
		user.CreatedAt,
	}
	if user.ID != 0 {
		cols = "id, " + cols
		marks = "?, " + marks
		args = append([]any{user.ID}, args...)
	}

	q := r.dialect.Rebind(`INSERT INTO users (` + cols + `) VALUES (` + marks + `) RETURNING id`)
	var id int64
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert user: %w", mapError(err))
	}
	if user.ID != 0 {
		if err := syncSequence(ctx, r.db, r.dialect, "users"); err != nil {
			return 0, err
		}
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(`
SELECT `+userColumns+`
FROM users
WHERE id = ?`), id)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(`
SELECT `+userColumns+`
FROM users
WHERE username = ?`), username)
	return scanUser(row)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *UserRepository) List(ctx context.Context, query string) ([]domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users`
	var args []any
	if query = strings.TrimSpace(query); query != "" {
		q += ` WHERE LOWER(username) LIKE LOWER(?) ESCAPE '\'`
		args = append(args, "%"+likeEscaper.Replace(query)+"%")
	}
	q += ` ORDER BY username`

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", mapError(err))
	}
	return collectUsers(rows)
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`
UPDATE users
SET username = ?, email = ?, password = ?, image_url = ?, header_image_url = ?, bio = ?, location = ?
WHERE id = ?`),
		nullIfEmpty(user.Username),
		nullIfEmpty(user.Email),
		nullIfEmpty(user.PasswordHash),
		user.ImageURL,
		user.HeaderImageURL,
		user.Bio,
		user.Location,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", mapError(err))
	}
	return expectAffected(res, "update user")
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete user: %w", mapError(err))
	}
	return expectAffected(res, "delete user")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.ImageURL,
		&user.HeaderImageURL,
		&user.Bio,
		&user.Location,
		&user.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan user: %w", mapError(err))
	}
	return &user, nil
}
