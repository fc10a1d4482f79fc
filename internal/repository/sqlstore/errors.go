package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"warbler/internal/repository"
)

// PostgreSQL SQLSTATE codes for constraint violations.
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
		case pgNotNullViolation, pgForeignKeyViolation, pgCheckViolation:
			return fmt.Errorf("%w: %s", repository.ErrIntegrity, pgErr.Message)
		}
		return fmt.Errorf("db error: %w", err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint failed"):
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, err.Error())
	case strings.Contains(msg, "not null constraint failed"),
		strings.Contains(msg, "foreign key constraint failed"),
		strings.Contains(msg, "check constraint failed"):
		return fmt.Errorf("%w: %s", repository.ErrIntegrity, err.Error())
	}
	return fmt.Errorf("db error: %w", err)
}

// nullIfEmpty hands NULL to the driver for empty strings so NOT NULL
// columns reject them.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
